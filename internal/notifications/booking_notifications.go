package notifications

import (
	"context"
	"errors"
	"fmt"

	"pitchbook/internal/domain/storage"

	"github.com/9ssi7/exponent"
)

type BookingEvent string

const (
	BookingRequested BookingEvent = "REQUESTED"
	BookingConfirmed BookingEvent = "CONFIRMED"
	BookingRejected  BookingEvent = "REJECTED"
	BookingCancelled BookingEvent = "CANCELLED"
)

// SendBookingNotification pushes a booking status change to every device the
// user has registered. The data payload drives deep linking on the client.
func SendBookingNotification(ctx context.Context, push PushSender, store *storage.Container, userID int64, event BookingEvent, reference string) error {
	tokensMap, err := store.PushTokens.GetByUserIDs(ctx, []int64{userID})
	if err != nil {
		return err
	}
	tokens := dedupe(tokensMap[userID])
	if len(tokens) == 0 {
		return errors.New("no push tokens")
	}

	var title, body string
	switch event {
	case BookingRequested:
		title = "New Booking Request"
		body = fmt.Sprintf("You have a new booking request (%s)", reference)
	case BookingConfirmed:
		title = "Booking Confirmed"
		body = fmt.Sprintf("Your booking %s has been confirmed! 🎉", reference)
	case BookingRejected:
		title = "Booking Rejected"
		body = fmt.Sprintf("Your booking %s has been rejected.", reference)
	case BookingCancelled:
		title = "Booking Cancelled"
		body = fmt.Sprintf("Booking %s has been cancelled.", reference)
	default:
		title = "Booking Update"
		body = fmt.Sprintf("Your booking %s has an update.", reference)
	}

	msgs := make([]*exponent.Message, 0, len(tokens))
	for _, t := range tokens {
		token := exponent.Token(t)
		msgs = append(msgs, &exponent.Message{
			To:    []*exponent.Token{&token},
			Title: title,
			Body:  body,
			Data: map[string]string{
				"type":      "booking",
				"event":     string(event),
				"reference": reference,
				"screen":    "my-bookings",
			},
		})
	}

	_, err = push.Publish(ctx, msgs)
	return err
}

func dedupe(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0]
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
