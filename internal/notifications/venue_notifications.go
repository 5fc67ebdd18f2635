package notifications

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"pitchbook/internal/domain/storage"

	"github.com/9ssi7/exponent"
)

// SendVenueRequestDecision tells the requester their venue application was
// approved or rejected.
func SendVenueRequestDecision(ctx context.Context, push PushSender, store *storage.Container, userID int64, venueName string, approved bool) error {
	tokensMap, err := store.PushTokens.GetByUserIDs(ctx, []int64{userID})
	if err != nil {
		return err
	}
	tokens := dedupe(tokensMap[userID])
	if len(tokens) == 0 {
		return errors.New("no push tokens")
	}

	title := "Venue Request Rejected"
	body := fmt.Sprintf("Your request to list %q was not approved.", venueName)
	if approved {
		title = "Venue Request Approved"
		body = fmt.Sprintf("%q is now live on Pitchbook. You can manage it from the owner dashboard.", venueName)
	}

	msgs := make([]*exponent.Message, 0, len(tokens))
	for _, t := range tokens {
		token := exponent.Token(t)
		msgs = append(msgs, &exponent.Message{
			To:    []*exponent.Token{&token},
			Title: title,
			Body:  body,
			Data: map[string]string{
				"type":   "venue_request",
				"screen": "owner-dashboard",
			},
		})
	}

	_, err = push.Publish(ctx, msgs)
	return err
}

// SendComplaintUpdate tells the complainant their issue moved forward.
func SendComplaintUpdate(ctx context.Context, push PushSender, store *storage.Container, userID, complaintID int64, status string) error {
	tokensMap, err := store.PushTokens.GetByUserIDs(ctx, []int64{userID})
	if err != nil {
		return err
	}
	tokens := dedupe(tokensMap[userID])
	if len(tokens) == 0 {
		return errors.New("no push tokens")
	}

	id := strconv.FormatInt(complaintID, 10)
	msgs := make([]*exponent.Message, 0, len(tokens))
	for _, t := range tokens {
		token := exponent.Token(t)
		msgs = append(msgs, &exponent.Message{
			To:    []*exponent.Token{&token},
			Title: "Complaint Update",
			Body:  fmt.Sprintf("Your complaint #%s is now %s.", id, status),
			Data: map[string]string{
				"type":         "complaint",
				"complaint_id": id,
				"status":       status,
				"screen":       "my-complaints",
			},
		})
	}

	_, err = push.Publish(ctx, msgs)
	return err
}
