// Package availability turns a venue's recurring weekly slot template into
// the set of slots that are still bookable, given the bookings that already
// exist. It is a pure function over already-fetched records: no clock reads,
// no storage access, safe to recompute on every screen visit.
package availability

import (
	"time"

	"pitchbook/internal/dateutil"
)

// Booking statuses. Only pending and confirmed block a slot; a cancelled or
// rejected booking frees it again.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusRejected  = "rejected"
)

// DateLayout is the calendar-date format bookings carry ("2025-06-04").
const DateLayout = time.DateOnly

// Template maps weekday names ("Sunday".."Saturday") to the venue's ordered
// slot strings for that day, e.g. "14:00-15:00". It is owned by the venue
// editor and read-only here.
type Template map[string][]string

// Booking is the flat booking record the resolver consumes.
type Booking struct {
	VenueID  int64
	Date     string // calendar date of the booked slot, DateLayout
	TimeSlot string // must match a template slot string to block it
	Status   string
	BookedBy int64
}

// Resolved maps weekday names to the template slots that have no blocking
// booking. Weekdays whose slots are all taken are omitted.
type Resolved map[string][]string

// Blocks reports whether a booking in the given status consumes its slot.
func Blocks(status string) bool {
	return status == StatusPending || status == StatusConfirmed
}

// Resolve computes the still-bookable slots per weekday.
//
// The weekly template is treated as infinitely recurring: any blocking
// booking dated today or later removes its weekday+slot pair template-wide,
// not just on that one date. Bookings strictly in the past never block, and
// a booking with an unparsable date is skipped rather than failing the call;
// the number of such records is returned so the caller can log them.
//
// The result is freshly allocated on every call and depends only on the
// inputs, so two calls with identical arguments yield identical output.
func Resolve(tmpl Template, bookings []Booking, today time.Time) (Resolved, int) {
	dayStart := dateutil.StartOfDay(today)

	blocked := make(map[time.Weekday]map[string]struct{})
	skipped := 0
	for _, b := range bookings {
		if !Blocks(b.Status) {
			continue
		}
		d, err := time.ParseInLocation(DateLayout, b.Date, today.Location())
		if err != nil {
			skipped++
			continue
		}
		if d.Before(dayStart) {
			continue
		}
		wd := d.Weekday()
		if blocked[wd] == nil {
			blocked[wd] = make(map[string]struct{})
		}
		blocked[wd][b.TimeSlot] = struct{}{}
	}

	out := make(Resolved, len(tmpl))
	for day, slots := range tmpl {
		if len(slots) == 0 {
			continue
		}
		var taken map[string]struct{}
		if wd, ok := dateutil.ParseWeekday(day); ok {
			taken = blocked[wd]
		}
		free := make([]string, 0, len(slots))
		for _, slot := range slots {
			if _, hit := taken[slot]; hit {
				continue
			}
			free = append(free, slot)
		}
		if len(free) > 0 {
			out[day] = free
		}
	}
	return out, skipped
}
