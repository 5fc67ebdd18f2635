// Package earnings folds an owner's payment records into the windowed
// revenue figures the dashboard shows. Like the availability resolver it is
// a pure function of (records, now): derived data, never persisted, cheap to
// rebuild on every dashboard load.
package earnings

import (
	"time"

	"pitchbook/internal/dateutil"
)

// Payment statuses.
const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

// Payment is the flat payment record the aggregator consumes. Amount is in
// paisa; a zero CreatedAt marks a record whose source timestamp could not be
// read, which keeps it out of every time window but not out of the totals.
type Payment struct {
	OwnerID   int64
	VenueID   int64
	Amount    int64
	Status    string
	Method    string
	CreatedAt time.Time
}

// Summary holds the dashboard aggregates, all in paisa. Today, ThisWeek and
// ThisMonth are overlapping views over the same paid total, not a partition:
// a payment made today counts in all three.
type Summary struct {
	Total        int64 `json:"total"`
	Pending      int64 `json:"pending"`
	Today        int64 `json:"today"`
	ThisWeek     int64 `json:"this_week"`
	ThisMonth    int64 `json:"this_month"`
	PaidCount    int   `json:"paid_count"`
	PendingCount int   `json:"pending_count"`
}

// Aggregate computes the earnings summary for the given instant in a single
// pass. Total and Pending depend only on status; the windows bucket paid
// amounts by CreatedAt against now's calendar day, Sunday-started week and
// month. Records in an unknown status are ignored.
func Aggregate(payments []Payment, now time.Time) Summary {
	weekStart, weekEnd := dateutil.WeekBounds(now)

	var s Summary
	for _, p := range payments {
		switch p.Status {
		case StatusPaid:
			s.Total += p.Amount
			s.PaidCount++

			if p.CreatedAt.IsZero() {
				continue
			}
			c := p.CreatedAt.In(now.Location())
			if dateutil.SameDay(c, now) {
				s.Today += p.Amount
			}
			if dateutil.Between(c, weekStart, weekEnd) {
				s.ThisWeek += p.Amount
			}
			if dateutil.SameMonth(c, now) {
				s.ThisMonth += p.Amount
			}
		case StatusPending:
			s.Pending += p.Amount
			s.PendingCount++
		}
	}
	return s
}
