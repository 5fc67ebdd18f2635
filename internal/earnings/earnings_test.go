package earnings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// 2025-06-04 is a Wednesday; its week runs Sun 2025-06-01 .. Sat 2025-06-07.
var now = time.Date(2025, 6, 4, 14, 30, 0, 0, time.UTC)

func paid(amount int64, createdAt time.Time) Payment {
	return Payment{OwnerID: 1, VenueID: 1, Amount: amount, Status: StatusPaid, Method: "cash", CreatedAt: createdAt}
}

func TestAggregate_PaidAndPendingToday(t *testing.T) {
	payments := []Payment{
		paid(1000, now),
		{OwnerID: 1, Amount: 500, Status: StatusPending, CreatedAt: now},
	}

	got := Aggregate(payments, now)

	assert.Equal(t, Summary{
		Total:        1000,
		Pending:      500,
		Today:        1000,
		ThisWeek:     1000,
		ThisMonth:    1000,
		PaidCount:    1,
		PendingCount: 1,
	}, got)
}

func TestAggregate_LastWeekSameMonth(t *testing.T) {
	// Exactly 8 days ago: previous week, same month.
	got := Aggregate([]Payment{paid(750, now.AddDate(0, 0, -8))}, now)

	assert.Equal(t, int64(750), got.Total)
	assert.Equal(t, int64(750), got.ThisMonth)
	assert.Zero(t, got.Today)
	assert.Zero(t, got.ThisWeek)
}

func TestAggregate_EachPaidRecordCountsExactlyOnceInTotal(t *testing.T) {
	payments := []Payment{
		paid(100, now),                    // today + week + month
		paid(200, now.AddDate(0, 0, -2)),  // week + month
		paid(300, now.AddDate(0, 0, -20)), // previous month
		paid(400, time.Time{}),            // no usable timestamp
	}

	got := Aggregate(payments, now)

	assert.Equal(t, int64(1000), got.Total)
	assert.Equal(t, 4, got.PaidCount)
	// Windows overlap by design; none of them feeds back into Total.
	assert.Equal(t, int64(100), got.Today)
	assert.Equal(t, int64(300), got.ThisWeek)
	assert.Equal(t, int64(600), got.ThisMonth)
}

func TestAggregate_WeekBoundary(t *testing.T) {
	weekStart := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) // Sunday 00:00:00.000
	nextWeekStart := weekStart.AddDate(0, 0, 7)

	got := Aggregate([]Payment{
		paid(111, weekStart),
		paid(222, nextWeekStart), // first instant of next week: excluded
	}, now)

	assert.Equal(t, int64(111), got.ThisWeek)
	assert.Equal(t, int64(333), got.Total)

	lastInstant := nextWeekStart.Add(-time.Nanosecond)
	got = Aggregate([]Payment{paid(50, lastInstant)}, now)
	assert.Equal(t, int64(50), got.ThisWeek)
}

func TestAggregate_MissingTimestampStillCounted(t *testing.T) {
	got := Aggregate([]Payment{
		paid(900, time.Time{}),
		{OwnerID: 1, Amount: 100, Status: StatusPending},
	}, now)

	assert.Equal(t, int64(900), got.Total)
	assert.Equal(t, int64(100), got.Pending)
	assert.Zero(t, got.Today)
	assert.Zero(t, got.ThisWeek)
	assert.Zero(t, got.ThisMonth)
}

func TestAggregate_FutureTimestampBucketsByCalendarOnly(t *testing.T) {
	// Clock skew: a createdAt later today still lands in today's buckets.
	got := Aggregate([]Payment{paid(80, now.Add(2 * time.Hour))}, now)
	assert.Equal(t, int64(80), got.Today)
	assert.Equal(t, int64(80), got.ThisWeek)

	// A createdAt next year lands in no window at all.
	got = Aggregate([]Payment{paid(80, now.AddDate(1, 0, 0))}, now)
	assert.Equal(t, int64(80), got.Total)
	assert.Zero(t, got.Today+got.ThisWeek+got.ThisMonth)
}

func TestAggregate_UnknownStatusIgnored(t *testing.T) {
	got := Aggregate([]Payment{
		{OwnerID: 1, Amount: 123, Status: "refunded", CreatedAt: now},
	}, now)

	assert.Equal(t, Summary{}, got)
}

func TestAggregate_EmptyInput(t *testing.T) {
	assert.Equal(t, Summary{}, Aggregate(nil, now))
}

func TestAggregate_Idempotent(t *testing.T) {
	payments := []Payment{
		paid(1000, now),
		{OwnerID: 1, Amount: 500, Status: StatusPending, CreatedAt: now},
		paid(400, time.Time{}),
	}

	assert.Equal(t, Aggregate(payments, now), Aggregate(payments, now))
}
