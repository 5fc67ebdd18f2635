package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-06-04 is a Wednesday; 2025-06-09 the following Monday.
var today = time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC)

const nextMonday = "2025-06-09"

func mondayTemplate() Template {
	return Template{
		"Monday": {"10:00-11:00", "11:00-12:00"},
	}
}

func TestResolve_ConfirmedBookingBlocksSlot(t *testing.T) {
	bookings := []Booking{
		{VenueID: 1, Date: nextMonday, TimeSlot: "10:00-11:00", Status: StatusConfirmed, BookedBy: 7},
	}

	got, skipped := Resolve(mondayTemplate(), bookings, today)

	assert.Zero(t, skipped)
	assert.Equal(t, Resolved{"Monday": {"11:00-12:00"}}, got)
}

func TestResolve_CancelledBookingDoesNotBlock(t *testing.T) {
	for _, status := range []string{StatusCancelled, StatusRejected} {
		bookings := []Booking{
			{VenueID: 1, Date: nextMonday, TimeSlot: "10:00-11:00", Status: status},
		}

		got, _ := Resolve(mondayTemplate(), bookings, today)

		assert.Equal(t, Resolved{"Monday": {"10:00-11:00", "11:00-12:00"}}, got, status)
	}
}

func TestResolve_PastBookingNeverBlocks(t *testing.T) {
	// 2025-06-02 is the Monday before "today" (Wednesday).
	bookings := []Booking{
		{VenueID: 1, Date: "2025-06-02", TimeSlot: "10:00-11:00", Status: StatusConfirmed},
	}

	got, _ := Resolve(mondayTemplate(), bookings, today)

	assert.Equal(t, Resolved{"Monday": {"10:00-11:00", "11:00-12:00"}}, got)
}

func TestResolve_TodayBooking_BlocksItsWeekday(t *testing.T) {
	tmpl := Template{"Wednesday": {"09:00-10:00", "10:00-11:00"}}
	bookings := []Booking{
		{VenueID: 1, Date: "2025-06-04", TimeSlot: "09:00-10:00", Status: StatusPending},
	}

	got, _ := Resolve(tmpl, bookings, today)

	assert.Equal(t, Resolved{"Wednesday": {"10:00-11:00"}}, got)
}

func TestResolve_WeekdayFullyBlockedIsOmitted(t *testing.T) {
	bookings := []Booking{
		{VenueID: 1, Date: nextMonday, TimeSlot: "10:00-11:00", Status: StatusConfirmed},
		{VenueID: 1, Date: nextMonday, TimeSlot: "11:00-12:00", Status: StatusPending},
	}

	got, _ := Resolve(mondayTemplate(), bookings, today)

	_, present := got["Monday"]
	assert.False(t, present)
	assert.Empty(t, got)
}

func TestResolve_MalformedDateSkippedWithoutBlocking(t *testing.T) {
	valid := []Booking{
		{VenueID: 1, Date: nextMonday, TimeSlot: "10:00-11:00", Status: StatusConfirmed},
	}
	withBad := append([]Booking{
		{VenueID: 1, Date: "not-a-date", TimeSlot: "11:00-12:00", Status: StatusConfirmed},
	}, valid...)

	want, _ := Resolve(mondayTemplate(), valid, today)
	got, skipped := Resolve(mondayTemplate(), withBad, today)

	assert.Equal(t, 1, skipped)
	assert.Equal(t, want, got)
}

func TestResolve_DuplicateBookingsBlockOnce(t *testing.T) {
	bookings := []Booking{
		{VenueID: 1, Date: nextMonday, TimeSlot: "10:00-11:00", Status: StatusConfirmed},
		{VenueID: 1, Date: "2025-06-16", TimeSlot: "10:00-11:00", Status: StatusPending},
	}

	got, _ := Resolve(mondayTemplate(), bookings, today)

	assert.Equal(t, Resolved{"Monday": {"11:00-12:00"}}, got)
}

func TestResolve_EmptyInputs(t *testing.T) {
	got, skipped := Resolve(Template{}, nil, today)
	assert.Empty(t, got)
	assert.Zero(t, skipped)

	// No bookings: template content comes back untouched.
	got, _ = Resolve(mondayTemplate(), nil, today)
	assert.Equal(t, Resolved{"Monday": {"10:00-11:00", "11:00-12:00"}}, got)

	// A weekday with no slots is omitted, not returned empty.
	got, _ = Resolve(Template{"Friday": {}}, nil, today)
	_, present := got["Friday"]
	assert.False(t, present)
}

func TestResolve_NoSlotLeaksAcrossWeekdays(t *testing.T) {
	tmpl := Template{
		"Monday":  {"10:00-11:00"},
		"Tuesday": {"10:00-11:00", "14:00-15:00"},
	}
	bookings := []Booking{
		{VenueID: 1, Date: nextMonday, TimeSlot: "10:00-11:00", Status: StatusConfirmed},
	}

	got, _ := Resolve(tmpl, bookings, today)

	// The Monday booking must not touch Tuesday's identical slot string.
	assert.Equal(t, []string{"10:00-11:00", "14:00-15:00"}, got["Tuesday"])
	_, present := got["Monday"]
	assert.False(t, present)

	for day, slots := range got {
		for _, s := range slots {
			assert.Contains(t, tmpl[day], s)
		}
	}
}

func TestResolve_Idempotent(t *testing.T) {
	bookings := []Booking{
		{VenueID: 1, Date: nextMonday, TimeSlot: "10:00-11:00", Status: StatusConfirmed},
		{VenueID: 1, Date: "bad", TimeSlot: "x", Status: StatusPending},
	}

	first, firstSkipped := Resolve(mondayTemplate(), bookings, today)
	second, secondSkipped := Resolve(mondayTemplate(), bookings, today)

	assert.Equal(t, first, second)
	assert.Equal(t, firstSkipped, secondSkipped)
}

func TestResolve_BlockingIsMonotonic(t *testing.T) {
	base := []Booking{
		{VenueID: 1, Date: nextMonday, TimeSlot: "10:00-11:00", Status: StatusConfirmed},
	}
	added := Booking{VenueID: 1, Date: nextMonday, TimeSlot: "11:00-12:00", Status: StatusPending}

	before, _ := Resolve(mondayTemplate(), base, today)
	after, _ := Resolve(mondayTemplate(), append(base, added), today)

	// Adding a blocking booking only removes slots.
	for day, slots := range after {
		require.Contains(t, before, day)
		for _, s := range slots {
			assert.Contains(t, before[day], s)
		}
	}

	// Cancelling it restores the previous result.
	added.Status = StatusCancelled
	restored, _ := Resolve(mondayTemplate(), append(base, added), today)
	assert.Equal(t, before, restored)
}
