package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdayIndex_SundayIsZero(t *testing.T) {
	// 2025-06-01 is a Sunday.
	sunday := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		assert.Equal(t, i, WeekdayIndex(sunday.AddDate(0, 0, i)))
	}
}

func TestStartOfDay(t *testing.T) {
	got := StartOfDay(time.Date(2025, 6, 4, 23, 59, 59, 999999999, time.UTC))
	assert.Equal(t, time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC), got)
}

func TestSameDay(t *testing.T) {
	a := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)
	b := time.Date(2025, 6, 4, 23, 59, 59, 0, time.UTC)
	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(a, b.Add(time.Second)))
	// Same day-of-month in a different month is a different day.
	assert.False(t, SameDay(a, a.AddDate(0, 1, 0)))
}

func TestSameMonth(t *testing.T) {
	a := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, SameMonth(a, time.Date(2025, 6, 30, 23, 0, 0, 0, time.UTC)))
	assert.False(t, SameMonth(a, a.AddDate(0, 1, 0)))
	// Same month in a different year does not count.
	assert.False(t, SameMonth(a, a.AddDate(1, 0, 0)))
}

func TestWeekBounds_StartsSunday(t *testing.T) {
	// 2025-06-04 is a Wednesday; its week is Sun 2025-06-01 .. Sat 2025-06-07.
	wed := time.Date(2025, 6, 4, 15, 30, 0, 0, time.UTC)
	start, end := WeekBounds(wed)

	require.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Sunday, start.Weekday())
	assert.Equal(t, time.Saturday, end.Weekday())
	assert.Equal(t, time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond), end)
}

func TestWeekBounds_SundayIsItsOwnStart(t *testing.T) {
	sunday := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	start, _ := WeekBounds(sunday)
	assert.Equal(t, StartOfDay(sunday), start)
}

func TestWeekBounds_CrossesMonthBoundary(t *testing.T) {
	// 2025-07-01 is a Tuesday; its week starts Sunday 2025-06-29.
	tue := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	start, end := WeekBounds(tue)
	assert.Equal(t, time.Date(2025, 6, 29, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1).Add(-time.Nanosecond), end)
}

func TestBetween_BoundsInclusive(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7).Add(-time.Nanosecond)

	assert.True(t, Between(start, start, end))
	assert.True(t, Between(end, start, end))
	assert.False(t, Between(end.Add(time.Nanosecond), start, end))
	assert.False(t, Between(start.Add(-time.Nanosecond), start, end))
}

func TestParseWeekday(t *testing.T) {
	cases := map[string]time.Weekday{
		"Sunday":    time.Sunday,
		"monday":    time.Monday,
		"TUESDAY":   time.Tuesday,
		" Saturday ": time.Saturday,
	}
	for in, want := range cases {
		got, ok := ParseWeekday(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got)
	}

	_, ok := ParseWeekday("Someday")
	assert.False(t, ok)
}
