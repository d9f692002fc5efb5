package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterElapsed_TodayDropsPastSlots(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	now := time.Date(2025, 6, 10, 9, 15, 0, 0, loc)

	got := FilterElapsed([]string{"09:00", "09:30", "10:00"}, "2025-06-10", now, loc)

	assert.Equal(t, []string{"09:30", "10:00"}, got)
}

func TestFilterElapsed_SlotAtExactNowIsElapsed(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 6, 10, 9, 30, 0, 0, loc)

	got := FilterElapsed([]string{"09:30", "10:00"}, "2025-06-10", now, loc)

	assert.Equal(t, []string{"10:00"}, got)
}

func TestFilterElapsed_FutureDateKeepsEverything(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 6, 10, 23, 0, 0, 0, loc)

	got := FilterElapsed([]string{"09:00", "09:30"}, "2025-06-11", now, loc)

	assert.Equal(t, []string{"09:00", "09:30"}, got)
}

func TestFilterElapsed_ComparesInConfiguredTimezone(t *testing.T) {
	// 2025-06-11 02:00 UTC — это ещё 2025-06-10 21:00 в UTC-5: дата
	// остаётся сегодняшней и вечерний слот ещё впереди
	loc := time.FixedZone("UTC-5", -5*3600)
	now := time.Date(2025, 6, 11, 2, 0, 0, 0, time.UTC)

	got := FilterElapsed([]string{"20:00", "21:30"}, "2025-06-10", now, loc)

	assert.Equal(t, []string{"21:30"}, got)
}

func TestFilterElapsed_MalformedSlotsAreDropped(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, loc)

	got := FilterElapsed([]string{"09:00", "bogus", "25:61", "10:00"}, "2025-06-10", now, loc)

	assert.Equal(t, []string{"09:00", "10:00"}, got)
}

func TestFilterElapsed_UnparseableFecha(t *testing.T) {
	got := FilterElapsed([]string{"09:00"}, "not-a-date", time.Now(), time.UTC)
	assert.Empty(t, got)
}

func TestBuildSlots(t *testing.T) {
	slots := BuildSlots([]string{"09:30", "14:00"})

	require.Len(t, slots, 2)
	assert.Equal(t, Slot{Value: "09:30", Display: "9:30 am"}, slots[0])
	assert.Equal(t, Slot{Value: "14:00", Display: "2:00 pm"}, slots[1])
}

func TestUpcomingFechas(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	now := time.Date(2025, 6, 10, 23, 30, 0, 0, loc)

	days := UpcomingFechas(now, loc, 7)

	require.Len(t, days, 7)
	assert.Equal(t, "2025-06-10", days[0].Format("2006-01-02"))
	assert.Equal(t, "2025-06-16", days[6].Format("2006-01-02"))
	for _, d := range days {
		assert.Equal(t, 0, d.Hour())
	}
}
