package item

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayWindowOf_Bounds(t *testing.T) {
	ref := time.Date(2026, time.March, 14, 9, 30, 15, 0, time.UTC)

	win := DayWindowOf(ref)

	wantStart := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC).UnixMilli()
	wantEnd := time.Date(2026, time.March, 14, 23, 59, 59, int(999*time.Millisecond), time.UTC).UnixMilli()
	assert.Equal(t, wantStart, win.Start)
	assert.Equal(t, wantEnd, win.End)
	assert.Equal(t, int64(24*60*60*1000-1), win.End-win.Start)
}

func TestDayWindowOf_MidnightAndLastInstantShareWindow(t *testing.T) {
	midnight := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)
	lastInstant := time.Date(2026, time.March, 14, 23, 59, 59, int(999*time.Millisecond), time.UTC)

	assert.Equal(t, DayWindowOf(midnight), DayWindowOf(lastInstant))
}

func TestDayWindowOf_TenDaysAhead(t *testing.T) {
	ref := time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)

	win := DayWindowOf(ref.AddDate(0, 0, 10))

	wantStart := time.Date(2026, time.March, 24, 0, 0, 0, 0, time.UTC).UnixMilli()
	assert.Equal(t, wantStart, win.Start)
}

func TestWindow_Contains(t *testing.T) {
	win := DayWindowOf(time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC))

	assert.True(t, win.Contains(win.Start))
	assert.True(t, win.Contains(win.End))
	assert.True(t, win.Contains(win.Start+12*60*60*1000))
	assert.False(t, win.Contains(win.Start-1))
	assert.False(t, win.Contains(win.End+1))
}
