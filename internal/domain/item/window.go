package item

import "time"

// Window is a closed range of epoch-millisecond instants.
type Window struct {
	Start int64
	End   int64
}

// DayWindowOf returns the calendar-day window of t in t's location:
// [00:00:00.000, 23:59:59.999] as epoch-millisecond bounds.
func DayWindowOf(t time.Time) Window {
	year, month, day := t.Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	end := time.Date(year, month, day, 23, 59, 59, int(999*time.Millisecond), t.Location())
	return Window{Start: start.UnixMilli(), End: end.UnixMilli()}
}

// Contains reports whether the instant ms lies within the window, bounds
// included.
func (w Window) Contains(ms int64) bool {
	return ms >= w.Start && ms <= w.End
}
