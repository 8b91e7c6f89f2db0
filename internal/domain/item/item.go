package item

import (
	"fmt"
	"time"
)

// LogAction names an action recorded in an item's audit trail.
type LogAction string

const (
	ActionMessageSent  LogAction = "messageSent"
	ActionPostponeSent LogAction = "postponeSent"
)

// LogEntry is one record of the append-only audit trail. Date is epoch
// milliseconds, matching send_date.
type LogEntry struct {
	Action LogAction `json:"action"`
	Date   int64     `json:"date"`
}

// Interval is the duration tag used when a delivery is postponed.
type Interval string

const (
	IntervalOneMonth     Interval = "1M"
	IntervalSixMonths    Interval = "6M"
	IntervalTwelveMonths Interval = "12M"
)

// Months returns the number of calendar months the interval stands for.
func (i Interval) Months() (int, error) {
	switch i {
	case IntervalOneMonth:
		return 1, nil
	case IntervalSixMonths:
		return 6, nil
	case IntervalTwelveMonths:
		return 12, nil
	default:
		return 0, fmt.Errorf("unknown interval %q", string(i))
	}
}

// Item is a scheduled message: authored by its owner, delivered to the
// recipient once its send date arrives. IsActive is flipped to false exactly
// once, at delivery; LogDates only ever grows.
type Item struct {
	ID           string
	OwnerUID     string
	Recipient    string
	Name         string
	Title        string
	Message      string
	SendDate     int64 // epoch milliseconds
	Interval     Interval
	IsActive     bool
	PostponeCode string
	LogDates     []LogEntry
	CreatedAt    time.Time
}
