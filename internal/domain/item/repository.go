package item

import "context"

// Repository defines the operations for persisting and retrieving scheduled
// items.
type Repository interface {
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id string) (*Item, error)
	// ListActiveInWindows returns every active item whose send date falls in
	// either of the two day windows.
	ListActiveInWindows(ctx context.Context, today, reminder Window) ([]*Item, error)
	// AppendLog appends one entry to the item's audit trail. Existing entries
	// are never rewritten.
	AppendLog(ctx context.Context, id string, entry LogEntry) error
	// Deactivate marks the item as delivered. The flag never reverts.
	Deactivate(ctx context.Context, id string) error
	UpdateSendDate(ctx context.Context, id string, sendDate int64) error
}
