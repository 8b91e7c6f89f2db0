// internal/infra/database/postgres_item_repository.go
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"pebble_scheduler/internal/domain/item"
)

// Custom errors specific to the item repository
var ErrItemNotFound = fmt.Errorf("scheduled item not found")

type PostgresItemRepository struct {
	db *sql.DB
}

func NewPostgresItemRepository(db *sql.DB) *PostgresItemRepository {
	return &PostgresItemRepository{db: db}
}

const itemColumns = `id, owner_uid, recipient, name, title, message, send_date, send_interval, is_active, postpone_code, log_dates, created_at`

func (r *PostgresItemRepository) Create(ctx context.Context, it *item.Item) error {
	logDates, err := json.Marshal(it.LogDates)
	if err != nil {
		return fmt.Errorf("error marshaling log dates: %w", err)
	}
	if it.LogDates == nil {
		logDates = []byte("[]")
	}

	query := `INSERT INTO items (id, owner_uid, recipient, name, title, message, send_date, send_interval, is_active, postpone_code, log_dates)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::jsonb)
               RETURNING created_at`
	err = r.db.QueryRowContext(ctx, query,
		it.ID, it.OwnerUID, it.Recipient, it.Name, it.Title, it.Message,
		it.SendDate, it.Interval, it.IsActive, it.PostponeCode, string(logDates),
	).Scan(&it.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating item: %w", err)
	}
	return nil
}

func (r *PostgresItemRepository) GetByID(ctx context.Context, id string) (*item.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	it, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("error getting item by ID: %w", err)
	}
	return it, nil
}

// ListActiveInWindows fetches the delivery candidates for one batch run:
// active items whose send date falls in today's window or in the reminder
// window. The two range conjunctions joined by OR mirror the dashboard's
// store query, so no other items can ever reach the classifier.
func (r *PostgresItemRepository) ListActiveInWindows(ctx context.Context, today, reminder item.Window) ([]*item.Item, error) {
	query := `SELECT ` + itemColumns + `
               FROM items
               WHERE is_active = TRUE
                 AND ((send_date >= $1 AND send_date <= $2)
                   OR (send_date >= $3 AND send_date <= $4))
               ORDER BY send_date`
	rows, err := r.db.QueryContext(ctx, query, today.Start, today.End, reminder.Start, reminder.End)
	if err != nil {
		return nil, fmt.Errorf("error querying delivery candidates: %w", err)
	}
	defer rows.Close()

	items := make([]*item.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning candidate item: %w", err)
		}
		items = append(items, it)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candidate items: %w", err)
	}
	return items, nil
}

// AppendLog appends a single entry to the item's log_dates array. The JSONB
// concatenation never touches existing entries.
func (r *PostgresItemRepository) AppendLog(ctx context.Context, id string, entry item.LogEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("error marshaling log entry: %w", err)
	}

	query := `UPDATE items
               SET log_dates = log_dates || $1::jsonb
               WHERE id = $2
               RETURNING id`
	var returnedID string
	err = r.db.QueryRowContext(ctx, query, string(payload), id).Scan(&returnedID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrItemNotFound
		}
		return fmt.Errorf("error appending item log entry: %w", err)
	}
	return nil
}

func (r *PostgresItemRepository) Deactivate(ctx context.Context, id string) error {
	query := `UPDATE items SET is_active = FALSE WHERE id = $1 RETURNING id`
	var returnedID string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&returnedID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrItemNotFound
		}
		return fmt.Errorf("error deactivating item: %w", err)
	}
	return nil
}

func (r *PostgresItemRepository) UpdateSendDate(ctx context.Context, id string, sendDate int64) error {
	query := `UPDATE items SET send_date = $1 WHERE id = $2 RETURNING id`
	var returnedID string
	err := r.db.QueryRowContext(ctx, query, sendDate, id).Scan(&returnedID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrItemNotFound
		}
		return fmt.Errorf("error updating item send date: %w", err)
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*item.Item, error) {
	it := item.Item{}
	var logDates []byte
	err := row.Scan(
		&it.ID, &it.OwnerUID, &it.Recipient, &it.Name, &it.Title, &it.Message,
		&it.SendDate, &it.Interval, &it.IsActive, &it.PostponeCode, &logDates, &it.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(logDates) == 0 {
		logDates = []byte("[]")
	}
	if err := json.Unmarshal(logDates, &it.LogDates); err != nil {
		return nil, fmt.Errorf("error unmarshaling item log dates: %w", err)
	}
	return &it, nil
}
