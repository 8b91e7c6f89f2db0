package database

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"pebble_scheduler/internal/domain/item"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupItemRepo(t *testing.T) (*PostgresItemRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open mock db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresItemRepository(db), mock
}

var itemRows = []string{
	"id", "owner_uid", "recipient", "name", "title", "message",
	"send_date", "send_interval", "is_active", "postpone_code", "log_dates", "created_at",
}

func TestListActiveInWindows(t *testing.T) {
	repo, mock := setupItemRepo(t)

	today := item.Window{Start: 1000, End: 2000}
	reminder := item.Window{Start: 9000, End: 10000}
	createdAt := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE is_active = TRUE`)).
		WithArgs(today.Start, today.End, reminder.Start, reminder.End).
		WillReturnRows(sqlmock.NewRows(itemRows).
			AddRow("item-1", "owner-1", "sam@example.com", "Sam", "A note", "Hello", int64(1500), "1M", true, "code-1", []byte(`[]`), createdAt).
			AddRow("item-2", "owner-1", "sam@example.com", "Sam", "Later", "Hi", int64(9500), "6M", true, "code-2", []byte(`[{"action":"postponeSent","date":42}]`), createdAt))

	items, err := repo.ListActiveInWindows(context.Background(), today, reminder)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "item-1", items[0].ID)
	assert.Equal(t, item.IntervalOneMonth, items[0].Interval)
	assert.Empty(t, items[0].LogDates)

	assert.Equal(t, int64(9500), items[1].SendDate)
	require.Len(t, items[1].LogDates, 1)
	assert.Equal(t, item.ActionPostponeSent, items[1].LogDates[0].Action)
	assert.Equal(t, int64(42), items[1].LogDates[0].Date)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := setupItemRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM items WHERE id = $1`)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestAppendLog(t *testing.T) {
	repo, mock := setupItemRepo(t)

	entry := item.LogEntry{Action: item.ActionMessageSent, Date: 1747728000000}
	mock.ExpectQuery(regexp.QuoteMeta(`SET log_dates = log_dates || $1::jsonb`)).
		WithArgs(`{"action":"messageSent","date":1747728000000}`, "item-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("item-1"))

	err := repo.AppendLog(context.Background(), "item-1", entry)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendLog_NotFound(t *testing.T) {
	repo, mock := setupItemRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SET log_dates = log_dates || $1::jsonb`)).
		WithArgs(`{"action":"messageSent","date":1}`, "missing").
		WillReturnError(sql.ErrNoRows)

	err := repo.AppendLog(context.Background(), "missing", item.LogEntry{Action: item.ActionMessageSent, Date: 1})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestDeactivate(t *testing.T) {
	repo, mock := setupItemRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SET is_active = FALSE WHERE id = $1`)).
		WithArgs("item-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("item-1"))

	err := repo.Deactivate(context.Background(), "item-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSendDate(t *testing.T) {
	repo, mock := setupItemRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SET send_date = $1 WHERE id = $2`)).
		WithArgs(int64(1750000000000), "item-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("item-1"))

	err := repo.UpdateSendDate(context.Background(), "item-1", 1750000000000)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateItem(t *testing.T) {
	repo, mock := setupItemRepo(t)

	it := &item.Item{
		ID:           "item-1",
		OwnerUID:     "owner-1",
		Recipient:    "sam@example.com",
		Name:         "Sam",
		Title:        "A note",
		Message:      "Hello",
		SendDate:     1500,
		Interval:     item.IntervalOneMonth,
		IsActive:     true,
		PostponeCode: "code-1",
	}
	createdAt := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO items`)).
		WithArgs("item-1", "owner-1", "sam@example.com", "Sam", "A note", "Hello",
			int64(1500), "1M", true, "code-1", "[]").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	err := repo.Create(context.Background(), it)
	require.NoError(t, err)
	assert.Equal(t, createdAt, it.CreatedAt)
}
