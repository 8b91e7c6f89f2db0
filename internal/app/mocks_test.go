package app

import (
	"context"
	"io"
	"sync"

	"pebble_scheduler/internal/domain/item"
	domainMail "pebble_scheduler/internal/domain/mail"
	"pebble_scheduler/internal/domain/user"
	idb "pebble_scheduler/internal/infra/database"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// mockItemRepo is a thread-safe in-memory item.Repository. The delivery
// service processes items on separate goroutines, so every method locks.
type mockItemRepo struct {
	mu sync.Mutex

	items map[string]*item.Item

	// listOverride, when set, is returned verbatim by ListActiveInWindows —
	// used to simulate a store query looser than the window filter.
	listOverride []*item.Item
	listErr      error
	appendLogErr map[string]error
	updateErr    error

	logEntries  map[string][]item.LogEntry
	deactivated []string
	sendDates   map[string]int64
}

func newMockItemRepo(items ...*item.Item) *mockItemRepo {
	repo := &mockItemRepo{
		items:        make(map[string]*item.Item),
		appendLogErr: make(map[string]error),
		logEntries:   make(map[string][]item.LogEntry),
		sendDates:    make(map[string]int64),
	}
	for _, it := range items {
		repo.items[it.ID] = it
	}
	return repo
}

func (r *mockItemRepo) Create(_ context.Context, it *item.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[it.ID] = it
	return nil
}

func (r *mockItemRepo) GetByID(_ context.Context, id string) (*item.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, idb.ErrItemNotFound
	}
	return it, nil
}

func (r *mockItemRepo) ListActiveInWindows(_ context.Context, today, reminder item.Window) ([]*item.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	if r.listOverride != nil {
		return r.listOverride, nil
	}
	candidates := make([]*item.Item, 0)
	for _, it := range r.items {
		if it.IsActive && (today.Contains(it.SendDate) || reminder.Contains(it.SendDate)) {
			candidates = append(candidates, it)
		}
	}
	return candidates, nil
}

func (r *mockItemRepo) AppendLog(_ context.Context, id string, entry item.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.appendLogErr[id]; err != nil {
		return err
	}
	if _, ok := r.items[id]; !ok {
		return idb.ErrItemNotFound
	}
	r.logEntries[id] = append(r.logEntries[id], entry)
	return nil
}

func (r *mockItemRepo) Deactivate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return idb.ErrItemNotFound
	}
	it.IsActive = false
	r.deactivated = append(r.deactivated, id)
	return nil
}

func (r *mockItemRepo) UpdateSendDate(_ context.Context, id string, sendDate int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	it, ok := r.items[id]
	if !ok {
		return idb.ErrItemNotFound
	}
	it.SendDate = sendDate
	r.sendDates[id] = sendDate
	return nil
}

func (r *mockItemRepo) loggedActions(id string) []item.LogAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	actions := make([]item.LogAction, 0, len(r.logEntries[id]))
	for _, entry := range r.logEntries[id] {
		actions = append(actions, entry.Action)
	}
	return actions
}

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*user.User
}

func newMockUserRepo(users ...*user.User) *mockUserRepo {
	repo := &mockUserRepo{users: make(map[string]*user.User)}
	for _, u := range users {
		repo.users[u.UID] = u
	}
	return repo
}

func (r *mockUserRepo) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.UID] = u
	return nil
}

func (r *mockUserRepo) GetByUID(_ context.Context, uid string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[uid]
	if !ok {
		return nil, idb.ErrUserNotFound
	}
	return u, nil
}

type mockMailer struct {
	mu     sync.Mutex
	sent   []domainMail.Message
	failTo map[string]error
}

func newMockMailer() *mockMailer {
	return &mockMailer{failTo: make(map[string]error)}
}

func (m *mockMailer) Send(_ context.Context, msg domainMail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failTo[msg.To]; err != nil {
		return err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *mockMailer) sentTo(to string) []domainMail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	messages := make([]domainMail.Message, 0)
	for _, msg := range m.sent {
		if msg.To == to {
			messages = append(messages, msg)
		}
	}
	return messages
}

func (m *mockMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}
