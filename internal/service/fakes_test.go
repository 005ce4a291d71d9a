package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/noah-isme/event-tracker-api/internal/eventquery"
	"github.com/noah-isme/event-tracker-api/internal/models"
	appErrors "github.com/noah-isme/event-tracker-api/pkg/errors"
)

var fixedNow = time.Date(2026, 2, 19, 10, 0, 0, 0, time.UTC)

func fixedEngine() *eventquery.Engine {
	return eventquery.NewEngine(eventquery.NewCursorCodec(""), func() time.Time { return fixedNow })
}

// memEvents is an in-memory event store honouring the repository contract.
type memEvents struct {
	mu       sync.Mutex
	events   map[string]models.Event
	fetches  int
	fetchErr error
	seq      int
}

func newMemEvents(events ...models.Event) *memEvents {
	m := &memEvents{events: make(map[string]models.Event)}
	for _, event := range events {
		m.events[event.ID] = event
	}
	return m
}

func (m *memEvents) FetchAll(ctx context.Context) ([]models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	out := make([]models.Event, 0, len(m.events))
	for _, event := range m.events {
		out = append(out, event)
	}
	return out, nil
}

func (m *memEvents) FindByID(ctx context.Context, id string) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	event, ok := m.events[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &event, nil
}

func (m *memEvents) Create(ctx context.Context, event *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if event.ID == "" {
		m.seq++
		event.ID = fmt.Sprintf("evt_%08x", m.seq)
	}
	if _, dup := m.events[event.ID]; dup {
		return models.ErrDuplicateKey
	}
	m.events[event.ID] = *event
	return nil
}

func (m *memEvents) Update(ctx context.Context, id string, patch models.EventPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	event, ok := m.events[id]
	if !ok {
		return sql.ErrNoRows
	}
	m.events[id] = patch.Apply(event)
	return nil
}

func (m *memEvents) Delete(ctx context.Context, id string) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	event, ok := m.events[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	delete(m.events, id)
	return &event, nil
}

func (m *memEvents) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events), nil
}

func (m *memEvents) CreateMany(ctx context.Context, events []models.Event) error {
	for i := range events {
		if err := m.Create(ctx, &events[i]); err != nil {
			return err
		}
	}
	return nil
}

// memCompletions keeps completion records per user.
type memCompletions struct {
	mu      sync.Mutex
	records map[string]models.CompletionMap
}

func newMemCompletions() *memCompletions {
	return &memCompletions{records: make(map[string]models.CompletionMap)}
}

func (m *memCompletions) MapForUser(ctx context.Context, userID string) (models.CompletionMap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := models.CompletionMap{}
	for id, at := range m.records[userID] {
		out[id] = at
	}
	return out, nil
}

func (m *memCompletions) CompletedIDs(ctx context.Context, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := []string{}
	for id := range m.records[userID] {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (m *memCompletions) Toggle(ctx context.Context, userID, eventID string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.records[userID] == nil {
		m.records[userID] = models.CompletionMap{}
	}
	if m.records[userID].Has(eventID) {
		delete(m.records[userID], eventID)
		return false, nil
	}
	m.records[userID][eventID] = at
	return true, nil
}

// memCache stores JSON payloads like the Redis repository does.
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deletes int
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte)}
}

func (c *memCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

func (c *memCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	c.deletes++
	return nil
}

// memUsers implements the account and session store.
type memUsers struct {
	mu       sync.Mutex
	users    map[string]*models.User
	sessions map[string]*models.Session
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[string]*models.User), sessions: make(map[string]*models.Session)}
}

func (m *memUsers) Register(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.users[user.UsernameNormalized]; dup {
		return models.ErrDuplicateKey
	}
	user.Role = models.RoleAdmin
	for _, existing := range m.users {
		if existing.Role == models.RoleAdmin {
			user.Role = models.RoleUser
		}
	}
	user.ID = fmt.Sprintf("user-%d", len(m.users)+1)
	stored := *user
	m.users[user.UsernameNormalized] = &stored
	return nil
}

func (m *memUsers) FindByUsername(ctx context.Context, normalized string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[normalized]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (m *memUsers) CreateSession(ctx context.Context, session *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *session
	m.sessions[session.ID] = &stored
	return nil
}

func (m *memUsers) FindSession(ctx context.Context, id string, now time.Time) (*models.SessionUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok || !session.ExpiresAt.After(now) {
		return nil, sql.ErrNoRows
	}
	for _, user := range m.users {
		if user.ID == session.UserID {
			return &models.SessionUser{SessionID: id, UserID: user.ID, Username: user.UsernameDisplay, Role: user.Role}, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memUsers) DeleteSession(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memUsers) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, session := range m.sessions {
		if !session.ExpiresAt.After(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}
