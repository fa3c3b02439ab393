package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/skicoach/coach-schedule/internal/model"
	"github.com/skicoach/coach-schedule/internal/store"
)

func strPtr(s string) *string   { return &s }
func numPtr(f float64) *float64 { return &f }
func zapNop() *zap.Logger       { return zap.NewNop() }

// memStore is an in-memory EventStore with the same contract as the real
// backends: nil for missing ids, idempotent delete, sorted listings.
type memStore struct {
	events map[string]*model.Event
	// failInsert makes the next inserts fail, for partial-batch tests.
	failInsert func(e *model.Event) bool
}

func newMemStore() *memStore {
	return &memStore{events: map[string]*model.Event{}}
}

func (m *memStore) Insert(ctx context.Context, e *model.Event) error {
	if m.failInsert != nil && m.failInsert(e) {
		return fmt.Errorf("insert rejected")
	}
	if e.ID == "" {
		return fmt.Errorf("insert event: empty id")
	}
	m.events[e.ID] = e.Clone()
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id string) (*model.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, nil
	}
	return e.Clone(), nil
}

func (m *memStore) Update(ctx context.Context, e *model.Event) error {
	if _, ok := m.events[e.ID]; !ok {
		return nil
	}
	m.events[e.ID] = e.Clone()
	return nil
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	delete(m.events, id)
	return nil
}

func (m *memStore) DeleteAll(ctx context.Context) error {
	m.events = map[string]*model.Event{}
	return nil
}

func (m *memStore) ListAll(ctx context.Context) ([]*model.Event, error) {
	var out []*model.Event
	for _, e := range m.events {
		out = append(out, e.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (m *memStore) ListByDate(ctx context.Context, date string) ([]*model.Event, error) {
	return m.ListRange(ctx, date, date)
}

func (m *memStore) ListRange(ctx context.Context, from, to string) ([]*model.Event, error) {
	all, _ := m.ListAll(ctx)
	var out []*model.Event
	for _, e := range all {
		if e.Date >= from && e.Date <= to {
			out = append(out, e)
		}
	}
	return out, nil
}

// memRemote fakes the user-scoped remote backend. Inserts assign remote ids.
type memRemote struct {
	stores map[string]*memStore
	nextID int
	// failInsert rejects inserts whose title matches, for migration tests.
	failTitle string
}

func newMemRemote() *memRemote {
	return &memRemote{stores: map[string]*memStore{}}
}

func (r *memRemote) ForUser(userID string) store.EventStore {
	s, ok := r.stores[userID]
	if !ok {
		s = newMemStore()
		s.failInsert = func(e *model.Event) bool {
			return r.failTitle != "" && e.Title == r.failTitle
		}
		r.stores[userID] = s
	}
	return remoteScoped{remote: r, store: s}
}

type remoteScoped struct {
	remote *memRemote
	store  *memStore
}

func (r remoteScoped) Insert(ctx context.Context, e *model.Event) error {
	clone := e.Clone()
	r.remote.nextID++
	clone.ID = fmt.Sprintf("remote-%d", r.remote.nextID)
	now := time.Now()
	clone.CreatedAt = now
	clone.UpdatedAt = now
	if err := r.store.Insert(ctx, clone); err != nil {
		return err
	}
	*e = *clone
	return nil
}

func (r remoteScoped) GetByID(ctx context.Context, id string) (*model.Event, error) {
	return r.store.GetByID(ctx, id)
}
func (r remoteScoped) Update(ctx context.Context, e *model.Event) error { return r.store.Update(ctx, e) }
func (r remoteScoped) Delete(ctx context.Context, id string) error      { return r.store.Delete(ctx, id) }
func (r remoteScoped) ListAll(ctx context.Context) ([]*model.Event, error) {
	return r.store.ListAll(ctx)
}
func (r remoteScoped) ListByDate(ctx context.Context, date string) ([]*model.Event, error) {
	return r.store.ListByDate(ctx, date)
}
func (r remoteScoped) ListRange(ctx context.Context, from, to string) ([]*model.Event, error) {
	return r.store.ListRange(ctx, from, to)
}

// memConfig is an in-memory ConfigStore with write-through defaults.
type memConfig struct {
	cfg *model.Config
}

func (c *memConfig) Get(ctx context.Context) (*model.Config, error) {
	if c.cfg == nil {
		c.cfg = model.DefaultConfig()
	}
	return c.cfg, nil
}

func (c *memConfig) Save(ctx context.Context, cfg *model.Config) error {
	c.cfg = cfg
	return nil
}

// memFlags is an in-memory FlagStore.
type memFlags struct {
	flags map[string]bool
}

func newMemFlags() *memFlags { return &memFlags{flags: map[string]bool{}} }

func (f *memFlags) GetFlag(ctx context.Context, key string) (bool, error) {
	return f.flags[key], nil
}

func (f *memFlags) SetFlag(ctx context.Context, key string) error {
	f.flags[key] = true
	return nil
}

type ctxKey string

const userIDKey ctxKey = "user_id"

func withUser(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

func ctxResolver() store.IdentityResolver {
	return store.IdentityFunc(func(ctx context.Context) (string, bool) {
		id, ok := ctx.Value(userIDKey).(string)
		return id, ok && id != ""
	})
}

// fixture wires an EventService over in-memory backends with a controllable
// clock and deterministic ids.
type fixture struct {
	local   *memStore
	remote  *memRemote
	configs *memConfig
	flags   *memFlags
	svc     *EventService
	now     time.Time
	nextID  int
}

func newFixture(withRemote bool) *fixture {
	f := &fixture{
		local:   newMemStore(),
		configs: &memConfig{},
		flags:   newMemFlags(),
		now:     time.Date(2024, time.December, 2, 10, 0, 0, 0, time.UTC),
	}
	var scoped store.UserScoped
	if withRemote {
		f.remote = newMemRemote()
		scoped = f.remote
	}
	selector := store.NewSelector(f.local, scoped, ctxResolver())
	f.svc = NewEventService(selector, f.configs, zap.NewNop())
	f.svc.now = func() time.Time { return f.now }
	f.svc.newID = func() string {
		f.nextID++
		return fmt.Sprintf("id-%d", f.nextID)
	}
	return f
}

func (f *fixture) selector() *store.Selector {
	var scoped store.UserScoped
	if f.remote != nil {
		scoped = f.remote
	}
	return store.NewSelector(f.local, scoped, ctxResolver())
}
