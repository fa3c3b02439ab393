// Package store defines the backend contract shared by the local embedded
// store and the remote Postgres store, and the per-call selection between
// them.
package store

import (
	"context"

	"github.com/skicoach/coach-schedule/internal/model"
)

// EventStore is the capability both backends implement. Lookups return
// (nil, nil) when the id does not exist; Delete of a missing id is a no-op.
// List methods return events sorted by date ascending, start time as the
// tie-break; ListByDate sorts by start time.
type EventStore interface {
	Insert(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]*model.Event, error)
	ListByDate(ctx context.Context, date string) ([]*model.Event, error)
	ListRange(ctx context.Context, from, to string) ([]*model.Event, error)
}

// ConfigStore holds the configuration singleton. Get creates the record
// with defaults when absent; creation must be idempotent under concurrent
// calls.
type ConfigStore interface {
	Get(ctx context.Context) (*model.Config, error)
	Save(ctx context.Context, cfg *model.Config) error
}

// FlagStore persists installation-level booleans, such as the one-shot
// migration marker.
type FlagStore interface {
	GetFlag(ctx context.Context, key string) (bool, error)
	SetFlag(ctx context.Context, key string) error
}

// IdentityResolver yields the remote session identity for the current call,
// if there is one. It is consulted on every operation rather than cached,
// so a session change between calls is picked up immediately.
type IdentityResolver interface {
	Resolve(ctx context.Context) (string, bool)
}

// IdentityFunc adapts a function to the IdentityResolver interface.
type IdentityFunc func(ctx context.Context) (string, bool)

func (f IdentityFunc) Resolve(ctx context.Context) (string, bool) { return f(ctx) }

// UserScoped is implemented by the remote store: it binds all operations to
// one owner identity and returns the result as an EventStore.
type UserScoped interface {
	ForUser(userID string) EventStore
}

// Selector routes each call to the remote backend when one is configured
// and an identity resolves, and to the local backend otherwise.
type Selector struct {
	local    EventStore
	remote   UserScoped // nil when no remote backend is configured
	resolver IdentityResolver
}

func NewSelector(local EventStore, remote UserScoped, resolver IdentityResolver) *Selector {
	return &Selector{local: local, remote: remote, resolver: resolver}
}

// Pick resolves the backend for one call.
func (s *Selector) Pick(ctx context.Context) EventStore {
	if s.remote != nil && s.resolver != nil {
		if userID, ok := s.resolver.Resolve(ctx); ok && userID != "" {
			return s.remote.ForUser(userID)
		}
	}
	return s.local
}

// Local always returns the local backend, regardless of session state.
// Backup, restore and migration operate on local data only.
func (s *Selector) Local() EventStore { return s.local }

// HasRemote reports whether a remote backend is configured at all.
func (s *Selector) HasRemote() bool { return s.remote != nil }

// RemoteFor returns the remote backend bound to userID, or false when no
// remote backend is configured.
func (s *Selector) RemoteFor(userID string) (EventStore, bool) {
	if s.remote == nil {
		return nil, false
	}
	return s.remote.ForUser(userID), true
}
