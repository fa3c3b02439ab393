// Package local implements the embedded single-file backend over bbolt.
// Events are stored as JSON keyed by id, with index buckets on date, type
// and time slot mirroring the secondary indexes of the original schema.
// The same file carries the configuration singleton and installation flags.
package local

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/skicoach/coach-schedule/internal/model"
)

var (
	bucketEvents  = []byte("events")
	bucketIdxDate = []byte("idx_date")
	bucketIdxType = []byte("idx_type")
	bucketIdxSlot = []byte("idx_slot")
	bucketConfig  = []byte("config")
	bucketMeta    = []byte("meta")
)

const configKey = "default"

// Store is safe for concurrent use; bbolt serializes writers internally.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the database file and ensures all buckets exist.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketEvents, bucketIdxDate, bucketIdxType, bucketIdxSlot, bucketConfig, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// indexKey builds "value/id" keys. Dates are fixed-width, so a cursor scan
// over idx_date stays in date order.
func indexKey(value, id string) []byte {
	return []byte(value + "/" + id)
}

func putIndexes(tx *bolt.Tx, e *model.Event) error {
	entries := []struct {
		bucket []byte
		value  string
	}{
		{bucketIdxDate, e.Date},
		{bucketIdxType, string(e.Type)},
		{bucketIdxSlot, string(e.TimeSlot)},
	}
	for _, entry := range entries {
		if err := tx.Bucket(entry.bucket).Put(indexKey(entry.value, e.ID), []byte(e.ID)); err != nil {
			return fmt.Errorf("put index: %w", err)
		}
	}
	return nil
}

func deleteIndexes(tx *bolt.Tx, e *model.Event) error {
	entries := []struct {
		bucket []byte
		value  string
	}{
		{bucketIdxDate, e.Date},
		{bucketIdxType, string(e.Type)},
		{bucketIdxSlot, string(e.TimeSlot)},
	}
	for _, entry := range entries {
		if err := tx.Bucket(entry.bucket).Delete(indexKey(entry.value, e.ID)); err != nil {
			return fmt.Errorf("delete index: %w", err)
		}
	}
	return nil
}

func getEvent(tx *bolt.Tx, id string) (*model.Event, error) {
	raw := tx.Bucket(bucketEvents).Get([]byte(id))
	if raw == nil {
		return nil, nil
	}
	var e model.Event
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("unmarshal event %s: %w", id, err)
	}
	return &e, nil
}

func putEvent(tx *bolt.Tx, e *model.Event) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := tx.Bucket(bucketEvents).Put([]byte(e.ID), raw); err != nil {
		return fmt.Errorf("put event: %w", err)
	}
	return putIndexes(tx, e)
}

// Insert stores a new event under its pre-assigned id.
func (s *Store) Insert(ctx context.Context, event *model.Event) error {
	if event.ID == "" {
		return fmt.Errorf("insert event: empty id")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return putEvent(tx, event)
	})
}

// GetByID returns (nil, nil) when the id is unknown.
func (s *Store) GetByID(ctx context.Context, id string) (*model.Event, error) {
	var out *model.Event
	err := s.db.View(func(tx *bolt.Tx) error {
		e, err := getEvent(tx, id)
		if err != nil {
			return err
		}
		out = e
		return nil
	})
	return out, err
}

// Update replaces the stored record, refreshing index entries whose values
// changed. Updating an unknown id is a silent no-op.
func (s *Store) Update(ctx context.Context, event *model.Event) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		old, err := getEvent(tx, event.ID)
		if err != nil {
			return err
		}
		if old == nil {
			return nil
		}
		if err := deleteIndexes(tx, old); err != nil {
			return err
		}
		return putEvent(tx, event)
	})
}

// Delete removes the event and its index entries; missing ids are ignored.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		old, err := getEvent(tx, id)
		if err != nil {
			return err
		}
		if old == nil {
			return nil
		}
		if err := deleteIndexes(tx, old); err != nil {
			return err
		}
		if err := tx.Bucket(bucketEvents).Delete([]byte(id)); err != nil {
			return fmt.Errorf("delete event: %w", err)
		}
		return nil
	})
}

// DeleteAll clears every event and all index buckets. Used by restore.
func (s *Store) DeleteAll(ctx context.Context) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketEvents, bucketIdxDate, bucketIdxType, bucketIdxSlot} {
			if err := tx.DeleteBucket(name); err != nil {
				return fmt.Errorf("clear bucket %s: %w", name, err)
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return fmt.Errorf("recreate bucket %s: %w", name, err)
			}
		}
		return nil
	})
}

func sortEvents(events []*model.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		return events[i].StartTime < events[j].StartTime
	})
}

// ListAll returns every event sorted by date, then start time.
func (s *Store) ListAll(ctx context.Context) ([]*model.Event, error) {
	var events []*model.Event
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketEvents).ForEach(func(_, raw []byte) error {
			var e model.Event
			if err := json.Unmarshal(raw, &e); err != nil {
				return fmt.Errorf("unmarshal event: %w", err)
			}
			events = append(events, &e)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortEvents(events)
	return events, nil
}

// ListByDate returns the events of one day sorted by start time.
func (s *Store) ListByDate(ctx context.Context, date string) ([]*model.Event, error) {
	return s.ListRange(ctx, date, date)
}

// ListRange scans the date index between from and to inclusive.
func (s *Store) ListRange(ctx context.Context, from, to string) ([]*model.Event, error) {
	var events []*model.Event
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketIdxDate).Cursor()
		max := []byte(to + "/\xff")
		for k, id := c.Seek([]byte(from)); k != nil && bytes.Compare(k, max) <= 0; k, id = c.Next() {
			e, err := getEvent(tx, string(id))
			if err != nil {
				return err
			}
			if e != nil {
				events = append(events, e)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortEvents(events)
	return events, nil
}

// Get returns the configuration singleton, creating it with defaults on
// first access. Creation happens inside one write transaction, so
// concurrent first reads still converge to a single stored record.
func (s *Store) Get(ctx context.Context) (*model.Config, error) {
	var cfg *model.Config
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketConfig)
		if raw := b.Get([]byte(configKey)); raw != nil {
			cfg = &model.Config{}
			if err := json.Unmarshal(raw, cfg); err != nil {
				return fmt.Errorf("unmarshal config: %w", err)
			}
			return nil
		}
		cfg = model.DefaultConfig()
		raw, err := json.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		return b.Put([]byte(configKey), raw)
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save fully replaces the configuration singleton.
func (s *Store) Save(ctx context.Context, cfg *model.Config) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		raw, err := json.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		return tx.Bucket(bucketConfig).Put([]byte(configKey), raw)
	})
}

// GetFlag reports whether key has been set.
func (s *Store) GetFlag(ctx context.Context, key string) (bool, error) {
	var set bool
	err := s.db.View(func(tx *bolt.Tx) error {
		set = tx.Bucket(bucketMeta).Get([]byte(key)) != nil
		return nil
	})
	return set, err
}

// SetFlag persists key. Flags are never cleared programmatically.
func (s *Store) SetFlag(ctx context.Context, key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMeta).Put([]byte(key), []byte("true"))
	})
}
