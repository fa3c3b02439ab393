// Package remote implements the Postgres backend. Every row is owned by a
// user id and every statement filters on it, so one database serves many
// installations. The store itself is identity-free; ForUser binds it to an
// owner for the duration of a call.
package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skicoach/coach-schedule/internal/dateutil"
	"github.com/skicoach/coach-schedule/internal/model"
	"github.com/skicoach/coach-schedule/internal/store"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// ForUser binds all operations to one owner identity.
func (s *Store) ForUser(userID string) store.EventStore {
	return &userStore{pool: s.pool, userID: userID}
}

type userStore struct {
	pool   *pgxpool.Pool
	userID string
}

const eventColumns = "id, type, date, time_slot, start_time, end_time, duration, title, venue, fee, notes, created_at, updated_at"

func scanEvent(row pgx.Row) (*model.Event, error) {
	var e model.Event
	var date time.Time
	err := row.Scan(
		&e.ID,
		&e.Type,
		&date,
		&e.TimeSlot,
		&e.StartTime,
		&e.EndTime,
		&e.Duration,
		&e.Title,
		&e.Venue,
		&e.Fee,
		&e.Notes,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Date = dateutil.DateString(date)
	return &e, nil
}

// Insert stores the event for this user. The database assigns id and
// timestamps; whatever the caller set is overwritten with the stored values.
func (r *userStore) Insert(ctx context.Context, event *model.Event) error {
	query := `
		INSERT INTO events (user_id, type, date, time_slot, start_time, end_time, duration, title, venue, fee, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		r.userID,
		event.Type,
		event.Date,
		event.TimeSlot,
		event.StartTime,
		event.EndTime,
		event.Duration,
		event.Title,
		event.Venue,
		event.Fee,
		event.Notes,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)

	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	return nil
}

// GetByID returns (nil, nil) when the row does not exist or belongs to
// another user.
func (r *userStore) GetByID(ctx context.Context, id string) (*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1 AND user_id = $2
	`

	e, err := scanEvent(r.pool.QueryRow(ctx, query, id, r.userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get event by id: %w", err)
	}

	return e, nil
}

// Update rewrites the full record. A missing id is a silent no-op.
func (r *userStore) Update(ctx context.Context, event *model.Event) error {
	query := `
		UPDATE events
		SET type = $1, date = $2, time_slot = $3, start_time = $4, end_time = $5,
		    duration = $6, title = $7, venue = $8, fee = $9, notes = $10, updated_at = $11
		WHERE id = $12 AND user_id = $13
	`

	_, err := r.pool.Exec(
		ctx, query,
		event.Type,
		event.Date,
		event.TimeSlot,
		event.StartTime,
		event.EndTime,
		event.Duration,
		event.Title,
		event.Venue,
		event.Fee,
		event.Notes,
		event.UpdatedAt,
		event.ID,
		r.userID,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}

	return nil
}

// Delete removes the row; deleting a missing id is not an error.
func (r *userStore) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1 AND user_id = $2`

	if _, err := r.pool.Exec(ctx, query, id, r.userID); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	return nil
}

func (r *userStore) list(ctx context.Context, query string, args ...interface{}) ([]*model.Event, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []*model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	return events, nil
}

// ListAll returns the user's events sorted by date, then start time.
func (r *userStore) ListAll(ctx context.Context) ([]*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE user_id = $1
		ORDER BY date ASC, start_time ASC
	`
	return r.list(ctx, query, r.userID)
}

// ListByDate returns one day's events sorted by start time.
func (r *userStore) ListByDate(ctx context.Context, date string) ([]*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE user_id = $1 AND date = $2
		ORDER BY start_time ASC
	`
	return r.list(ctx, query, r.userID, date)
}

// ListRange returns events with from <= date <= to, inclusive on both ends.
func (r *userStore) ListRange(ctx context.Context, from, to string) ([]*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC, start_time ASC
	`
	return r.list(ctx, query, r.userID, from, to)
}
