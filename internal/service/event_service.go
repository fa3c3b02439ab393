package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skicoach/coach-schedule/internal/csvcodec"
	"github.com/skicoach/coach-schedule/internal/dateutil"
	"github.com/skicoach/coach-schedule/internal/model"
	"github.com/skicoach/coach-schedule/internal/store"
)

// CreateInput carries the caller-settable fields of a new event. Start and
// end times, duration and (for courses) the default fee are derived from the
// active configuration, never taken from the caller.
type CreateInput struct {
	Date     string
	TimeSlot model.TimeSlot
	Title    string
	Venue    *string
	Fee      *float64
	Notes    *string
}

// UpdateInput is a partial patch: nil fields keep their current value.
type UpdateInput struct {
	Type     *model.EventType
	Date     *string
	TimeSlot *model.TimeSlot
	Title    *string
	Venue    *string
	Fee      *float64
	Notes    *string
}

func (u UpdateInput) empty() bool {
	return u.Type == nil && u.Date == nil && u.TimeSlot == nil &&
		u.Title == nil && u.Venue == nil && u.Fee == nil && u.Notes == nil
}

type EventService struct {
	stores  *store.Selector
	configs store.ConfigStore
	logger  *zap.Logger

	now   func() time.Time
	newID func() string
}

func NewEventService(stores *store.Selector, configs store.ConfigStore, logger *zap.Logger) *EventService {
	return &EventService{
		stores:  stores,
		configs: configs,
		logger:  logger,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
}

// Create builds and stores a new event. Derived fields are snapshots of the
// configuration at call time. Fee resolution is type-specific: courses
// default to the standard or full-day price when the caller gave none,
// practice never carries a fee, training keeps whatever the caller supplied.
func (s *EventService) Create(ctx context.Context, typ model.EventType, in CreateInput) (*model.Event, error) {
	switch typ {
	case model.EventTypeCourse, model.EventTypePractice, model.EventTypeTraining:
	case model.EventTypeTrial:
		return nil, fmt.Errorf("create event: trial classes can no longer be created")
	default:
		return nil, fmt.Errorf("create event: unknown type %q", typ)
	}
	if !in.TimeSlot.Valid() {
		return nil, fmt.Errorf("create event: unknown time slot %q", in.TimeSlot)
	}
	if _, err := dateutil.ParseDate(in.Date); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	slot := cfg.TimeSlots[in.TimeSlot]

	var fee *float64
	switch typ {
	case model.EventTypeCourse:
		if in.Fee != nil {
			fee = in.Fee
		} else {
			price := cfg.Pricing.Standard3h
			if slot.Hours >= 5 {
				price = cfg.Pricing.FullDay5h
			}
			fee = &price
		}
	case model.EventTypeTraining:
		fee = in.Fee
	case model.EventTypePractice:
		// never billable
	}

	now := s.now()
	event := &model.Event{
		ID:        s.newID(),
		Type:      typ,
		Date:      in.Date,
		TimeSlot:  in.TimeSlot,
		StartTime: slot.Start,
		EndTime:   slot.End,
		Duration:  slot.Hours,
		Title:     in.Title,
		Venue:     in.Venue,
		Fee:       fee,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.stores.Pick(ctx).Insert(ctx, event); err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	s.logger.Info("Event created",
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.String("date", event.Date),
	)

	return event, nil
}

// Update applies a partial patch. An unknown id and an empty patch are both
// silent no-ops; any real change re-derives the slot fields from the current
// configuration and refreshes UpdatedAt. A legacy trial event collapses to a
// regular course on its first edit.
func (s *EventService) Update(ctx context.Context, id string, in UpdateInput) (*model.Event, error) {
	backend := s.stores.Pick(ctx)

	existing, err := backend.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load event: %w", err)
	}
	if existing == nil {
		return nil, nil
	}
	if in.empty() {
		return existing, nil
	}

	if in.Type != nil && !in.Type.Valid() {
		return nil, fmt.Errorf("update event: unknown type %q", *in.Type)
	}
	if in.TimeSlot != nil && !in.TimeSlot.Valid() {
		return nil, fmt.Errorf("update event: unknown time slot %q", *in.TimeSlot)
	}
	if in.Date != nil {
		if _, err := dateutil.ParseDate(*in.Date); err != nil {
			return nil, fmt.Errorf("update event: %w", err)
		}
	}

	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	updated := existing.Clone()
	if in.Type != nil {
		updated.Type = *in.Type
	}
	if updated.Type == model.EventTypeTrial {
		updated.Type = model.EventTypeCourse
	}
	if in.Date != nil {
		updated.Date = *in.Date
	}
	if in.TimeSlot != nil {
		updated.TimeSlot = *in.TimeSlot
	}
	if in.Title != nil {
		updated.Title = *in.Title
	}
	if in.Venue != nil {
		updated.Venue = in.Venue
	}
	if in.Fee != nil {
		updated.Fee = in.Fee
	}
	if in.Notes != nil {
		updated.Notes = in.Notes
	}

	// Slot fields always come from the configuration in effect now, not the
	// one the event was created under.
	slot := cfg.TimeSlots[updated.TimeSlot]
	updated.StartTime = slot.Start
	updated.EndTime = slot.End
	updated.Duration = slot.Hours
	updated.UpdatedAt = s.now()

	if err := backend.Update(ctx, updated); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	s.logger.Info("Event updated", zap.String("event_id", id))

	return updated, nil
}

// Delete removes an event; deleting an unknown id is not an error.
func (s *EventService) Delete(ctx context.Context, id string) error {
	if err := s.stores.Pick(ctx).Delete(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	s.logger.Info("Event deleted", zap.String("event_id", id))
	return nil
}

// GetByID returns (nil, nil) for unknown ids.
func (s *EventService) GetByID(ctx context.Context, id string) (*model.Event, error) {
	return s.stores.Pick(ctx).GetByID(ctx, id)
}

// ListAll returns every event sorted by date, then start time.
func (s *EventService) ListAll(ctx context.Context) ([]*model.Event, error) {
	return s.stores.Pick(ctx).ListAll(ctx)
}

// ByDate returns one day's events sorted by start time.
func (s *EventService) ByDate(ctx context.Context, date string) ([]*model.Event, error) {
	return s.stores.Pick(ctx).ListByDate(ctx, date)
}

// Range returns events between two dates, inclusive on both ends.
func (s *EventService) Range(ctx context.Context, from, to string) ([]*model.Event, error) {
	return s.stores.Pick(ctx).ListRange(ctx, from, to)
}

// RangeDays returns events over days consecutive dates starting at start.
func (s *EventService) RangeDays(ctx context.Context, start time.Time, days int) ([]*model.Event, error) {
	from := dateutil.DateString(start)
	to := dateutil.DateString(dateutil.AddDays(start, days-1))
	return s.Range(ctx, from, to)
}

// Today returns today's events.
func (s *EventService) Today(ctx context.Context) ([]*model.Event, error) {
	return s.ByDate(ctx, dateutil.DateString(s.now()))
}

// Week returns the events of the Monday-to-Sunday week containing ref.
func (s *EventService) Week(ctx context.Context, ref time.Time) ([]*model.Event, error) {
	return s.Range(ctx, dateutil.DateString(dateutil.StartOfWeek(ref)), dateutil.DateString(dateutil.EndOfWeek(ref)))
}

// Month returns the events of the calendar month containing ref.
func (s *EventService) Month(ctx context.Context, ref time.Time) ([]*model.Event, error) {
	return s.Range(ctx, dateutil.DateString(dateutil.StartOfMonth(ref)), dateutil.DateString(dateutil.EndOfMonth(ref)))
}

// Season returns the events of the ski season containing ref.
func (s *EventService) Season(ctx context.Context, ref time.Time) ([]*model.Event, error) {
	return s.Range(ctx, dateutil.DateString(dateutil.StartOfSeason(ref)), dateutil.DateString(dateutil.EndOfSeason(ref)))
}

// ImportResult reports per-row outcomes of a CSV import.
type ImportResult struct {
	Imported int `json:"imported"`
	Failed   int `json:"failed"`
}

// ImportCSV decodes a CSV document and imports the rows. Any parse error
// blocks the whole import; the messages are returned for the operator.
func (s *EventService) ImportCSV(ctx context.Context, text string, seasonStartYear int) (ImportResult, []string, error) {
	rows, parseErrs := csvcodec.Decode(text, seasonStartYear)
	if len(parseErrs) > 0 {
		return ImportResult{}, parseErrs, nil
	}
	res, err := s.ImportRows(ctx, rows)
	return res, nil, err
}

// ImportRows turns parsed rows into events. Every import lands in the
// morning slot's configured times; a row's own duration overrides the
// configured hours but start and end stay the morning slot's. Row failures
// are counted without aborting the batch.
func (s *EventService) ImportRows(ctx context.Context, rows []csvcodec.Row) (ImportResult, error) {
	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return ImportResult{}, fmt.Errorf("load config: %w", err)
	}
	slot := cfg.TimeSlots[model.SlotMorning]
	backend := s.stores.Pick(ctx)

	var res ImportResult
	for _, row := range rows {
		duration := slot.Hours
		if row.Duration != nil {
			duration = *row.Duration
		}
		now := s.now()
		event := &model.Event{
			ID:        s.newID(),
			Type:      row.Type,
			Date:      row.Date,
			TimeSlot:  model.SlotMorning,
			StartTime: slot.Start,
			EndTime:   slot.End,
			Duration:  duration,
			Title:     row.Title,
			Venue:     row.Venue,
			Fee:       row.Fee,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := backend.Insert(ctx, event); err != nil {
			s.logger.Warn("Import row failed", zap.String("date", row.Date), zap.Error(err))
			res.Failed++
			continue
		}
		res.Imported++
	}

	s.logger.Info("CSV import finished",
		zap.Int("imported", res.Imported),
		zap.Int("failed", res.Failed),
	)

	return res, nil
}
