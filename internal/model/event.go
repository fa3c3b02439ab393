package model

import "time"

// EventType values keep the original Chinese labels so CSV, share text and
// remote rows round-trip without a translation layer.
type EventType string

const (
	EventTypeCourse   EventType = "课程" // teaching session, billable
	EventTypeTrial    EventType = "试课" // legacy trial class, read-only
	EventTypePractice EventType = "练活" // personal practice
	EventTypeTraining EventType = "培训" // coach training, fee is a cost
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case EventTypeCourse, EventTypeTrial, EventTypePractice, EventTypeTraining:
		return true
	}
	return false
}

type TimeSlot string

const (
	SlotMorning   TimeSlot = "上午"
	SlotAfternoon TimeSlot = "下午"
	SlotEvening   TimeSlot = "夜场"
	SlotFullDay   TimeSlot = "全天"
)

// AllSlots is the display order used by the availability grid and share text.
var AllSlots = []TimeSlot{SlotMorning, SlotAfternoon, SlotEvening, SlotFullDay}

// Valid reports whether s is one of the four configured slots.
func (s TimeSlot) Valid() bool {
	switch s {
	case SlotMorning, SlotAfternoon, SlotEvening, SlotFullDay:
		return true
	}
	return false
}

// Event is a scheduled occurrence. StartTime, EndTime and Duration are
// snapshots of the slot configuration in effect at the last write; they are
// never recomputed when the configuration changes later.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Date      string    `json:"date"` // YYYY-MM-DD, naive calendar date
	TimeSlot  TimeSlot  `json:"timeSlot"`
	StartTime string    `json:"startTime"` // HH:mm
	EndTime   string    `json:"endTime"`   // HH:mm
	Duration  float64   `json:"duration"`  // hours
	Title     string    `json:"title"`     // student name or activity description
	Venue     *string   `json:"venue,omitempty"`
	Fee       *float64  `json:"fee,omitempty"` // income for billable types, cost for training
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a deep copy, so stores can hand out events without sharing
// pointer fields with their internal state.
func (e *Event) Clone() *Event {
	c := *e
	if e.Venue != nil {
		v := *e.Venue
		c.Venue = &v
	}
	if e.Fee != nil {
		f := *e.Fee
		c.Fee = &f
	}
	if e.Notes != nil {
		n := *e.Notes
		c.Notes = &n
	}
	return &c
}
