package model

// TimeSlotConfig defines when a named slot starts and ends and how many
// teaching hours it is worth.
type TimeSlotConfig struct {
	Start string  `json:"start"` // HH:mm
	End   string  `json:"end"`   // HH:mm
	Hours float64 `json:"hours"`
}

type PricingConfig struct {
	HourlyRate float64 `json:"hourlyRate"`
	Standard3h float64 `json:"standard3h"`
	FullDay5h  float64 `json:"fullDay5h"`
	TrialClass float64 `json:"trialClass"`
}

// EventTypeConfig carries per-type presentation and billing attributes.
// Color is only used by clients.
type EventTypeConfig struct {
	Billable bool   `json:"billable"`
	Color    string `json:"color"`
}

// Config is the installation-wide singleton read by every event write.
type Config struct {
	TimeSlots  map[TimeSlot]TimeSlotConfig  `json:"timeSlots"`
	Pricing    PricingConfig                `json:"pricing"`
	EventTypes map[EventType]EventTypeConfig `json:"eventTypes"`
}

// DefaultConfig returns the built-in configuration used when no record has
// been saved yet. Callers get a fresh copy on every call.
func DefaultConfig() *Config {
	return &Config{
		TimeSlots: map[TimeSlot]TimeSlotConfig{
			SlotMorning:   {Start: "08:30", End: "12:00", Hours: 3},
			SlotAfternoon: {Start: "13:00", End: "16:30", Hours: 3},
			SlotEvening:   {Start: "18:30", End: "21:30", Hours: 3},
			SlotFullDay:   {Start: "08:30", End: "16:30", Hours: 5},
		},
		Pricing: PricingConfig{
			HourlyRate: 500,
			Standard3h: 1500,
			FullDay5h:  2500,
			TrialClass: 1000,
		},
		EventTypes: map[EventType]EventTypeConfig{
			EventTypeCourse:   {Billable: true, Color: "#4CAF50"},
			EventTypeTrial:    {Billable: true, Color: "#FFC107"},
			EventTypePractice: {Billable: false, Color: "#2196F3"},
			EventTypeTraining: {Billable: false, Color: "#9C27B0"},
		},
	}
}
