package models

import "time"

// Maintenance event types. Scan values are never part of an event.
const (
	EventStart         = "START"
	EventStop          = "STOP"
	EventLampTest      = "LAMP_TEST"
	EventSinkFault     = "SINK_FAULT"
	EventSinkRecovered = "SINK_RECOVERED"
	EventAuthRejected  = "AUTH_REJECTED"
)

// KioskEvent is a single maintenance log entry.
type KioskEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // START | STOP | LAMP_TEST | SINK_FAULT | SINK_RECOVERED | AUTH_REJECTED
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
