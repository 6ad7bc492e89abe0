package models

import "time"

// KioskStats holds per-outcome counters. Single row, ID is always 1.
type KioskStats struct {
	ID              int       `json:"id"`
	Accepted        int64     `json:"accepted"`
	Rejected        int64     `json:"rejected"`
	Unauthorized    int64     `json:"unauthorized"`
	TransportFailed int64     `json:"transport_failed"`
	LastOutcome     string    `json:"last_outcome,omitempty"`
	LastOutcomeAt   time.Time `json:"last_outcome_at,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Total returns the number of validation round trips counted.
func (s KioskStats) Total() int64 {
	return s.Accepted + s.Rejected + s.Unauthorized + s.TransportFailed
}
