package models

import "time"

// KioskStatus is the snapshot served by the status endpoint.
type KioskStatus struct {
	KioskID      string         `json:"kiosk_id"`
	Light        LightSnapshot  `json:"light"`
	Screen       ScreenSnapshot `json:"screen"`
	Stats        KioskStats     `json:"stats"`
	DedupEntries int            `json:"dedup_entries"`
	At           time.Time      `json:"at"`
}

// LightSnapshot describes the indicator light.
type LightSnapshot struct {
	Mode  string    `json:"mode"`            // IDLE | SOLID | BLINK
	Color string    `json:"color,omitempty"` // commanded color, hex
	Until time.Time `json:"until,omitempty"` // zero when holding
	Shown string    `json:"shown"`           // last color written to the sink, hex
}

// ScreenSnapshot describes what the render surface currently shows.
type ScreenSnapshot struct {
	Kind    string    `json:"kind"` // idle | success | error
	Outcome string    `json:"outcome,omitempty"`
	Title   string    `json:"title,omitempty"`
	Message string    `json:"message,omitempty"`
	Order   *Order    `json:"order,omitempty"`
	Since   time.Time `json:"since"`
}
