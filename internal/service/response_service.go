package service

import (
	"errors"
	"time"
)

// Lamp test modes.
const (
	LampIdle  = "IDLE"
	LampSolid = "SOLID"
	LampBlink = "BLINK"
)

type LampParams struct {
	Mode    string // "IDLE" | "SOLID" | "BLINK"
	Color   string // "#rrggbb"; SOLID and BLINK only
	Seconds int    // SOLID: 0 holds; BLINK: must be > 0
}

// LogFilter selects maintenance events by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "START", "STOP", "LAMP_TEST", "SINK_FAULT", "SINK_RECOVERED", "AUTH_REJECTED"
}

// IsInvalidInput reports whether err came from rejecting operator input,
// as opposed to the kiosk failing to act on it.
func IsInvalidInput(err error) bool {
	for _, target := range []error{errEmptyScan, errInvalidLampMode, errInvalidLampColor, errInvalidLampTime, errInvalidTimeRange, errUnknownEventType} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
