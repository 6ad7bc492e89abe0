package feedback

import "time"

// Mode is the indicator's display mode.
type Mode uint8

const (
	ModeIdle Mode = iota
	ModeSolid
	ModeBlink
)

// String returns the mode name used by the status API.
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "IDLE"
	case ModeSolid:
		return "SOLID"
	case ModeBlink:
		return "BLINK"
	default:
		return "UNKNOWN"
	}
}

// Command is the current feedback command. Since is when it was issued and
// drives both the blink phase and the idle animation clock. A zero Until
// means the command holds until replaced.
type Command struct {
	Mode  Mode
	Color Color
	Since time.Time
	Until time.Time
}

func idleCommand(now time.Time) Command {
	return Command{Mode: ModeIdle, Since: now}
}

// expired reports whether a timed Solid or Blink has run out at now.
func (c Command) expired(now time.Time) bool {
	if c.Mode == ModeIdle || c.Until.IsZero() {
		return false
	}
	return !now.Before(c.Until)
}
