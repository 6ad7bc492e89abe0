package screen

import (
	"scan_kiosk/internal/logger"
)

const DefaultBusSize = 16

// Bus carries events from validation goroutines to the surface.
type Bus struct {
	ch  chan Event
	log *logger.Logger
}

func NewBus(size int, log *logger.Logger) *Bus {
	if size <= 0 {
		size = DefaultBusSize
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Bus{ch: make(chan Event, size), log: log}
}

// Publish never blocks. When the surface falls behind the event is dropped.
func (b *Bus) Publish(ev Event) {
	select {
	case b.ch <- ev:
	default:
		b.log.Warnw("screen_event_dropped", "kind", ev.Kind, "outcome", ev.Outcome)
	}
}

func (b *Bus) Events() <-chan Event {
	return b.ch
}
