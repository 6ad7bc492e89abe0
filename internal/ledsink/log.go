// Package ledsink holds the hardware sinks the feedback machine writes to.
package ledsink

import (
	"sync"

	"scan_kiosk/internal/feedback"
	"scan_kiosk/internal/logger"
)

// LogSink stands in for a strip on development machines. It logs color
// changes at debug level.
type LogSink struct {
	log *logger.Logger

	mu   sync.Mutex
	last feedback.Color
	seen bool
}

func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Write(c feedback.Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen && c == s.last {
		return nil
	}
	s.last, s.seen = c, true
	s.log.Debugw("led_color", "color", c.Hex())
	return nil
}
