package ledsink

import (
	"fmt"
	"time"

	"scan_kiosk/internal/feedback"
	"scan_kiosk/internal/logger"
)

// Supported drivers.
const (
	DriverLog    = "log"
	DriverModbus = "modbus"
	DriverUDP    = "udp"
)

type Config struct {
	Driver   string
	Endpoint string
	UnitID   uint8
	Register uint16
	Timeout  time.Duration
}

// Build acquires the configured sink. The returned closer releases it.
func Build(cfg Config, log *logger.Logger) (feedback.Sink, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case DriverLog, "":
		return NewLogSink(log), noop, nil

	case DriverModbus:
		ms, err := NewModbusSink(ModbusConfig{
			Endpoint: cfg.Endpoint,
			UnitID:   cfg.UnitID,
			Register: cfg.Register,
			Timeout:  cfg.Timeout,
		})
		if err != nil {
			return nil, nil, err
		}
		a := NewAsync(ms, log)
		return a, a.Close, nil

	case DriverUDP:
		us, err := NewUDPSink(cfg.Endpoint)
		if err != nil {
			return nil, nil, err
		}
		return us, us.Close, nil

	default:
		return nil, nil, fmt.Errorf("ledsink: unknown driver %q", cfg.Driver)
	}
}
