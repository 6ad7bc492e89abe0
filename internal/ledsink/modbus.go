package ledsink

import (
	"errors"
	"sync"
	"time"

	"github.com/goburrow/modbus"

	"scan_kiosk/internal/feedback"
)

// ModbusSink drives an LED controller that exposes the strip color as three
// consecutive holding registers (R, G, B; 0..255 each).
type ModbusSink struct {
	mu       sync.Mutex
	handler  *modbus.TCPClientHandler
	client   modbus.Client
	register uint16
}

type ModbusConfig struct {
	Endpoint string
	UnitID   uint8
	Register uint16
	Timeout  time.Duration
}

// NewModbusSink connects once so a missing controller fails at startup.
// Later writes reconnect on demand.
func NewModbusSink(cfg ModbusConfig) (*ModbusSink, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("ledsink modbus: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Second
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.UnitID

	if err := h.Connect(); err != nil {
		return nil, err
	}

	return &ModbusSink{
		handler:  h,
		client:   modbus.NewClient(h),
		register: cfg.Register,
	}, nil
}

func (s *ModbusSink) Write(c feedback.Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	regs := []uint16{uint16(c.R), uint16(c.G), uint16(c.B)}
	_, err := s.client.WriteMultipleRegisters(s.register, uint16(len(regs)), packRegisters(regs))
	return err
}

func (s *ModbusSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handler.Close()
}

func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}
