// Package feedback drives the kiosk's indicator light.
//
// A Machine holds exactly one Command. Setters replace it under a mutex and
// may be called from any goroutine; the tick loop copies the committed
// command, applies expiry, renders a color and writes it to the Sink.
package feedback

import (
	"context"
	"sync"
	"time"

	"scan_kiosk/internal/logger"
)

// Sink receives one color per tick. It is write-only; the machine never
// reads state back from hardware.
type Sink interface {
	Write(c Color) error
}

// FaultObserver is told when sink writes start failing and when they recover.
type FaultObserver interface {
	SinkFault(err error)
	SinkRecovered()
}

// Reference timings.
const (
	DefaultTick          = 50 * time.Millisecond
	DefaultBlinkInterval = 300 * time.Millisecond
	DefaultIdleLeg       = 3 * time.Second
)

// Config tunes the tick loop and the animations.
type Config struct {
	Tick          time.Duration
	BlinkInterval time.Duration
	IdleLeg       time.Duration
	IdlePalette   []Color
}

// DefaultConfig returns the reference timings and the housing palette.
func DefaultConfig() Config {
	return Config{
		Tick:          DefaultTick,
		BlinkInterval: DefaultBlinkInterval,
		IdleLeg:       DefaultIdleLeg,
		IdlePalette:   []Color{LogoBlue, LogoTurquoise, White},
	}
}

// Machine is the indicator state machine.
type Machine struct {
	cfg      Config
	sink     Sink
	log      *logger.Logger
	now      func() time.Time
	observer FaultObserver

	mu    sync.Mutex
	cmd   Command
	shown Color

	// touched only by the tick loop
	sinkFailing bool
}

// Option customizes a Machine.
type Option func(*Machine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// WithFaultObserver registers o for sink fault transitions.
func WithFaultObserver(o FaultObserver) Option {
	return func(m *Machine) { m.observer = o }
}

// New returns a Machine in Idle.
func New(cfg Config, sink Sink, log *logger.Logger, opts ...Option) *Machine {
	if cfg.Tick <= 0 {
		cfg.Tick = DefaultTick
	}
	if cfg.BlinkInterval <= 0 {
		cfg.BlinkInterval = DefaultBlinkInterval
	}
	if cfg.IdleLeg <= 0 {
		cfg.IdleLeg = DefaultIdleLeg
	}
	if log == nil {
		log = logger.Nop()
	}

	m := &Machine{
		cfg:  cfg,
		sink: sink,
		log:  log,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.cmd = idleCommand(m.now())
	return m
}

// SetIdle cancels any timeout and restarts the idle animation.
func (m *Machine) SetIdle() {
	m.commit(idleCommand(m.now()))
}

// SetSolid shows c continuously. A positive timeout reverts to Idle once
// elapsed; zero or negative holds until the next command.
func (m *Machine) SetSolid(c Color, timeout time.Duration) {
	m.commit(m.timed(ModeSolid, c, timeout))
}

// SetBlink flashes c for duration, then reverts to Idle. Zero or negative
// blinks until the next command.
func (m *Machine) SetBlink(c Color, duration time.Duration) {
	m.commit(m.timed(ModeBlink, c, duration))
}

// Current returns the committed command.
func (m *Machine) Current() Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cmd
}

// LastColor returns the color most recently handed to the sink.
func (m *Machine) LastColor() Color {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shown
}

// Step advances the machine to now and returns the color to display.
// An expired Solid or Blink becomes Idle with its animation clock at now.
func (m *Machine) Step(now time.Time) Color {
	m.mu.Lock()
	if m.cmd.expired(now) {
		m.cmd = idleCommand(now)
	}
	cmd := m.cmd
	m.mu.Unlock()

	return m.render(cmd, now)
}

// Run ticks until ctx is done. The first frame is written immediately.
func (m *Machine) Run(ctx context.Context) {
	t := time.NewTicker(m.cfg.Tick)
	defer t.Stop()

	m.push(m.Step(m.now()))
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.push(m.Step(m.now()))
		}
	}
}

func (m *Machine) timed(mode Mode, c Color, d time.Duration) Command {
	now := m.now()
	cmd := Command{Mode: mode, Color: c, Since: now}
	if d > 0 {
		cmd.Until = now.Add(d)
	}
	return cmd
}

func (m *Machine) commit(cmd Command) {
	m.mu.Lock()
	m.cmd = cmd
	m.mu.Unlock()
	m.log.Debugw("feedback_command", "mode", cmd.Mode.String(), "color", cmd.Color.Hex(), "until", cmd.Until)
}

func (m *Machine) render(cmd Command, now time.Time) Color {
	elapsed := now.Sub(cmd.Since)
	switch cmd.Mode {
	case ModeSolid:
		return cmd.Color
	case ModeBlink:
		return blinkColor(cmd.Color, m.cfg.BlinkInterval, elapsed)
	default:
		return IdleColor(m.cfg.IdlePalette, m.cfg.IdleLeg, elapsed)
	}
}

// push writes c to the sink. Failures are logged and never touch the
// command; the next tick simply writes again.
func (m *Machine) push(c Color) {
	m.mu.Lock()
	m.shown = c
	m.mu.Unlock()

	if m.sink == nil {
		return
	}
	err := m.sink.Write(c)
	switch {
	case err != nil && !m.sinkFailing:
		m.sinkFailing = true
		m.log.Errorw("led_sink_write_failed", "err", err, "color", c.Hex())
		if m.observer != nil {
			m.observer.SinkFault(err)
		}
	case err != nil:
		m.log.Debugw("led_sink_write_failed", "err", err)
	case m.sinkFailing:
		m.sinkFailing = false
		m.log.Infow("led_sink_recovered")
		if m.observer != nil {
			m.observer.SinkRecovered()
		}
	}
}
