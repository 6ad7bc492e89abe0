// Package dispatch turns decoded scans into validation round trips and maps
// each result onto the indicator light and the screen.
package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"scan_kiosk/internal/dedup"
	"scan_kiosk/internal/feedback"
	"scan_kiosk/internal/logger"
	"scan_kiosk/internal/models"
	"scan_kiosk/internal/screen"
	"scan_kiosk/internal/validation"
)

// Validator performs one validation round trip. It must fold every failure
// into the returned result.
type Validator interface {
	Validate(ctx context.Context, req validation.Request) validation.Result
}

// Feedback is the part of the light the dispatcher commands.
type Feedback interface {
	SetSolid(c feedback.Color, timeout time.Duration)
	SetBlink(c feedback.Color, duration time.Duration)
}

// Publisher delivers screen events without blocking.
type Publisher interface {
	Publish(ev screen.Event)
}

// Acknowledger signals "scan received" before validation starts.
type Acknowledger interface {
	Ack() error
}

// Recorder counts outcomes.
type Recorder interface {
	Record(ctx context.Context, o models.Outcome) error
}

// Config holds the outcome colors and hold times.
type Config struct {
	Timeout time.Duration

	SuccessColor feedback.Color
	ErrorColor   feedback.Color
	WarningColor feedback.Color

	AcceptedHold     time.Duration
	RejectedHold     time.Duration
	UnauthorizedHold time.Duration
	FailureBlink     time.Duration
}

// DefaultConfig returns the production colors and hold times.
func DefaultConfig() Config {
	return Config{
		Timeout:          validation.DefaultTimeout,
		SuccessColor:     feedback.Green,
		ErrorColor:       feedback.Red,
		WarningColor:     feedback.Amber,
		AcceptedHold:     10 * time.Second,
		RejectedHold:     10 * time.Second,
		UnauthorizedHold: 3 * time.Second,
		FailureBlink:     3 * time.Second,
	}
}

// Dispatcher turns raw scans into validation requests and drives the light
// and screen from each outcome. Validations run on their own goroutines;
// Wait blocks until they finish.
type Dispatcher struct {
	cfg       Config
	dedup     *dedup.Deduplicator
	validator Validator
	light     Feedback
	screen    Publisher
	ack       Acknowledger
	recorder  Recorder
	log       *logger.Logger
	now       func() time.Time

	// serializes the dedup table; OnScan has several callers
	mu sync.Mutex
	wg sync.WaitGroup
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithAcknowledger beeps on every dispatched scan, before validation.
func WithAcknowledger(a Acknowledger) Option {
	return func(d *Dispatcher) { d.ack = a }
}

// WithRecorder counts every outcome in r.
func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) { d.recorder = r }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// New builds a Dispatcher. A non-positive cfg.Timeout falls back to
// validation.DefaultTimeout and a nil log discards output.
func New(cfg Config, dd *dedup.Deduplicator, v Validator, light Feedback, pub Publisher, log *logger.Logger, opts ...Option) *Dispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = validation.DefaultTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	d := &Dispatcher{
		cfg:       cfg,
		dedup:     dd,
		validator: v,
		light:     light,
		screen:    pub,
		log:       log,
		now:       time.Now,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// OnScan handles one decoded value and reports whether it was dispatched.
// It returns without waiting for the network.
func (d *Dispatcher) OnScan(value string) bool {
	now := d.now()

	d.mu.Lock()
	fresh := d.dedup.IsNew(value, now)
	d.mu.Unlock()
	if !fresh {
		return false
	}

	if d.ack != nil {
		go func() {
			if err := d.ack.Ack(); err != nil {
				d.log.Warnw("scan_ack_failed", "err", err)
			}
		}()
	}

	req := validation.Request{ID: uuid.NewString(), Value: value}
	d.log.Infow("scan_dispatched", "request_id", req.ID)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.validate(req)
	}()
	return true
}

func (d *Dispatcher) validate(req validation.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.Timeout)
	defer cancel()

	res := d.validator.Validate(ctx, req)
	d.apply(req, res)

	if d.recorder != nil {
		if err := d.recorder.Record(context.Background(), res.Outcome); err != nil {
			d.log.Errorw("outcome_record_failed", "err", err, "outcome", res.Outcome)
		}
	}
}

// apply maps a result onto exactly one feedback command and one screen event.
func (d *Dispatcher) apply(req validation.Request, res validation.Result) {
	now := d.now()

	switch res.Outcome {
	case models.OutcomeAccepted:
		d.light.SetSolid(d.cfg.SuccessColor, d.cfg.AcceptedHold)
		d.screen.Publish(screen.Success(res.Order, now))
		d.log.Infow("scan_accepted", "request_id", req.ID, "order_id", orderID(res.Order))

	case models.OutcomeRejected:
		d.light.SetSolid(d.cfg.ErrorColor, d.cfg.RejectedHold)
		d.screen.Publish(screen.Error(res.Outcome, res.Message, now))
		d.log.Infow("scan_rejected", "request_id", req.ID, "message", res.Message)

	case models.OutcomeUnauthorized:
		d.light.SetSolid(d.cfg.ErrorColor, d.cfg.UnauthorizedHold)
		d.screen.Publish(screen.Error(res.Outcome, validation.MessageAccessDenied, now))
		d.log.Warnw("scan_unauthorized", "request_id", req.ID, "status", res.Status)

	default:
		d.light.SetBlink(d.cfg.WarningColor, d.cfg.FailureBlink)
		d.screen.Publish(screen.Error(models.OutcomeTransportFailure, validation.MessageConnectionFailed, now))
		d.log.Warnw("scan_transport_failure", "request_id", req.ID, "status", res.Status, "err", res.Err)
	}
}

// Wait blocks until every in-flight validation has applied its outcome.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Sweep drops expired dedup entries.
func (d *Dispatcher) Sweep() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dedup.Sweep(d.now())
}

// DedupLen reports how many values are currently tracked.
func (d *Dispatcher) DedupLen() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dedup.Len()
}

func orderID(o *models.Order) string {
	if o == nil {
		return ""
	}
	return o.ID
}
