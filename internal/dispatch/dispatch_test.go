package dispatch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scan_kiosk/internal/dedup"
	"scan_kiosk/internal/feedback"
	"scan_kiosk/internal/logger"
	"scan_kiosk/internal/models"
	"scan_kiosk/internal/screen"
	"scan_kiosk/internal/validation"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type stubValidator struct {
	calls atomic.Int32
	fn    func(ctx context.Context, req validation.Request) validation.Result
}

func (s *stubValidator) Validate(ctx context.Context, req validation.Request) validation.Result {
	s.calls.Add(1)
	return s.fn(ctx, req)
}

type capturePublisher struct {
	mu     sync.Mutex
	events []screen.Event
}

func (p *capturePublisher) Publish(ev screen.Event) {
	p.mu.Lock()
	p.events = append(p.events, ev)
	p.mu.Unlock()
}

func (p *capturePublisher) all() []screen.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]screen.Event(nil), p.events...)
}

type countingAck struct {
	n   atomic.Int32
	err error
}

func (a *countingAck) Ack() error {
	a.n.Add(1)
	return a.err
}

type captureRecorder struct {
	mu       sync.Mutex
	outcomes []models.Outcome
}

func (r *captureRecorder) Record(_ context.Context, o models.Outcome) error {
	r.mu.Lock()
	r.outcomes = append(r.outcomes, o)
	r.mu.Unlock()
	return errors.New("db locked")
}

type fixture struct {
	clk   *clock
	light *feedback.Machine
	pub   *capturePublisher
	ack   *countingAck
	rec   *captureRecorder
	d     *Dispatcher
}

func newFixture(t *testing.T, v Validator, timeout time.Duration) *fixture {
	t.Helper()
	f := &fixture{
		clk: &clock{now: t0},
		pub: &capturePublisher{},
		ack: &countingAck{},
		rec: &captureRecorder{},
	}
	f.light = feedback.New(feedback.DefaultConfig(), nil, logger.Nop(), feedback.WithClock(f.clk.Now))

	cfg := DefaultConfig()
	cfg.Timeout = timeout
	f.d = New(cfg, dedup.New(5*time.Second, 0), v, f.light, f.pub, logger.Nop(),
		WithAcknowledger(f.ack),
		WithRecorder(f.rec),
		WithClock(f.clk.Now),
	)
	return f
}

func answering(res validation.Result) *stubValidator {
	return &stubValidator{fn: func(context.Context, validation.Request) validation.Result { return res }}
}

// A repeated scan inside the window issues one request.
func TestOnScan_DuplicateWithinWindow(t *testing.T) {
	v := answering(validation.Result{Outcome: models.OutcomeRejected, Message: "x"})
	f := newFixture(t, v, time.Second)

	assert.True(t, f.d.OnScan("ABC123"))
	f.clk.Advance(time.Second)
	assert.False(t, f.d.OnScan("ABC123"))
	f.d.Wait()

	assert.EqualValues(t, 1, v.calls.Load())
	assert.Len(t, f.pub.all(), 1)
	require.Eventually(t, func() bool { return f.ack.n.Load() == 1 }, time.Second, time.Millisecond)

	f.clk.Advance(4 * time.Second)
	assert.True(t, f.d.OnScan("ABC123"))
	f.d.Wait()
	assert.EqualValues(t, 2, v.calls.Load())
}

func TestOnScan_BlankIgnored(t *testing.T) {
	v := answering(validation.Result{Outcome: models.OutcomeAccepted})
	f := newFixture(t, v, time.Second)

	assert.False(t, f.d.OnScan(""))
	assert.False(t, f.d.OnScan("   "))
	f.d.Wait()
	assert.Zero(t, v.calls.Load())
	assert.Zero(t, f.ack.n.Load())
}

// Accepted order over real HTTP: green hold, ok screen, ack sent.
func TestOnScan_Accepted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"valid": true, "order": {"id": 7, "prescriptions": [{"medication_name": "Ibuprofen 400mg"}]}}`))
	}))
	defer srv.Close()

	client := validation.NewClient(validation.Config{URL: srv.URL, Token: "t", Timeout: time.Second}, logger.Nop())
	f := newFixture(t, client, time.Second)

	require.True(t, f.d.OnScan("ABC123"))
	f.d.Wait()

	cmd := f.light.Current()
	assert.Equal(t, feedback.ModeSolid, cmd.Mode)
	assert.Equal(t, feedback.Green, cmd.Color)
	assert.Equal(t, t0.Add(10*time.Second), cmd.Until)

	events := f.pub.all()
	require.Len(t, events, 1)
	assert.Equal(t, screen.KindSuccess, events[0].Kind)
	require.NotNil(t, events[0].Order)
	assert.Equal(t, "7", events[0].Order.ID)
	require.Len(t, events[0].Order.Items, 1)
	assert.Equal(t, "Ibuprofen 400mg", events[0].Order.Items[0].Name)

	assert.Equal(t, []models.Outcome{models.OutcomeAccepted}, f.rec.outcomes)
}

func TestOnScan_Rejected(t *testing.T) {
	f := newFixture(t, answering(validation.Result{Outcome: models.OutcomeRejected, Message: "already dispensed"}), time.Second)

	f.d.OnScan("USED-1")
	f.d.Wait()

	cmd := f.light.Current()
	assert.Equal(t, feedback.ModeSolid, cmd.Mode)
	assert.Equal(t, feedback.Red, cmd.Color)
	assert.Equal(t, t0.Add(10*time.Second), cmd.Until)

	events := f.pub.all()
	require.Len(t, events, 1)
	assert.Equal(t, screen.KindError, events[0].Kind)
	assert.Equal(t, models.OutcomeRejected, events[0].Outcome)
	assert.Equal(t, "already dispensed", events[0].Message)
}

// A validation that times out blinks the warning color for 3s,
// then the light goes back to idle on its own.
func TestOnScan_TimeoutBlinksThenIdles(t *testing.T) {
	v := &stubValidator{fn: func(ctx context.Context, _ validation.Request) validation.Result {
		<-ctx.Done()
		return validation.Result{Outcome: models.OutcomeTransportFailure, Err: ctx.Err()}
	}}
	f := newFixture(t, v, 30*time.Millisecond)

	require.True(t, f.d.OnScan("SLOW"))
	f.d.Wait()

	cmd := f.light.Current()
	assert.Equal(t, feedback.ModeBlink, cmd.Mode)
	assert.Equal(t, feedback.Amber, cmd.Color)
	assert.Equal(t, t0.Add(3*time.Second), cmd.Until)

	assert.Equal(t, feedback.Amber, f.light.Step(t0))
	assert.Equal(t, feedback.Off, f.light.Step(t0.Add(300*time.Millisecond)))
	f.light.Step(t0.Add(3 * time.Second))
	assert.Equal(t, feedback.ModeIdle, f.light.Current().Mode)

	events := f.pub.all()
	require.Len(t, events, 1)
	assert.Equal(t, screen.KindError, events[0].Kind)
	assert.Equal(t, validation.MessageConnectionFailed, events[0].Message)
}

func TestOnScan_TimeoutOverHTTP(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := validation.NewClient(validation.Config{URL: srv.URL, Timeout: time.Minute}, logger.Nop())
	f := newFixture(t, client, 50*time.Millisecond)

	f.d.OnScan("SLOW")
	f.d.Wait()
	assert.Equal(t, feedback.ModeBlink, f.light.Current().Mode)
}

// 401 from the service shows the unauthorized screen and red light.
func TestOnScan_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := validation.NewClient(validation.Config{URL: srv.URL, Token: "stale", Timeout: time.Second}, logger.Nop())
	f := newFixture(t, client, time.Second)

	f.d.OnScan("ABC123")
	f.d.Wait()

	cmd := f.light.Current()
	assert.Equal(t, feedback.ModeSolid, cmd.Mode)
	assert.Equal(t, feedback.Red, cmd.Color)
	assert.Equal(t, t0.Add(3*time.Second), cmd.Until)

	events := f.pub.all()
	require.Len(t, events, 1)
	assert.Equal(t, screen.KindError, events[0].Kind)
	assert.Equal(t, models.OutcomeUnauthorized, events[0].Outcome)
	assert.Equal(t, validation.MessageAccessDenied, events[0].Message)
}

func TestOnScan_LastResponseWins(t *testing.T) {
	slowDone := make(chan struct{})
	v := &stubValidator{fn: func(_ context.Context, req validation.Request) validation.Result {
		if req.Value == "SLOW" {
			<-slowDone
			return validation.Result{Outcome: models.OutcomeRejected, Message: "late"}
		}
		return validation.Result{Outcome: models.OutcomeAccepted, Order: &models.Order{ID: "1"}}
	}}
	f := newFixture(t, v, time.Second)

	f.d.OnScan("SLOW")
	f.d.OnScan("FAST")
	require.Eventually(t, func() bool { return len(f.pub.all()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, feedback.Green, f.light.Current().Color)

	close(slowDone)
	f.d.Wait()
	assert.Equal(t, feedback.Red, f.light.Current().Color)
	assert.Len(t, f.pub.all(), 2)
}

func TestOnScan_DoesNotBlockOnValidation(t *testing.T) {
	block := make(chan struct{})
	v := &stubValidator{fn: func(context.Context, validation.Request) validation.Result {
		<-block
		return validation.Result{Outcome: models.OutcomeRejected}
	}}
	f := newFixture(t, v, time.Minute)

	done := make(chan struct{})
	go func() {
		for _, code := range []string{"A", "B", "C"} {
			f.d.OnScan(code)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("OnScan waited for the network")
	}
	close(block)
	f.d.Wait()
	assert.EqualValues(t, 3, v.calls.Load())
}

func TestSweep(t *testing.T) {
	f := newFixture(t, answering(validation.Result{Outcome: models.OutcomeRejected}), time.Second)
	f.d.OnScan("A")
	f.d.OnScan("B")
	f.d.Wait()
	assert.Equal(t, 2, f.d.DedupLen())

	f.clk.Advance(5 * time.Second)
	assert.Equal(t, 2, f.d.Sweep())
	assert.Zero(t, f.d.DedupLen())
}
