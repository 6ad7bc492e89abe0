package screen

import (
	"context"
	"sync"
	"time"

	"scan_kiosk/internal/logger"
	"scan_kiosk/internal/models"
)

const (
	DefaultSuccessRevert = 8 * time.Second
	DefaultErrorRevert   = 6 * time.Second
)

// Renderer draws a page. It is called from the surface goroutine only.
type Renderer interface {
	Render(s models.ScreenSnapshot)
}

type Config struct {
	SuccessRevert time.Duration
	ErrorRevert   time.Duration
}

// Surface owns the current page. Only Run mutates it.
type Surface struct {
	cfg       Config
	bus       *Bus
	renderers []Renderer
	log       *logger.Logger
	now       func() time.Time

	mu      sync.RWMutex
	current models.ScreenSnapshot

	subMu sync.Mutex
	subs  map[chan models.ScreenSnapshot]struct{}
}

func NewSurface(cfg Config, bus *Bus, log *logger.Logger, renderers ...Renderer) *Surface {
	if cfg.SuccessRevert <= 0 {
		cfg.SuccessRevert = DefaultSuccessRevert
	}
	if cfg.ErrorRevert <= 0 {
		cfg.ErrorRevert = DefaultErrorRevert
	}
	if log == nil {
		log = logger.Nop()
	}
	s := &Surface{
		cfg:       cfg,
		bus:       bus,
		renderers: renderers,
		log:       log,
		now:       time.Now,
		subs:      make(map[chan models.ScreenSnapshot]struct{}),
	}
	s.current = snapshot(Idle(s.now()))
	return s
}

// Run shows the idle page and then follows the bus until ctx is done.
// Success and error pages revert to idle on their own timer; a new event
// replaces the page and restarts the timer.
func (s *Surface) Run(ctx context.Context) {
	var (
		timer  *time.Timer
		revert <-chan time.Time
	)
	stop := func() {
		if timer != nil {
			timer.Stop()
		}
		timer, revert = nil, nil
	}
	defer stop()

	s.show(Idle(s.now()))

	for {
		select {
		case <-ctx.Done():
			return

		case ev := <-s.bus.Events():
			stop()
			s.show(ev)
			if d := s.revertAfter(ev.Kind); d > 0 {
				timer = time.NewTimer(d)
				revert = timer.C
			}

		case <-revert:
			timer, revert = nil, nil
			s.show(Idle(s.now()))
		}
	}
}

func (s *Surface) revertAfter(k Kind) time.Duration {
	switch k {
	case KindSuccess:
		return s.cfg.SuccessRevert
	case KindError:
		return s.cfg.ErrorRevert
	default:
		return 0
	}
}

func (s *Surface) show(ev Event) {
	if ev.At.IsZero() {
		ev.At = s.now()
	}
	snap := snapshot(ev)

	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()

	s.log.Debugw("screen_page", "kind", snap.Kind, "title", snap.Title)

	for _, r := range s.renderers {
		r.Render(snap)
	}
	s.broadcast(snap)
}

// Current returns what is on screen.
func (s *Surface) Current() models.ScreenSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe streams page changes. A subscriber that does not keep up misses
// pages. The returned func unsubscribes and closes the channel.
func (s *Surface) Subscribe() (<-chan models.ScreenSnapshot, func()) {
	ch := make(chan models.ScreenSnapshot, 4)

	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, ch)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

func (s *Surface) broadcast(snap models.ScreenSnapshot) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}
