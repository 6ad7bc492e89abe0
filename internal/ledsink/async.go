package ledsink

import (
	"errors"
	"io"
	"sync"

	"scan_kiosk/internal/feedback"
	"scan_kiosk/internal/logger"
)

var errSinkClosed = errors.New("ledsink: closed")

// Async decouples the tick loop from a sink that talks to slow hardware.
// Write parks the newest color in a one-slot mailbox and returns at once;
// a worker goroutine forwards it. Stale colors are overwritten, and a color
// equal to the last one written successfully is not sent again.
// The worker's latest inner failure is returned by Write until a later
// inner write succeeds, so callers still see fault transitions.
type Async struct {
	inner feedback.Sink
	log   *logger.Logger

	mailbox chan feedback.Color
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once

	mu  sync.Mutex
	err error
}

func NewAsync(inner feedback.Sink, log *logger.Logger) *Async {
	if log == nil {
		log = logger.Nop()
	}
	a := &Async{
		inner:   inner,
		log:     log,
		mailbox: make(chan feedback.Color, 1),
		done:    make(chan struct{}),
	}
	a.wg.Add(1)
	go a.worker()
	return a
}

// Write never blocks on the inner sink. It returns the pending inner
// failure, if any, after queuing c.
func (a *Async) Write(c feedback.Color) error {
	select {
	case <-a.done:
		return errSinkClosed
	default:
	}
	for {
		select {
		case a.mailbox <- c:
			return a.fault()
		default:
			// drop the stale color
			select {
			case <-a.mailbox:
			default:
			}
		}
	}
}

// Close stops the worker and closes the inner sink if it can be closed.
func (a *Async) Close() error {
	var err error
	a.once.Do(func() {
		close(a.done)
		a.wg.Wait()
		if c, ok := a.inner.(io.Closer); ok {
			err = c.Close()
		}
	})
	return err
}

func (a *Async) fault() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

func (a *Async) setFault(err error) {
	a.mu.Lock()
	a.err = err
	a.mu.Unlock()
}

func (a *Async) worker() {
	defer a.wg.Done()

	var (
		last    feedback.Color
		written bool
		failing bool
	)
	for {
		select {
		case <-a.done:
			return
		case c := <-a.mailbox:
			if written && c == last {
				continue
			}
			if err := a.inner.Write(c); err != nil {
				a.setFault(err)
				written = false
				if !failing {
					a.log.Errorw("led_sink_async_write_failed", "err", err)
					failing = true
				}
				continue
			}
			if failing {
				a.setFault(nil)
				a.log.Infow("led_sink_async_recovered")
				failing = false
			}
			last, written = c, true
		}
	}
}
