package feedback

import (
	"errors"
	"sync"
	"time"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// fakeClock is a settable clock shared between a test and a Machine.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(at time.Time) *fakeClock { return &fakeClock{now: at} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(at time.Time) {
	c.mu.Lock()
	c.now = at
	c.mu.Unlock()
}

// recordingSink records writes and can be told to fail.
type recordingSink struct {
	mu     sync.Mutex
	writes []Color
	fail   bool
}

var errSinkDown = errors.New("strip unplugged")

func (s *recordingSink) Write(c Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = append(s.writes, c)
	if s.fail {
		return errSinkDown
	}
	return nil
}

func (s *recordingSink) setFail(v bool) {
	s.mu.Lock()
	s.fail = v
	s.mu.Unlock()
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.writes)
}

// faultCounter implements FaultObserver.
type faultCounter struct {
	mu        sync.Mutex
	faults    int
	recovered int
}

func (f *faultCounter) SinkFault(error) {
	f.mu.Lock()
	f.faults++
	f.mu.Unlock()
}

func (f *faultCounter) SinkRecovered() {
	f.mu.Lock()
	f.recovered++
	f.mu.Unlock()
}

func (f *faultCounter) get() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.faults, f.recovered
}
