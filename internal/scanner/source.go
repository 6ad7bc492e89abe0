// Package scanner feeds decoded codes into the dispatcher.
package scanner

import (
	"bufio"
	"context"
	"errors"
	"io"
	"sync"
)

// Source yields one decoded value per call. io.EOF ends the stream.
type Source interface {
	Next(ctx context.Context) (string, error)
}

var ErrSourceBusy = errors.New("scanner: source busy")

type line struct {
	text string
	err  error
}

// LineSource reads newline-terminated codes, the way keyboard-wedge USB
// scanners deliver them. Close stops the reader goroutine and closes r
// when r is an io.Closer.
type LineSource struct {
	r     io.Reader
	once  sync.Once
	lines chan line

	done      chan struct{}
	closeOnce sync.Once
}

func NewLineSource(r io.Reader) *LineSource {
	return &LineSource{r: r, lines: make(chan line), done: make(chan struct{})}
}

func (s *LineSource) Next(ctx context.Context) (string, error) {
	s.once.Do(func() { go s.read() })

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-s.lines:
		if !ok {
			return "", io.EOF
		}
		return l.text, l.err
	}
}

func (s *LineSource) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		if c, ok := s.r.(io.Closer); ok {
			err = c.Close()
		}
	})
	return err
}

func (s *LineSource) read() {
	defer close(s.lines)
	sc := bufio.NewScanner(s.r)
	for sc.Scan() {
		if !s.send(line{text: sc.Text()}) {
			return
		}
	}
	if err := sc.Err(); err != nil {
		s.send(line{err: err})
	}
}

func (s *LineSource) send(l line) bool {
	select {
	case <-s.done:
		return false
	case s.lines <- l:
		return true
	}
}

// ChannelSource carries codes injected by the operator API.
type ChannelSource struct {
	ch     chan string
	mu     sync.RWMutex
	closed bool
}

func NewChannelSource(size int) *ChannelSource {
	if size <= 0 {
		size = 8
	}
	return &ChannelSource{ch: make(chan string, size)}
}

// Push queues value without blocking.
func (s *ChannelSource) Push(value string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return io.ErrClosedPipe
	}
	select {
	case s.ch <- value:
		return nil
	default:
		return ErrSourceBusy
	}
}

func (s *ChannelSource) Next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case v, ok := <-s.ch:
		if !ok {
			return "", io.EOF
		}
		return v, nil
	}
}

func (s *ChannelSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
	return nil
}
