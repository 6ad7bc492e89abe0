package scanner

import (
	"context"
	"errors"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"scan_kiosk/internal/logger"
)

// OnScan receives trimmed, non-empty values. It must not block on I/O.
type OnScan func(value string) bool

// Loop pulls from one source until it ends or ctx is done.
type Loop struct {
	src    Source
	onScan OnScan
	log    *logger.Logger
}

func NewLoop(src Source, onScan OnScan, log *logger.Logger) *Loop {
	if log == nil {
		log = logger.Nop()
	}
	return &Loop{src: src, onScan: onScan, log: log}
}

// Run returns nil when the source is exhausted or ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	if c, ok := l.src.(io.Closer); ok {
		closed := make(chan struct{})
		stop := context.AfterFunc(ctx, func() {
			_ = c.Close()
			close(closed)
		})
		defer func() {
			if !stop() {
				<-closed
			}
		}()
	}

	for {
		v, err := l.src.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			l.log.Errorw("scan_source_failed", "err", err)
			return err
		}

		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if l.onScan(v) {
			l.log.Debugw("scan_accepted")
		} else {
			l.log.Debugw("scan_suppressed")
		}
	}
}

// Merge runs one loop per source into the same handler and returns when
// all of them have stopped.
func Merge(ctx context.Context, onScan OnScan, log *logger.Logger, sources ...Source) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, src := range sources {
		loop := NewLoop(src, onScan, log)
		g.Go(func() error { return loop.Run(ctx) })
	}
	return g.Wait()
}
