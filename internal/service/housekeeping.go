package service

import (
	"context"
	"time"

	"scan_kiosk/internal/logger"
)

// HousekeepingService sweeps expired dedup entries so the table stays small
// on kiosks that run for months.
type HousekeepingService struct {
	dedup DedupTable
	log   *logger.Logger
}

func NewHousekeepingService(dedup DedupTable, log *logger.Logger) *HousekeepingService {
	if log == nil {
		log = logger.Nop()
	}
	return &HousekeepingService{dedup: dedup, log: log}
}

// Run ticks at the given interval until ctx is canceled.
func (s *HousekeepingService) Run(ctx context.Context, tick time.Duration) {
	if s.dedup == nil || tick <= 0 {
		return
	}
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sweep()
		}
	}
}

func (s *HousekeepingService) sweep() int {
	n := s.dedup.Sweep()
	if n > 0 {
		s.log.Debugw("dedup_swept", "removed", n, "remaining", s.dedup.DedupLen())
	}
	return n
}
