package service

import (
	"context"
	"fmt"
	"time"

	"scan_kiosk/internal/models"
	"scan_kiosk/internal/repository"
)

type StatsService struct {
	statsRepo repository.StatsRepo
	journal   Journal
	now       func() time.Time
}

func NewStatsService(statsRepo repository.StatsRepo, journal Journal) *StatsService {
	return &StatsService{statsRepo: statsRepo, journal: journal, now: time.Now}
}

// Record counts one outcome. An UNAUTHORIZED outcome also lands in the
// maintenance log: the machine token needs rotating.
func (s *StatsService) Record(ctx context.Context, o models.Outcome) error {
	if !o.Valid() {
		return fmt.Errorf("record outcome: unknown outcome %q", o)
	}
	if err := s.statsRepo.Increment(ctx, o, s.now().UTC()); err != nil {
		return err
	}
	if o == models.OutcomeUnauthorized && s.journal != nil {
		return s.journal.Note(ctx, models.EventAuthRejected, "validation service rejected the machine token", nil)
	}
	return nil
}
