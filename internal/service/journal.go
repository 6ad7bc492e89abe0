package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"scan_kiosk/internal/logger"
	"scan_kiosk/internal/models"
	"scan_kiosk/internal/repository"
)

// JournalService writes the maintenance log.
type JournalService struct {
	eventRepo repository.EventRepo
}

func NewJournalService(eventRepo repository.EventRepo) *JournalService {
	return &JournalService{eventRepo: eventRepo}
}

func (s *JournalService) Note(ctx context.Context, typ, description string, meta any) error {
	return s.eventRepo.Append(ctx, models.KioskEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        typ,
		Description: description,
		Metadata:    meta,
	})
}

// SinkFaultJournal records LED sink fault transitions. It is called from
// the feedback tick loop, so writes happen on their own goroutine.
type SinkFaultJournal struct {
	journal Journal
	log     *logger.Logger
	timeout time.Duration
}

func NewSinkFaultJournal(j Journal, log *logger.Logger) *SinkFaultJournal {
	if log == nil {
		log = logger.Nop()
	}
	return &SinkFaultJournal{journal: j, log: log, timeout: 5 * time.Second}
}

func (s *SinkFaultJournal) SinkFault(err error) {
	s.note(models.EventSinkFault, "LED sink write failing", map[string]any{"err": err.Error()})
}

func (s *SinkFaultJournal) SinkRecovered() {
	s.note(models.EventSinkRecovered, "LED sink recovered", nil)
}

func (s *SinkFaultJournal) note(typ, description string, meta any) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.journal.Note(ctx, typ, description, meta); err != nil {
			s.log.Errorw("journal_write_failed", "type", typ, "err", err)
		}
	}()
}
