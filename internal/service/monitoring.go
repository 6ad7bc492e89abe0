package service

import (
	"context"
	"time"

	"scan_kiosk/internal/feedback"
	"scan_kiosk/internal/models"
	"scan_kiosk/internal/repository"
)

type MonitoringService struct {
	kiosk     Kiosk
	statsRepo repository.StatsRepo
	now       func() time.Time
}

func NewMonitoringService(k Kiosk, statsRepo repository.StatsRepo) *MonitoringService {
	return &MonitoringService{kiosk: k, statsRepo: statsRepo, now: time.Now}
}

// GetStatus combines the live light and screen state with the persisted
// outcome counters.
func (s *MonitoringService) GetStatus(ctx context.Context) (models.KioskStatus, error) {
	stats, err := s.statsRepo.Load(ctx)
	if err != nil {
		return models.KioskStatus{}, err
	}
	stats.UpdatedAt = toUTC(stats.UpdatedAt)
	stats.LastOutcomeAt = toUTC(stats.LastOutcomeAt)

	st := models.KioskStatus{
		KioskID: s.kiosk.ID,
		Stats:   stats,
		At:      s.now().UTC(),
	}
	if s.kiosk.Light != nil {
		st.Light = LightSnapshot(s.kiosk.Light)
	}
	if s.kiosk.Screen != nil {
		st.Screen = s.kiosk.Screen.Current()
	}
	if s.kiosk.Dedup != nil {
		st.DedupEntries = s.kiosk.Dedup.DedupLen()
	}
	return st, nil
}

// LightSnapshot describes the commanded and the displayed color.
func LightSnapshot(l Light) models.LightSnapshot {
	cmd := l.Current()
	snap := models.LightSnapshot{
		Mode:  cmd.Mode.String(),
		Until: toUTC(cmd.Until),
		Shown: l.LastColor().Hex(),
	}
	if cmd.Mode != feedback.ModeIdle {
		snap.Color = cmd.Color.Hex()
	}
	return snap
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
