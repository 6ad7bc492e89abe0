package service

import (
	"context"
	"time"

	"scan_kiosk/internal/feedback"
	"scan_kiosk/internal/logger"
	"scan_kiosk/internal/models"
	"scan_kiosk/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Monitoring exposes the live kiosk snapshot.
type Monitoring interface {
	GetStatus(ctx context.Context) (models.KioskStatus, error)
}

// Control exposes operator actions on the running kiosk.
type Control interface {
	InjectScan(ctx context.Context, value string) error
	LampTest(ctx context.Context, p LampParams) error
}

// EventLog exposes the maintenance log.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.KioskEvent, error)
}

// Stats counts validation outcomes. It satisfies the dispatcher's recorder.
type Stats interface {
	Record(ctx context.Context, o models.Outcome) error
}

// Journal appends maintenance events.
type Journal interface {
	Note(ctx context.Context, typ, description string, meta any) error
}

// Housekeeper runs periodic maintenance until ctx is cancelled.
type Housekeeper interface {
	Run(ctx context.Context, tick time.Duration)
}

// Light is what the operator services need from the feedback machine.
type Light interface {
	Current() feedback.Command
	LastColor() feedback.Color
	SetIdle()
	SetSolid(c feedback.Color, timeout time.Duration)
	SetBlink(c feedback.Color, duration time.Duration)
}

// ScreenView reports the page on screen.
type ScreenView interface {
	Current() models.ScreenSnapshot
}

// ScanInjector queues a code into the scan pipeline without blocking.
type ScanInjector interface {
	Push(value string) error
}

// DedupTable is the dispatcher's dedup maintenance surface.
type DedupTable interface {
	Sweep() int
	DedupLen() int
}

// Kiosk groups the running components the services act on.
type Kiosk struct {
	ID     string
	Light  Light
	Screen ScreenView
	Scans  ScanInjector
	Dedup  DedupTable
}

type AuthOptions struct {
	SigningKey  string
	TokenTTL    time.Duration
	AllowSignUp bool
}

type Service struct {
	Authorization
	Monitoring
	Control
	EventLog
	Stats
	Journal
	Housekeeper
}

func NewService(repos *repository.Repository, k Kiosk, auth AuthOptions, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	journal := NewJournalService(repos.EventRepo)
	return &Service{
		Authorization: NewAuthService(repos.Operators, auth),
		Monitoring:    NewMonitoringService(k, repos.StatsRepo),
		Control:       NewControlService(k.Light, k.Scans, journal),
		EventLog:      NewEventLogService(repos.EventRepo),
		Stats:         NewStatsService(repos.StatsRepo, journal),
		Journal:       journal,
		Housekeeper:   NewHousekeepingService(k.Dedup, log),
	}
}
