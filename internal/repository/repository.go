package repository

import (
	"context"
	"database/sql"
	"time"

	"scan_kiosk/internal/models"
)

type Operators interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.Operator, error)
}

type StatsRepo interface {
	Increment(ctx context.Context, outcome models.Outcome, at time.Time) error
	Load(ctx context.Context) (models.KioskStats, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.KioskEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.KioskEvent, error)
}

type Repository struct {
	StatsRepo StatsRepo
	EventRepo EventRepo
	Operators Operators
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		StatsRepo: NewStatsSQLite(db),
		EventRepo: NewEventSQLite(db),
		Operators: NewOperatorRepository(db),
	}
}
