package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"scan_kiosk/internal/models"
)

type StatsSQLite struct {
	db *sql.DB
}

func NewStatsSQLite(db *sql.DB) *StatsSQLite {
	return &StatsSQLite{db: db}
}

const (
	kioskStatsRowID = 1

	// adds the one-hot counter deltas to the single row
	incrementStatsSQL = `
		INSERT INTO kiosk_stats (id, accepted, rejected, unauthorized, transport_failed, last_outcome, last_outcome_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			accepted=kiosk_stats.accepted + excluded.accepted,
			rejected=kiosk_stats.rejected + excluded.rejected,
			unauthorized=kiosk_stats.unauthorized + excluded.unauthorized,
			transport_failed=kiosk_stats.transport_failed + excluded.transport_failed,
			last_outcome=excluded.last_outcome,
			last_outcome_at=excluded.last_outcome_at,
			updated_at=excluded.updated_at
	`

	selectStatsSQL = `
		SELECT id, accepted, rejected, unauthorized, transport_failed, last_outcome, last_outcome_at, updated_at
		FROM kiosk_stats WHERE id=?
	`
)

var errUnknownOutcome = errors.New("unknown outcome")

// Increment counts one outcome observed at the given time.
func (r *StatsSQLite) Increment(ctx context.Context, outcome models.Outcome, at time.Time) error {
	var delta [4]int64
	switch outcome {
	case models.OutcomeAccepted:
		delta[0] = 1
	case models.OutcomeRejected:
		delta[1] = 1
	case models.OutcomeUnauthorized:
		delta[2] = 1
	case models.OutcomeTransportFailure:
		delta[3] = 1
	default:
		return fmt.Errorf("increment stats: %w %q", errUnknownOutcome, outcome)
	}

	if at.IsZero() {
		at = time.Now()
	}
	at = at.UTC()

	_, err := r.db.ExecContext(ctx, incrementStatsSQL,
		kioskStatsRowID,
		delta[0], delta[1], delta[2], delta[3],
		string(outcome),
		at,
		at,
	)
	if err != nil {
		return fmt.Errorf("increment stats: %w", err)
	}
	return nil
}

// Load returns the counters. Before the first outcome all counters are zero.
func (r *StatsSQLite) Load(ctx context.Context) (models.KioskStats, error) {
	row := r.db.QueryRowContext(ctx, selectStatsSQL, kioskStatsRowID)

	var (
		s      models.KioskStats
		lastAt sql.NullTime
	)
	if err := row.Scan(
		&s.ID,
		&s.Accepted,
		&s.Rejected,
		&s.Unauthorized,
		&s.TransportFailed,
		&s.LastOutcome,
		&lastAt,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.KioskStats{ID: kioskStatsRowID}, nil
		}
		return models.KioskStats{}, err
	}

	if lastAt.Valid {
		s.LastOutcomeAt = lastAt.Time.UTC()
	}
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}
