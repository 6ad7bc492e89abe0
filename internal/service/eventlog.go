package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"scan_kiosk/internal/models"
	"scan_kiosk/internal/repository"
)

type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

var (
	errInvalidTimeRange = errors.New("invalid time range: From must be <= To")
	errUnknownEventType = errors.New("unknown event type")
)

var knownEventTypes = map[string]bool{
	models.EventStart:         true,
	models.EventStop:          true,
	models.EventLampTest:      true,
	models.EventSinkFault:     true,
	models.EventSinkRecovered: true,
	models.EventAuthRejected:  true,
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := toUTC(f.From)
	to := toUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}

	eventType := normalizeEventType(f.Type)
	if eventType != "" && !knownEventTypes[eventType] {
		return time.Time{}, time.Time{}, "", fmt.Errorf("%w: %q", errUnknownEventType, eventType)
	}
	return from, to, eventType, nil
}

// List returns maintenance events matching f, oldest first.
func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.KioskEvent, error) {
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, from, to, typ)
}
