package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"scan_kiosk/internal/feedback"
	"scan_kiosk/internal/models"
)

// maxLampTestSeconds bounds operator lamp tests.
const maxLampTestSeconds = 600

var (
	errEmptyScan        = errors.New("scan value is empty")
	errScanUnavailable  = errors.New("scan injection is not available")
	errInvalidLampMode  = errors.New("invalid mode: must be IDLE, SOLID, or BLINK")
	errInvalidLampColor = errors.New("invalid color: want #rrggbb")
	errInvalidLampTime  = errors.New("invalid seconds: SOLID needs 0..600, BLINK needs 1..600")
)

type ControlService struct {
	light   Light
	scans   ScanInjector
	journal Journal
}

func NewControlService(light Light, scans ScanInjector, journal Journal) *ControlService {
	return &ControlService{light: light, scans: scans, journal: journal}
}

// InjectScan feeds value through the same path a hardware scan takes,
// dedup window included.
func (s *ControlService) InjectScan(ctx context.Context, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return errEmptyScan
	}
	if s.scans == nil {
		return errScanUnavailable
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.scans.Push(value)
}

// LampTest drives the light directly and logs a LAMP_TEST event.
func (s *ControlService) LampTest(ctx context.Context, p LampParams) error {
	mode := strings.ToUpper(strings.TrimSpace(p.Mode))

	var c feedback.Color
	switch mode {
	case LampIdle:
	case LampSolid, LampBlink:
		var err error
		if c, err = feedback.ParseHex(p.Color); err != nil {
			return errInvalidLampColor
		}
		if p.Seconds < 0 || p.Seconds > maxLampTestSeconds || (mode == LampBlink && p.Seconds == 0) {
			return errInvalidLampTime
		}
	default:
		return errInvalidLampMode
	}

	d := time.Duration(p.Seconds) * time.Second
	switch mode {
	case LampIdle:
		s.light.SetIdle()
	case LampSolid:
		s.light.SetSolid(c, d)
	case LampBlink:
		s.light.SetBlink(c, d)
	}

	meta := map[string]any{"mode": mode}
	if mode != LampIdle {
		meta["color"] = c.Hex()
		meta["seconds"] = p.Seconds
	}
	return s.journal.Note(ctx, models.EventLampTest, fmt.Sprintf("operator lamp test: %s", mode), meta)
}
