package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"scan_kiosk/internal/dedup"
	"scan_kiosk/internal/dispatch"
	"scan_kiosk/internal/feedback"
	"scan_kiosk/internal/ledsink"
	"scan_kiosk/internal/screen"
	"scan_kiosk/internal/validation"
)

var (
	errValidatorURL  = errors.New("config: validator.url must be an absolute http(s) URL")
	errUnknownDriver = errors.New("config: unknown led.driver")
	errUnknownSource = errors.New("config: unknown scanner.source")
	errLEDEndpoint   = errors.New("config: led.endpoint required for this driver")
	errEmptyPalette  = errors.New("config: feedback.idle_palette is empty")
)

// Validate rejects settings the kiosk cannot run with.
func (c *Config) Validate() error {
	positive := []struct {
		key string
		d   time.Duration
	}{
		{"dedup.window", c.Dedup.Window},
		{"dedup.sweep_interval", c.Dedup.SweepInterval},
		{"validator.timeout", c.Validator.Timeout},
		{"feedback.tick", c.Feedback.Tick},
		{"feedback.blink_interval", c.Feedback.BlinkInterval},
		{"feedback.idle_leg", c.Feedback.IdleLeg},
		{"feedback.accepted_hold", c.Feedback.AcceptedHold},
		{"feedback.rejected_hold", c.Feedback.RejectedHold},
		{"feedback.unauthorized_hold", c.Feedback.UnauthorizedHold},
		{"feedback.failure_blink", c.Feedback.FailureBlink},
		{"screen.success_revert", c.Screen.SuccessRevert},
		{"screen.error_revert", c.Screen.ErrorRevert},
		{"auth.token_ttl", c.Auth.TokenTTL},
	}
	for _, p := range positive {
		if p.d <= 0 {
			return fmt.Errorf("config: %s must be positive, got %s", p.key, p.d)
		}
	}

	if c.Dedup.MaxEntries < 0 {
		return fmt.Errorf("config: dedup.max_entries must not be negative, got %d", c.Dedup.MaxEntries)
	}

	u, err := url.Parse(c.Validator.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errValidatorURL
	}

	if len(c.Feedback.IdlePalette) == 0 {
		return errEmptyPalette
	}
	if _, err := c.IdlePalette(); err != nil {
		return err
	}
	for _, s := range []string{c.Feedback.SuccessColor, c.Feedback.ErrorColor, c.Feedback.WarningColor} {
		if _, err := feedback.ParseHex(s); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}

	switch c.LED.Driver {
	case ledsink.DriverLog:
	case ledsink.DriverModbus, ledsink.DriverUDP:
		if c.LED.Endpoint == "" {
			return fmt.Errorf("%w (%s)", errLEDEndpoint, c.LED.Driver)
		}
	default:
		return fmt.Errorf("%w %q", errUnknownDriver, c.LED.Driver)
	}

	switch c.Scanner.Source {
	case SourceConsole, SourceStdin, SourceNone:
	default:
		return fmt.Errorf("%w %q", errUnknownSource, c.Scanner.Source)
	}

	return nil
}

// IdlePalette parses the configured idle colors.
func (c *Config) IdlePalette() ([]feedback.Color, error) {
	out := make([]feedback.Color, 0, len(c.Feedback.IdlePalette))
	for _, s := range c.Feedback.IdlePalette {
		col, err := feedback.ParseHex(s)
		if err != nil {
			return nil, fmt.Errorf("config: feedback.idle_palette: %w", err)
		}
		out = append(out, col)
	}
	return out, nil
}

// FeedbackConfig returns the light machine settings. Call after Validate.
func (c *Config) FeedbackConfig() feedback.Config {
	palette, _ := c.IdlePalette()
	return feedback.Config{
		Tick:          c.Feedback.Tick,
		BlinkInterval: c.Feedback.BlinkInterval,
		IdleLeg:       c.Feedback.IdleLeg,
		IdlePalette:   palette,
	}
}

// DispatchConfig returns colors and holds for the dispatcher. Call after
// Validate.
func (c *Config) DispatchConfig() dispatch.Config {
	success, _ := feedback.ParseHex(c.Feedback.SuccessColor)
	failure, _ := feedback.ParseHex(c.Feedback.ErrorColor)
	warning, _ := feedback.ParseHex(c.Feedback.WarningColor)
	return dispatch.Config{
		Timeout:          c.Validator.Timeout,
		SuccessColor:     success,
		ErrorColor:       failure,
		WarningColor:     warning,
		AcceptedHold:     c.Feedback.AcceptedHold,
		RejectedHold:     c.Feedback.RejectedHold,
		UnauthorizedHold: c.Feedback.UnauthorizedHold,
		FailureBlink:     c.Feedback.FailureBlink,
	}
}

func (c *Config) ValidationConfig() validation.Config {
	return validation.Config{
		URL:     c.Validator.URL,
		Token:   c.Validator.Token,
		Timeout: c.Validator.Timeout,
	}
}

func (c *Config) ScreenConfig() screen.Config {
	return screen.Config{
		SuccessRevert: c.Screen.SuccessRevert,
		ErrorRevert:   c.Screen.ErrorRevert,
	}
}

func (c *Config) LEDConfig() ledsink.Config {
	return ledsink.Config{
		Driver:   c.LED.Driver,
		Endpoint: c.LED.Endpoint,
		UnitID:   c.LED.UnitID,
		Register: c.LED.Register,
		Timeout:  c.LED.Timeout,
	}
}

func (c *Config) NewDeduplicator() *dedup.Deduplicator {
	return dedup.New(c.Dedup.Window, c.Dedup.MaxEntries)
}
