// Package mockvalidator is a stand-in for the order validation service,
// driven by a YAML fixture file. It lets a kiosk be exercised end to end
// without the pharmacy backend.
package mockvalidator

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Fixture is the canned answer for one code.
type Fixture struct {
	// Status overrides the HTTP status; zero means 200.
	Status int `yaml:"status"`
	// Delay holds the response, e.g. to trip the kiosk timeout.
	Delay time.Duration `yaml:"delay"`
	// Body is sent as JSON.
	Body map[string]any `yaml:"body"`
	// Raw is sent verbatim instead of Body when set.
	Raw string `yaml:"raw"`
}

type Fixtures struct {
	// Token is the expected machine token; empty accepts any caller.
	Token string `yaml:"token"`
	// Delay applies to every response before the per-code delay.
	Delay time.Duration      `yaml:"delay"`
	Codes map[string]Fixture `yaml:"codes"`
}

// LoadFixtures reads and decodes a fixture file.
func LoadFixtures(path string) (*Fixtures, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return ParseFixtures(raw)
}

func ParseFixtures(raw []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	for code, fx := range f.Codes {
		if fx.Status != 0 && (fx.Status < 100 || fx.Status > 599) {
			return nil, fmt.Errorf("fixture %q: invalid status %d", code, fx.Status)
		}
		if fx.Delay < 0 {
			return nil, fmt.Errorf("fixture %q: negative delay", code)
		}
	}
	if f.Codes == nil {
		f.Codes = map[string]Fixture{}
	}
	return &f, nil
}
