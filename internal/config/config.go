// Package config loads the kiosk configuration from configs/config.yml with
// KIOSK_-prefixed environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"scan_kiosk/internal/ledsink"
)

const EnvPrefix = "KIOSK"

// Scan sources.
const (
	SourceConsole = "console"
	SourceStdin   = "stdin"
	SourceNone    = "none"
)

type Config struct {
	LogLevel  string          `mapstructure:"log_level"`
	Port      string          `mapstructure:"port"`
	KioskID   string          `mapstructure:"kiosk_id"`
	DB        DBConfig        `mapstructure:"db"`
	Dedup     DedupConfig     `mapstructure:"dedup"`
	Validator ValidatorConfig `mapstructure:"validator"`
	Feedback  FeedbackConfig  `mapstructure:"feedback"`
	Screen    ScreenConfig    `mapstructure:"screen"`
	Beep      BeepConfig      `mapstructure:"beep"`
	LED       LEDConfig       `mapstructure:"led"`
	Scanner   ScannerConfig   `mapstructure:"scanner"`
	Auth      AuthConfig      `mapstructure:"auth"`
	MDNS      MDNSConfig      `mapstructure:"mdns"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type DedupConfig struct {
	Window        time.Duration `mapstructure:"window"`
	MaxEntries    int           `mapstructure:"max_entries"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type ValidatorConfig struct {
	URL     string        `mapstructure:"url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type FeedbackConfig struct {
	Tick             time.Duration `mapstructure:"tick"`
	BlinkInterval    time.Duration `mapstructure:"blink_interval"`
	IdleLeg          time.Duration `mapstructure:"idle_leg"`
	IdlePalette      []string      `mapstructure:"idle_palette"`
	SuccessColor     string        `mapstructure:"success_color"`
	ErrorColor       string        `mapstructure:"error_color"`
	WarningColor     string        `mapstructure:"warning_color"`
	AcceptedHold     time.Duration `mapstructure:"accepted_hold"`
	RejectedHold     time.Duration `mapstructure:"rejected_hold"`
	UnauthorizedHold time.Duration `mapstructure:"unauthorized_hold"`
	FailureBlink     time.Duration `mapstructure:"failure_blink"`
}

type ScreenConfig struct {
	SuccessRevert time.Duration `mapstructure:"success_revert"`
	ErrorRevert   time.Duration `mapstructure:"error_revert"`
	Console       bool          `mapstructure:"console"`
}

type BeepConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

type LEDConfig struct {
	Driver   string        `mapstructure:"driver"`
	Endpoint string        `mapstructure:"endpoint"`
	UnitID   uint8         `mapstructure:"unit_id"`
	Register uint16        `mapstructure:"register"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type ScannerConfig struct {
	Source string `mapstructure:"source"`
}

type AuthConfig struct {
	SigningKey  string        `mapstructure:"signing_key"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`
	AllowSignUp bool          `mapstructure:"allow_sign_up"`
}

type MDNSConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("port", "8080")
	v.SetDefault("kiosk_id", "kiosk-1")
	v.SetDefault("db.path", "kiosk.db")

	v.SetDefault("dedup.window", "5s")
	v.SetDefault("dedup.max_entries", 1024)
	v.SetDefault("dedup.sweep_interval", "1m")

	v.SetDefault("validator.url", "http://127.0.0.1:8000/api/v1/orders/validate-qr")
	v.SetDefault("validator.token", "")
	v.SetDefault("validator.timeout", "5s")

	v.SetDefault("feedback.tick", "50ms")
	v.SetDefault("feedback.blink_interval", "300ms")
	v.SetDefault("feedback.idle_leg", "3s")
	v.SetDefault("feedback.idle_palette", []string{"#0066cc", "#00a8a8", "#ffffff"})
	v.SetDefault("feedback.success_color", "#00ff00")
	v.SetDefault("feedback.error_color", "#ff0000")
	v.SetDefault("feedback.warning_color", "#ffa500")
	v.SetDefault("feedback.accepted_hold", "10s")
	v.SetDefault("feedback.rejected_hold", "10s")
	v.SetDefault("feedback.unauthorized_hold", "3s")
	v.SetDefault("feedback.failure_blink", "3s")

	v.SetDefault("screen.success_revert", "8s")
	v.SetDefault("screen.error_revert", "6s")
	v.SetDefault("screen.console", true)

	v.SetDefault("beep.enabled", false)
	v.SetDefault("beep.addr", "127.0.0.1:5005")

	v.SetDefault("led.driver", ledsink.DriverLog)
	v.SetDefault("led.endpoint", "")
	v.SetDefault("led.unit_id", 1)
	v.SetDefault("led.register", 0)
	v.SetDefault("led.timeout", "1s")

	v.SetDefault("scanner.source", SourceConsole)

	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", "1h")
	v.SetDefault("auth.allow_sign_up", false)

	v.SetDefault("mdns.enabled", false)
}

// Load reads config.yml from dir. A missing file is not an error; defaults
// and the environment still apply.
func Load(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
