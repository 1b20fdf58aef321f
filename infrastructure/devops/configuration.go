package devops

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"praxido.de/praxido/tracking/core"
)

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type DatabaseConfig struct {
	DSN            string `yaml:"dsn"`
	MaxConnections int    `yaml:"maxConnections"`
}

type AuthConfig struct {
	// SigningSecret is the base64-encoded HS256 secret shared with the
	// identity service.
	SigningSecret string `yaml:"signingSecret"`
}

type ExportConfig struct {
	// Bucket receives a copy of every generated export; empty disables
	// archiving.
	Bucket string `yaml:"bucket"`
}

// WorkTimeConfig carries the daily targets the overtime ledger works
// against. WeekdayTargets overrides the flat default per lowercase
// English weekday name, e.g. friday: 360.
type WorkTimeConfig struct {
	DailyTargetMinutes int            `yaml:"dailyTargetMinutes"`
	WeekdayTargets     map[string]int `yaml:"weekdayTargets"`
}

type Configuration struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Export   ExportConfig   `yaml:"export"`
	WorkTime WorkTimeConfig `yaml:"workTime"`
}

var (
	once    sync.Once
	loaded  *Configuration
	loadErr error
)

// Load reads the YAML file named by PRAXIDO_CONFIG (optional) and
// applies environment overrides on top. Subsequent calls return the
// first result.
func Load() (*Configuration, error) {
	once.Do(func() {
		cfg := &Configuration{
			Server:   ServerConfig{Addr: ":8080"},
			Database: DatabaseConfig{MaxConnections: 10},
			WorkTime: WorkTimeConfig{DailyTargetMinutes: 480},
		}

		if path := os.Getenv("PRAXIDO_CONFIG"); path != "" {
			raw, err := os.ReadFile(path)
			if err != nil {
				loadErr = fmt.Errorf("read config %s: %w", path, err)
				return
			}
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				loadErr = fmt.Errorf("unmarshal config %s: %w", path, err)
				return
			}
		}

		if v := os.Getenv("PRAXIDO_HTTP_ADDR"); v != "" {
			cfg.Server.Addr = v
		}
		if v := os.Getenv("PRAXIDO_DSN"); v != "" {
			cfg.Database.DSN = v
		}
		if v := os.Getenv("PRAXIDO_SIGNING_SECRET"); v != "" {
			cfg.Auth.SigningSecret = v
		}
		if v := os.Getenv("PRAXIDO_EXPORT_BUCKET"); v != "" {
			cfg.Export.Bucket = v
		}

		if cfg.Database.DSN == "" {
			loadErr = fmt.Errorf("database DSN is not configured (PRAXIDO_DSN)")
			return
		}
		if cfg.Auth.SigningSecret == "" {
			loadErr = fmt.Errorf("signing secret is not configured (PRAXIDO_SIGNING_SECRET)")
			return
		}
		if cfg.WorkTime.DailyTargetMinutes <= 0 {
			cfg.WorkTime.DailyTargetMinutes = 480
		}

		loaded = cfg
	})

	return loaded, loadErr
}

// TargetResolver builds the per-date target function for the overtime
// ledger from the configured defaults.
func (w WorkTimeConfig) TargetResolver() core.TargetResolver {
	return func(date string) int {
		if len(w.WeekdayTargets) > 0 {
			if t, err := time.Parse("2006-01-02", date); err == nil {
				weekday := strings.ToLower(t.Weekday().String())
				if target, ok := w.WeekdayTargets[weekday]; ok {
					return target
				}
			}
		}
		return w.DailyTargetMinutes
	}
}
