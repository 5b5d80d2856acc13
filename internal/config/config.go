package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/vancomm/sweeper/internal/mines"
)

type Duration struct{ time.Duration }

// [Duration] implements [yaml.Unmarshaler]
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

type Game struct {
	Size      int    `yaml:"size"`
	MineCount int    `yaml:"mine_count"`
	Placement string `yaml:"placement"`
	// MaxSize caps the side length a client may request.
	MaxSize int `yaml:"max_size"`
}

// Sessions controls eviction of in-memory sessions. A zero TTL disables
// that rule.
type Sessions struct {
	IdleTTL       Duration `yaml:"idle_ttl"`
	FinishedTTL   Duration `yaml:"finished_ttl"`
	SweepInterval Duration `yaml:"sweep_interval"`
}

type Log struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type Config struct {
	Mode           string   `yaml:"mode"`
	Addr           string   `yaml:"addr"`
	BasePath       string   `yaml:"base_path"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	Game           Game     `yaml:"game"`
	Sessions       Sessions `yaml:"sessions"`
	Log            Log      `yaml:"log"`
	Database       Database `yaml:"database"`
	JWT            JWT      `yaml:"jwt"`
}

const DefaultMaxSize = 100

func Default() *Config {
	return &Config{
		Mode: "development",
		Addr: ":8080",
		Game: Game{
			Size:      mines.DefaultSize,
			MineCount: mines.DefaultMineCount,
			Placement: mines.ShuffleSampling.String(),
			MaxSize:   DefaultMaxSize,
		},
		Sessions: Sessions{
			IdleTTL:       Duration{time.Hour},
			FinishedTTL:   Duration{10 * time.Minute},
			SweepInterval: Duration{time.Minute},
		},
		Log: Log{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		JWT: JWT{TokenLifetime: Duration{24 * time.Hour}},
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when path is empty), then a .env file in the working directory,
// then the process environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("unable to parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("unable to load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := mines.ValidateParams(c.Game.Size, c.Game.MineCount); err != nil {
		return fmt.Errorf("game defaults: %w", err)
	}
	if c.Game.MaxSize < c.Game.Size {
		return fmt.Errorf(
			"game defaults: %w: max size %d is below default size %d",
			mines.ErrInvalidConfiguration, c.Game.MaxSize, c.Game.Size,
		)
	}
	if c.Sessions.SweepInterval.Duration <= 0 {
		return errors.New("sessions: sweep interval must be positive")
	}
	if _, err := mines.ParsePlacement(c.Game.Placement); err != nil {
		return fmt.Errorf("game defaults: %w", err)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

func (c Config) Placement() mines.Placement {
	p, _ := mines.ParsePlacement(c.Game.Placement)
	return p
}

func (c Config) Production() bool {
	return c.Mode == "production"
}

func (c Config) Development() bool {
	return c.Mode != "production"
}

// Fields lists non-secret settings for logging.
func (c Config) Fields() logrus.Fields {
	return logrus.Fields{
		"mode":               c.Mode,
		"addr":               c.Addr,
		"base_path":          c.BasePath,
		"allowed_origins":    strings.Join(c.AllowedOrigins, ","),
		"game_size":          c.Game.Size,
		"game_mine_count":    c.Game.MineCount,
		"game_placement":     c.Game.Placement,
		"game_max_size":      c.Game.MaxSize,
		"session_idle_ttl":   c.Sessions.IdleTTL.String(),
		"session_done_ttl":   c.Sessions.FinishedTTL.String(),
		"log_level":          c.Log.Level,
		"log_file":           c.Log.File,
		"database":           c.Database.Configured(),
		"jwt_token_lifetime": c.JWT.TokenLifetime.String(),
	}
}
