package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func lookupString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func lookupInt(key string, dst *int) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s must be an int: %w", key, err)
	}
	*dst = n
	return nil
}

func lookupDuration(key string, dst *Duration) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s must be a duration: %w", key, err)
	}
	dst.Duration = d
	return nil
}

func (c *Config) applyEnv() error {
	lookupString("APP_MODE", &c.Mode)
	lookupString("APP_ADDR", &c.Addr)
	lookupString("APP_BASE_PATH", &c.BasePath)
	if origins, ok := os.LookupEnv("APP_ALLOWED_ORIGINS"); ok {
		c.AllowedOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.AllowedOrigins = append(c.AllowedOrigins, o)
			}
		}
	}

	if err := lookupInt("GAME_SIZE", &c.Game.Size); err != nil {
		return err
	}
	if err := lookupInt("GAME_MINES", &c.Game.MineCount); err != nil {
		return err
	}
	lookupString("GAME_PLACEMENT", &c.Game.Placement)
	if err := lookupInt("GAME_MAX_SIZE", &c.Game.MaxSize); err != nil {
		return err
	}

	if err := lookupDuration("SESSION_IDLE_TTL", &c.Sessions.IdleTTL); err != nil {
		return err
	}
	if err := lookupDuration("SESSION_FINISHED_TTL", &c.Sessions.FinishedTTL); err != nil {
		return err
	}
	if err := lookupDuration("SESSION_SWEEP_INTERVAL", &c.Sessions.SweepInterval); err != nil {
		return err
	}

	lookupString("LOG_LEVEL", &c.Log.Level)
	lookupString("LOG_FILE", &c.Log.File)

	if err := c.Database.applyEnv(); err != nil {
		return err
	}

	lookupString("JWT_SECRET", &c.JWT.Secret)
	if err := lookupDuration("JWT_TOKEN_LIFETIME", &c.JWT.TokenLifetime); err != nil {
		return err
	}

	return nil
}
