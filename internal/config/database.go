package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Database points at the optional Postgres journal of finished games.
// Either URL or the discrete fields may be set; URL wins.
type Database struct {
	URL      string `yaml:"url"`
	Username string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     uint16 `yaml:"port"`
	DBName   string `yaml:"db_name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func loadPassword() (string, bool, error) {
	password, ok := os.LookupEnv("POSTGRES_PASSWORD")
	if ok {
		return password, true, nil
	}

	passwordFile, ok := os.LookupEnv("POSTGRES_PASSWORD_FILE")
	if !ok {
		return "", false, nil
	}

	data, err := os.ReadFile(passwordFile)
	if err != nil {
		return "", false, fmt.Errorf("unable to read from password file: %w", err)
	}

	return strings.TrimSpace(string(data)), true, nil
}

func (d *Database) applyEnv() error {
	lookupString("DATABASE_URL", &d.URL)
	lookupString("POSTGRES_USER", &d.Username)
	lookupString("POSTGRES_HOST", &d.Host)
	lookupString("POSTGRES_DB", &d.DBName)
	lookupString("POSTGRES_SSLMODE", &d.SSLMode)

	password, ok, err := loadPassword()
	if err != nil {
		return fmt.Errorf("unable to load password: %w", err)
	}
	if ok {
		d.Password = password
	}

	if portStr, ok := os.LookupEnv("POSTGRES_PORT"); ok {
		port, err := strconv.ParseUint(portStr, 10, 16)
		if err != nil {
			return fmt.Errorf("unable to convert port to int: %w", err)
		}
		d.Port = uint16(port)
	}

	return nil
}

func (d Database) Configured() bool {
	return d.URL != "" || d.Host != ""
}

func (d Database) ConnString() string {
	if d.URL != "" {
		return d.URL
	}
	port := d.Port
	if port == 0 {
		port = 5432
	}
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.Username),
		url.QueryEscape(d.Password),
		d.Host,
		port,
		d.DBName,
		sslMode,
	)
}

func (d Database) PgxpoolConfig() (*pgxpool.Config, error) {
	if !d.Configured() {
		return nil, fmt.Errorf("no DATABASE_URL or POSTGRES_HOST set")
	}
	return pgxpool.ParseConfig(d.ConnString())
}
