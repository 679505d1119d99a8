// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/iliyamo/room-reservation/internal/database"
	"github.com/iliyamo/room-reservation/internal/schedule"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env  string // APP_ENV (e.g. "dev", "prod")
	Port string // APP_PORT

	DB database.Options // DB_DRIVER, DB_USER, DB_PASS, DB_HOST, DB_PORT, DB_NAME, DB_PATH

	JWTSecret      string // JWT_SECRET
	AccessTTLMin   int    // ACCESS_TOKEN_TTL_MIN
	RefreshTTLDays int    // REFRESH_TOKEN_TTL_DAYS
	BcryptCost     int    // BCRYPT_COST

	TimeZone     string // APP_TIMEZONE, falling back to SCHOOL_TIMEZONE
	OpeningStart string // OPENING_HOURS_START
	OpeningEnd   string // OPENING_HOURS_END
	SlotMinutes  int    // SLOT_MINUTES

	LogLevel  string // LOG_LEVEL
	LogFormat string // LOG_FORMAT: json or text

	AMQPURL      string // RABBITMQ_URL or AMQP_URL; empty disables the broker
	AuditQueue   string // AUDIT_QUEUE
	AuditLogPath string // AUDIT_LOG_PATH

	SeedDemo          bool   // SEED_DEMO
	SeedAdminPassword string // SEED_ADMIN_PASSWORD
}

// LoadDotEnv loads .env into the environment when the file exists.
// Variables already set win over the file.
func LoadDotEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: ignoring .env: %v", err)
	}
}

// Load reads configuration values from the environment.  Missing or
// malformed required variables cause the program to exit with a fatal log
// message.
func Load() Config {
	cfg, err := Parse(os.LookupEnv)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

// Parse builds a Config from lookup.  All problems are reported together.
func Parse(lookup func(string) (string, bool)) (Config, error) {
	e := env{lookup: lookup}
	cfg := Config{
		Env:  e.str("APP_ENV", "dev"),
		Port: e.str("APP_PORT", "8080"),
		DB: database.Options{
			Driver: strings.ToLower(e.str("DB_DRIVER", database.DriverMySQL)),
		},
		JWTSecret:      e.must("JWT_SECRET"),
		AccessTTLMin:   e.num("ACCESS_TOKEN_TTL_MIN", 15),
		RefreshTTLDays: e.num("REFRESH_TOKEN_TTL_DAYS", 7),
		BcryptCost:     e.num("BCRYPT_COST", 12),

		TimeZone:     e.str("APP_TIMEZONE", e.str("SCHOOL_TIMEZONE", schedule.DefaultTimeZone)),
		OpeningStart: e.str("OPENING_HOURS_START", schedule.DefaultOpeningStart),
		OpeningEnd:   e.str("OPENING_HOURS_END", schedule.DefaultOpeningEnd),
		SlotMinutes:  e.num("SLOT_MINUTES", schedule.DefaultSlotMinutes),

		LogLevel:  e.str("LOG_LEVEL", "info"),
		LogFormat: e.str("LOG_FORMAT", "json"),

		AMQPURL:      e.str("RABBITMQ_URL", e.str("AMQP_URL", "")),
		AuditQueue:   e.str("AUDIT_QUEUE", "reservations.audit"),
		AuditLogPath: e.str("AUDIT_LOG_PATH", "logs/audit.log"),

		SeedDemo:          e.flag("SEED_DEMO", false),
		SeedAdminPassword: e.str("SEED_ADMIN_PASSWORD", ""),
	}

	switch cfg.DB.Driver {
	case database.DriverMySQL:
		cfg.DB.User = e.must("DB_USER")
		cfg.DB.Pass = e.str("DB_PASS", "")
		cfg.DB.Host = e.must("DB_HOST")
		cfg.DB.Port = e.must("DB_PORT")
		cfg.DB.Name = e.must("DB_NAME")
	case database.DriverSQLite:
		cfg.DB.Path = e.str("DB_PATH", "reservations.db")
	default:
		e.fail("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}

	if cfg.SeedDemo && len(cfg.SeedAdminPassword) < 8 {
		e.fail("SEED_ADMIN_PASSWORD must be at least 8 characters when SEED_DEMO is set")
	}
	if _, err := cfg.Calendar(); err != nil {
		e.fail("calendar: %v", err)
	}
	return cfg, errors.Join(e.errs...)
}

// Calendar builds the operating calendar from the time settings.
func (c Config) Calendar() (*schedule.Calendar, error) {
	return schedule.NewCalendar(c.TimeZone, c.OpeningStart, c.OpeningEnd, c.SlotMinutes)
}

type env struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (e *env) fail(format string, args ...any) {
	e.errs = append(e.errs, fmt.Errorf(format, args...))
}

func (e *env) str(key, def string) string {
	if v, ok := e.lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

// must retrieves the value of a required variable.
func (e *env) must(key string) string {
	v := e.str(key, "")
	if v == "" {
		e.fail("missing required env var: %s", key)
	}
	return v
}

func (e *env) num(key string, def int) int {
	s := e.str(key, "")
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		e.fail("invalid int for %s: %q", key, s)
		return def
	}
	return n
}

func (e *env) flag(key string, def bool) bool {
	s := e.str(key, "")
	if s == "" {
		return def
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		e.fail("invalid bool for %s: %q", key, s)
		return def
	}
	return b
}
