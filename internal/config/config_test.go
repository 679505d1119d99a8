package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/room-reservation/internal/database"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestParse_SQLiteDefaults(t *testing.T) {
	cfg, err := Parse(lookupFrom(map[string]string{
		"DB_DRIVER":  "sqlite3",
		"JWT_SECRET": "s3cret",
	}))
	require.NoError(t, err)
	assert.Equal(t, database.DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "reservations.db", cfg.DB.Path)
	assert.Equal(t, "Africa/Abidjan", cfg.TimeZone)
	assert.Equal(t, "07:00", cfg.OpeningStart)
	assert.Equal(t, "20:00", cfg.OpeningEnd)
	assert.Equal(t, 30, cfg.SlotMinutes)
	assert.Equal(t, "reservations.audit", cfg.AuditQueue)

	cal, err := cfg.Calendar()
	require.NoError(t, err)
	assert.Equal(t, "Africa/Abidjan", cal.Location().String())
}

func TestParse_MySQLRequiresConnectionSettings(t *testing.T) {
	_, err := Parse(lookupFrom(map[string]string{"JWT_SECRET": "s"}))
	require.Error(t, err)
	for _, key := range []string{"DB_USER", "DB_HOST", "DB_PORT", "DB_NAME"} {
		assert.Contains(t, err.Error(), key)
	}
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := Parse(lookupFrom(map[string]string{
		"DB_DRIVER":           "sqlite3",
		"JWT_SECRET":          "s",
		"SCHOOL_TIMEZONE":     "Europe/Paris",
		"SLOT_MINUTES":        "15",
		"AMQP_URL":            "amqp://broker/",
		"SEED_DEMO":           "true",
		"SEED_ADMIN_PASSWORD": "long enough",
	}))
	require.NoError(t, err)
	assert.Equal(t, "Europe/Paris", cfg.TimeZone)
	assert.Equal(t, 15, cfg.SlotMinutes)
	assert.Equal(t, "amqp://broker/", cfg.AMQPURL)
	assert.True(t, cfg.SeedDemo)
	assert.Equal(t, "long enough", cfg.SeedAdminPassword)
}

func TestParse_SeedNeedsAdminPassword(t *testing.T) {
	_, err := Parse(lookupFrom(map[string]string{
		"DB_DRIVER":  "sqlite3",
		"JWT_SECRET": "s",
		"SEED_DEMO":  "1",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SEED_ADMIN_PASSWORD")
}

func TestParse_RejectsBadValues(t *testing.T) {
	_, err := Parse(lookupFrom(map[string]string{
		"DB_DRIVER":            "postgres",
		"ACCESS_TOKEN_TTL_MIN": "soon",
		"OPENING_HOURS_START":  "25:00",
	}))
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "JWT_SECRET")
	assert.Contains(t, msg, "DB_DRIVER")
	assert.Contains(t, msg, "ACCESS_TOKEN_TTL_MIN")
	assert.Contains(t, msg, "calendar")
}

func TestLoadRateLimitConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_LOGIN", "10")
	t.Setenv("RATE_LIMIT_RESERVATIONS_WINDOW", "2m")
	cfg := LoadRateLimitConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 30, cfg.Reservations.Limit)
	assert.Equal(t, 2*time.Minute, cfg.Reservations.Window)
	assert.Equal(t, 10, cfg.Login.Limit)
	assert.Equal(t, 5*time.Minute, cfg.Login.Window)
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	cfg := LoadCacheConfig()
	assert.True(t, cfg.Methods["GET"])
	assert.True(t, cfg.Methods["HEAD"])
	assert.Equal(t, 30*time.Second, cfg.TTL)
}
