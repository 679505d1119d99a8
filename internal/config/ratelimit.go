package config

import (
	"os"
	"strconv"
	"time"

	"github.com/iliyamo/room-reservation/internal/ratelimit"
)

// RateLimitConfig holds the fixed windows applied per client address.
// Reservations covers create, update and delete; Login covers sign-in
// attempts.
type RateLimitConfig struct {
	Enabled      bool
	Prefix       string
	Reservations ratelimit.Rule
	Login        ratelimit.Rule
}

func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled: envBool("RATE_LIMIT_ENABLED", true),
		Prefix:  envStr("RATE_LIMIT_PREFIX", "rl"),
		Reservations: ratelimit.Rule{
			Limit:  envInt("RATE_LIMIT_RESERVATIONS", 30),
			Window: envDur("RATE_LIMIT_RESERVATIONS_WINDOW", time.Minute),
		},
		Login: ratelimit.Rule{
			Limit:  envInt("RATE_LIMIT_LOGIN", 5),
			Window: envDur("RATE_LIMIT_LOGIN_WINDOW", 5*time.Minute),
		},
	}
	for _, r := range []*ratelimit.Rule{&cfg.Reservations, &cfg.Login} {
		if r.Limit < 1 {
			r.Limit = 1
		}
		if r.Window <= 0 {
			r.Window = time.Minute
		}
	}
	return cfg
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	if dur, err := time.ParseDuration(os.Getenv(k)); err == nil {
		return dur
	}
	return d
}
