package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_RequiredValuesMissing(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	err := Load().Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"DATABASE_URL", "JWT_SECRET"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/busbook?sslmode=disable")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SEAT_REFRESH_INTERVAL", "2s")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Booking.SeatRefreshInterval != 2*time.Second {
		t.Errorf("SeatRefreshInterval = %s", cfg.Booking.SeatRefreshInterval)
	}
	if cfg.Redis.DB != 3 {
		t.Errorf("Redis.DB = %d", cfg.Redis.DB)
	}
	if cfg.Booking.SessionTTL != 30*time.Minute {
		t.Errorf("default SessionTTL = %s", cfg.Booking.SessionTTL)
	}
}
