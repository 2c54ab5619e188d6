package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"PORT", "WEATHER_PROVIDER", "HTTP_TIMEOUT", "FORECAST_DAYS", "FETCH_INTERVAL",
		"TRACKED_CITIES", "TRACKED_COUNTRIES", "STORE_DRIVER", "STORE_MAX_AGE",
		"PROVIDER_MAX_RETRIES", "STORE_MAX_HISTORY", "UPLOAD_MAX_BYTES",
	} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.WeatherProvider != "openweather" || cfg.StoreDriver != "memory" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.ForecastDays != 5 || cfg.ProviderMaxRetries != 0 {
		t.Fatalf("unexpected forecast defaults: %+v", cfg)
	}
	if cfg.FetchInterval != 15*time.Minute || cfg.StoreMaxAge != 24*time.Hour {
		t.Fatalf("unexpected durations: %+v", cfg)
	}
	if len(cfg.TrackedLocations) != 0 {
		t.Fatalf("expected no tracked cities, got %v", cfg.TrackedLocations)
	}
}

func TestLoadTrackedLocations(t *testing.T) {
	t.Setenv("TRACKED_CITIES", "Paris, Oslo")
	t.Setenv("TRACKED_COUNTRIES", "FR,NO")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.TrackedLocations) != 2 {
		t.Fatalf("expected 2 locations, got %v", cfg.TrackedLocations)
	}
	if got := cfg.TrackedLocations[1]; got.City != "Oslo" || got.Country != "NO" {
		t.Fatalf("unexpected location %+v", got)
	}

	t.Setenv("TRACKED_COUNTRIES", "")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TrackedLocations[0].Country != "" {
		t.Fatalf("expected empty country, got %+v", cfg.TrackedLocations[0])
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"mismatched countries": {"TRACKED_COUNTRIES", "FR"},
		"provider":             {"WEATHER_PROVIDER", "darksky"},
		"store driver":         {"STORE_DRIVER", "postgres"},
		"forecast days":        {"FORECAST_DAYS", "9"},
		"interval":             {"FETCH_INTERVAL", "soon"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("TRACKED_CITIES", "Paris,Oslo")
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", kv[0], kv[1])
			}
		})
	}
}
