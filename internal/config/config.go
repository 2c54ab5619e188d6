package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/insight-dashboards/internal/weather"
)

type AppConfig struct {
	Port string

	OpenWeatherAPIKey string
	// GeocoderAPIKey switches city lookups to the Google geocoder when set.
	GeocoderAPIKey string

	// WeatherProvider is "openweather" or "openmeteo".
	WeatherProvider    string
	HTTPTimeout        time.Duration
	ProviderMaxRetries int
	ForecastDays       int

	// FetchInterval controls how often tracked cities are refreshed.
	FetchInterval time.Duration

	// Cities refreshed by the scheduler.
	TrackedLocations []weather.Location

	// StoreDriver is "memory" or "sqlite".
	StoreDriver     string
	SQLitePath      string
	StoreMaxHistory int           // max number of forecasts per city (0 = unlimited)
	StoreMaxAge     time.Duration // max age of forecasts (0 = unlimited)

	// UploadMaxBytes caps request bodies, CSV uploads included.
	UploadMaxBytes int
}

// Load reads configuration from the environment (and an optional .env file)
// with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	cfg.WeatherProvider = strings.ToLower(getenvDefault("WEATHER_PROVIDER", "openweather"))
	switch cfg.WeatherProvider {
	case "openweather", "openmeteo":
	default:
		return nil, fmt.Errorf("invalid WEATHER_PROVIDER %q: want openweather or openmeteo", cfg.WeatherProvider)
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	cfg.ProviderMaxRetries = getenvInt("PROVIDER_MAX_RETRIES", 0)
	cfg.ForecastDays = getenvInt("FORECAST_DAYS", 5)
	if cfg.ForecastDays < 1 || cfg.ForecastDays > 5 {
		return nil, fmt.Errorf("invalid FORECAST_DAYS %d: must be between 1 and 5", cfg.ForecastDays)
	}

	if cfg.FetchInterval, err = getenvDuration("FETCH_INTERVAL", 15*time.Minute); err != nil {
		return nil, err
	}

	locs, err := loadTrackedLocations()
	if err != nil {
		return nil, err
	}
	cfg.TrackedLocations = locs

	cfg.StoreDriver = strings.ToLower(getenvDefault("STORE_DRIVER", "memory"))
	switch cfg.StoreDriver {
	case "memory", "sqlite":
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q: want memory or sqlite", cfg.StoreDriver)
	}
	cfg.SQLitePath = getenvDefault("SQLITE_PATH", "dashboards.db")

	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 96) // roughly 24h at 15-minute intervals
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", 24*time.Hour); err != nil {
		return nil, err
	}

	cfg.UploadMaxBytes = getenvInt("UPLOAD_MAX_BYTES", 200<<20)

	return cfg, nil
}

// loadTrackedLocations pairs TRACKED_CITIES with TRACKED_COUNTRIES. Countries
// may be omitted entirely.
func loadTrackedLocations() ([]weather.Location, error) {
	cityList := strings.TrimSpace(os.Getenv("TRACKED_CITIES"))
	if cityList == "" {
		return nil, nil
	}
	cities := strings.Split(cityList, ",")

	var countries []string
	if v := strings.TrimSpace(os.Getenv("TRACKED_COUNTRIES")); v != "" {
		countries = strings.Split(v, ",")
		if len(cities) != len(countries) {
			return nil, fmt.Errorf("number of cities and countries must be the same")
		}
	}

	locs := make([]weather.Location, 0, len(cities))
	for i := range cities {
		loc := weather.Location{City: strings.TrimSpace(cities[i])}
		if countries != nil {
			loc.Country = strings.TrimSpace(countries[i])
		}
		if loc.City == "" {
			return nil, fmt.Errorf("empty city in TRACKED_CITIES")
		}
		locs = append(locs, loc)
	}
	return locs, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
