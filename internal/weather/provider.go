package weather

import (
	"context"
	"time"
)

// Provider abstracts a weather data source (e.g. OpenWeatherMap, Open-Meteo).
type Provider interface {
	Name() string
	// Current returns the present conditions at the resolved location.
	Current(ctx context.Context, loc Location) (CurrentConditions, error)
	// Observations returns the raw forecast slots for the resolved location.
	Observations(ctx context.Context, loc Location) ([]Observation, error)
}

// Geocoder resolves a free-text city into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, loc Location) (Coordinates, error)
}

// Store is the contract for persisting tracked forecasts (memory or sqlite).
type Store interface {
	SaveForecast(loc Location, forecast DailyForecast) error
	GetLatest(loc Location) (DailyForecast, error)
	GetRange(loc Location, from, to time.Time) ([]DailyForecast, error)
}
