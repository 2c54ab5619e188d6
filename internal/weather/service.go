package weather

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Service wires a provider, a geocoder and a store into the weather dashboard operations.
type Service struct {
	store       Store
	provider    Provider
	geocoder    Geocoder
	defaultDays int
}

// NewService creates a new Service. defaultDays caps forecasts when the caller
// does not ask for a specific number of days.
func NewService(store Store, provider Provider, geocoder Geocoder, defaultDays int) *Service {
	if defaultDays <= 0 {
		defaultDays = 5
	}
	return &Service{
		store:       store,
		provider:    provider,
		geocoder:    geocoder,
		defaultDays: defaultDays,
	}
}

// DefaultDays is the forecast length used when none is requested.
func (s *Service) DefaultDays() int {
	return s.defaultDays
}

// Geocode resolves a city into coordinates.
func (s *Service) Geocode(ctx context.Context, loc Location) (Coordinates, error) {
	if loc.City == "" {
		return Coordinates{}, fmt.Errorf("%w: city is required", ErrLocationNotFound)
	}
	if s.geocoder == nil {
		return Coordinates{}, fmt.Errorf("%w: no geocoder configured", ErrNoProvider)
	}
	return s.geocoder.Geocode(ctx, loc)
}

// Resolve returns loc pinned to coordinates, geocoding the city when needed.
func (s *Service) Resolve(ctx context.Context, loc Location) (Location, error) {
	if loc.HasCoordinates() {
		return loc, nil
	}
	c, err := s.Geocode(ctx, loc)
	if err != nil {
		return Location{}, err
	}
	return loc.WithCoordinates(c), nil
}

// Current fetches the present conditions for loc.
func (s *Service) Current(ctx context.Context, loc Location) (CurrentConditions, error) {
	if s.provider == nil {
		return CurrentConditions{}, ErrNoProvider
	}
	resolved, err := s.Resolve(ctx, loc)
	if err != nil {
		return CurrentConditions{}, err
	}
	return s.provider.Current(ctx, resolved)
}

// Forecast fetches the provider's forecast slots for loc and collapses them into
// at most days daily summaries, earliest first.
func (s *Service) Forecast(ctx context.Context, loc Location, days int) (DailyForecast, error) {
	if s.provider == nil {
		return DailyForecast{}, ErrNoProvider
	}
	if days <= 0 {
		days = s.defaultDays
	}

	resolved, err := s.Resolve(ctx, loc)
	if err != nil {
		return DailyForecast{}, err
	}

	log.Printf("DEBUG: Forecast called for %s for %d days via %s", resolved.Key(), days, s.provider.Name())

	obs, err := s.provider.Observations(ctx, resolved)
	if err != nil {
		return DailyForecast{}, err
	}

	summaries := AggregateDaily(obs)
	if len(summaries) > days {
		summaries = summaries[:days]
	}

	return DailyForecast{
		Location:  resolved,
		Provider:  s.provider.Name(),
		FetchedAt: time.Now().UTC(),
		Days:      summaries,
	}, nil
}

// Track fetches the forecast for loc and saves it in the store.
// A failed fetch leaves the last good forecast in place.
func (s *Service) Track(ctx context.Context, loc Location) error {
	forecast, err := s.Forecast(ctx, loc, s.defaultDays)
	if err != nil {
		return err
	}
	// Keep the store keyed by the configured name, not the resolved coordinates.
	forecast.Location.City = loc.City
	forecast.Location.Country = loc.Country

	if err := s.store.SaveForecast(loc, forecast); err != nil {
		return fmt.Errorf("save forecast for %s: %w", loc.Key(), err)
	}
	return nil
}

// Latest delegates to the underlying store.
func (s *Service) Latest(loc Location) (DailyForecast, error) {
	return s.store.GetLatest(loc)
}

// History delegates to the underlying store.
func (s *Service) History(loc Location, from, to time.Time) ([]DailyForecast, error) {
	return s.store.GetRange(loc, from, to)
}
