package weather

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeProvider struct {
	obs     []Observation
	err     error
	lastLoc Location
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Current(ctx context.Context, loc Location) (CurrentConditions, error) {
	f.lastLoc = loc
	if f.err != nil {
		return CurrentConditions{}, f.err
	}
	return CurrentConditions{Location: loc, TemperatureC: 21}, nil
}

func (f *fakeProvider) Observations(ctx context.Context, loc Location) ([]Observation, error) {
	f.lastLoc = loc
	return f.obs, f.err
}

type fakeGeocoder struct {
	calls int
}

func (g *fakeGeocoder) Geocode(ctx context.Context, loc Location) (Coordinates, error) {
	g.calls++
	if loc.City == "Atlantis" {
		return Coordinates{}, ErrLocationNotFound
	}
	return Coordinates{Lat: 1.5, Lon: 2.5}, nil
}

type fakeStore struct {
	saved map[string][]DailyForecast
}

func (s *fakeStore) SaveForecast(loc Location, f DailyForecast) error {
	if s.saved == nil {
		s.saved = make(map[string][]DailyForecast)
	}
	s.saved[loc.Key()] = append(s.saved[loc.Key()], f)
	return nil
}

func (s *fakeStore) GetLatest(loc Location) (DailyForecast, error) {
	fs := s.saved[loc.Key()]
	if len(fs) == 0 {
		return DailyForecast{}, errors.New("not found")
	}
	return fs[len(fs)-1], nil
}

func (s *fakeStore) GetRange(loc Location, from, to time.Time) ([]DailyForecast, error) {
	return s.saved[loc.Key()], nil
}

func sixDays() []Observation {
	var obs []Observation
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for d := 0; d < 6; d++ {
		for h := 0; h < 24; h += 3 {
			obs = append(obs, Observation{
				Timestamp:    base.AddDate(0, 0, d).Add(time.Duration(h) * time.Hour),
				TemperatureC: float64(d),
				HumidityPct:  50,
			})
		}
	}
	return obs
}

func TestServiceForecastTruncatesDays(t *testing.T) {
	prov := &fakeProvider{obs: sixDays()}
	geo := &fakeGeocoder{}
	svc := NewService(&fakeStore{}, prov, geo, 5)

	f, err := svc.Forecast(context.Background(), Location{City: "Paris"}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Days) != 5 {
		t.Fatalf("expected 5 days, got %d", len(f.Days))
	}
	if f.Days[0].Date != "2024-01-01" || f.Days[4].Date != "2024-01-05" {
		t.Errorf("unexpected days %+v", f.Days)
	}
	if !prov.lastLoc.HasCoordinates() || *prov.lastLoc.Lat != 1.5 {
		t.Errorf("provider should receive resolved coordinates, got %+v", prov.lastLoc)
	}

	f, err = svc.Forecast(context.Background(), Location{City: "Paris"}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Days) != 2 {
		t.Errorf("expected 2 days, got %d", len(f.Days))
	}
}

func TestServiceSkipsGeocodingWithCoordinates(t *testing.T) {
	geo := &fakeGeocoder{}
	svc := NewService(&fakeStore{}, &fakeProvider{}, geo, 5)

	loc := Location{}.WithCoordinates(Coordinates{Lat: 10, Lon: 20})
	if _, err := svc.Current(context.Background(), loc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if geo.calls != 0 {
		t.Errorf("expected no geocoding, got %d calls", geo.calls)
	}
}

func TestServiceUnknownCity(t *testing.T) {
	svc := NewService(&fakeStore{}, &fakeProvider{}, &fakeGeocoder{}, 5)
	_, err := svc.Forecast(context.Background(), Location{City: "Atlantis"}, 5)
	if !errors.Is(err, ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}

	_, err = svc.Current(context.Background(), Location{})
	if !errors.Is(err, ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound for empty city, got %v", err)
	}
}

func TestServiceNoProvider(t *testing.T) {
	svc := NewService(&fakeStore{}, nil, &fakeGeocoder{}, 5)
	if _, err := svc.Forecast(context.Background(), Location{City: "Paris"}, 1); !errors.Is(err, ErrNoProvider) {
		t.Fatalf("expected ErrNoProvider, got %v", err)
	}
}

func TestServiceTrackSavesUnderConfiguredKey(t *testing.T) {
	st := &fakeStore{}
	svc := NewService(st, &fakeProvider{obs: sixDays()}, &fakeGeocoder{}, 3)

	loc := Location{City: "Paris", Country: "FR"}
	if err := svc.Track(context.Background(), loc); err != nil {
		t.Fatalf("Track failed: %v", err)
	}

	latest, err := svc.Latest(loc)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if len(latest.Days) != 3 || latest.Location.City != "Paris" || latest.Provider != "fake" {
		t.Errorf("unexpected tracked forecast %+v", latest)
	}
}

func TestServiceTrackKeepsLastGoodOnFailure(t *testing.T) {
	st := &fakeStore{}
	prov := &fakeProvider{obs: sixDays()}
	svc := NewService(st, prov, &fakeGeocoder{}, 5)
	loc := Location{City: "Paris", Country: "FR"}

	if err := svc.Track(context.Background(), loc); err != nil {
		t.Fatalf("Track failed: %v", err)
	}

	prov.err = ErrUpstream
	if err := svc.Track(context.Background(), loc); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if n := len(st.saved[loc.Key()]); n != 1 {
		t.Errorf("expected previous forecast to remain the only entry, got %d", n)
	}
}
