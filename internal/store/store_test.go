package store

import (
	"testing"
	"time"

	"github.com/i474232898/insight-dashboards/internal/weather"
)

// stores returns one of each weather.Store implementation, unlimited retention.
func stores(t *testing.T) map[string]weather.Store {
	t.Helper()
	sqlStore, err := NewSQLiteStore(":memory:", 0, 0)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { sqlStore.Close() })

	return map[string]weather.Store{
		"memory": NewMemoryStore(0, 0),
		"sqlite": sqlStore,
	}
}

func TestStoresAgreeOnWideRanges(t *testing.T) {
	fetched := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ranges := []struct {
		name     string
		from, to time.Time
	}{
		{"year 1 to 9999", time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"unix epoch to 9999", time.Unix(0, 0).UTC(), time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)},
		{"exact instant", fetched, fetched},
	}

	for name, s := range stores(t) {
		if err := s.SaveForecast(paris, forecastAt(fetched, 7)); err != nil {
			t.Fatalf("%s: SaveForecast failed: %v", name, err)
		}
		for _, r := range ranges {
			got, err := s.GetRange(paris, r.from, r.to)
			if err != nil {
				t.Fatalf("%s %s: GetRange failed: %v", name, r.name, err)
			}
			if len(got) != 1 || got[0].Days[0].AvgTemperature != 7 {
				t.Errorf("%s %s: expected the saved forecast, got %+v", name, r.name, got)
			}
		}
	}
}

func TestStoresOrderByFetchTime(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for name, s := range stores(t) {
		// Saved out of fetch order.
		for _, h := range []int{2, 0, 1} {
			if err := s.SaveForecast(paris, forecastAt(base.Add(time.Duration(h)*time.Hour), float64(h))); err != nil {
				t.Fatalf("%s: SaveForecast failed: %v", name, err)
			}
		}

		latest, err := s.GetLatest(paris)
		if err != nil {
			t.Fatalf("%s: GetLatest failed: %v", name, err)
		}
		if latest.Days[0].AvgTemperature != 2 {
			t.Errorf("%s: expected the latest fetch, got %+v", name, latest)
		}

		got, err := s.GetRange(paris, base, base.Add(2*time.Hour))
		if err != nil {
			t.Fatalf("%s: GetRange failed: %v", name, err)
		}
		for i, f := range got {
			if f.Days[0].AvgTemperature != float64(i) {
				t.Errorf("%s: position %d out of order: %+v", name, i, got)
			}
		}
	}
}
