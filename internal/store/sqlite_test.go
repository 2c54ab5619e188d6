package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteStoreSaveAndRead(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "forecasts.db"), 0, 0)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer s.Close()

	if _, err := s.GetLatest(paris); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if err := s.SaveForecast(paris, forecastAt(base.Add(time.Duration(i)*time.Hour), float64(10+i))); err != nil {
			t.Fatalf("SaveForecast failed: %v", err)
		}
	}

	latest, err := s.GetLatest(paris)
	if err != nil {
		t.Fatalf("GetLatest failed: %v", err)
	}
	if latest.Days[0].AvgTemperature != 12 {
		t.Errorf("expected newest forecast, got %+v", latest)
	}
	if !latest.FetchedAt.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("fetchedAt mismatch: %v", latest.FetchedAt)
	}

	got, err := s.GetRange(paris, base, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("GetRange failed: %v", err)
	}
	if len(got) != 2 || got[0].Days[0].AvgTemperature != 10 {
		t.Errorf("expected two oldest forecasts in order, got %+v", got)
	}
}

func TestSQLiteStoreRetention(t *testing.T) {
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	s, err := NewSQLiteStore(":memory:", 2, 90*time.Minute)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer s.Close()
	s.now = func() time.Time { return now }

	s.SaveForecast(paris, forecastAt(now.Add(-5*time.Hour), 1))
	s.SaveForecast(paris, forecastAt(now.Add(-1*time.Hour), 2))
	s.SaveForecast(paris, forecastAt(now.Add(-30*time.Minute), 3))
	s.SaveForecast(paris, forecastAt(now, 4))

	got, err := s.GetRange(paris, now.Add(-24*time.Hour), now)
	if err != nil {
		t.Fatalf("GetRange failed: %v", err)
	}
	if len(got) != 2 || got[0].Days[0].AvgTemperature != 3 || got[1].Days[0].AvgTemperature != 4 {
		t.Errorf("unexpected retained forecasts %+v", got)
	}
}
