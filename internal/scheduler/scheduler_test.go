package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/i474232898/insight-dashboards/internal/weather"
)

type fakeTracker struct {
	mu    sync.Mutex
	calls map[string]int
	fail  string
}

func (f *fakeTracker) Track(ctx context.Context, loc weather.Location) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[loc.City]++
	if loc.City == f.fail {
		return errors.New("upstream down")
	}
	return nil
}

func (f *fakeTracker) count(city string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[city]
}

func TestRunOnceRefreshesEveryCity(t *testing.T) {
	tr := &fakeTracker{fail: "Oslo"}
	locs := []weather.Location{{City: "Paris"}, {City: "Oslo"}, {City: "Rome"}}
	s := New(locs, time.Hour, tr)

	if failed := s.RunOnce(); failed != 1 {
		t.Fatalf("expected 1 failure, got %d", failed)
	}
	for _, l := range locs {
		if tr.count(l.City) != 1 {
			t.Fatalf("expected one refresh for %s, got %d", l.City, tr.count(l.City))
		}
	}
}

func TestStartWithoutCitiesIsNoop(t *testing.T) {
	tr := &fakeTracker{}
	s := New(nil, time.Minute, tr)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
}

func TestStartRunsImmediately(t *testing.T) {
	tr := &fakeTracker{}
	s := New([]weather.Location{{City: "Paris"}}, time.Hour, tr)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for tr.count("Paris") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("expected the first refresh to run right after Start")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
