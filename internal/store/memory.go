package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/insight-dashboards/internal/weather"
)

var (
	// ErrNotFound is returned when no tracked forecast is available for a location.
	ErrNotFound = errors.New("no tracked forecast for location")
)

// MemoryStore keeps tracked forecasts in process, per city, ordered by fetch time.
type MemoryStore struct {
	mu        sync.RWMutex
	forecasts map[string][]weather.DailyForecast
	retention Retention
	now       func() time.Time
}

// NewMemoryStore creates a new MemoryStore. maxHistory <= 0 and maxAge <= 0 mean unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		forecasts: make(map[string][]weather.DailyForecast),
		retention: Retention{MaxHistory: maxHistory, MaxAge: maxAge},
		now:       time.Now,
	}
}

// SaveForecast records a forecast in fetch-time order and applies retention.
func (s *MemoryStore) SaveForecast(loc weather.Location, forecast weather.DailyForecast) error {
	key := loc.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	fs := s.forecasts[key]
	// Equal fetch times keep insertion order, like the id tiebreak in SQLite.
	i := sort.Search(len(fs), func(i int) bool { return fs[i].FetchedAt.After(forecast.FetchedAt) })
	fs = append(fs, weather.DailyForecast{})
	copy(fs[i+1:], fs[i:])
	fs[i] = forecast

	s.forecasts[key] = s.prune(fs)
	return nil
}

// prune drops forecasts beyond the count limit, then those older than the age
// cutoff, never the newest.
func (s *MemoryStore) prune(fs []weather.DailyForecast) []weather.DailyForecast {
	if n := s.retention.MaxHistory; n > 0 && len(fs) > n {
		fs = fs[len(fs)-n:]
	}
	if cutoff, ok := s.retention.cutoff(s.now()); ok {
		i := sort.Search(len(fs)-1, func(i int) bool { return !fs[i].FetchedAt.Before(cutoff) })
		fs = fs[i:]
	}
	// Copy so the dropped prefix can be collected.
	return append([]weather.DailyForecast(nil), fs...)
}

// GetLatest returns the forecast with the latest fetch time.
func (s *MemoryStore) GetLatest(loc weather.Location) (weather.DailyForecast, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fs := s.forecasts[loc.Key()]
	if len(fs) == 0 {
		return weather.DailyForecast{}, ErrNotFound
	}
	return fs[len(fs)-1], nil
}

// GetRange returns the forecasts fetched between from and to (inclusive), oldest first.
func (s *MemoryStore) GetRange(loc weather.Location, from, to time.Time) ([]weather.DailyForecast, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fs := s.forecasts[loc.Key()]
	lo := sort.Search(len(fs), func(i int) bool { return !fs[i].FetchedAt.Before(from) })
	hi := sort.Search(len(fs), func(i int) bool { return fs[i].FetchedAt.After(to) })
	if lo >= hi {
		return nil, ErrNotFound
	}
	return append([]weather.DailyForecast(nil), fs[lo:hi]...), nil
}
