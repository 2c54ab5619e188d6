package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/insight-dashboards/internal/weather"
)

// Tracker refreshes and stores the forecast of one city.
type Tracker interface {
	Track(ctx context.Context, loc weather.Location) error
}

// Scheduler periodically refreshes the forecasts of the tracked cities.
type Scheduler struct {
	scheduler  *gocron.Scheduler
	tracker    Tracker
	locations  []weather.Location
	interval   time.Duration
	jobTimeout time.Duration
}

// New creates a new Scheduler.
func New(locations []weather.Location, interval time.Duration, tracker Tracker) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler:  s,
		tracker:    tracker,
		locations:  locations,
		interval:   interval,
		jobTimeout: 30 * time.Second,
	}
}

// Start schedules the refresh job and starts the underlying scheduler. The
// first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		log.Println("INFO: scheduler: no tracked cities configured; nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval < time.Minute {
		interval = 15 * time.Minute
	}

	_, err := s.scheduler.Every(interval).Do(s.RunOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce refreshes every tracked city concurrently and waits for all of them.
// It returns the number of cities that failed.
func (s *Scheduler) RunOnce() int {
	log.Println("INFO: scheduler: refreshing tracked forecasts")

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	for _, loc := range s.locations {
		loc := loc
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
			defer cancel()

			if err := s.tracker.Track(ctx, loc); err != nil {
				log.Printf("ERROR: scheduler: refresh failed for %s: %v", loc.Key(), err)
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	log.Printf("INFO: scheduler: refreshed %d of %d tracked cities", len(s.locations)-failed, len(s.locations))
	return failed
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
