package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/metrics"
	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/models"
	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/weather"
)

// Scheduler periodically refreshes the last searched city so the cache stays
// warm between user queries. Demo mode synthesizes data on demand, so the
// scheduler sits idle there.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	interval  time.Duration
}

func New(service *weather.Service, interval time.Duration) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		interval:  interval,
	}
}

// Start schedules the refresh job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(s.refresh)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	log.Printf("scheduler: refreshing last city every %d minutes", minutes)
	return nil
}

func (s *Scheduler) refresh() {
	if s.service.Mode() == models.ModeDemo {
		return
	}

	prefs, err := s.service.Preferences()
	if err != nil {
		log.Printf("scheduler: load preferences: %v", err)
		metrics.RefreshRunsTotal.WithLabelValues("error").Inc()
		return
	}
	if prefs.LastCity == "" {
		metrics.RefreshRunsTotal.WithLabelValues("skipped").Inc()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := s.service.Fetch(ctx, models.CityLocator(prefs.LastCity), true); err != nil {
		log.Printf("scheduler: refresh %q: %v", prefs.LastCity, err)
		metrics.RefreshRunsTotal.WithLabelValues("error").Inc()
		return
	}
	metrics.RefreshRunsTotal.WithLabelValues("ok").Inc()
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
