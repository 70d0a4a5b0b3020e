package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CronService manages scheduled background jobs
type CronService struct {
	cron     *cron.Cron
	sessions *FormSessionService
	ttl      time.Duration
	schedule string
	logger   *logrus.Logger
}

// NewCronService creates a new CronService sweeping idle form sessions.
func NewCronService(sessions *FormSessionService, ttl time.Duration, schedule string, logger *logrus.Logger) *CronService {
	return &CronService{
		cron:     cron.New(),
		sessions: sessions,
		ttl:      ttl,
		schedule: schedule,
		logger:   logger,
	}
}

// Start starts all cron jobs
func (s *CronService) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.sweepSessionsJob)
	if err != nil {
		return fmt.Errorf("failed to schedule session sweep job: %w", err)
	}
	s.logger.WithField("schedule", s.schedule).Info("Scheduled: form session expiry sweep")

	s.cron.Start()
	return nil
}

// Stop stops all cron jobs, waiting for a running sweep to finish.
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

// sweepSessionsJob drops form sessions idle for longer than the TTL.
func (s *CronService) sweepSessionsJob() {
	startTime := time.Now()
	expired := s.sessions.ExpireStale(s.ttl)
	if expired > 0 {
		s.logger.WithFields(logrus.Fields{
			"expired":     expired,
			"duration_ms": time.Since(startTime).Milliseconds(),
		}).Info("Form session sweep completed")
	}
}
