// Package scheduler pushes a daily registration summary row to the
// sheet mirror at a configured time.
package scheduler

import (
	"context"
	"time"

	"github.com/shreshta-sdc/shreshta-server/config"
	"github.com/shreshta-sdc/shreshta-server/constants"
	"github.com/shreshta-sdc/shreshta-server/interfaces"
	"github.com/shreshta-sdc/shreshta-server/models"
	"github.com/shreshta-sdc/shreshta-server/utils"
)

// Scheduler runs the daily summary push.
type Scheduler struct {
	cfg      *config.Config
	storage  interfaces.RegistrationRepository
	mirror   interfaces.RegistrationMirror
	ticker   *time.Ticker
	stopChan chan bool
}

// NewScheduler creates a scheduler over the store and mirror.
func NewScheduler(cfg *config.Config, storage interfaces.RegistrationRepository, mirror interfaces.RegistrationMirror) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		storage:  storage,
		mirror:   mirror,
		stopChan: make(chan bool),
	}
}

// Start schedules the summary at the configured HH:MM, then daily.
func (s *Scheduler) Start() {
	hour := s.cfg.Schedule.SummaryHour
	minute := s.cfg.Schedule.SummaryMinute

	now := time.Now()
	nextRun := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if nextRun.Before(now) {
		nextRun = nextRun.Add(constants.SchedulerInterval)
	}
	duration := nextRun.Sub(now)

	go func() {
		select {
		case <-time.After(duration):
			s.pushDailySummary()
		case <-s.stopChan:
			return
		}

		s.ticker = time.NewTicker(constants.SchedulerInterval)
		defer s.ticker.Stop()

		for {
			select {
			case <-s.ticker.C:
				s.pushDailySummary()
			case <-s.stopChan:
				return
			}
		}
	}()

	utils.Info("Daily summary scheduler set to run daily at %02d:%02d", hour, minute)
}

// Stop halts the scheduler.
func (s *Scheduler) Stop() {
	close(s.stopChan)
	utils.Info("Daily summary scheduler stopped")
}

func (s *Scheduler) pushDailySummary() {
	if s.mirror == nil {
		utils.Debug("Sheet mirror disabled - skipping daily summary")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	all, err := s.storage.GetAllRegistrations(ctx)
	if err != nil {
		utils.Error("Daily summary: failed to read registrations: %v", err)
		return
	}

	stats := models.CountStats(all)
	if err := s.mirror.AppendDailySummary(ctx, stats); err != nil {
		utils.Error("Daily summary: failed to append row: %v", err)
		return
	}

	utils.Info("Daily summary pushed: %d total, %d verified, %d pending",
		stats.Total, stats.Verified, stats.Pending)
}
