package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"maxybot/internal/config"
)

// Scheduler runs the bot's recurring background jobs on cron schedules:
// the guild-config flush, the giveaway and reminder sweeps, and log pruning.
type Scheduler struct {
	cron   *cron.Cron
	config *config.Config
}

// NewScheduler creates a scheduler. Jobs are registered with RegisterFunc
// and start running once Start is called.
func NewScheduler(cfg *config.Config) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		config: cfg,
	}
}

// RegisterFunc schedules fn under a cron spec (with a seconds field, e.g.
// "@every 15s" or "@hourly"). The job's error is logged, never fatal; a
// failed sweep just waits for the next tick.
func (s *Scheduler) RegisterFunc(spec, name string, fn func() error) error {
	_, err := s.cron.AddFunc(spec, func() {
		defer func() {
			if r := recover(); r != nil {
				s.config.Logger.Errorf("Scheduled job %s panicked: %v", name, r)
			}
		}()
		if err := fn(); err != nil {
			s.config.Logger.Errorf("Scheduled job %s failed: %v", name, err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}
	s.config.Logger.Infof("Scheduled job %s (%s)", name, spec)
	return nil
}

// Start begins running registered jobs in their own goroutines.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.config.Logger.Info("Scheduler started")
}

// Stop stops the scheduler and waits for in-flight jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.config.Logger.Info("Scheduler stopped")
}
