package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"

	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

// Scheduler manages the recurring ingestion cadence, wrapping gocron the
// same way the rest of the platform layer wraps a third-party library
// behind a narrow, app-specific surface.
type Scheduler struct {
	scheduler *gocron.Scheduler
	logger    *logging.Logger
}

func New(logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{scheduler: s, logger: logger}
}

// Start begins running scheduled jobs asynchronously.
func (s *Scheduler) Start() {
	s.scheduler.StartAsync()
	s.logger.Info("scheduler started")
}

// Stop halts the scheduler and waits for the in-flight job, if any, to
// finish.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.logger.Info("scheduler stopped")
}

// AddCron registers fn against a cron expression, tagged by name so it can
// be looked up or removed later.
func (s *Scheduler) AddCron(name, cronExpr string, fn func()) error {
	_, err := s.scheduler.Cron(cronExpr).Tag(name).Do(fn)
	if err != nil {
		s.logger.Error("failed to add cron job", "name", name, "cron", cronExpr, "error", err)
		return err
	}
	s.logger.Info("cron job registered", "name", name, "cron", cronExpr)
	return nil
}

// AddInterval registers fn to run every interval, as a fallback cadence
// alongside (or instead of) a cron schedule.
func (s *Scheduler) AddInterval(name string, interval time.Duration, fn func()) error {
	_, err := s.scheduler.Every(interval).Tag(name).Do(fn)
	if err != nil {
		s.logger.Error("failed to add interval job", "name", name, "interval", interval, "error", err)
		return err
	}
	s.logger.Info("interval job registered", "name", name, "interval", interval)
	return nil
}

// NextRun reports the next scheduled firing time for the job tagged name.
func (s *Scheduler) NextRun(name string) (time.Time, error) {
	jobs, err := s.scheduler.FindJobsByTag(name)
	if err != nil || len(jobs) == 0 {
		return time.Time{}, err
	}
	return jobs[0].NextRun(), nil
}
