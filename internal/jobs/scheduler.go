package jobs

import (
	"github.com/labstack/gommon/log"
	"github.com/robfig/cron/v3"
)

// Scheduler runs named jobs on cron schedules. It is initialized once at
// process start and injected where needed; there is no global instance.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler creates a stopped scheduler using standard 5-field cron
// expressions.
func NewScheduler() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

// Add registers fn to run on the given cron spec.
func (s *Scheduler) Add(spec, name string, fn func()) error {
	_, err := s.cron.AddFunc(spec, func() {
		log.Infof("scheduled job %s starting", name)
		fn()
	})
	return err
}

// Start begins running scheduled jobs in their own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling; running jobs complete.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
