// Package scheduler runs the periodic maintenance tasks: pruning old rows
// from the request recorder.
package scheduler

import (
	"fmt"
	"log"
	"time"

	"FinSight/internal/recorder"

	"github.com/robfig/cron/v3"
)

// Scheduler manages the cron tasks.
type Scheduler struct {
	Cron          *cron.Cron
	Recorder      recorder.Recorder
	RetentionDays int
}

// NewScheduler creates a Scheduler over the given recorder.
func NewScheduler(rec recorder.Recorder, retentionDays int) *Scheduler {
	return &Scheduler{
		Cron:          cron.New(),
		Recorder:      rec,
		RetentionDays: retentionDays,
	}
}

// Register adds the retention task on the given cron expression.
func (s *Scheduler) Register(retentionCron string) error {
	if _, err := s.Cron.AddFunc(retentionCron, s.retentionTask); err != nil {
		return fmt.Errorf("register retention task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

func (s *Scheduler) retentionTask() {
	cutoff := time.Now().AddDate(0, 0, -s.RetentionDays)
	n, err := s.Recorder.PurgeOlderThan(cutoff)
	if err != nil {
		log.Printf("[ERROR] retention purge: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[INFO] retention purge removed %d request rows older than %s", n, cutoff.Format("2006-01-02"))
	}
}
