// Package scheduler runs the daily ledger reconciliation on a cron
// schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/puckline/internal/ledger"
)

// Scheduler manages the recurring reconcile job. It holds the single-slot
// assumption for the reconciler: jobs never overlap because cron entries
// added here run sequentially via SkipIfStillRunning.
type Scheduler struct {
	cron            *cron.Cron
	reconciler      *ledger.Reconciler
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration

	daysAhead   int
	stakePerBet float64
	minValue    float64
}

// NewScheduler creates a new scheduler around the reconciler.
func NewScheduler(reconciler *ledger.Reconciler, daysAhead int, stakePerBet, minValue float64, logger *logrus.Logger) *Scheduler {
	cronLogger := cron.DiscardLogger
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger)),
		),
		reconciler:      reconciler,
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
		daysAhead:       daysAhead,
		stakePerBet:     stakePerBet,
		minValue:        minValue,
	}
}

// ScheduleReconcile registers the reconcile job with the given cron
// expression.
func (s *Scheduler) ScheduleReconcile(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		s.logger.Info("Starting scheduled ledger reconcile")
		result, err := s.reconciler.Update(ctx, s.daysAhead, s.stakePerBet, s.minValue)
		if err != nil {
			s.logger.WithError(err).Error("Scheduled ledger reconcile failed")
			return
		}
		s.logger.WithFields(logrus.Fields{
			"created": result.Created,
			"settled": result.Settled,
			"entries": len(result.Entries),
		}).Info("Scheduled ledger reconcile completed")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled ledger reconcile job")

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.gracefulTimeout)
	defer cancel()

	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out with a job still running")
	}
	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}
