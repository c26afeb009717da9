// Package jobs runs the periodic maintenance work: hostel rating reconcile
// and refresh token cleanup.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/princeprakhar/hostelwise-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const jobTimeout = 5 * time.Minute

type RatingReconciler interface {
	ReconcileRatings(ctx context.Context) (int, error)
}

type TokenPurger interface {
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

type Schedules struct {
	RatingReconcile string
	TokenPurge      string
}

type Scheduler struct {
	cron      *cron.Cron
	schedules Schedules
	ratings   RatingReconciler
	tokens    TokenPurger
}

func NewScheduler(schedules Schedules, ratings RatingReconciler, tokens TokenPurger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		schedules: schedules,
		ratings:   ratings,
		tokens:    tokens,
	}
}

// Start registers every job and starts the scheduler. An empty schedule
// disables that job.
func (s *Scheduler) Start() error {
	if err := s.register("rating_reconcile", s.schedules.RatingReconcile, s.ReconcileRatings); err != nil {
		return err
	}
	if err := s.register("token_purge", s.schedules.TokenPurge, s.PurgeTokens); err != nil {
		return err
	}

	s.cron.Start()
	logger.Info("Cron jobs started")
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron jobs stopped")
}

func (s *Scheduler) register(name, spec string, run func(context.Context) error) error {
	if spec == "" {
		logger.Warnf("[CRON] %s disabled", name)
		return nil
	}
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		start := time.Now()
		entry := logger.WithFields(logger.Fields{"job": name})
		if err := run(ctx); err != nil {
			entry.Error("[CRON] job failed: ", err)
			return
		}
		entry.WithField("duration", time.Since(start).String()).Info("[CRON] job completed")
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for %s: %w", spec, name, err)
	}
	return nil
}

func (s *Scheduler) ReconcileRatings(ctx context.Context) error {
	n, err := s.ratings.ReconcileRatings(ctx)
	if err != nil {
		return err
	}
	logger.Infof("[CRON] recomputed ratings for %d hostels", n)
	return nil
}

func (s *Scheduler) PurgeTokens(ctx context.Context) error {
	n, err := s.tokens.PurgeExpiredTokens(ctx)
	if err != nil {
		return err
	}
	logger.Infof("[CRON] purged %d refresh tokens", n)
	return nil
}
