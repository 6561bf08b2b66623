// Package expiry periodically moves active offers whose deadline has passed to EXPIRED, so
// a party that walked away does not leave the offer open for everyone else.
package expiry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/chainsafe/swap-coordinator/internal/metrics"
	"github.com/chainsafe/swap-coordinator/pkg/offer"
)

const (
	DefaultSchedule = "@every 30s"
	DefaultTimeout  = 20 * time.Second

	pageSize = 200
)

// Coordinator is the part of the swap coordinator the sweeper drives.
type Coordinator interface {
	ListOffers(ctx context.Context, filter *offer.Filter) ([]*offer.Snapshot, error)
	RecordExpiry(ctx context.Context, id string, side offer.Side) (*offer.Snapshot, error)
}

// StatusCounter reports how many offers are in each status.
type StatusCounter interface {
	CountByStatus(ctx context.Context) (map[offer.Status]int, error)
}

// Result summarizes one sweep.
type Result struct {
	Scanned int
	Expired int
	Failed  int
}

// Sweeper expires overdue offers on a cron schedule
type Sweeper struct {
	coordinator Coordinator
	counter     StatusCounter
	logger      *zap.Logger
	schedule    string
	timeout     time.Duration

	mu   sync.Mutex
	cron *cron.Cron
}

// New creates a new Sweeper. counter may be nil, in which case the active offers gauge is
// not maintained.
func New(coordinator Coordinator, counter StatusCounter, schedule string, timeout time.Duration, logger *zap.Logger) *Sweeper {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Sweeper{
		coordinator: coordinator,
		counter:     counter,
		logger:      logger,
		schedule:    schedule,
		timeout:     timeout,
	}
}

// Start schedules the sweep. Overlapping runs are skipped.
func (s *Sweeper) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return errors.New("expiry sweeper already started")
	}

	cronLogger := cron.PrintfLogger(zap.NewStdLog(s.logger))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)))
	if _, err := c.AddFunc(s.schedule, s.run); err != nil {
		return fmt.Errorf("failed to schedule expiry sweep %q: %w", s.schedule, err)
	}
	c.Start()
	s.cron = c

	s.logger.Info("Scheduled expiry sweeper", zap.String("schedule", s.schedule))
	return nil
}

// Stop stops scheduling and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	s.logger.Info("Stopped expiry sweeper")
}

func (s *Sweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.Sweep(ctx); err != nil {
		s.logger.Error("Expiry sweep failed", zap.Error(err))
	}
}

// Sweep expires every active offer whose resolved action set allows it and refreshes the
// active offers gauge.
func (s *Sweeper) Sweep(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{}

	due, err := s.collect(ctx, res)
	if err != nil {
		metrics.SweeperRunsTotal.WithLabelValues("failed").Inc()
		return res, err
	}

	for _, o := range due {
		if err := ctx.Err(); err != nil {
			metrics.SweeperRunsTotal.WithLabelValues("failed").Inc()
			return res, err
		}
		side := reportingSide(o)
		_, err := s.coordinator.RecordExpiry(ctx, o.ID, side)
		switch {
		case err == nil:
			res.Expired++
		case offer.Reason(err) != "":
			// someone else moved the offer since it was listed
			s.logger.Debug("Offer no longer expirable",
				zap.String("offer_id", o.ID),
				zap.String("reason", offer.Reason(err)),
				zap.Error(err))
		default:
			res.Failed++
			s.logger.Warn("Failed to expire offer", zap.String("offer_id", o.ID), zap.Error(err))
			metrics.ErrorsTotal.WithLabelValues("expiry", "record_expiry").Inc()
		}
	}

	s.refreshGauge(ctx)

	status := "success"
	if res.Failed > 0 {
		status = "partial"
	}
	metrics.SweeperRunsTotal.WithLabelValues(status).Inc()

	if res.Expired > 0 || res.Failed > 0 {
		s.logger.Info("Expiry sweep completed",
			zap.Int("scanned", res.Scanned),
			zap.Int("expired", res.Expired),
			zap.Int("failed", res.Failed),
			zap.Duration("duration", time.Since(start)))
	}
	return res, nil
}

// collect lists every active offer before expiring any, so that offers leaving the active
// set do not shift the pages.
func (s *Sweeper) collect(ctx context.Context, res *Result) ([]*offer.Offer, error) {
	var due []*offer.Offer
	for offset := 0; ; offset += pageSize {
		snaps, err := s.coordinator.ListOffers(ctx, &offer.Filter{
			Statuses: offer.ActiveStatuses,
			Limit:    pageSize,
			Offset:   offset,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list active offers: %w", err)
		}
		res.Scanned += len(snaps)
		for _, snap := range snaps {
			if snap.Actions.CanExpire {
				due = append(due, snap.Offer)
			}
		}
		if len(snaps) < pageSize {
			return due, nil
		}
	}
}

func (s *Sweeper) refreshGauge(ctx context.Context) {
	if s.counter == nil {
		return
	}
	counts, err := s.counter.CountByStatus(ctx)
	if err != nil {
		s.logger.Warn("Failed to count offers by status", zap.Error(err))
		return
	}
	for _, st := range offer.ActiveStatuses {
		metrics.ActiveOffers.WithLabelValues(string(st)).Set(float64(counts[st]))
	}
}

// reportingSide is the party left waiting on the counterparty: the creator of an offer
// nobody locked, otherwise the taker.
func reportingSide(o *offer.Offer) offer.Side {
	if o.Status == offer.StatusOpen {
		return offer.SideCreator
	}
	return offer.SideTaker
}
