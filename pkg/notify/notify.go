// Package notify publishes offer snapshots to parties and downstream systems after every
// state change.
package notify

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/chainsafe/swap-coordinator/internal/metrics"
	"github.com/chainsafe/swap-coordinator/pkg/offer"
)

// Notifier receives offer snapshots.
type Notifier interface {
	Notify(ctx context.Context, snap *offer.Snapshot) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, snap *offer.Snapshot) error

func (f NotifierFunc) Notify(ctx context.Context, snap *offer.Snapshot) error {
	return f(ctx, snap)
}

type named struct {
	name string
	n    Notifier
}

// Multi delivers each snapshot to every registered notifier, in order. A failing notifier
// does not stop the others.
type Multi struct {
	notifiers []named
}

// NewMulti creates an empty fan-out notifier
func NewMulti() *Multi {
	return &Multi{}
}

// Add registers n under name, which labels its delivery metrics.
func (m *Multi) Add(name string, n Notifier) *Multi {
	m.notifiers = append(m.notifiers, named{name: name, n: n})
	return m
}

// Len returns the number of registered notifiers.
func (m *Multi) Len() int {
	return len(m.notifiers)
}

func (m *Multi) Notify(ctx context.Context, snap *offer.Snapshot) error {
	var errs []error
	for _, nn := range m.notifiers {
		if err := nn.n.Notify(ctx, snap); err != nil {
			metrics.NotificationsTotal.WithLabelValues(nn.name, "failed").Inc()
			errs = append(errs, fmt.Errorf("%s: %w", nn.name, err))
			continue
		}
		metrics.NotificationsTotal.WithLabelValues(nn.name, "delivered").Inc()
	}
	return errors.Join(errs...)
}

// Log writes every snapshot to the logger.
type Log struct {
	logger *zap.Logger
}

// NewLog creates a notifier that logs snapshots
func NewLog(logger *zap.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Notify(_ context.Context, snap *offer.Snapshot) error {
	if snap == nil || snap.Offer == nil {
		return nil
	}
	o := snap.Offer
	l.logger.Info("Offer updated",
		zap.String("offer_id", o.ID),
		zap.String("status", string(o.Status)),
		zap.Int64("version", o.Version),
		zap.String("next_creator", snap.Actions.Next[offer.SideCreator]),
		zap.String("next_taker", snap.Actions.Next[offer.SideTaker]),
	)
	return nil
}
