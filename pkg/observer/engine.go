// Package observer follows recorded HTLC legs on their ledgers and feeds what the chain
// gateways report back into the coordinator as chain events.
package observer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"

	"github.com/chainsafe/swap-coordinator/internal/metrics"
	"github.com/chainsafe/swap-coordinator/pkg/chain"
	"github.com/chainsafe/swap-coordinator/pkg/offer"
)

const resumePageSize = 200

// Coordinator is the part of the swap coordinator the engine drives.
type Coordinator interface {
	ObserveChainEvent(ctx context.Context, ev *offer.ChainEvent) (*offer.Snapshot, error)
	ListOffers(ctx context.Context, filter *offer.Filter) ([]*offer.Snapshot, error)
}

// resumeStatuses are the states in which a recorded leg can still change on chain.
var resumeStatuses = []offer.Status{
	offer.StatusTakerLocked,
	offer.StatusBothLocked,
	offer.StatusCreatorClaimed,
	offer.StatusExpired,
}

type watchKey struct {
	offerID string
	side    offer.Side
}

type watch struct {
	chain  chain.ID
	cancel context.CancelFunc
}

// Engine watches every unsettled leg through the gateway registered for its chain. It is
// also a notifier: snapshots tell it when a leg has been recorded or has settled.
type Engine struct {
	registry *chain.Registry
	logger   *zap.Logger

	mu          sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	coordinator Coordinator

	watches *xsync.MapOf[watchKey, *watch]
	wg      sync.WaitGroup
}

// NewEngine creates a new chain observer engine
func NewEngine(registry *chain.Registry, logger *zap.Logger) *Engine {
	return &Engine{
		registry: registry,
		logger:   logger,
		watches:  xsync.NewMapOf[watchKey, *watch](),
	}
}

// Start resumes watches for offers that still have unsettled legs and begins accepting
// snapshots.
func (e *Engine) Start(ctx context.Context, coordinator Coordinator) error {
	e.logger.Info("Starting chain observer", zap.Any("chains", e.registry.IDs()))

	e.mu.Lock()
	if e.cancel != nil {
		e.mu.Unlock()
		return errors.New("chain observer already started")
	}
	e.ctx, e.cancel = context.WithCancel(ctx)
	e.coordinator = coordinator
	e.mu.Unlock()

	resumed, err := e.resume(ctx)
	if err != nil {
		return fmt.Errorf("failed to resume watches: %w", err)
	}

	e.logger.Info("Chain observer started", zap.Int("resumed_watches", resumed))
	return nil
}

// Stop cancels every watch and waits for them to exit.
func (e *Engine) Stop() {
	e.logger.Info("Stopping chain observer")
	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	e.mu.Unlock()
	e.wg.Wait()
	e.logger.Info("Chain observer stopped")
}

// Watching returns the number of legs currently watched.
func (e *Engine) Watching() int {
	return e.watches.Size()
}

func (e *Engine) resume(ctx context.Context) (int, error) {
	resumed := 0
	for offset := 0; ; offset += resumePageSize {
		snaps, err := e.coordinator.ListOffers(ctx, &offer.Filter{
			Statuses: resumeStatuses,
			Limit:    resumePageSize,
			Offset:   offset,
		})
		if err != nil {
			return resumed, err
		}
		for _, snap := range snaps {
			resumed += e.sync(snap.Offer)
		}
		if len(snaps) < resumePageSize {
			return resumed, nil
		}
	}
}

// Notify starts watches for newly recorded legs and stops watches for settled ones.
func (e *Engine) Notify(_ context.Context, snap *offer.Snapshot) error {
	if snap == nil || snap.Offer == nil {
		return nil
	}
	e.sync(snap.Offer)
	return nil
}

// sync reconciles the running watches with o and returns how many were started.
func (e *Engine) sync(o *offer.Offer) int {
	e.mu.Lock()
	base := e.ctx
	e.mu.Unlock()
	if base == nil || base.Err() != nil {
		return 0
	}

	started := 0
	for _, side := range []offer.Side{offer.SideTaker, offer.SideCreator} {
		key := watchKey{offerID: o.ID, side: side}
		leg, ok := o.Leg(side)
		if !ok || leg.Settled() {
			e.stop(key)
			continue
		}
		if e.start(base, key, leg.HTLCRef) {
			started++
		}
	}
	return started
}

func (e *Engine) start(base context.Context, key watchKey, ref offer.HTLCRef) bool {
	gw, ok := e.registry.Gateway(ref.Chain)
	if !ok {
		e.logger.Debug("No gateway for chain, leg is not watched",
			zap.String("offer_id", key.offerID),
			zap.String("side", string(key.side)),
			zap.String("chain", ref.Chain.String()))
		return false
	}

	ctx, cancel := context.WithCancel(base)
	w := &watch{chain: ref.Chain, cancel: cancel}
	if _, loaded := e.watches.LoadOrStore(key, w); loaded {
		cancel()
		return false
	}

	metrics.WatchedLegs.WithLabelValues(ref.Chain.String()).Inc()
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer e.release(key, w)
		e.follow(ctx, gw, key, ref)
	}()
	return true
}

func (e *Engine) stop(key watchKey) {
	if w, ok := e.watches.Load(key); ok {
		w.cancel()
	}
}

func (e *Engine) release(key watchKey, w *watch) {
	w.cancel()
	e.watches.Compute(key, func(cur *watch, loaded bool) (*watch, bool) {
		// a newer watch may have replaced this one
		return cur, !loaded || cur == w
	})
	metrics.WatchedLegs.WithLabelValues(w.chain.String()).Dec()
}

// follow forwards gateway observations for one leg until the stream ends.
func (e *Engine) follow(ctx context.Context, gw chain.Gateway, key watchKey, ref offer.HTLCRef) {
	logger := e.logger.With(
		zap.String("offer_id", key.offerID),
		zap.String("side", string(key.side)),
		zap.String("chain", ref.Chain.String()),
		zap.String("htlc_ref", ref.Ref))
	logger.Debug("Watching leg")

	statusCh, errCh := gw.Watch(ctx, ref.Ref)
	for {
		select {
		case st, ok := <-statusCh:
			if !ok {
				return
			}
			if st == nil {
				continue
			}
			e.apply(ctx, logger, key, ref, st)
			if st.State == chain.LockStateClaimed || st.State == chain.LockStateRefunded {
				return
			}
		case err, ok := <-errCh:
			if ok && err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Gateway watch failed", zap.Error(err))
				metrics.ErrorsTotal.WithLabelValues("observer", "watch").Inc()
			}
			if !ok {
				errCh = nil
				continue
			}
			return
		case <-ctx.Done():
			return
		}
	}
}

func (e *Engine) apply(ctx context.Context, logger *zap.Logger, key watchKey, ref offer.HTLCRef, st *chain.LockStatus) {
	ev := &offer.ChainEvent{
		OfferID:   key.offerID,
		Side:      key.side,
		Kind:      st.State,
		Secret:    st.Secret,
		ChainTime: st.ChainTime,
		Sequence:  st.Sequence,
	}
	if st.State == chain.LockStateLocked {
		observed := ref
		ev.Ref = &observed
	}

	_, err := e.coordinator.ObserveChainEvent(ctx, ev)
	switch {
	case err == nil:
		logger.Debug("Applied chain event", zap.String("kind", string(st.State)), zap.Uint64("sequence", st.Sequence))
	case errors.Is(err, offer.ErrStaleEvent):
		logger.Debug("Skipped stale chain event", zap.String("kind", string(st.State)), zap.Uint64("sequence", st.Sequence))
	default:
		logger.Warn("Failed to apply chain event",
			zap.String("kind", string(st.State)),
			zap.Uint64("sequence", st.Sequence),
			zap.Error(err))
		metrics.ErrorsTotal.WithLabelValues("observer", "apply").Inc()
	}
}
