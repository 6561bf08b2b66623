// Package service is the swap coordinator: it owns the offers and serializes every
// party intent and chain event that touches one of them.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chainsafe/swap-coordinator/internal/metrics"
	"github.com/chainsafe/swap-coordinator/pkg/chain"
	"github.com/chainsafe/swap-coordinator/pkg/offer"
	"github.com/chainsafe/swap-coordinator/pkg/offer/race"
	"github.com/chainsafe/swap-coordinator/pkg/secret"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
	notifyTimeout    = 5 * time.Second
)

// Store persists offers. UpdateOffer must only succeed when the stored version still equals
// prevVersion and reports offer.ErrConflict otherwise.
//
//go:generate mockery --name Store --output mocks --outpkg mocks --filename mock_store.go --with-expecter
type Store interface {
	CreateOffer(ctx context.Context, o *offer.Offer) error
	GetOffer(ctx context.Context, id string) (*offer.Offer, error)
	GetOfferByIdempotencyKey(ctx context.Context, key string) (*offer.Offer, error)
	UpdateOffer(ctx context.Context, o *offer.Offer, prevVersion int64) error
	ListOffers(ctx context.Context, filter *offer.Filter) ([]*offer.Offer, error)
}

// Notifier receives a snapshot after every state change. Failures are logged and never
// fail the call that produced the change.
//
//go:generate mockery --name Notifier --output mocks --outpkg mocks --filename mock_notifier.go --with-expecter
type Notifier interface {
	Notify(ctx context.Context, snap *offer.Snapshot) error
}

// Service defines the swap coordinator operations
//
//go:generate mockery --name Service --output mocks --outpkg mocks --filename mock_service.go --with-expecter
type Service interface {
	CreateOffer(ctx context.Context, terms *offer.Terms) (*offer.Snapshot, error)
	AcceptOffer(ctx context.Context, id string, req *offer.AcceptRequest) (*offer.Snapshot, error)
	RecordLock(ctx context.Context, id string, side offer.Side, ref *offer.HTLCRef) (*offer.Snapshot, error)
	RecordClaim(ctx context.Context, id string, side offer.Side, preimage secret.Preimage) (*offer.Snapshot, error)
	RecordRefund(ctx context.Context, id string, side offer.Side, requester string) (*offer.Snapshot, error)
	RecordExpiry(ctx context.Context, id string, side offer.Side) (*offer.Snapshot, error)
	QueryOffer(ctx context.Context, id string) (*offer.Snapshot, error)
	ListOffers(ctx context.Context, filter *offer.Filter) ([]*offer.Snapshot, error)
	ObserveChainEvent(ctx context.Context, ev *offer.ChainEvent) (*offer.Snapshot, error)
}

// Option configures the coordinator
type Option func(*coordinator)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(c *coordinator) { c.clock = now }
}

// WithIDGenerator replaces the offer ID generator.
func WithIDGenerator(gen func() string) Option {
	return func(c *coordinator) { c.newID = gen }
}

// WithClockTracker shares a chain clock tracker with other components.
func WithClockTracker(t *race.ClockTracker) Option {
	return func(c *coordinator) { c.clocks = t }
}

type coordinator struct {
	store    Store
	registry *chain.Registry
	notifier Notifier
	params   offer.Params
	logger   *zap.Logger

	locks  *offerLocks
	clocks *race.ClockTracker
	clock  func() time.Time
	newID  func() string
}

// NewService creates the swap coordinator
func NewService(
	store Store,
	registry *chain.Registry,
	notifier Notifier,
	params offer.Params,
	logger *zap.Logger,
	opts ...Option,
) Service {
	c := &coordinator{
		store:    store,
		registry: registry,
		notifier: notifier,
		params:   params,
		logger:   logger,
		locks:    newOfferLocks(),
		clocks:   race.NewClockTracker(),
		clock:    time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// now is UTC at the precision the store keeps.
func (c *coordinator) now() time.Time {
	return c.clock().UTC().Truncate(time.Microsecond)
}

// CreateOffer validates the terms and stores a new OPEN offer. A retried call with the same
// idempotency key and terms returns the offer created by the first call.
func (c *coordinator) CreateOffer(ctx context.Context, terms *offer.Terms) (snap *offer.Snapshot, err error) {
	defer c.observe("create_offer", time.Now(), &snap, &err)

	if terms == nil {
		return nil, toServiceError(fmt.Errorf("%w: terms are required", offer.ErrInvalidTerms))
	}
	if err := terms.Validate(c.registry); err != nil {
		return nil, toServiceError(err)
	}

	if terms.IdempotencyKey != "" {
		existing, err := c.byIdempotencyKey(ctx, terms)
		if err != nil || existing != nil {
			return existing, err
		}
	}

	now := c.now()
	o := offer.New(c.newID(), terms, now)
	if err := c.store.CreateOffer(ctx, o); err != nil {
		if errors.Is(err, offer.ErrDuplicateIdempotencyKey) {
			// lost a race with a concurrent create carrying the same key
			existing, lookupErr := c.byIdempotencyKey(ctx, terms)
			if lookupErr != nil || existing != nil {
				return existing, lookupErr
			}
		}
		return nil, storeError(fmt.Errorf("failed to create offer: %w", err))
	}

	snap = c.snapshot(o, now)
	c.notify(ctx, snap)
	return snap, nil
}

func (c *coordinator) byIdempotencyKey(ctx context.Context, terms *offer.Terms) (*offer.Snapshot, error) {
	existing, err := c.store.GetOfferByIdempotencyKey(ctx, terms.IdempotencyKey)
	if errors.Is(err, offer.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError(fmt.Errorf("failed to look up idempotency key: %w", err))
	}
	if !terms.Matches(existing) {
		return nil, toServiceError(fmt.Errorf("%w: idempotency key %q was used for different terms (offer %s)",
			offer.ErrInvalidTerms, terms.IdempotencyKey, existing.ID))
	}
	return c.snapshot(existing, c.now()), nil
}

// AcceptOffer records the taker and its hashlock.
func (c *coordinator) AcceptOffer(ctx context.Context, id string, req *offer.AcceptRequest) (snap *offer.Snapshot, err error) {
	defer c.observe("accept_offer", time.Now(), &snap, &err)

	if req == nil {
		return nil, toServiceError(fmt.Errorf("%w: accept request is required", offer.ErrInvalidTerms))
	}
	return c.mutate(ctx, id, &race.Intent{Kind: race.IntentAccept, Side: offer.SideTaker},
		func(o *offer.Offer, _ race.Clocks, now time.Time) (*offer.Offer, error) {
			if err := req.Validate(o, c.registry); err != nil {
				return nil, err
			}
			return o.Accept(req.TakerAddresses, req.SecretHash, now)
		})
}

// RecordLock records side's HTLC as reported by the party that deployed it.
func (c *coordinator) RecordLock(ctx context.Context, id string, side offer.Side, ref *offer.HTLCRef) (snap *offer.Snapshot, err error) {
	defer c.observe("record_lock", time.Now(), &snap, &err)

	if err := checkSide(side); err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, toServiceError(fmt.Errorf("%w: htlc is required", offer.ErrInvalidTerms))
	}
	normalized := normalizeRef(*ref)
	return c.mutate(ctx, id, &race.Intent{Kind: race.IntentLock, Side: side},
		func(o *offer.Offer, _ race.Clocks, now time.Time) (*offer.Offer, error) {
			return o.Lock(side, normalized, now, c.params)
		})
}

// RecordClaim records a claim by side. The creator reveals the preimage; the taker may echo it.
func (c *coordinator) RecordClaim(ctx context.Context, id string, side offer.Side, preimage secret.Preimage) (snap *offer.Snapshot, err error) {
	defer c.observe("record_claim", time.Now(), &snap, &err)

	if err := checkSide(side); err != nil {
		return nil, err
	}
	return c.mutate(ctx, id, &race.Intent{Kind: race.IntentClaim, Side: side},
		func(o *offer.Offer, _ race.Clocks, now time.Time) (*offer.Offer, error) {
			return o.Claim(side, preimage, now)
		})
}

// RecordRefund records that requester took back side's expired leg.
func (c *coordinator) RecordRefund(ctx context.Context, id string, side offer.Side, requester string) (snap *offer.Snapshot, err error) {
	defer c.observe("record_refund", time.Now(), &snap, &err)

	if err := checkSide(side); err != nil {
		return nil, err
	}
	if requester == "" {
		return nil, toServiceError(fmt.Errorf("%w: requester is required", offer.ErrInvalidTerms))
	}
	return c.mutate(ctx, id, &race.Intent{Kind: race.IntentRefund, Side: side, Requester: requester},
		func(o *offer.Offer, clocks race.Clocks, now time.Time) (*offer.Offer, error) {
			return o.Refund(side, requester, race.ChainNow(clocks, o.LegChain(side), now))
		})
}

// RecordExpiry moves an active offer whose deadline has passed to EXPIRED.
func (c *coordinator) RecordExpiry(ctx context.Context, id string, side offer.Side) (snap *offer.Snapshot, err error) {
	defer c.observe("record_expiry", time.Now(), &snap, &err)

	if err := checkSide(side); err != nil {
		return nil, err
	}
	return c.mutate(ctx, id, &race.Intent{Kind: race.IntentExpire, Side: side},
		func(o *offer.Offer, clocks race.Clocks, now time.Time) (*offer.Offer, error) {
			return o.Expire(side, race.ChainNow(clocks, race.DeadlineChain(o), now), c.params)
		})
}

// QueryOffer returns the current snapshot without taking the offer lock.
func (c *coordinator) QueryOffer(ctx context.Context, id string) (*offer.Snapshot, error) {
	o, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.snapshot(o, c.now()), nil
}

// ListOffers returns snapshots matching the filter, newest first.
func (c *coordinator) ListOffers(ctx context.Context, filter *offer.Filter) ([]*offer.Snapshot, error) {
	f := offer.Filter{}
	if filter != nil {
		f = *filter
	}
	switch {
	case f.Limit < 0 || f.Offset < 0:
		return nil, toServiceError(fmt.Errorf("%w: limit and offset must not be negative", offer.ErrInvalidTerms))
	case f.Limit == 0:
		f.Limit = defaultListLimit
	case f.Limit > maxListLimit:
		f.Limit = maxListLimit
	}

	offers, err := c.store.ListOffers(ctx, &f)
	if err != nil {
		return nil, storeError(fmt.Errorf("failed to list offers: %w", err))
	}
	now := c.now()
	snaps := make([]*offer.Snapshot, 0, len(offers))
	for _, o := range offers {
		snaps = append(snaps, c.snapshot(o, now))
	}
	return snaps, nil
}

// ObserveChainEvent applies a finalized gateway observation. Chain events are facts, so
// the resolver's wall clock policy does not apply; the state machine guards run against the
// event's ledger time instead.
func (c *coordinator) ObserveChainEvent(ctx context.Context, ev *offer.ChainEvent) (snap *offer.Snapshot, err error) {
	defer c.observe("observe_chain_event", time.Now(), &snap, &err)

	if ev == nil {
		return nil, toServiceError(fmt.Errorf("%w: event is required", offer.ErrInvalidTerms))
	}
	if err := ev.Validate(); err != nil {
		return nil, toServiceError(err)
	}

	if !ev.ChainTime.IsZero() {
		if limit := c.now().Add(c.params.ClockSkew); ev.ChainTime.After(limit) {
			return nil, toServiceError(fmt.Errorf("%w: chain time %s is more than %s ahead of the coordinator clock",
				offer.ErrInvalidTerms, ev.ChainTime.UTC().Format(time.RFC3339), c.params.ClockSkew))
		}
	}

	var observed time.Time
	apply := func(o *offer.Offer, clocks race.Clocks, now time.Time) (*offer.Offer, error) {
		legChain := o.LegChain(ev.Side)
		metrics.ChainEventsTotal.WithLabelValues(legChain.String(), string(ev.Kind)).Inc()

		// without a ledger time the event happened no earlier than the chain was last seen
		at := race.ChainNow(clocks, legChain, now)
		if !ev.ChainTime.IsZero() {
			at = ev.ChainTime.UTC().Truncate(time.Microsecond)
		}
		if last := o.Seq(ev.Side); ev.Sequence <= last {
			return nil, fmt.Errorf("%w: %s leg event sequence %d is not after %d", offer.ErrStaleEvent, ev.Side, ev.Sequence, last)
		}

		next, err := c.applyChainEvent(o, ev, at)
		if err != nil {
			return nil, err
		}
		if next == o {
			next = o.Clone()
		}
		next.SetSeq(ev.Side, ev.Sequence)
		if !ev.ChainTime.IsZero() {
			observed = at
		}
		return next, nil
	}

	// the chain clock only advances for events that were recorded
	return c.mutate(ctx, ev.OfferID, nil, apply, func(o *offer.Offer) {
		if !observed.IsZero() {
			c.clocks.Observe(o.LegChain(ev.Side), observed)
		}
	})
}

func (c *coordinator) applyChainEvent(o *offer.Offer, ev *offer.ChainEvent, at time.Time) (*offer.Offer, error) {
	switch ev.Kind {
	case chain.LockStateLocked:
		if leg, ok := o.Leg(ev.Side); ok && leg.Settled() {
			return nil, fmt.Errorf("%w: %s leg has already settled; lock observation is outdated", offer.ErrStaleEvent, ev.Side)
		}
		return o.Lock(ev.Side, normalizeRef(*ev.Ref), at, c.params)
	case chain.LockStateClaimed:
		// a leg is claimed by its counterparty
		return o.Claim(ev.Side.Other(), ev.Secret, at)
	case chain.LockStateRefunded:
		leg, ok := o.Leg(ev.Side)
		if !ok {
			return nil, fmt.Errorf("%w: refund observed for unrecorded %s leg", offer.ErrInvalidTransition, ev.Side)
		}
		return o.Refund(ev.Side, leg.Sender, at)
	default:
		return o.Expire(ev.Side, at, c.params)
	}
}

type applyFunc func(o *offer.Offer, clocks race.Clocks, now time.Time) (*offer.Offer, error)

// mutate runs one read-check-apply-write cycle while holding the offer lock. A transition
// that returns its receiver changed nothing and is not persisted. onCommit runs after the
// write succeeded, still under the lock.
//
// Notifiers are called under the lock too, so they see one offer's snapshots in version
// order.
func (c *coordinator) mutate(ctx context.Context, id string, intent *race.Intent, apply applyFunc, onCommit ...func(*offer.Offer)) (*offer.Snapshot, error) {
	unlock := c.locks.lock(id)
	defer unlock()

	cur, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}

	now := c.now()
	clocks := c.clocks.Snapshot()
	if intent != nil {
		actions := race.Resolve(cur, clocks, now, c.params)
		if err := race.Check(cur, actions, *intent); err != nil {
			return nil, toServiceError(err)
		}
	}

	next, err := apply(cur, clocks, now)
	if err != nil {
		return nil, toServiceError(err)
	}
	if next == cur {
		return c.snapshotWith(cur, clocks, now), nil
	}

	next.Version = cur.Version + 1
	next.UpdatedAt = now
	if err := c.store.UpdateOffer(ctx, next, cur.Version); err != nil {
		return nil, storeError(fmt.Errorf("failed to update offer %s: %w", id, err))
	}
	for _, fn := range onCommit {
		fn(next)
	}

	snap := c.snapshotWith(next, c.clocks.Snapshot(), now)
	c.notify(ctx, snap)
	return snap, nil
}

func (c *coordinator) load(ctx context.Context, id string) (*offer.Offer, error) {
	if id == "" {
		return nil, toServiceError(fmt.Errorf("%w: offer id is required", offer.ErrInvalidTerms))
	}
	o, err := c.store.GetOffer(ctx, id)
	if err != nil {
		return nil, storeError(fmt.Errorf("failed to load offer %s: %w", id, err))
	}
	return o, nil
}

func (c *coordinator) snapshot(o *offer.Offer, now time.Time) *offer.Snapshot {
	return c.snapshotWith(o, c.clocks.Snapshot(), now)
}

func (c *coordinator) snapshotWith(o *offer.Offer, clocks race.Clocks, now time.Time) *offer.Snapshot {
	return &offer.Snapshot{Offer: o, Actions: race.Resolve(o, clocks, now, c.params)}
}

func (c *coordinator) notify(ctx context.Context, snap *offer.Snapshot) {
	if c.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	if err := c.notifier.Notify(ctx, snap); err != nil {
		c.logger.Warn("Offer notification failed",
			zap.String("offer_id", snap.Offer.ID),
			zap.String("status", string(snap.Offer.Status)),
			zap.Error(err))
		metrics.ErrorsTotal.WithLabelValues("coordinator", "notify").Inc()
	}
}

func (c *coordinator) observe(op string, start time.Time, snap **offer.Snapshot, err *error) {
	metrics.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if *err != nil {
		reason := offer.Reason(*err)
		if reason == "" {
			reason = "internal"
		}
		metrics.RejectionsTotal.WithLabelValues(op, reason).Inc()
		return
	}
	if *snap != nil {
		metrics.TransitionsTotal.WithLabelValues(op, string((*snap).Offer.Status)).Inc()
	}
}

func checkSide(side offer.Side) error {
	if side != offer.SideCreator && side != offer.SideTaker {
		return toServiceError(fmt.Errorf("%w: unknown side %q", offer.ErrInvalidTerms, side))
	}
	return nil
}

func normalizeRef(ref offer.HTLCRef) offer.HTLCRef {
	ref.ExpiresAt = ref.ExpiresAt.UTC().Truncate(time.Microsecond)
	return ref
}
