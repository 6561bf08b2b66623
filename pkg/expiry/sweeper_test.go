package expiry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chainsafe/swap-coordinator/internal/metrics"
	"github.com/chainsafe/swap-coordinator/pkg/chain"
	"github.com/chainsafe/swap-coordinator/pkg/offer"
	"github.com/chainsafe/swap-coordinator/pkg/offer/service"
	"github.com/chainsafe/swap-coordinator/pkg/offer/service/mocks"
	"github.com/chainsafe/swap-coordinator/pkg/offerstore"
	"github.com/chainsafe/swap-coordinator/pkg/secret"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func snapshot(id string, st offer.Status, canExpire bool) *offer.Snapshot {
	return &offer.Snapshot{
		Offer:   &offer.Offer{ID: id, Status: st},
		Actions: offer.Actions{CanExpire: canExpire},
	}
}

func TestSweeper_ExpiresDueOffers(t *testing.T) {
	coordinator := mocks.NewService(t)
	coordinator.EXPECT().
		ListOffers(mock.Anything, mock.MatchedBy(func(f *offer.Filter) bool {
			return f.Offset == 0 && f.Limit == pageSize && assert.ObjectsAreEqual(offer.ActiveStatuses, f.Statuses)
		})).
		Return([]*offer.Snapshot{
			snapshot("open-due", offer.StatusOpen, true),
			snapshot("locked-due", offer.StatusTakerLocked, true),
			snapshot("not-due", offer.StatusBothLocked, false),
		}, nil).Once()
	coordinator.EXPECT().RecordExpiry(mock.Anything, "open-due", offer.SideCreator).
		Return(snapshot("open-due", offer.StatusExpired, false), nil).Once()
	coordinator.EXPECT().RecordExpiry(mock.Anything, "locked-due", offer.SideTaker).
		Return(snapshot("locked-due", offer.StatusExpired, false), nil).Once()

	s := New(coordinator, nil, "", 0, zap.NewNop())
	res, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Result{Scanned: 3, Expired: 2}, res)
}

func TestSweeper_RaceLostIsNotAFailure(t *testing.T) {
	coordinator := mocks.NewService(t)
	coordinator.EXPECT().ListOffers(mock.Anything, mock.Anything).
		Return([]*offer.Snapshot{
			snapshot("claimed-meanwhile", offer.StatusBothLocked, true),
			snapshot("db-error", offer.StatusBothLocked, true),
		}, nil).Once()
	coordinator.EXPECT().RecordExpiry(mock.Anything, "claimed-meanwhile", offer.SideTaker).
		Return(nil, fmt.Errorf("%w: cannot expire a CREATOR_CLAIMED offer", offer.ErrInvalidTransition)).Once()
	coordinator.EXPECT().RecordExpiry(mock.Anything, "db-error", offer.SideTaker).
		Return(nil, errors.New("connection reset")).Once()

	before := testutil.ToFloat64(metrics.SweeperRunsTotal.WithLabelValues("partial"))

	s := New(coordinator, nil, "", 0, zap.NewNop())
	res, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Result{Scanned: 2, Expired: 0, Failed: 1}, res)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.SweeperRunsTotal.WithLabelValues("partial")))
}

func TestSweeper_ListFailure(t *testing.T) {
	coordinator := mocks.NewService(t)
	coordinator.EXPECT().ListOffers(mock.Anything, mock.Anything).
		Return(nil, errors.New("db down")).Once()

	s := New(coordinator, nil, "", 0, zap.NewNop())
	_, err := s.Sweep(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestSweeper_CollectsAllPagesFirst(t *testing.T) {
	coordinator := mocks.NewService(t)
	full := make([]*offer.Snapshot, pageSize)
	for i := range full {
		full[i] = snapshot(fmt.Sprintf("o-%d", i), offer.StatusOpen, false)
	}
	full[0].Actions.CanExpire = true

	var calls []string
	coordinator.EXPECT().ListOffers(mock.Anything, mock.MatchedBy(func(f *offer.Filter) bool { return f.Offset == 0 })).
		RunAndReturn(func(context.Context, *offer.Filter) ([]*offer.Snapshot, error) {
			calls = append(calls, "list-0")
			return full, nil
		}).Once()
	coordinator.EXPECT().ListOffers(mock.Anything, mock.MatchedBy(func(f *offer.Filter) bool { return f.Offset == pageSize })).
		RunAndReturn(func(context.Context, *offer.Filter) ([]*offer.Snapshot, error) {
			calls = append(calls, "list-1")
			return []*offer.Snapshot{snapshot("tail", offer.StatusOpen, true)}, nil
		}).Once()
	coordinator.EXPECT().RecordExpiry(mock.Anything, mock.Anything, offer.SideCreator).
		RunAndReturn(func(_ context.Context, id string, _ offer.Side) (*offer.Snapshot, error) {
			calls = append(calls, "expire-"+id)
			return snapshot(id, offer.StatusExpired, false), nil
		}).Twice()

	s := New(coordinator, nil, "", 0, zap.NewNop())
	res, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, pageSize+1, res.Scanned)
	assert.Equal(t, []string{"list-0", "list-1", "expire-o-0", "expire-tail"}, calls)
}

func TestSweeper_StartRejectsBadSchedule(t *testing.T) {
	s := New(mocks.NewService(t), nil, "every now and then", 0, zap.NewNop())
	assert.Error(t, s.Start())
	s.Stop()
}

func TestSweeper_StartStop(t *testing.T) {
	s := New(mocks.NewService(t), nil, "@every 1h", 0, zap.NewNop())
	require.NoError(t, s.Start())
	assert.Error(t, s.Start())
	s.Stop()
	s.Stop()
}

// TestSweeper_WithCoordinator runs the sweeper against the real coordinator and in-memory
// store: an abandoned offer expires once its TTL is past, a fresh one does not.
func TestSweeper_WithCoordinator(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: t0}
	store := offerstore.NewMemoryStore()

	reg := chain.NewRegistry()
	reg.Register(chain.TON, nil)
	reg.Register(chain.Stellar, nil)

	params := offer.DefaultParams()
	svc := service.NewService(store, reg, nil, params, zap.NewNop(), service.WithClock(clock.Now))

	terms := func(key string) *offer.Terms {
		return &offer.Terms{
			CreatorAddresses: offer.Addresses{chain.TON: "creator-ton", chain.Stellar: "creator-xlm"},
			AmountFrom:       decimal.RequireFromString("10"),
			AmountTo:         decimal.RequireFromString("20"),
			TokenFrom:        "TON",
			TokenTo:          "XLM",
			ChainFrom:        chain.TON,
			ChainTo:          chain.Stellar,
			IdempotencyKey:   key,
		}
	}

	stale, err := svc.CreateOffer(ctx, terms("stale"))
	require.NoError(t, err)
	_, err = svc.AcceptOffer(ctx, stale.Offer.ID, &offer.AcceptRequest{
		TakerAddresses: offer.Addresses{chain.TON: "taker-ton", chain.Stellar: "taker-xlm"},
		SecretHash:     secret.Sum(secret.Preimage("abandoned")),
	})
	require.NoError(t, err)

	clock.Advance(params.OfferTTL + params.ClockSkew)
	fresh, err := svc.CreateOffer(ctx, terms("fresh"))
	require.NoError(t, err)

	s := New(svc, store, "", 0, zap.NewNop())
	res, err := s.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Scanned)
	assert.Equal(t, 1, res.Expired)

	got, err := svc.QueryOffer(ctx, stale.Offer.ID)
	require.NoError(t, err)
	assert.Equal(t, offer.StatusExpired, got.Offer.Status)
	assert.Equal(t, offer.SideCreator, got.Offer.ExpiredSide)

	got, err = svc.QueryOffer(ctx, fresh.Offer.ID)
	require.NoError(t, err)
	assert.Equal(t, offer.StatusOpen, got.Offer.Status)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ActiveOffers.WithLabelValues(string(offer.StatusOpen))))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.ActiveOffers.WithLabelValues(string(offer.StatusTakerLocked))))
}
