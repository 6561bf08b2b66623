package offerstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainsafe/swap-coordinator/pkg/chain"
	"github.com/chainsafe/swap-coordinator/pkg/offer"
	"github.com/chainsafe/swap-coordinator/pkg/offer/service"
	"github.com/chainsafe/swap-coordinator/pkg/secret"
)

var (
	_ service.Store = (*pgStore)(nil)
	_ service.Store = (*MemoryStore)(nil)

	t0       = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	preimage = secret.Preimage("correct horse battery staple")
)

func newOffer(id string, createdAt time.Time) *offer.Offer {
	return offer.New(id, &offer.Terms{
		CreatorAddresses: offer.Addresses{chain.TON: "creator-ton", chain.Stellar: "creator-xlm"},
		AmountFrom:       decimal.RequireFromString("1000.5"),
		AmountTo:         decimal.RequireFromString("980"),
		TokenFrom:        "TON",
		TokenTo:          "XLM",
		ChainFrom:        chain.TON,
		ChainTo:          chain.Stellar,
	}, createdAt)
}

// takerLocked walks o to TAKER_LOCKED with every optional column populated.
func takerLocked(t *testing.T, o *offer.Offer) *offer.Offer {
	t.Helper()
	hash := secret.Sum(preimage)
	next, err := o.Accept(offer.Addresses{chain.TON: "taker-ton", chain.Stellar: "taker-xlm"}, hash, t0)
	require.NoError(t, err)
	next, err = next.Lock(offer.SideTaker, offer.HTLCRef{
		Chain:     chain.Stellar,
		Ref:       "xlm-htlc-1",
		Sender:    "taker-xlm",
		Receiver:  "creator-xlm",
		Token:     "XLM",
		Amount:    decimal.RequireFromString("980"),
		HashLock:  hash,
		ExpiresAt: t0.Add(time.Hour),
	}, t0.Add(time.Minute), offer.DefaultParams())
	require.NoError(t, err)
	next.SetSeq(offer.SideTaker, 7)
	next.Version = o.Version + 1
	next.UpdatedAt = t0.Add(time.Minute)
	return next
}

type storeUnderTest interface {
	service.Store
	CountByStatus(ctx context.Context) (map[offer.Status]int, error)
}

// testStoreContract runs the behavior both stores must share.
func testStoreContract(t *testing.T, newStore func(t *testing.T) storeUnderTest) {
	t.Run("create and get", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		o := newOffer("offer-1", t0)
		require.NoError(t, s.CreateOffer(ctx, o))

		got, err := s.GetOffer(ctx, "offer-1")
		require.NoError(t, err)
		assert.Equal(t, offer.StatusOpen, got.Status)
		assert.True(t, got.AmountFrom.Equal(o.AmountFrom))
		assert.Equal(t, o.CreatorAddresses, got.CreatorAddresses)
		assert.Equal(t, int64(1), got.Version)
		assert.True(t, got.CreatedAt.Equal(t0))

		_, err = s.GetOffer(ctx, "missing")
		assert.ErrorIs(t, err, offer.ErrNotFound)
	})

	t.Run("idempotency key is unique", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		a := newOffer("offer-a", t0)
		a.IdempotencyKey = "key-1"
		require.NoError(t, s.CreateOffer(ctx, a))

		b := newOffer("offer-b", t0)
		b.IdempotencyKey = "key-1"
		assert.ErrorIs(t, s.CreateOffer(ctx, b), offer.ErrDuplicateIdempotencyKey)

		// offers without a key never collide
		require.NoError(t, s.CreateOffer(ctx, newOffer("offer-c", t0)))
		require.NoError(t, s.CreateOffer(ctx, newOffer("offer-d", t0)))

		got, err := s.GetOfferByIdempotencyKey(ctx, "key-1")
		require.NoError(t, err)
		assert.Equal(t, "offer-a", got.ID)

		_, err = s.GetOfferByIdempotencyKey(ctx, "key-2")
		assert.ErrorIs(t, err, offer.ErrNotFound)
	})

	t.Run("update checks version", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		o := newOffer("offer-1", t0)
		require.NoError(t, s.CreateOffer(ctx, o))

		next := takerLocked(t, o)
		require.NoError(t, s.UpdateOffer(ctx, next, 1))

		got, err := s.GetOffer(ctx, "offer-1")
		require.NoError(t, err)
		assert.Equal(t, offer.StatusTakerLocked, got.Status)
		assert.Equal(t, int64(2), got.Version)
		assert.Equal(t, uint64(7), got.TakerSeq)
		assert.Equal(t, next.SecretHash, got.SecretHash)
		require.NotNil(t, got.TakerLeg)
		assert.True(t, got.TakerLeg.Equal(next.TakerLeg.HTLCRef))

		stale := next.Clone()
		stale.Version = 3
		assert.ErrorIs(t, s.UpdateOffer(ctx, stale, 1), offer.ErrConflict)

		missing := newOffer("missing", t0)
		assert.ErrorIs(t, s.UpdateOffer(ctx, missing, 1), offer.ErrNotFound)
	})

	t.Run("list filters and pages newest first", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		for i := range 5 {
			require.NoError(t, s.CreateOffer(ctx, newOffer(fmt.Sprintf("offer-%d", i), t0.Add(time.Duration(i)*time.Minute))))
		}
		o, err := s.GetOffer(ctx, "offer-2")
		require.NoError(t, err)
		require.NoError(t, s.UpdateOffer(ctx, takerLocked(t, o), o.Version))

		all, err := s.ListOffers(ctx, &offer.Filter{})
		require.NoError(t, err)
		require.Len(t, all, 5)
		assert.Equal(t, "offer-4", all[0].ID)
		assert.Equal(t, "offer-0", all[4].ID)

		page, err := s.ListOffers(ctx, &offer.Filter{Limit: 2, Offset: 1})
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "offer-3", page[0].ID)
		assert.Equal(t, "offer-2", page[1].ID)

		locked, err := s.ListOffers(ctx, &offer.Filter{Statuses: []offer.Status{offer.StatusTakerLocked}})
		require.NoError(t, err)
		require.Len(t, locked, 1)
		assert.Equal(t, "offer-2", locked[0].ID)

		counts, err := s.CountByStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, counts[offer.StatusOpen])
		assert.Equal(t, 1, counts[offer.StatusTakerLocked])
	})
}
