package offer

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainsafe/swap-coordinator/pkg/chain"
	"github.com/chainsafe/swap-coordinator/pkg/secret"
)

var (
	t0       = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	params   = DefaultParams()
	preimage = secret.Preimage("correct horse battery staple")
	hash     = secret.Sum(preimage)

	creator = Addresses{chain.TON: "creator-ton", chain.Stellar: "creator-xlm"}
	taker   = Addresses{chain.TON: "taker-ton", chain.Stellar: "taker-xlm"}
)

func openOffer() *Offer {
	return New("offer-1", &Terms{
		CreatorAddresses: creator,
		AmountFrom:       decimal.RequireFromString("1000"),
		AmountTo:         decimal.RequireFromString("980"),
		TokenFrom:        "TON",
		TokenTo:          "XLM",
		ChainFrom:        chain.TON,
		ChainTo:          chain.Stellar,
	}, t0)
}

func takerRef(expires time.Time) HTLCRef {
	return HTLCRef{
		Chain:     chain.Stellar,
		Ref:       "xlm-htlc-1",
		Sender:    "taker-xlm",
		Receiver:  "creator-xlm",
		Token:     "XLM",
		Amount:    decimal.RequireFromString("980"),
		HashLock:  hash,
		ExpiresAt: expires,
	}
}

func creatorRef(expires time.Time) HTLCRef {
	return HTLCRef{
		Chain:     chain.TON,
		Ref:       "ton-htlc-1",
		Sender:    "creator-ton",
		Receiver:  "taker-ton",
		Token:     "TON",
		Amount:    decimal.RequireFromString("1000"),
		HashLock:  hash,
		ExpiresAt: expires,
	}
}

// step fails the test unless a transition succeeded: step(t)(o.Accept(...)).
func step(t *testing.T) func(*Offer, error) *Offer {
	return func(o *Offer, err error) *Offer {
		t.Helper()
		require.NoError(t, err)
		require.NotNil(t, o)
		return o
	}
}

func requireKind(t *testing.T, err error, kind error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, kind), "want %v, got %v", kind, err)
}

func bothLocked(t *testing.T) *Offer {
	t.Helper()
	o := step(t)(openOffer().Accept(taker, hash, t0))
	o = step(t)(o.TakerLock(takerRef(t0.Add(3600*time.Second)), t0.Add(time.Minute), params))
	return step(t)(o.CreatorLock(creatorRef(t0.Add(3480*time.Second)), t0.Add(2*time.Minute), params))
}

func TestHappyPath(t *testing.T) {
	o := openOffer()
	assert.Equal(t, StatusOpen, o.Status)
	assert.Equal(t, int64(1), o.Version)

	o = step(t)(o.Accept(taker, hash, t0))
	assert.Equal(t, StatusOpen, o.Status)
	h, ok := o.Hash()
	require.True(t, ok)
	assert.Equal(t, hash, h)

	o = step(t)(o.Lock(SideTaker, takerRef(t0.Add(3600*time.Second)), t0.Add(time.Minute), params))
	assert.Equal(t, StatusTakerLocked, o.Status)

	o = step(t)(o.Lock(SideCreator, creatorRef(t0.Add(3480*time.Second)), t0.Add(2*time.Minute), params))
	assert.Equal(t, StatusBothLocked, o.Status)

	o = step(t)(o.Claim(SideCreator, preimage, t0.Add(10*time.Minute)))
	assert.Equal(t, StatusCreatorClaimed, o.Status)
	revealed, ok := o.Preimage()
	require.True(t, ok)
	assert.True(t, revealed.Equal(preimage))
	assert.True(t, o.TakerLeg.Claimed)

	o = step(t)(o.Claim(SideTaker, nil, t0.Add(11*time.Minute)))
	assert.Equal(t, StatusClosed, o.Status)
	assert.True(t, o.CreatorLeg.Claimed)
	assert.True(t, o.Status.Terminal())
}

func TestTransitionsDoNotMutateReceiver(t *testing.T) {
	o := openOffer()
	accepted := step(t)(o.Accept(taker, hash, t0))
	assert.Nil(t, o.TakerAddresses)
	assert.True(t, o.SecretHash.IsZero())

	locked := step(t)(accepted.TakerLock(takerRef(t0.Add(time.Hour)), t0, params))
	assert.Equal(t, StatusOpen, accepted.Status)
	assert.Nil(t, accepted.TakerLeg)

	locked.TakerLeg.Ref = "changed"
	relock, err := accepted.TakerLock(takerRef(t0.Add(time.Hour)), t0, params)
	require.NoError(t, err)
	assert.Equal(t, "xlm-htlc-1", relock.TakerLeg.Ref)

	both := bothLocked(t)
	claimed := step(t)(both.CreatorClaim(preimage, t0.Add(5*time.Minute)))
	assert.False(t, both.TakerLeg.Claimed)
	assert.Empty(t, both.SecretPreimage)
	assert.True(t, claimed.TakerLeg.Claimed)
}

func TestIdempotentRetriesReturnReceiver(t *testing.T) {
	o := bothLocked(t)

	same, err := o.Accept(taker, hash, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Same(t, o, same)

	same, err = o.TakerLock(*refOf(o.TakerLeg), t0.Add(3*time.Minute), params)
	require.NoError(t, err)
	assert.Same(t, o, same)

	same, err = o.CreatorLock(*refOf(o.CreatorLeg), t0.Add(3*time.Minute), params)
	require.NoError(t, err)
	assert.Same(t, o, same)

	claimed := step(t)(o.CreatorClaim(preimage, t0.Add(5*time.Minute)))
	same, err = claimed.CreatorClaim(preimage, t0.Add(6*time.Minute))
	require.NoError(t, err)
	assert.Same(t, claimed, same)

	closed := step(t)(claimed.TakerClaim(t0.Add(7*time.Minute)))
	same, err = closed.TakerClaim(t0.Add(8*time.Minute))
	require.NoError(t, err)
	assert.Same(t, closed, same)
}

func refOf(l *Leg) *HTLCRef {
	r := l.HTLCRef
	return &r
}

func TestAccept(t *testing.T) {
	t.Run("second taker is rejected", func(t *testing.T) {
		o := step(t)(openOffer().Accept(taker, hash, t0))
		other := Addresses{chain.TON: "other-ton", chain.Stellar: "other-xlm"}
		_, err := o.Accept(other, hash, t0)
		requireKind(t, err, ErrAlreadyTaken)
	})
	t.Run("zero hash", func(t *testing.T) {
		_, err := openOffer().Accept(taker, secret.Hash{}, t0)
		requireKind(t, err, ErrInvalidTerms)
	})
	t.Run("missing address", func(t *testing.T) {
		_, err := openOffer().Accept(Addresses{chain.TON: "taker-ton"}, hash, t0)
		requireKind(t, err, ErrInvalidTerms)
	})
	t.Run("taker equals creator", func(t *testing.T) {
		_, err := openOffer().Accept(Addresses{chain.TON: "creator-ton", chain.Stellar: "taker-xlm"}, hash, t0)
		requireKind(t, err, ErrInvalidTransition)
	})
	t.Run("locked offer", func(t *testing.T) {
		o := bothLocked(t)
		_, err := o.Accept(Addresses{chain.TON: "x", chain.Stellar: "y"}, hash, t0)
		requireKind(t, err, ErrAlreadyTaken)
	})
}

func TestTakerLockGuards(t *testing.T) {
	accepted := step(t)(openOffer().Accept(taker, hash, t0))

	tests := []struct {
		name string
		o    *Offer
		ref  func() HTLCRef
		now  time.Time
		want error
	}{
		{
			name: "not accepted",
			o:    openOffer(),
			ref:  func() HTLCRef { return takerRef(t0.Add(time.Hour)) },
			now:  t0,
			want: ErrInvalidTransition,
		},
		{
			name: "wrong chain",
			o:    accepted,
			ref: func() HTLCRef {
				r := takerRef(t0.Add(time.Hour))
				r.Chain = chain.TON
				return r
			},
			now:  t0,
			want: ErrInvalidTransition,
		},
		{
			name: "wrong amount",
			o:    accepted,
			ref: func() HTLCRef {
				r := takerRef(t0.Add(time.Hour))
				r.Amount = decimal.RequireFromString("979.99")
				return r
			},
			now:  t0,
			want: ErrInvalidTransition,
		},
		{
			name: "wrong receiver",
			o:    accepted,
			ref: func() HTLCRef {
				r := takerRef(t0.Add(time.Hour))
				r.Receiver = "someone-else"
				return r
			},
			now:  t0,
			want: ErrInvalidTransition,
		},
		{
			name: "wrong hashlock",
			o:    accepted,
			ref: func() HTLCRef {
				r := takerRef(t0.Add(time.Hour))
				r.HashLock = secret.Sum(secret.Preimage("other"))
				return r
			},
			now:  t0,
			want: ErrHashMismatch,
		},
		{
			name: "expiry inside the minimum window",
			o:    accepted,
			ref:  func() HTLCRef { return takerRef(t0.Add(params.MinWindow - time.Second)) },
			now:  t0,
			want: ErrExpiryViolation,
		},
		{
			name: "offer past its TTL",
			o:    accepted,
			ref:  func() HTLCRef { return takerRef(t0.Add(params.OfferTTL + 2*time.Hour)) },
			now:  t0.Add(params.OfferTTL),
			want: ErrExpiryViolation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.o.TakerLock(tt.ref(), tt.now, params)
			requireKind(t, err, tt.want)
		})
	}

	t.Run("minimum window boundary is inclusive", func(t *testing.T) {
		_, err := accepted.TakerLock(takerRef(t0.Add(params.MinWindow)), t0, params)
		assert.NoError(t, err)
	})
	t.Run("amount compares numerically", func(t *testing.T) {
		r := takerRef(t0.Add(time.Hour))
		r.Amount = decimal.RequireFromString("980.000")
		_, err := accepted.TakerLock(r, t0, params)
		assert.NoError(t, err)
	})
	t.Run("different ref after lock", func(t *testing.T) {
		locked := step(t)(accepted.TakerLock(takerRef(t0.Add(time.Hour)), t0, params))
		r := takerRef(t0.Add(time.Hour))
		r.Ref = "xlm-htlc-2"
		_, err := locked.TakerLock(r, t0, params)
		requireKind(t, err, ErrInvalidTransition)
	})
}

func TestCreatorLockGuards(t *testing.T) {
	accepted := step(t)(openOffer().Accept(taker, hash, t0))
	takerExp := t0.Add(3600 * time.Second)
	locked := step(t)(accepted.TakerLock(takerRef(takerExp), t0, params))

	t.Run("before the taker locked", func(t *testing.T) {
		_, err := accepted.CreatorLock(creatorRef(t0.Add(time.Hour)), t0, params)
		requireKind(t, err, ErrInvalidTransition)
	})
	t.Run("expiry too close to the taker expiry", func(t *testing.T) {
		_, err := locked.CreatorLock(creatorRef(takerExp.Add(-params.SafetyMargin+time.Second)), t0, params)
		requireKind(t, err, ErrExpiryViolation)
	})
	t.Run("margin boundary is inclusive", func(t *testing.T) {
		o, err := locked.CreatorLock(creatorRef(takerExp.Add(-params.SafetyMargin)), t0, params)
		require.NoError(t, err)
		assert.Equal(t, StatusBothLocked, o.Status)
	})
	t.Run("already expired", func(t *testing.T) {
		exp := t0.Add(10 * time.Minute)
		_, err := locked.CreatorLock(creatorRef(exp), exp, params)
		requireKind(t, err, ErrExpiryViolation)
	})
	t.Run("hashlock mismatch", func(t *testing.T) {
		r := creatorRef(t0.Add(3480 * time.Second))
		r.HashLock = secret.Sum(secret.Preimage("nope"))
		_, err := locked.CreatorLock(r, t0, params)
		requireKind(t, err, ErrHashMismatch)
	})
	t.Run("funded by the taker", func(t *testing.T) {
		r := creatorRef(t0.Add(3480 * time.Second))
		r.Sender = "taker-ton"
		_, err := locked.CreatorLock(r, t0, params)
		requireKind(t, err, ErrInvalidTransition)
	})
}

func TestCreatorClaimGuards(t *testing.T) {
	o := bothLocked(t)

	t.Run("bad secret", func(t *testing.T) {
		_, err := o.CreatorClaim(secret.Preimage("wrong"), t0.Add(5*time.Minute))
		requireKind(t, err, ErrHashMismatch)
		assert.Equal(t, StatusBothLocked, o.Status)
	})
	t.Run("empty secret", func(t *testing.T) {
		_, err := o.CreatorClaim(nil, t0.Add(5*time.Minute))
		requireKind(t, err, ErrHashMismatch)
	})
	t.Run("after the taker leg expired", func(t *testing.T) {
		_, err := o.CreatorClaim(preimage, o.TakerLeg.ExpiresAt)
		requireKind(t, err, ErrExpiryViolation)
	})
	t.Run("different preimage after reveal", func(t *testing.T) {
		claimed := step(t)(o.CreatorClaim(preimage, t0.Add(5*time.Minute)))
		_, err := claimed.CreatorClaim(secret.Preimage("other"), t0.Add(6*time.Minute))
		requireKind(t, err, ErrInvalidTransition)
	})
	t.Run("skipping states", func(t *testing.T) {
		accepted := step(t)(openOffer().Accept(taker, hash, t0))
		_, err := accepted.CreatorClaim(preimage, t0)
		requireKind(t, err, ErrInvalidTransition)
	})
}

func TestTakerClaimGuards(t *testing.T) {
	o := bothLocked(t)

	_, err := o.TakerClaim(t0.Add(5 * time.Minute))
	requireKind(t, err, ErrInvalidTransition)

	claimed := step(t)(o.CreatorClaim(preimage, t0.Add(5*time.Minute)))
	_, err = claimed.TakerClaim(claimed.CreatorLeg.ExpiresAt)
	requireKind(t, err, ErrExpiryViolation)

	refunded := step(t)(claimed.Refund(SideCreator, "creator-ton", claimed.TakerLeg.ExpiresAt))
	assert.Equal(t, StatusCreatorClaimed, refunded.Status)
	_, err = refunded.TakerClaim(t0.Add(6 * time.Minute))
	requireKind(t, err, ErrInvalidTransition)
}

func TestExpiredNoShow(t *testing.T) {
	accepted := step(t)(openOffer().Accept(taker, hash, t0))
	takerExp := t0.Add(3600 * time.Second)
	locked := step(t)(accepted.TakerLock(takerRef(takerExp), t0.Add(time.Minute), params))

	_, err := locked.Expire(SideTaker, takerExp.Add(-time.Second), params)
	requireKind(t, err, ErrExpiryViolation)

	expired := step(t)(locked.Expire(SideTaker, takerExp, params))
	assert.Equal(t, StatusExpired, expired.Status)
	assert.Equal(t, SideTaker, expired.ExpiredSide)

	// the taker can still take its leg back
	refunded := step(t)(expired.Refund(SideTaker, "taker-xlm", takerExp.Add(time.Minute)))
	assert.True(t, refunded.TakerLeg.Refunded)
	assert.Equal(t, StatusExpired, refunded.Status)

	// the creator never locked, so the offer can never reach BOTH_LOCKED
	_, err = expired.CreatorLock(creatorRef(takerExp.Add(-time.Hour)), takerExp, params)
	requireKind(t, err, ErrInvalidTransition)

	again, err := expired.Expire(SideCreator, takerExp.Add(time.Hour), params)
	require.NoError(t, err)
	assert.Same(t, expired, again)
}

func TestExpireOpenOfferAfterTTL(t *testing.T) {
	o := openOffer()
	_, err := o.Expire(SideCreator, t0.Add(params.OfferTTL-time.Second), params)
	requireKind(t, err, ErrExpiryViolation)

	expired := step(t)(o.Expire(SideCreator, t0.Add(params.OfferTTL), params))
	assert.Equal(t, StatusExpired, expired.Status)
}

func TestExpireAndClaimAreMutuallyExclusive(t *testing.T) {
	o := bothLocked(t)
	deadline := o.TakerLeg.ExpiresAt

	_, err := o.Expire(SideCreator, deadline.Add(-time.Nanosecond), params)
	requireKind(t, err, ErrExpiryViolation)
	_, err = o.CreatorClaim(preimage, deadline.Add(-time.Nanosecond))
	require.NoError(t, err)

	_, err = o.CreatorClaim(preimage, deadline)
	requireKind(t, err, ErrExpiryViolation)
	_, err = o.Expire(SideCreator, deadline, params)
	require.NoError(t, err)

	claimed := step(t)(o.CreatorClaim(preimage, t0.Add(5*time.Minute)))
	_, err = claimed.Expire(SideTaker, deadline.Add(time.Hour), params)
	requireKind(t, err, ErrInvalidTransition)
}

func TestRefundGuards(t *testing.T) {
	o := bothLocked(t)
	takerExp := o.TakerLeg.ExpiresAt
	creatorExp := o.CreatorLeg.ExpiresAt

	t.Run("before expiry", func(t *testing.T) {
		_, err := o.Refund(SideTaker, "taker-xlm", takerExp.Add(-time.Second))
		requireKind(t, err, ErrExpiryViolation)
	})
	t.Run("creator cannot refund while it may still claim", func(t *testing.T) {
		_, err := o.Refund(SideCreator, "creator-ton", creatorExp.Add(time.Second))
		requireKind(t, err, ErrExpiryViolation)
	})
	t.Run("only the owner refunds", func(t *testing.T) {
		_, err := o.Refund(SideTaker, "creator-xlm", takerExp)
		requireKind(t, err, ErrInvalidTransition)
	})
	t.Run("no leg", func(t *testing.T) {
		accepted := step(t)(openOffer().Accept(taker, hash, t0))
		_, err := accepted.Refund(SideTaker, "taker-xlm", takerExp)
		requireKind(t, err, ErrInvalidTransition)
	})
	t.Run("claimed leg", func(t *testing.T) {
		claimed := step(t)(o.CreatorClaim(preimage, t0.Add(5*time.Minute)))
		_, err := claimed.Refund(SideTaker, "taker-xlm", takerExp)
		requireKind(t, err, ErrInvalidTransition)
	})
	t.Run("both legs after expiry", func(t *testing.T) {
		first := step(t)(o.Refund(SideCreator, "creator-ton", takerExp))
		assert.Equal(t, StatusExpired, first.Status)
		assert.Equal(t, SideCreator, first.ExpiredSide)

		second := step(t)(first.Refund(SideTaker, "taker-xlm", takerExp))
		assert.True(t, second.TakerLeg.Refunded)
		assert.True(t, second.CreatorLeg.Refunded)

		again, err := second.Refund(SideTaker, "taker-xlm", takerExp.Add(time.Hour))
		require.NoError(t, err)
		assert.Same(t, second, again)
	})
}

func TestNoSkippedStates(t *testing.T) {
	o := openOffer()
	_, err := o.CreatorLock(creatorRef(t0.Add(time.Hour)), t0, params)
	requireKind(t, err, ErrInvalidTransition)
	_, err = o.TakerClaim(t0)
	requireKind(t, err, ErrInvalidTransition)
	_, err = o.CreatorClaim(preimage, t0)
	requireKind(t, err, ErrInvalidTransition)
}

func TestDeadline(t *testing.T) {
	o := openOffer()
	assert.Equal(t, t0.Add(params.OfferTTL), o.Deadline(params))

	both := bothLocked(t)
	assert.Equal(t, both.TakerLeg.ExpiresAt, both.Deadline(params))
}

func TestGatedAccessors(t *testing.T) {
	o := openOffer()
	_, ok := o.Taker()
	assert.False(t, ok)
	_, ok = o.Hash()
	assert.False(t, ok)
	_, ok = o.TakerLegRef()
	assert.False(t, ok)

	both := bothLocked(t)
	_, ok = both.CreatorLegRef()
	assert.True(t, ok)
	_, ok = both.Preimage()
	assert.False(t, ok)
	assert.Equal(t, chain.Stellar, both.LegChain(SideTaker))
	assert.Equal(t, chain.TON, both.LegChain(SideCreator))

	both.SetSeq(SideTaker, 7)
	assert.Equal(t, uint64(7), both.Seq(SideTaker))
	assert.Equal(t, uint64(0), both.Seq(SideCreator))
}

func TestReason(t *testing.T) {
	_, err := openOffer().Accept(taker, secret.Hash{}, t0)
	assert.Equal(t, "InvalidTerms", Reason(err))
	assert.Equal(t, "StaleEvent", Reason(reject(ErrStaleEvent, "seq %d", 3)))
	assert.Equal(t, "", Reason(errors.New("boom")))
}

func TestTakerClaimVerifiesEchoedPreimage(t *testing.T) {
	claimed := step(t)(bothLocked(t).CreatorClaim(preimage, t0.Add(5*time.Minute)))

	_, err := claimed.Claim(SideTaker, secret.Preimage("wrong"), t0.Add(6*time.Minute))
	requireKind(t, err, ErrHashMismatch)

	closed := step(t)(claimed.Claim(SideTaker, preimage, t0.Add(6*time.Minute)))
	assert.Equal(t, StatusClosed, closed.Status)
}
