// Package offer models a cross-chain swap offer and the state machine that moves it from
// OPEN to CLOSED or EXPIRED.
//
// The taker picks the secret and funds the first HTLC on ChainTo; the creator then funds
// the second HTLC on ChainFrom with the same hashlock and an earlier expiry. The creator
// claims the taker leg first, which reveals the preimage, and the taker uses it to claim
// the creator leg.
package offer

import (
	"maps"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chainsafe/swap-coordinator/pkg/chain"
	"github.com/chainsafe/swap-coordinator/pkg/secret"
)

// Addresses holds one account address per chain.
type Addresses map[chain.ID]string

// Clone returns an independent copy.
func (a Addresses) Clone() Addresses {
	if a == nil {
		return nil
	}
	return maps.Clone(a)
}

// HTLCRef describes a deployed HTLC as reported by a party or a chain gateway.
type HTLCRef struct {
	Chain     chain.ID        `json:"chain"`
	Ref       string          `json:"ref"`
	Sender    string          `json:"sender"`
	Receiver  string          `json:"receiver"`
	Token     string          `json:"token"`
	Amount    decimal.Decimal `json:"amount"`
	HashLock  secret.Hash     `json:"hash_lock"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Equal reports whether two refs describe the same lock.
func (r HTLCRef) Equal(o HTLCRef) bool {
	return r.Chain == o.Chain &&
		r.Ref == o.Ref &&
		r.Sender == o.Sender &&
		r.Receiver == o.Receiver &&
		r.Token == o.Token &&
		r.Amount.Equal(o.Amount) &&
		r.HashLock == o.HashLock &&
		r.ExpiresAt.Equal(o.ExpiresAt)
}

// Leg is a recorded HTLC plus what has happened to it since.
type Leg struct {
	HTLCRef
	Claimed  bool `json:"claimed"`
	Refunded bool `json:"refunded"`
}

// Settled reports whether the leg's funds have moved.
func (l *Leg) Settled() bool {
	return l.Claimed || l.Refunded
}

// Offer is one swap negotiation. Fields that are only meaningful from a given status on
// are read through the gated accessors (Taker, Hash, TakerLeg, CreatorLegRef, Preimage).
type Offer struct {
	ID               string          `json:"id"`
	CreatorAddresses Addresses       `json:"creator_addresses"`
	TakerAddresses   Addresses       `json:"taker_addresses,omitempty"`
	AmountFrom       decimal.Decimal `json:"amount_from"`
	AmountTo         decimal.Decimal `json:"amount_to"`
	TokenFrom        string          `json:"token_from"`
	TokenTo          string          `json:"token_to"`
	ChainFrom        chain.ID        `json:"chain_from"`
	ChainTo          chain.ID        `json:"chain_to"`
	Status           Status          `json:"status"`
	SecretHash       secret.Hash     `json:"secret_hash,omitzero"`
	SecretPreimage   secret.Preimage `json:"secret_preimage,omitempty"`
	TakerLeg         *Leg            `json:"taker_leg,omitempty"`
	CreatorLeg       *Leg            `json:"creator_leg,omitempty"`
	ExpiredSide      Side            `json:"expired_side,omitempty"`
	IdempotencyKey   string          `json:"idempotency_key,omitempty"`

	// CreatorSeq and TakerSeq are the finality markers of the last chain event applied
	// to each leg.
	CreatorSeq uint64 `json:"creator_seq"`
	TakerSeq   uint64 `json:"taker_seq"`

	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy.
func (o *Offer) Clone() *Offer {
	c := *o
	c.CreatorAddresses = o.CreatorAddresses.Clone()
	c.TakerAddresses = o.TakerAddresses.Clone()
	c.SecretPreimage = slices.Clone(o.SecretPreimage)
	if o.TakerLeg != nil {
		leg := *o.TakerLeg
		c.TakerLeg = &leg
	}
	if o.CreatorLeg != nil {
		leg := *o.CreatorLeg
		c.CreatorLeg = &leg
	}
	return &c
}

// Taker returns the taker's addresses once the offer has been accepted.
func (o *Offer) Taker() (Addresses, bool) {
	if len(o.TakerAddresses) == 0 {
		return nil, false
	}
	return o.TakerAddresses, true
}

// Hash returns the hashlock chosen by the taker at acceptance.
func (o *Offer) Hash() (secret.Hash, bool) {
	if _, ok := o.Taker(); !ok || o.SecretHash.IsZero() {
		return secret.Hash{}, false
	}
	return o.SecretHash, true
}

// TakerLegRef returns the taker leg from TAKER_LOCKED onward. An expired offer returns
// it when the taker had locked before expiry.
func (o *Offer) TakerLegRef() (*Leg, bool) {
	if o.Status == StatusOpen || o.TakerLeg == nil {
		return nil, false
	}
	return o.TakerLeg, true
}

// CreatorLegRef returns the creator leg from BOTH_LOCKED onward.
func (o *Offer) CreatorLegRef() (*Leg, bool) {
	switch o.Status {
	case StatusOpen, StatusTakerLocked:
		return nil, false
	}
	if o.CreatorLeg == nil {
		return nil, false
	}
	return o.CreatorLeg, true
}

// Preimage returns the revealed secret from CREATOR_CLAIMED onward.
func (o *Offer) Preimage() (secret.Preimage, bool) {
	if o.Status != StatusCreatorClaimed && o.Status != StatusClosed {
		return nil, false
	}
	if len(o.SecretPreimage) == 0 {
		return nil, false
	}
	return o.SecretPreimage, true
}

// Leg returns the recorded leg funded by side.
func (o *Offer) Leg(side Side) (*Leg, bool) {
	if side == SideTaker {
		return o.TakerLegRef()
	}
	return o.CreatorLegRef()
}

// LegChain returns the chain on which side's leg lives.
func (o *Offer) LegChain(side Side) chain.ID {
	if side == SideTaker {
		return o.ChainTo
	}
	return o.ChainFrom
}

// Seq returns the last applied finality marker for side's leg.
func (o *Offer) Seq(side Side) uint64 {
	if side == SideTaker {
		return o.TakerSeq
	}
	return o.CreatorSeq
}

// SetSeq records the finality marker of an applied chain event.
func (o *Offer) SetSeq(side Side, seq uint64) {
	if side == SideTaker {
		o.TakerSeq = seq
		return
	}
	o.CreatorSeq = seq
}

// Deadline is the instant after which an active offer may expire: the offer TTL while
// OPEN, otherwise the taker leg's expiry, which is also the last instant the creator
// may claim.
func (o *Offer) Deadline(p Params) time.Time {
	if leg, ok := o.TakerLegRef(); ok {
		return leg.ExpiresAt
	}
	return o.CreatedAt.Add(p.OfferTTL)
}

// Snapshot is what the coordinator emits after every successful call.
type Snapshot struct {
	Offer   *Offer  `json:"offer"`
	Actions Actions `json:"actions"`
}

// Actions is the currently legal action set for both parties.
type Actions struct {
	CanLockTaker     bool `json:"can_lock_taker"`
	CanLockCreator   bool `json:"can_lock_creator"`
	CanClaimCreator  bool `json:"can_claim_creator"`
	CanClaimTaker    bool `json:"can_claim_taker"`
	CanRefundTaker   bool `json:"can_refund_taker"`
	CanRefundCreator bool `json:"can_refund_creator"`
	CanExpire        bool `json:"can_expire"`

	// SuggestedTakerExpiry is offered while the taker has yet to lock.
	SuggestedTakerExpiry time.Time `json:"suggested_taker_expiry,omitzero"`
	// LatestCreatorExpiry is the latest expiry the creator leg may carry.
	LatestCreatorExpiry time.Time `json:"latest_creator_expiry,omitzero"`

	Next map[Side]string `json:"next"`
}

// Filter narrows ListOffers.
type Filter struct {
	Statuses []Status
	Limit    int
	Offset   int
}
