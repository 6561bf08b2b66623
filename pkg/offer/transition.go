package offer

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/chainsafe/swap-coordinator/pkg/chain"
	"github.com/chainsafe/swap-coordinator/pkg/secret"
)

// Transitions never mutate the receiver. Each one evaluates every guard first and then
// returns a modified copy. When the event is already reflected in the offer (a retried
// call with the same input) the receiver itself is returned, so callers can detect the
// no-op by pointer comparison.

// Accept records the taker and the hashlock the taker committed to.
func (o *Offer) Accept(taker Addresses, hash secret.Hash, now time.Time) (*Offer, error) {
	if o.Status != StatusOpen {
		if o.sameTaker(taker, hash) {
			return o, nil
		}
		return nil, reject(ErrAlreadyTaken, "offer is %s", o.Status)
	}
	if _, ok := o.Taker(); ok {
		if o.sameTaker(taker, hash) {
			return o, nil
		}
		return nil, reject(ErrAlreadyTaken, "offer already accepted by %s", o.TakerAddresses[o.ChainTo])
	}
	if hash.IsZero() {
		return nil, reject(ErrInvalidTerms, "secret hash is required")
	}
	for _, id := range []chain.ID{o.ChainFrom, o.ChainTo} {
		addr := taker[id]
		if addr == "" {
			return nil, reject(ErrInvalidTerms, "taker address on %s is required", id)
		}
		if addr == o.CreatorAddresses[id] {
			return nil, reject(ErrInvalidTransition, "taker must differ from creator on %s", id)
		}
	}

	next := o.Clone()
	next.TakerAddresses = Addresses{
		o.ChainFrom: taker[o.ChainFrom],
		o.ChainTo:   taker[o.ChainTo],
	}
	next.SecretHash = hash
	next.UpdatedAt = now
	return next, nil
}

func (o *Offer) sameTaker(taker Addresses, hash secret.Hash) bool {
	return len(o.TakerAddresses) > 0 &&
		o.SecretHash == hash &&
		o.TakerAddresses[o.ChainFrom] == taker[o.ChainFrom] &&
		o.TakerAddresses[o.ChainTo] == taker[o.ChainTo]
}

// Lock records side's HTLC.
func (o *Offer) Lock(side Side, ref HTLCRef, now time.Time, p Params) (*Offer, error) {
	if side == SideTaker {
		return o.TakerLock(ref, now, p)
	}
	return o.CreatorLock(ref, now, p)
}

// TakerLock records the taker's HTLC on ChainTo and moves OPEN to TAKER_LOCKED.
func (o *Offer) TakerLock(ref HTLCRef, now time.Time, p Params) (*Offer, error) {
	if o.TakerLeg != nil {
		if o.TakerLeg.HTLCRef.Equal(ref) {
			return o, nil
		}
		return nil, reject(ErrInvalidTransition, "taker leg already locked as %s", o.TakerLeg.Ref)
	}
	if o.Status != StatusOpen {
		return nil, reject(ErrInvalidTransition, "taker lock requires status %s, offer is %s", StatusOpen, o.Status)
	}
	taker, ok := o.Taker()
	if !ok {
		return nil, reject(ErrInvalidTransition, "taker lock requires an accepted offer")
	}
	if deadline := o.CreatedAt.Add(p.OfferTTL); !now.Before(deadline) {
		return nil, reject(ErrExpiryViolation, "offer stopped accepting locks at %s", deadline.Format(time.RFC3339))
	}
	if err := o.checkLeg(ref, legTerms{
		side:     SideTaker,
		chain:    o.ChainTo,
		token:    o.TokenTo,
		amount:   o.AmountTo,
		sender:   taker[o.ChainTo],
		receiver: o.CreatorAddresses[o.ChainTo],
	}); err != nil {
		return nil, err
	}
	if earliest := now.Add(p.MinWindow); ref.ExpiresAt.Before(earliest) {
		return nil, reject(ErrExpiryViolation, "taker leg must expire at or after %s (now + %s), got %s",
			earliest.Format(time.RFC3339), p.MinWindow, ref.ExpiresAt.Format(time.RFC3339))
	}

	next := o.Clone()
	next.TakerLeg = &Leg{HTLCRef: ref}
	next.Status = StatusTakerLocked
	next.UpdatedAt = now
	return next, nil
}

// CreatorLock records the creator's HTLC on ChainFrom and moves TAKER_LOCKED to BOTH_LOCKED.
func (o *Offer) CreatorLock(ref HTLCRef, now time.Time, p Params) (*Offer, error) {
	if o.CreatorLeg != nil {
		if o.CreatorLeg.HTLCRef.Equal(ref) {
			return o, nil
		}
		return nil, reject(ErrInvalidTransition, "creator leg already locked as %s", o.CreatorLeg.Ref)
	}
	if o.Status != StatusTakerLocked {
		return nil, reject(ErrInvalidTransition, "creator lock requires status %s, offer is %s", StatusTakerLocked, o.Status)
	}
	if err := o.checkLeg(ref, legTerms{
		side:     SideCreator,
		chain:    o.ChainFrom,
		token:    o.TokenFrom,
		amount:   o.AmountFrom,
		sender:   o.CreatorAddresses[o.ChainFrom],
		receiver: o.TakerAddresses[o.ChainFrom],
	}); err != nil {
		return nil, err
	}
	latest := o.TakerLeg.ExpiresAt.Add(-p.SafetyMargin)
	if ref.ExpiresAt.After(latest) {
		return nil, reject(ErrExpiryViolation, "creator leg must expire at or before %s (taker expiry - %s), got %s",
			latest.Format(time.RFC3339), p.SafetyMargin, ref.ExpiresAt.Format(time.RFC3339))
	}
	if !now.Before(ref.ExpiresAt) {
		return nil, reject(ErrExpiryViolation, "creator leg already expired at %s", ref.ExpiresAt.Format(time.RFC3339))
	}

	next := o.Clone()
	next.CreatorLeg = &Leg{HTLCRef: ref}
	next.Status = StatusBothLocked
	next.UpdatedAt = now
	return next, nil
}

type legTerms struct {
	side     Side
	chain    chain.ID
	token    string
	amount   decimal.Decimal
	sender   string
	receiver string
}

func (o *Offer) checkLeg(ref HTLCRef, want legTerms) error {
	switch {
	case ref.Ref == "":
		return reject(ErrInvalidTransition, "%s lock is missing the HTLC reference", want.side)
	case ref.Chain != want.chain:
		return reject(ErrInvalidTransition, "%s leg must be on %s, got %s", want.side, want.chain, ref.Chain)
	case ref.Token != want.token:
		return reject(ErrInvalidTransition, "%s leg must lock token %s, got %s", want.side, want.token, ref.Token)
	case !ref.Amount.Equal(want.amount):
		return reject(ErrInvalidTransition, "%s leg must lock %s, got %s", want.side, want.amount, ref.Amount)
	case ref.Sender != want.sender:
		return reject(ErrInvalidTransition, "%s leg must be funded by %s, got %s", want.side, want.sender, ref.Sender)
	case ref.Receiver != want.receiver:
		return reject(ErrInvalidTransition, "%s leg must pay %s, got %s", want.side, want.receiver, ref.Receiver)
	case ref.HashLock != o.SecretHash:
		return reject(ErrHashMismatch, "%s leg hashlock %s does not match offer hash %s", want.side, ref.HashLock, o.SecretHash)
	}
	return nil
}

// Claim records a claim of side's counterparty leg. The creator claims the taker leg by
// revealing the preimage; the taker claims the creator leg with the revealed preimage,
// which it may echo back for verification.
func (o *Offer) Claim(side Side, preimage secret.Preimage, now time.Time) (*Offer, error) {
	if side == SideCreator {
		return o.CreatorClaim(preimage, now)
	}
	if len(preimage) > 0 && !secret.Verify(preimage, o.SecretHash) {
		return nil, reject(ErrHashMismatch, "preimage does not hash to %s", o.SecretHash)
	}
	return o.TakerClaim(now)
}

// CreatorClaim records the reveal and moves BOTH_LOCKED to CREATOR_CLAIMED.
func (o *Offer) CreatorClaim(preimage secret.Preimage, now time.Time) (*Offer, error) {
	if revealed, ok := o.Preimage(); ok {
		if revealed.Equal(preimage) {
			return o, nil
		}
		return nil, reject(ErrInvalidTransition, "secret already revealed; a recorded preimage cannot be replaced")
	}
	if o.Status != StatusBothLocked {
		return nil, reject(ErrInvalidTransition, "creator claim requires status %s, offer is %s", StatusBothLocked, o.Status)
	}
	if len(preimage) == 0 {
		return nil, reject(ErrHashMismatch, "creator claim requires the secret preimage")
	}
	if !secret.Verify(preimage, o.SecretHash) {
		return nil, reject(ErrHashMismatch, "preimage does not hash to %s", o.SecretHash)
	}
	if !now.Before(o.TakerLeg.ExpiresAt) {
		return nil, reject(ErrExpiryViolation, "taker leg expired at %s; creator can no longer claim",
			o.TakerLeg.ExpiresAt.Format(time.RFC3339))
	}

	next := o.Clone()
	next.SecretPreimage = append(secret.Preimage(nil), preimage...)
	next.TakerLeg.Claimed = true
	next.Status = StatusCreatorClaimed
	next.UpdatedAt = now
	return next, nil
}

// TakerClaim moves CREATOR_CLAIMED to CLOSED.
func (o *Offer) TakerClaim(now time.Time) (*Offer, error) {
	if o.Status == StatusClosed {
		return o, nil
	}
	if o.Status != StatusCreatorClaimed {
		return nil, reject(ErrInvalidTransition, "taker claim requires status %s, offer is %s", StatusCreatorClaimed, o.Status)
	}
	if _, ok := o.Preimage(); !ok {
		return nil, reject(ErrInvalidTransition, "taker claim requires a revealed secret")
	}
	if o.CreatorLeg.Refunded {
		return nil, reject(ErrInvalidTransition, "creator leg was refunded")
	}
	if !now.Before(o.CreatorLeg.ExpiresAt) {
		return nil, reject(ErrExpiryViolation, "creator leg expired at %s; taker can no longer claim",
			o.CreatorLeg.ExpiresAt.Format(time.RFC3339))
	}

	next := o.Clone()
	next.CreatorLeg.Claimed = true
	next.Status = StatusClosed
	next.UpdatedAt = now
	return next, nil
}

// Expire moves an active offer to EXPIRED once its deadline has passed. side records who
// reported the expiry.
func (o *Offer) Expire(side Side, now time.Time, p Params) (*Offer, error) {
	if o.Status == StatusExpired {
		return o, nil
	}
	if !o.Status.Active() {
		return nil, reject(ErrInvalidTransition, "cannot expire a %s offer", o.Status)
	}
	if deadline := o.Deadline(p); now.Before(deadline) {
		return nil, reject(ErrExpiryViolation, "offer deadline %s has not passed", deadline.Format(time.RFC3339))
	}

	next := o.Clone()
	next.Status = StatusExpired
	next.ExpiredSide = side
	next.UpdatedAt = now
	return next, nil
}

// Refund records that side's owner took back its expired, unclaimed leg. Refunding a leg
// of an active offer also expires the offer.
func (o *Offer) Refund(side Side, requester string, now time.Time) (*Offer, error) {
	leg, ok := o.Leg(side)
	if !ok {
		return nil, reject(ErrInvalidTransition, "no %s leg is locked", side)
	}
	if requester != leg.Sender {
		return nil, reject(ErrInvalidTransition, "only the %s leg owner %s may refund it", side, leg.Sender)
	}
	if leg.Refunded {
		return o, nil
	}
	if leg.Claimed {
		return nil, reject(ErrInvalidTransition, "%s leg was already claimed", side)
	}
	if now.Before(leg.ExpiresAt) {
		return nil, reject(ErrExpiryViolation, "%s leg expires at %s; refund is not possible before", side,
			leg.ExpiresAt.Format(time.RFC3339))
	}
	if side == SideCreator && o.Status == StatusBothLocked && now.Before(o.TakerLeg.ExpiresAt) {
		return nil, reject(ErrExpiryViolation, "creator may still claim the taker leg until %s; refund after that",
			o.TakerLeg.ExpiresAt.Format(time.RFC3339))
	}

	next := o.Clone()
	refunded, _ := next.Leg(side)
	refunded.Refunded = true
	if next.Status.Active() {
		next.Status = StatusExpired
		next.ExpiredSide = side
	}
	next.UpdatedAt = now
	return next, nil
}
