// Package race computes which lock, claim, refund and expiry actions are currently legal
// for each party, given the offer, each chain's last observed clock and the wall clock.
//
// A chain that has never been observed is judged by wall clock with ClockSkew of slack in
// the conservative direction: a deadline counts as passed only ClockSkew after it, and a
// window counts as open only while more than ClockSkew remains. A chain observed at or
// past a deadline has definitively passed it.
package race

import (
	"fmt"
	"time"

	"github.com/chainsafe/swap-coordinator/pkg/chain"
	"github.com/chainsafe/swap-coordinator/pkg/offer"
)

// Clocks holds the last observed ledger time per chain.
type Clocks map[chain.ID]time.Time

type judge struct {
	clocks Clocks
	now    time.Time
	skew   time.Duration
}

// passed reports whether deadline is behind us on the given chain.
func (j judge) passed(id chain.ID, deadline time.Time) bool {
	if observed, ok := j.clocks[id]; ok && !observed.Before(deadline) {
		return true
	}
	return !j.now.Before(deadline.Add(j.skew))
}

// open reports whether there is still time to act before deadline on the given chain.
func (j judge) open(id chain.ID, deadline time.Time) bool {
	if observed, ok := j.clocks[id]; ok && !observed.Before(deadline) {
		return false
	}
	return j.now.Add(j.skew).Before(deadline)
}

// Resolve returns the legal action set. It never mutates o.
func Resolve(o *offer.Offer, clocks Clocks, now time.Time, p offer.Params) offer.Actions {
	j := judge{clocks: clocks, now: now, skew: p.ClockSkew}
	var a offer.Actions

	_, accepted := o.Taker()
	takerLeg, hasTakerLeg := o.TakerLegRef()
	creatorLeg, hasCreatorLeg := o.CreatorLegRef()

	switch o.Status {
	case offer.StatusOpen:
		ttl := o.CreatedAt.Add(p.OfferTTL)
		a.CanLockTaker = accepted && j.open("", ttl)
		if a.CanLockTaker {
			a.SuggestedTakerExpiry = now.Add(p.DefaultTakerWindow).Truncate(time.Second)
		}
	case offer.StatusTakerLocked:
		latest := takerLeg.ExpiresAt.Add(-p.SafetyMargin)
		a.CanLockCreator = j.open(o.ChainTo, latest)
		if a.CanLockCreator {
			a.LatestCreatorExpiry = latest
		}
	case offer.StatusBothLocked:
		a.CanClaimCreator = j.open(o.ChainTo, takerLeg.ExpiresAt)
	case offer.StatusCreatorClaimed:
		a.CanClaimTaker = !creatorLeg.Refunded && j.open(o.ChainFrom, creatorLeg.ExpiresAt)
	}

	if o.Status.Active() {
		a.CanExpire = j.passed(DeadlineChain(o), o.Deadline(p))
	}

	if hasTakerLeg && !takerLeg.Settled() {
		a.CanRefundTaker = j.passed(o.ChainTo, takerLeg.ExpiresAt)
	}
	if hasCreatorLeg && !creatorLeg.Settled() {
		a.CanRefundCreator = j.passed(o.ChainFrom, creatorLeg.ExpiresAt)
		if o.Status == offer.StatusBothLocked && !j.passed(o.ChainTo, takerLeg.ExpiresAt) {
			// the creator still holds a claim on the taker leg
			a.CanRefundCreator = false
		}
	}

	a.Next = next(o, a)
	return a
}

// DeadlineChain is the chain whose clock decides o.Deadline. An OPEN offer's TTL is not
// tied to any chain.
func DeadlineChain(o *offer.Offer) chain.ID {
	if _, ok := o.TakerLegRef(); ok {
		return o.ChainTo
	}
	return ""
}

// ChainNow returns the later of now and the last observed time of the chain. Guards that
// decide whether a deadline has passed use it so a chain that is ahead of the local clock
// is honored.
func ChainNow(clocks Clocks, id chain.ID, now time.Time) time.Time {
	if observed, ok := clocks[id]; ok && observed.After(now) {
		return observed
	}
	return now
}

func next(o *offer.Offer, a offer.Actions) map[offer.Side]string {
	msgs := make(map[offer.Side]string, 2)
	_, accepted := o.Taker()

	switch o.Status {
	case offer.StatusOpen:
		if !accepted {
			msgs[offer.SideCreator] = "waiting for a taker to accept the offer"
			msgs[offer.SideTaker] = "accept the offer with your taker addresses and secret hash"
			break
		}
		msgs[offer.SideCreator] = "waiting for the taker to lock"
		if a.CanLockTaker {
			msgs[offer.SideTaker] = fmt.Sprintf("lock %s %s on %s, expiring at or after %s",
				o.AmountTo, o.TokenTo, o.ChainTo, a.SuggestedTakerExpiry.Format(time.RFC3339))
		}
	case offer.StatusTakerLocked:
		msgs[offer.SideTaker] = "waiting for the creator to lock"
		if a.CanLockCreator {
			msgs[offer.SideCreator] = fmt.Sprintf("lock %s %s on %s, expiring no later than %s",
				o.AmountFrom, o.TokenFrom, o.ChainFrom, a.LatestCreatorExpiry.Format(time.RFC3339))
		} else {
			msgs[offer.SideCreator] = "the taker leg expires too soon to lock safely; do not lock"
		}
	case offer.StatusBothLocked:
		msgs[offer.SideTaker] = "waiting for the creator to claim and reveal the secret"
		if a.CanClaimCreator {
			msgs[offer.SideCreator] = fmt.Sprintf("claim the taker leg on %s by revealing the secret before %s",
				o.ChainTo, o.TakerLeg.ExpiresAt.Format(time.RFC3339))
		}
	case offer.StatusCreatorClaimed:
		msgs[offer.SideCreator] = "waiting for the taker to claim"
		if a.CanClaimTaker {
			msgs[offer.SideTaker] = fmt.Sprintf("claim the creator leg on %s with the revealed secret before %s",
				o.ChainFrom, o.CreatorLeg.ExpiresAt.Format(time.RFC3339))
		}
	case offer.StatusClosed:
		msgs[offer.SideCreator] = "swap complete"
		msgs[offer.SideTaker] = "swap complete"
	case offer.StatusExpired:
		msgs[offer.SideCreator] = "offer expired"
		msgs[offer.SideTaker] = "offer expired"
	}

	if a.CanExpire {
		msgs[offer.SideCreator] = "offer deadline passed; it can be expired"
		msgs[offer.SideTaker] = "offer deadline passed; it can be expired"
	}
	if a.CanRefundTaker {
		msgs[offer.SideTaker] = "your leg has expired; call refund"
	}
	if a.CanRefundCreator {
		msgs[offer.SideCreator] = "your leg has expired; call refund"
	}
	return msgs
}
