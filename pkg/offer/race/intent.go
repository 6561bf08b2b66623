package race

import (
	"fmt"
	"time"

	"github.com/chainsafe/swap-coordinator/pkg/offer"
)

// IntentKind names a party intent the coordinator validates before applying it.
type IntentKind string

const (
	IntentAccept IntentKind = "accept"
	IntentLock   IntentKind = "lock"
	IntentClaim  IntentKind = "claim"
	IntentRefund IntentKind = "refund"
	IntentExpire IntentKind = "expire"
)

// Intent is one party request.
type Intent struct {
	Kind IntentKind
	Side offer.Side
	// Requester is the address asking for a refund.
	Requester string
}

// Check rejects an intent that the current status would allow but the clocks no longer
// (or not yet) do. Status guards are left to the state machine so the caller sees its
// more precise message.
func Check(o *offer.Offer, a offer.Actions, in Intent) error {
	switch in.Kind {
	case IntentAccept:
		if _, accepted := o.Taker(); o.Status == offer.StatusOpen && !accepted && a.CanExpire {
			return fmt.Errorf("%w: offer is past its time to live", offer.ErrExpiryViolation)
		}
	case IntentLock:
		return checkLock(o, a, in.Side)
	case IntentClaim:
		return checkClaim(o, a, in.Side)
	case IntentRefund:
		return checkRefund(o, a, in.Side, in.Requester)
	case IntentExpire:
		if o.Status.Active() && !a.CanExpire {
			return fmt.Errorf("%w: offer deadline has not passed yet (allowing for clock skew)", offer.ErrExpiryViolation)
		}
	}
	return nil
}

func checkLock(o *offer.Offer, a offer.Actions, side offer.Side) error {
	if side == offer.SideTaker {
		if _, accepted := o.Taker(); o.Status == offer.StatusOpen && o.TakerLeg == nil && accepted && !a.CanLockTaker {
			return fmt.Errorf("%w: offer is past its time to live; it can only expire", offer.ErrExpiryViolation)
		}
		return nil
	}
	if o.Status == offer.StatusTakerLocked && !a.CanLockCreator {
		return fmt.Errorf("%w: taker leg expires at %s, too soon to fit a creator leg with the safety margin",
			offer.ErrExpiryViolation, o.TakerLeg.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}

func checkClaim(o *offer.Offer, a offer.Actions, side offer.Side) error {
	switch {
	case side == offer.SideCreator && o.Status == offer.StatusBothLocked && !a.CanClaimCreator:
		return fmt.Errorf("%w: taker leg expires at %s; too late to claim, refund your leg after it expires",
			offer.ErrExpiryViolation, o.TakerLeg.ExpiresAt.Format(time.RFC3339))
	case side == offer.SideTaker && o.Status == offer.StatusCreatorClaimed && !a.CanClaimTaker:
		return fmt.Errorf("%w: creator leg expires at %s; too late to claim",
			offer.ErrExpiryViolation, o.CreatorLeg.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}

func checkRefund(o *offer.Offer, a offer.Actions, side offer.Side, requester string) error {
	leg, ok := o.Leg(side)
	if !ok || leg.Settled() || leg.Sender != requester {
		return nil
	}
	can := a.CanRefundCreator
	if side == offer.SideTaker {
		can = a.CanRefundTaker
	}
	if can {
		return nil
	}
	if side == offer.SideCreator && o.Status == offer.StatusBothLocked {
		return fmt.Errorf("%w: creator may still claim the taker leg until %s; refund after that",
			offer.ErrExpiryViolation, o.TakerLeg.ExpiresAt.Format(time.RFC3339))
	}
	return fmt.Errorf("%w: your leg expires at %s; refund is not possible yet",
		offer.ErrExpiryViolation, leg.ExpiresAt.Format(time.RFC3339))
}
