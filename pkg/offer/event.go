package offer

import (
	"time"

	"github.com/chainsafe/swap-coordinator/pkg/chain"
	"github.com/chainsafe/swap-coordinator/pkg/secret"
)

// ChainEvent is a finalized observation of one leg, reported by a chain gateway.
type ChainEvent struct {
	OfferID string          `json:"offer_id"`
	Side    Side            `json:"side"`
	Kind    chain.LockState `json:"kind"`
	// Ref carries the observed HTLC for LockStateLocked.
	Ref *HTLCRef `json:"ref,omitempty"`
	// Secret carries the preimage revealed by a claim of the taker leg.
	Secret    secret.Preimage `json:"secret,omitempty"`
	ChainTime time.Time       `json:"chain_time,omitzero"`
	// Sequence is the finality marker. Events for one leg must arrive with increasing
	// sequences; anything at or below the last applied marker is stale.
	Sequence uint64 `json:"sequence"`
}

// Validate checks the event shape.
func (e *ChainEvent) Validate() error {
	switch {
	case e.OfferID == "":
		return reject(ErrInvalidTerms, "event offer_id is required")
	case e.Side != SideCreator && e.Side != SideTaker:
		return reject(ErrInvalidTerms, "event side %q is invalid", e.Side)
	case !e.Kind.Valid():
		return reject(ErrInvalidTerms, "event kind %q is invalid", e.Kind)
	case e.Sequence == 0:
		return reject(ErrInvalidTerms, "event sequence must be positive")
	case e.Kind == chain.LockStateLocked && e.Ref == nil:
		return reject(ErrInvalidTerms, "locked event requires the observed HTLC")
	}
	return nil
}
