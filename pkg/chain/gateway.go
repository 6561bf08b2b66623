package chain

import (
	"context"
	"time"

	"github.com/chainsafe/swap-coordinator/pkg/secret"
)

// LockState is the outcome a gateway reports for an HTLC.
type LockState string

const (
	LockStateLocked   LockState = "locked"
	LockStateClaimed  LockState = "claimed"
	LockStateRefunded LockState = "refunded"
	LockStateExpired  LockState = "expired"
)

// Valid reports whether s is a known lock state.
func (s LockState) Valid() bool {
	switch s {
	case LockStateLocked, LockStateClaimed, LockStateRefunded, LockStateExpired:
		return true
	}
	return false
}

// LockStatus is one finalized observation of an HTLC.
type LockStatus struct {
	Chain ID
	Ref   string
	State LockState
	// Secret is set for LockStateClaimed: the preimage revealed by the claim transaction.
	Secret secret.Preimage
	// ChainTime is the ledger close / block time of the observation.
	ChainTime time.Time
	// Sequence is the ledger sequence or masterchain seqno that finalized the observation.
	Sequence uint64
}

// Gateway is the per-chain adapter the coordinator consumes. Transaction building and
// submission live behind it; the coordinator only follows reported outcomes.
type Gateway interface {
	Chain() ID
	// Watch streams finalized status changes of the HTLC identified by ref, in finality
	// order, until ctx is canceled. The error channel yields at most one value.
	Watch(ctx context.Context, ref string) (<-chan *LockStatus, <-chan error)
}
