package race

import (
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/chainsafe/swap-coordinator/pkg/chain"
)

// ClockTracker remembers the latest ledger time reported for each chain. It is safe for
// concurrent use and only ever moves a chain's clock forward.
type ClockTracker struct {
	clocks *xsync.MapOf[chain.ID, time.Time]
}

func NewClockTracker() *ClockTracker {
	return &ClockTracker{clocks: xsync.NewMapOf[chain.ID, time.Time]()}
}

// Observe records a ledger time for the chain.
func (t *ClockTracker) Observe(id chain.ID, at time.Time) {
	if id == "" || at.IsZero() {
		return
	}
	t.clocks.Compute(id, func(old time.Time, loaded bool) (time.Time, bool) {
		if loaded && !at.After(old) {
			return old, false
		}
		return at, false
	})
}

// Snapshot copies the current clocks.
func (t *ClockTracker) Snapshot() Clocks {
	out := make(Clocks, t.clocks.Size())
	t.clocks.Range(func(id chain.ID, at time.Time) bool {
		out[id] = at
		return true
	})
	return out
}
