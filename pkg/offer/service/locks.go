package service

import (
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
)

// offerLocks serializes coordinator calls per offer ID. Entries are reference counted and
// removed once the last holder or waiter releases, so the map only holds offers that are
// currently being worked on.
type offerLocks struct {
	m *xsync.MapOf[string, *offerLock]
}

type offerLock struct {
	mu   sync.Mutex
	refs int
}

func newOfferLocks() *offerLocks {
	return &offerLocks{m: xsync.NewMapOf[string, *offerLock]()}
}

// lock blocks until the caller holds id and returns the release func.
func (l *offerLocks) lock(id string) func() {
	var held *offerLock
	l.m.Compute(id, func(cur *offerLock, loaded bool) (*offerLock, bool) {
		if !loaded {
			cur = &offerLock{}
		}
		cur.refs++
		held = cur
		return cur, false
	})

	held.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			held.mu.Unlock()
			l.m.Compute(id, func(cur *offerLock, loaded bool) (*offerLock, bool) {
				if !loaded {
					return cur, true
				}
				cur.refs--
				return cur, cur.refs == 0
			})
		})
	}
}

// size reports the number of offers with a holder or waiter.
func (l *offerLocks) size() int {
	return l.m.Size()
}
