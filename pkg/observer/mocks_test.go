package observer

import (
	"context"
	"sync"

	"github.com/chainsafe/swap-coordinator/pkg/chain"
	"github.com/chainsafe/swap-coordinator/pkg/offer"
)

type mockCoordinator struct {
	ObserveChainEventFunc func(ctx context.Context, ev *offer.ChainEvent) (*offer.Snapshot, error)
	ListOffersFunc        func(ctx context.Context, filter *offer.Filter) ([]*offer.Snapshot, error)

	mu     sync.Mutex
	events []*offer.ChainEvent
}

func (m *mockCoordinator) ObserveChainEvent(ctx context.Context, ev *offer.ChainEvent) (*offer.Snapshot, error) {
	m.mu.Lock()
	m.events = append(m.events, ev)
	m.mu.Unlock()
	if m.ObserveChainEventFunc != nil {
		return m.ObserveChainEventFunc(ctx, ev)
	}
	return &offer.Snapshot{}, nil
}

func (m *mockCoordinator) ListOffers(ctx context.Context, filter *offer.Filter) ([]*offer.Snapshot, error) {
	if m.ListOffersFunc != nil {
		return m.ListOffersFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockCoordinator) Events() []*offer.ChainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*offer.ChainEvent(nil), m.events...)
}

// mockGateway hands out one status channel per watched ref.
type mockGateway struct {
	id chain.ID

	mu      sync.Mutex
	streams map[string]chan *chain.LockStatus
	errs    map[string]chan error
}

func newMockGateway(id chain.ID) *mockGateway {
	return &mockGateway{
		id:      id,
		streams: make(map[string]chan *chain.LockStatus),
		errs:    make(map[string]chan error),
	}
}

func (g *mockGateway) Chain() chain.ID { return g.id }

func (g *mockGateway) Watch(ctx context.Context, ref string) (<-chan *chain.LockStatus, <-chan error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	statusCh := make(chan *chain.LockStatus, 8)
	errCh := make(chan error, 1)
	g.streams[ref] = statusCh
	g.errs[ref] = errCh
	return statusCh, errCh
}

func (g *mockGateway) stream(ref string) (chan *chain.LockStatus, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.streams[ref]
	return ch, ok
}

func (g *mockGateway) fail(ref string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errs[ref] <- err
}
