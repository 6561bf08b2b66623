package offerstore

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/chainsafe/swap-coordinator/pkg/offer"
)

// MemoryStore keeps offers in process. It has the same version semantics as the postgres
// store and is meant for tests and single node development setups.
type MemoryStore struct {
	mu     sync.RWMutex
	offers map[string]*offer.Offer
	byKey  map[string]string
}

// NewMemoryStore creates an empty in-memory offer store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		offers: make(map[string]*offer.Offer),
		byKey:  make(map[string]string),
	}
}

func (s *MemoryStore) CreateOffer(_ context.Context, o *offer.Offer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.offers[o.ID]; ok {
		return fmt.Errorf("failed to create offer: id %s already exists", o.ID)
	}
	if o.IdempotencyKey != "" {
		if _, ok := s.byKey[o.IdempotencyKey]; ok {
			return offer.ErrDuplicateIdempotencyKey
		}
		s.byKey[o.IdempotencyKey] = o.ID
	}
	s.offers[o.ID] = o.Clone()
	return nil
}

func (s *MemoryStore) GetOffer(_ context.Context, id string) (*offer.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.offers[id]
	if !ok {
		return nil, offer.ErrNotFound
	}
	return o.Clone(), nil
}

func (s *MemoryStore) GetOfferByIdempotencyKey(ctx context.Context, key string) (*offer.Offer, error) {
	s.mu.RLock()
	id, ok := s.byKey[key]
	s.mu.RUnlock()
	if !ok {
		return nil, offer.ErrNotFound
	}
	return s.GetOffer(ctx, id)
}

func (s *MemoryStore) UpdateOffer(_ context.Context, o *offer.Offer, prevVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.offers[o.ID]
	if !ok {
		return offer.ErrNotFound
	}
	if cur.Version != prevVersion {
		return fmt.Errorf("%w: offer %s is at version %d, not %d", offer.ErrConflict, o.ID, cur.Version, prevVersion)
	}
	next := o.Clone()
	next.CreatedAt = cur.CreatedAt
	next.IdempotencyKey = cur.IdempotencyKey
	s.offers[o.ID] = next
	return nil
}

func (s *MemoryStore) ListOffers(_ context.Context, filter *offer.Filter) ([]*offer.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var f offer.Filter
	if filter != nil {
		f = *filter
	}

	matched := make([]*offer.Offer, 0, len(s.offers))
	for _, o := range s.offers {
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, o.Status) {
			continue
		}
		matched = append(matched, o)
	}
	slices.SortFunc(matched, func(a, b *offer.Offer) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})

	if f.Offset >= len(matched) {
		return []*offer.Offer{}, nil
	}
	matched = matched[f.Offset:]
	if f.Limit > 0 && f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}

	out := make([]*offer.Offer, len(matched))
	for i, o := range matched {
		out[i] = o.Clone()
	}
	return out, nil
}

// CountByStatus returns the number of offers per status.
func (s *MemoryStore) CountByStatus(_ context.Context) (map[offer.Status]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[offer.Status]int)
	for _, o := range s.offers {
		counts[o.Status]++
	}
	return counts, nil
}
