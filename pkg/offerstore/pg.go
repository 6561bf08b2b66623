package offerstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/chainsafe/swap-coordinator/pkg/offer"
)

const uniqueViolation = "23505"

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the offer store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) CreateOffer(ctx context.Context, o *offer.Offer) error {
	_, err := s.db.NewInsert().
		Model(toOfferDao(o)).
		Exec(ctx)
	if err != nil {
		if isIdempotencyKeyViolation(err) {
			return offer.ErrDuplicateIdempotencyKey
		}
		return fmt.Errorf("failed to create offer: %w", err)
	}
	return nil
}

func (s *pgStore) GetOffer(ctx context.Context, id string) (*offer.Offer, error) {
	return s.getOffer(ctx, "id = ?", id)
}

func (s *pgStore) GetOfferByIdempotencyKey(ctx context.Context, key string) (*offer.Offer, error) {
	return s.getOffer(ctx, "idempotency_key = ?", key)
}

func (s *pgStore) getOffer(ctx context.Context, where string, arg any) (*offer.Offer, error) {
	dao := new(OfferDao)
	err := s.db.NewSelect().
		Model(dao).
		Where(where, arg).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, offer.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}
	return toOffer(dao)
}

// UpdateOffer overwrites the row only while its version is still prevVersion.
func (s *pgStore) UpdateOffer(ctx context.Context, o *offer.Offer, prevVersion int64) error {
	res, err := s.db.NewUpdate().
		Model(toOfferDao(o)).
		ExcludeColumn("id", "created_at", "idempotency_key").
		WherePK().
		Where("version = ?", prevVersion).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update offer: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if n == 1 {
		return nil
	}

	exists, err := s.db.NewSelect().
		Model((*OfferDao)(nil)).
		Where("id = ?", o.ID).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check offer exists: %w", err)
	}
	if !exists {
		return offer.ErrNotFound
	}
	return fmt.Errorf("%w: offer %s is no longer at version %d", offer.ErrConflict, o.ID, prevVersion)
}

func (s *pgStore) ListOffers(ctx context.Context, filter *offer.Filter) ([]*offer.Offer, error) {
	var daos []OfferDao
	q := s.db.NewSelect().
		Model(&daos).
		OrderExpr("created_at DESC, id ASC")
	if filter != nil {
		if len(filter.Statuses) > 0 {
			q = q.Where("status IN (?)", bun.In(statusStrings(filter.Statuses)))
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}

	offers := make([]*offer.Offer, 0, len(daos))
	for i := range daos {
		o, err := toOffer(&daos[i])
		if err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, nil
}

// CountByStatus returns the number of offers per status.
func (s *pgStore) CountByStatus(ctx context.Context) (map[offer.Status]int, error) {
	var rows []struct {
		Status string `bun:"status"`
		Count  int    `bun:"count"`
	}
	err := s.db.NewSelect().
		Model((*OfferDao)(nil)).
		Column("status").
		ColumnExpr("COUNT(*) AS count").
		Group("status").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to count offers: %w", err)
	}

	counts := make(map[offer.Status]int, len(rows))
	for _, r := range rows {
		counts[offer.Status(r.Status)] = r.Count
	}
	return counts, nil
}

func isIdempotencyKeyViolation(err error) bool {
	var pgErr pgdriver.Error
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Field('C') == uniqueViolation && strings.Contains(pgErr.Field('n'), "idempotency_key")
}

func statusStrings(statuses []offer.Status) []string {
	out := make([]string, len(statuses))
	for i, st := range statuses {
		out[i] = string(st)
	}
	return out
}
