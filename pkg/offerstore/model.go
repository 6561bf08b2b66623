package offerstore

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/chainsafe/swap-coordinator/pkg/chain"
	"github.com/chainsafe/swap-coordinator/pkg/offer"
	"github.com/chainsafe/swap-coordinator/pkg/secret"
)

// OfferDao is a data access object that maps directly to the 'offers' table in PostgreSQL.
// Legs are kept as jsonb since they are only ever read and written with the offer.
type OfferDao struct {
	bun.BaseModel    `bun:"table:offers,alias:o"`
	ID               string          `bun:"id,pk,type:varchar(64)"`
	CreatorAddresses offer.Addresses `bun:"creator_addresses,type:jsonb,notnull"`
	TakerAddresses   offer.Addresses `bun:"taker_addresses,type:jsonb"`
	AmountFrom       decimal.Decimal `bun:"amount_from,notnull,type:numeric(78,18)"`
	AmountTo         decimal.Decimal `bun:"amount_to,notnull,type:numeric(78,18)"`
	TokenFrom        string          `bun:"token_from,notnull,type:varchar(128)"`
	TokenTo          string          `bun:"token_to,notnull,type:varchar(128)"`
	ChainFrom        string          `bun:"chain_from,notnull,type:varchar(32)"`
	ChainTo          string          `bun:"chain_to,notnull,type:varchar(32)"`
	Status           string          `bun:"status,notnull,type:varchar(32)"`
	SecretHash       *string         `bun:"secret_hash,type:char(64)"`
	SecretPreimage   *string         `bun:"secret_preimage,type:text"`
	TakerLeg         *offer.Leg      `bun:"taker_leg,type:jsonb"`
	CreatorLeg       *offer.Leg      `bun:"creator_leg,type:jsonb"`
	ExpiredSide      *string         `bun:"expired_side,type:varchar(16)"`
	IdempotencyKey   *string         `bun:"idempotency_key,unique,type:varchar(128)"`
	CreatorSeq       int64           `bun:"creator_seq,notnull,default:0"`
	TakerSeq         int64           `bun:"taker_seq,notnull,default:0"`
	Version          int64           `bun:"version,notnull"`
	CreatedAt        time.Time       `bun:"created_at,notnull"`
	UpdatedAt        time.Time       `bun:"updated_at,notnull"`
}

func toOfferDao(o *offer.Offer) *OfferDao {
	dao := &OfferDao{
		ID:               o.ID,
		CreatorAddresses: o.CreatorAddresses,
		TakerAddresses:   o.TakerAddresses,
		AmountFrom:       o.AmountFrom,
		AmountTo:         o.AmountTo,
		TokenFrom:        o.TokenFrom,
		TokenTo:          o.TokenTo,
		ChainFrom:        o.ChainFrom.String(),
		ChainTo:          o.ChainTo.String(),
		Status:           string(o.Status),
		TakerLeg:         o.TakerLeg,
		CreatorLeg:       o.CreatorLeg,
		CreatorSeq:       int64(o.CreatorSeq),
		TakerSeq:         int64(o.TakerSeq),
		Version:          o.Version,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}

	if !o.SecretHash.IsZero() {
		h := o.SecretHash.String()
		dao.SecretHash = &h
	}
	if len(o.SecretPreimage) > 0 {
		p := o.SecretPreimage.String()
		dao.SecretPreimage = &p
	}
	if o.ExpiredSide != "" {
		s := string(o.ExpiredSide)
		dao.ExpiredSide = &s
	}
	if o.IdempotencyKey != "" {
		dao.IdempotencyKey = &o.IdempotencyKey
	}

	return dao
}

func toOffer(dao *OfferDao) (*offer.Offer, error) {
	o := &offer.Offer{
		ID:               dao.ID,
		CreatorAddresses: dao.CreatorAddresses,
		TakerAddresses:   dao.TakerAddresses,
		AmountFrom:       dao.AmountFrom,
		AmountTo:         dao.AmountTo,
		TokenFrom:        dao.TokenFrom,
		TokenTo:          dao.TokenTo,
		ChainFrom:        chain.ID(dao.ChainFrom),
		ChainTo:          chain.ID(dao.ChainTo),
		Status:           offer.Status(dao.Status),
		TakerLeg:         dao.TakerLeg,
		CreatorLeg:       dao.CreatorLeg,
		CreatorSeq:       uint64(dao.CreatorSeq),
		TakerSeq:         uint64(dao.TakerSeq),
		Version:          dao.Version,
		CreatedAt:        dao.CreatedAt.UTC(),
		UpdatedAt:        dao.UpdatedAt.UTC(),
	}

	if dao.SecretHash != nil {
		h, err := secret.ParseHash(*dao.SecretHash)
		if err != nil {
			return nil, fmt.Errorf("offer %s: stored secret hash: %w", dao.ID, err)
		}
		o.SecretHash = h
	}
	if dao.SecretPreimage != nil {
		p, err := secret.ParsePreimage(*dao.SecretPreimage)
		if err != nil {
			return nil, fmt.Errorf("offer %s: stored preimage: %w", dao.ID, err)
		}
		o.SecretPreimage = p
	}
	if dao.ExpiredSide != nil {
		o.ExpiredSide = offer.Side(*dao.ExpiredSide)
	}
	if dao.IdempotencyKey != nil {
		o.IdempotencyKey = *dao.IdempotencyKey
	}
	for _, leg := range []*offer.Leg{o.TakerLeg, o.CreatorLeg} {
		if leg != nil {
			leg.ExpiresAt = leg.ExpiresAt.UTC()
		}
	}

	return o, nil
}
