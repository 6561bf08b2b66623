package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/swap-coordinator/pkg/offer"
	"github.com/chainsafe/swap-coordinator/pkg/secret"
)

const serviceName = "SwapCoordinator"

// logService wraps Service with automatic logging of all method calls
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the coordinator Service.
// Preimages are never logged, only their length and hash.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

func (ls *logService) done(method string, start time.Time, snap *offer.Snapshot, err error, fields ...zap.Field) {
	fields = append(fields,
		zap.String("service", serviceName),
		zap.String("method", method),
		zap.Duration("duration", time.Since(start)),
	)
	if err != nil {
		fields = append(fields, zap.String("reason", offer.Reason(err)), zap.Error(err))
		if offer.Reason(err) == "" {
			ls.logger.Error(method+" failed", fields...)
			return
		}
		// rejections are expected traffic
		ls.logger.Info(method+" rejected", fields...)
		return
	}
	if snap != nil {
		fields = append(fields,
			zap.String("offer_id", snap.Offer.ID),
			zap.String("status", string(snap.Offer.Status)),
			zap.Int64("version", snap.Offer.Version),
		)
	}
	ls.logger.Info(method+" completed", fields...)
}

func (ls *logService) CreateOffer(ctx context.Context, terms *offer.Terms) (snap *offer.Snapshot, err error) {
	defer func(start time.Time) {
		var fields []zap.Field
		if terms != nil {
			fields = append(fields,
				zap.String("chain_from", terms.ChainFrom.String()),
				zap.String("chain_to", terms.ChainTo.String()),
				zap.String("amount_from", terms.AmountFrom.String()),
				zap.String("amount_to", terms.AmountTo.String()),
				zap.Bool("idempotent", terms.IdempotencyKey != ""),
			)
		}
		ls.done("CreateOffer", start, snap, err, fields...)
	}(time.Now())
	return ls.svc.CreateOffer(ctx, terms)
}

func (ls *logService) AcceptOffer(ctx context.Context, id string, req *offer.AcceptRequest) (snap *offer.Snapshot, err error) {
	defer func(start time.Time) {
		fields := []zap.Field{zap.String("offer_id", id)}
		if req != nil {
			fields = append(fields, zap.Stringer("secret_hash", req.SecretHash))
		}
		ls.done("AcceptOffer", start, snap, err, fields...)
	}(time.Now())
	return ls.svc.AcceptOffer(ctx, id, req)
}

func (ls *logService) RecordLock(ctx context.Context, id string, side offer.Side, ref *offer.HTLCRef) (snap *offer.Snapshot, err error) {
	defer func(start time.Time) {
		fields := []zap.Field{zap.String("offer_id", id), zap.String("side", string(side))}
		if ref != nil {
			fields = append(fields,
				zap.String("htlc_chain", ref.Chain.String()),
				zap.String("htlc_ref", ref.Ref),
				zap.Time("htlc_expires_at", ref.ExpiresAt),
			)
		}
		ls.done("RecordLock", start, snap, err, fields...)
	}(time.Now())
	return ls.svc.RecordLock(ctx, id, side, ref)
}

func (ls *logService) RecordClaim(ctx context.Context, id string, side offer.Side, preimage secret.Preimage) (snap *offer.Snapshot, err error) {
	defer func(start time.Time) {
		ls.done("RecordClaim", start, snap, err,
			zap.String("offer_id", id),
			zap.String("side", string(side)),
			zap.String("preimage", redactPreimage(preimage)),
		)
	}(time.Now())
	return ls.svc.RecordClaim(ctx, id, side, preimage)
}

func (ls *logService) RecordRefund(ctx context.Context, id string, side offer.Side, requester string) (snap *offer.Snapshot, err error) {
	defer func(start time.Time) {
		ls.done("RecordRefund", start, snap, err,
			zap.String("offer_id", id),
			zap.String("side", string(side)),
			zap.String("requester", requester),
		)
	}(time.Now())
	return ls.svc.RecordRefund(ctx, id, side, requester)
}

func (ls *logService) RecordExpiry(ctx context.Context, id string, side offer.Side) (snap *offer.Snapshot, err error) {
	defer func(start time.Time) {
		ls.done("RecordExpiry", start, snap, err, zap.String("offer_id", id), zap.String("side", string(side)))
	}(time.Now())
	return ls.svc.RecordExpiry(ctx, id, side)
}

func (ls *logService) QueryOffer(ctx context.Context, id string) (*offer.Snapshot, error) {
	snap, err := ls.svc.QueryOffer(ctx, id)
	if err != nil && offer.Reason(err) == "" {
		ls.logger.Error("QueryOffer failed",
			zap.String("service", serviceName),
			zap.String("offer_id", id),
			zap.Error(err))
	}
	return snap, err
}

func (ls *logService) ListOffers(ctx context.Context, filter *offer.Filter) ([]*offer.Snapshot, error) {
	snaps, err := ls.svc.ListOffers(ctx, filter)
	if err != nil && offer.Reason(err) == "" {
		ls.logger.Error("ListOffers failed", zap.String("service", serviceName), zap.Error(err))
	}
	return snaps, err
}

func (ls *logService) ObserveChainEvent(ctx context.Context, ev *offer.ChainEvent) (snap *offer.Snapshot, err error) {
	defer func(start time.Time) {
		var fields []zap.Field
		if ev != nil {
			fields = append(fields,
				zap.String("offer_id", ev.OfferID),
				zap.String("side", string(ev.Side)),
				zap.String("kind", string(ev.Kind)),
				zap.Uint64("sequence", ev.Sequence),
				zap.String("secret", redactPreimage(ev.Secret)),
			)
		}
		if offer.Reason(err) == "StaleEvent" {
			ls.logger.Debug("ObserveChainEvent skipped stale event", fields...)
			return
		}
		ls.done("ObserveChainEvent", start, snap, err, fields...)
	}(time.Now())
	return ls.svc.ObserveChainEvent(ctx, ev)
}

// redactPreimage shows only metadata of a secret
func redactPreimage(p secret.Preimage) string {
	if len(p) == 0 {
		return "<empty>"
	}
	return fmt.Sprintf("<%d bytes, sha256 %s>", len(p), secret.Sum(p))
}
