package service

import (
	"errors"

	apperrors "github.com/chainsafe/swap-coordinator/pkg/app/errors"
	"github.com/chainsafe/swap-coordinator/pkg/offer"
)

// toServiceError maps a coordinator failure onto the service error categories. The offer
// rejection stays in the chain, so errors.Is(err, offer.ErrHashMismatch) keeps working for
// callers that do not care about HTTP.
func toServiceError(err error) error {
	if err == nil {
		return nil
	}
	var svcErr *apperrors.ServiceError
	if errors.As(err, &svcErr) {
		return err
	}

	msg := err.Error()
	var mapped error
	switch {
	case errors.Is(err, offer.ErrInvalidTerms):
		mapped = apperrors.BadRequestError(err, msg)
	case errors.Is(err, offer.ErrNotFound):
		mapped = apperrors.ResourceNotFoundError(err, msg)
	case errors.Is(err, offer.ErrAlreadyTaken):
		mapped = apperrors.ConflictError(err, msg)
	case errors.Is(err, offer.ErrInvalidTransition):
		mapped = apperrors.InvalidTransitionError(err, msg)
	case errors.Is(err, offer.ErrHashMismatch):
		mapped = apperrors.ForbiddenError(err, msg)
	case errors.Is(err, offer.ErrExpiryViolation):
		mapped = apperrors.ExpiredError(err, msg)
	case errors.Is(err, offer.ErrStaleEvent):
		mapped = apperrors.StaleError(err, msg)
	case errors.Is(err, offer.ErrConflict):
		mapped = apperrors.LockedError(err, msg)
	default:
		return apperrors.GeneralError(err)
	}
	return apperrors.WithReason(mapped, offer.Reason(err))
}

// storeError wraps a persistence failure. Rejections the store reports itself pass through.
func storeError(err error) error {
	switch {
	case errors.Is(err, offer.ErrNotFound), errors.Is(err, offer.ErrConflict):
		return toServiceError(err)
	default:
		return apperrors.DependencyError(err)
	}
}
