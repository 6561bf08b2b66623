package service

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/swap-coordinator/pkg/app/errors"
	apphttp "github.com/chainsafe/swap-coordinator/pkg/app/http"
	"github.com/chainsafe/swap-coordinator/pkg/offer"
	"github.com/chainsafe/swap-coordinator/pkg/secret"
)

const maxBodySize = 1 << 20 // 1MB

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service Service
	logger  *zap.Logger
}

// LockRequest is the body of POST /offers/{id}/lock
type LockRequest struct {
	Side offer.Side     `json:"side"`
	HTLC *offer.HTLCRef `json:"htlc"`
}

// ClaimRequest is the body of POST /offers/{id}/claim
type ClaimRequest struct {
	Side     offer.Side      `json:"side"`
	Preimage secret.Preimage `json:"preimage,omitempty"`
}

// RefundRequest is the body of POST /offers/{id}/refund
type RefundRequest struct {
	Side      offer.Side `json:"side"`
	Requester string     `json:"requester"`
}

// ExpireRequest is the body of POST /offers/{id}/expire
type ExpireRequest struct {
	Side offer.Side `json:"side"`
}

// RegisterRoutes registers the coordinator endpoints on the given chi router. The
// eventAuth middlewares guard only the chain event endpoint.
func RegisterRoutes(r chi.Router, service Service, logger *zap.Logger, eventAuth ...func(http.Handler) http.Handler) {
	h := &HTTP{
		service: service,
		logger:  logger,
	}

	r.Route("/offers", func(r chi.Router) {
		r.Post("/", apphttp.HandleError(h.createOffer))
		r.Get("/", apphttp.HandleError(h.listOffers))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", apphttp.HandleError(h.queryOffer))
			r.Post("/accept", apphttp.HandleError(h.acceptOffer))
			r.Post("/lock", apphttp.HandleError(h.recordLock))
			r.Post("/claim", apphttp.HandleError(h.recordClaim))
			r.Post("/refund", apphttp.HandleError(h.recordRefund))
			r.Post("/expire", apphttp.HandleError(h.recordExpiry))
			r.With(eventAuth...).Post("/events", apphttp.HandleError(h.observeChainEvent))
		})
	})
}

func (h *HTTP) createOffer(w http.ResponseWriter, r *http.Request) error {
	var terms offer.Terms
	if err := decodeBody(r, &terms); err != nil {
		return err
	}
	snap, err := h.service.CreateOffer(r.Context(), &terms)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusCreated, snap)
	return nil
}

func (h *HTTP) listOffers(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	filter := &offer.Filter{}
	for _, raw := range q["status"] {
		for _, s := range strings.Split(raw, ",") {
			if strings.TrimSpace(s) == "" {
				continue
			}
			st, err := offer.ParseStatus(s)
			if err != nil {
				return badRequest(err, err.Error())
			}
			filter.Statuses = append(filter.Statuses, st)
		}
	}
	var err error
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		return badRequest(err, "invalid limit")
	}
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		return badRequest(err, "invalid offset")
	}

	snaps, err := h.service.ListOffers(r.Context(), filter)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, snaps)
	return nil
}

func (h *HTTP) queryOffer(w http.ResponseWriter, r *http.Request) error {
	snap, err := h.service.QueryOffer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, snap)
	return nil
}

func (h *HTTP) acceptOffer(w http.ResponseWriter, r *http.Request) error {
	var req offer.AcceptRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	return h.respond(w)(h.service.AcceptOffer(r.Context(), chi.URLParam(r, "id"), &req))
}

func (h *HTTP) recordLock(w http.ResponseWriter, r *http.Request) error {
	var req LockRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	return h.respond(w)(h.service.RecordLock(r.Context(), chi.URLParam(r, "id"), req.Side, req.HTLC))
}

func (h *HTTP) recordClaim(w http.ResponseWriter, r *http.Request) error {
	var req ClaimRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	return h.respond(w)(h.service.RecordClaim(r.Context(), chi.URLParam(r, "id"), req.Side, req.Preimage))
}

func (h *HTTP) recordRefund(w http.ResponseWriter, r *http.Request) error {
	var req RefundRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	return h.respond(w)(h.service.RecordRefund(r.Context(), chi.URLParam(r, "id"), req.Side, req.Requester))
}

func (h *HTTP) recordExpiry(w http.ResponseWriter, r *http.Request) error {
	var req ExpireRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	return h.respond(w)(h.service.RecordExpiry(r.Context(), chi.URLParam(r, "id"), req.Side))
}

func (h *HTTP) observeChainEvent(w http.ResponseWriter, r *http.Request) error {
	var ev offer.ChainEvent
	if err := decodeBody(r, &ev); err != nil {
		return err
	}
	ev.OfferID = chi.URLParam(r, "id")
	return h.respond(w)(h.service.ObserveChainEvent(r.Context(), &ev))
}

func (h *HTTP) respond(w http.ResponseWriter) func(*offer.Snapshot, error) error {
	return func(snap *offer.Snapshot, err error) error {
		if err != nil {
			return err
		}
		h.writeJSON(w, http.StatusOK, snap)
		return nil
	}
}

func (h *HTTP) writeJSON(w http.ResponseWriter, status int, data any) {
	if err := apphttp.WriteJSON(w, status, data); err != nil {
		h.logger.Debug("failed to write response", zap.Error(err))
	}
}

// badRequest rejects malformed input under the InvalidTerms reason.
func badRequest(err error, message string) error {
	return apperrors.WithReason(apperrors.BadRequestError(err, message), offer.Reason(offer.ErrInvalidTerms))
}

func decodeBody(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return badRequest(err, "failed to read request")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return badRequest(err, "invalid JSON")
	}
	return nil
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
