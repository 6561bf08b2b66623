package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/chainsafe/swap-coordinator/pkg/chain"
	"github.com/chainsafe/swap-coordinator/pkg/offer"
	"github.com/chainsafe/swap-coordinator/pkg/offer/service/mocks"
	"github.com/chainsafe/swap-coordinator/pkg/secret"
)

type errorBody struct {
	Error  string `json:"error"`
	Code   int    `json:"code"`
	Reason string `json:"reason"`
}

func newOfferTestServer(svc Service, eventAuth ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, svc, zap.NewNop(), eventAuth...)
	return r
}

func serve(handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var got errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
	return got
}

func openSnapshot(id string) *offer.Snapshot {
	return &offer.Snapshot{Offer: offer.New(id, validTerms(), t0)}
}

func TestOfferHTTP_InvalidJSON_ReturnsBadRequest(t *testing.T) {
	handler := newOfferTestServer(mocks.NewService(t))

	rec := serve(handler, http.MethodPost, "/offers", "{invalid")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	got := decodeError(t, rec)
	if got.Error != "invalid JSON" {
		t.Fatalf("expected error %q, got %q", "invalid JSON", got.Error)
	}
	if got.Code != http.StatusBadRequest {
		t.Fatalf("expected code %d, got %d", http.StatusBadRequest, got.Code)
	}
	if got.Reason != "InvalidTerms" {
		t.Fatalf("expected reason %q, got %q", "InvalidTerms", got.Reason)
	}
}

func TestOfferHTTP_CreateOffer_ReturnsCreated(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().
		CreateOffer(mock.Anything, mock.MatchedBy(func(terms *offer.Terms) bool {
			return terms.ChainFrom == chain.TON && terms.AmountTo.String() == "980"
		})).
		Return(openSnapshot("offer-1"), nil)
	handler := newOfferTestServer(svc)

	body := `{"creator_addresses":{"ton":"creator-ton","stellar":"creator-xlm"},
		"amount_from":"1000","amount_to":"980","token_from":"TON","token_to":"XLM",
		"chain_from":"ton","chain_to":"stellar"}`
	rec := serve(handler, http.MethodPost, "/offers", body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content-type %q, got %q", "application/json", ct)
	}
	var got offer.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
	if got.Offer.ID != "offer-1" || got.Offer.Status != offer.StatusOpen {
		t.Fatalf("unexpected offer %s in status %s", got.Offer.ID, got.Offer.Status)
	}
}

func TestOfferHTTP_RejectionsCarryStatusAndReason(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantReason string
	}{
		{"invalid terms", offer.ErrInvalidTerms, http.StatusBadRequest, "InvalidTerms"},
		{"not found", offer.ErrNotFound, http.StatusNotFound, "NotFound"},
		{"already taken", offer.ErrAlreadyTaken, http.StatusConflict, "AlreadyTaken"},
		{"invalid transition", offer.ErrInvalidTransition, http.StatusUnprocessableEntity, "InvalidTransition"},
		{"hash mismatch", offer.ErrHashMismatch, http.StatusForbidden, "HashMismatch"},
		{"expiry violation", offer.ErrExpiryViolation, http.StatusGone, "ExpiryViolation"},
		{"stale event", offer.ErrStaleEvent, http.StatusPreconditionFailed, "StaleEvent"},
		{"conflict", offer.ErrConflict, http.StatusLocked, "Conflict"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := mocks.NewService(t)
			svc.EXPECT().
				RecordClaim(mock.Anything, "offer-1", offer.SideCreator, mock.Anything).
				Return(nil, toServiceError(fmt.Errorf("%w: guard failed", tc.err)))
			handler := newOfferTestServer(svc)

			rec := serve(handler, http.MethodPost, "/offers/offer-1/claim", `{"side":"creator","preimage":"0xabcd"}`)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, rec.Code)
			}
			got := decodeError(t, rec)
			if got.Reason != tc.wantReason {
				t.Fatalf("expected reason %q, got %q", tc.wantReason, got.Reason)
			}
			if got.Code != tc.wantStatus {
				t.Fatalf("expected code %d, got %d", tc.wantStatus, got.Code)
			}
		})
	}
}

func TestOfferHTTP_ClaimDecodesPreimage(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().
		RecordClaim(mock.Anything, "offer-1", offer.SideCreator, secret.Preimage{0xab, 0xcd}).
		Return(openSnapshot("offer-1"), nil)
	handler := newOfferTestServer(svc)

	rec := serve(handler, http.MethodPost, "/offers/offer-1/claim", `{"side":"creator","preimage":"0xabcd"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
}

func TestOfferHTTP_InternalError_HidesDetails(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().
		QueryOffer(mock.Anything, "offer-1").
		Return(nil, toServiceError(errors.New("pq: connection reset")))
	handler := newOfferTestServer(svc)

	rec := serve(handler, http.MethodGet, "/offers/offer-1", "")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}
	got := decodeError(t, rec)
	if got.Error != "Internal Server Error" {
		t.Fatalf("expected error %q, got %q", "Internal Server Error", got.Error)
	}
	if got.Reason != "" {
		t.Fatalf("expected no reason, got %q", got.Reason)
	}
}

func TestOfferHTTP_ListOffers_ParsesQuery(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().
		ListOffers(mock.Anything, &offer.Filter{
			Statuses: []offer.Status{offer.StatusOpen, offer.StatusTakerLocked, offer.StatusExpired},
			Limit:    5,
			Offset:   10,
		}).
		Return([]*offer.Snapshot{openSnapshot("offer-1")}, nil)
	handler := newOfferTestServer(svc)

	rec := serve(handler, http.MethodGet, "/offers?status=open,taker_locked&status=EXPIRED&limit=5&offset=10", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	var got []offer.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 offer, got %d", len(got))
	}
}

func TestOfferHTTP_ListOffers_BadQuery(t *testing.T) {
	handler := newOfferTestServer(mocks.NewService(t))

	for _, path := range []string{"/offers?status=pending", "/offers?limit=ten", "/offers?offset=-"} {
		rec := serve(handler, http.MethodGet, path, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected status %d, got %d", path, http.StatusBadRequest, rec.Code)
		}
		if got := decodeError(t, rec); got.Reason != "InvalidTerms" {
			t.Fatalf("%s: expected reason %q, got %q", path, "InvalidTerms", got.Reason)
		}
	}
}

func TestOfferHTTP_ChainEvent_TakesOfferIDFromPath(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().
		ObserveChainEvent(mock.Anything, mock.MatchedBy(func(ev *offer.ChainEvent) bool {
			return ev.OfferID == "offer-7" && ev.Sequence == 3 && ev.Kind == chain.LockStateRefunded
		})).
		Return(openSnapshot("offer-7"), nil)
	handler := newOfferTestServer(svc)

	rec := serve(handler, http.MethodPost, "/offers/offer-7/events",
		`{"offer_id":"offer-1","side":"taker","kind":"refunded","sequence":3}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
}

func TestOfferHTTP_ChainEvent_RequiresEventAuth(t *testing.T) {
	svc := mocks.NewService(t)
	deny := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
	}
	handler := newOfferTestServer(svc, deny)

	rec := serve(handler, http.MethodPost, "/offers/offer-7/events", `{"side":"taker","kind":"refunded","sequence":3}`)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}
