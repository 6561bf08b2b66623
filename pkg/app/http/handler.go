// Package http holds the error-returning handler adapter and the serve loop shared by the
// coordinator's HTTP surfaces.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/chainsafe/swap-coordinator/pkg/app/errors"
)

// HandlerFunc is an http.HandlerFunc that reports failures by returning them.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// HandleError adapts h to net/http. Returned errors are written with DefaultErrorHandler.
//
//	r.Post("/offers", apphttp.HandleError(h.createOffer))
func HandleError(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			DefaultErrorHandler(w, err)
		}
	}
}

// ErrorResponse is the JSON body of every non 2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
	// Reason names the offer rejection kind, e.g. HashMismatch, when there is one.
	Reason string `json:"reason,omitempty"`
}

// DefaultErrorHandler writes err as an ErrorResponse. Errors that are not a ServiceError
// become a 500 without leaking their message.
func DefaultErrorHandler(w http.ResponseWriter, err error) {
	resp := ErrorResponse{
		Error: "Unexpected Service Error",
		Code:  http.StatusInternalServerError,
	}
	var svcErr *apperrors.ServiceError
	if errors.As(err, &svcErr) {
		resp = ErrorResponse{
			Error:  svcErr.Message,
			Code:   svcErr.StatusCode(),
			Reason: svcErr.Reason,
		}
	}
	_ = WriteJSON(w, resp.Code, &resp)
}

// WriteJSON writes v with the given status. An encoding error arrives after the status
// line is sent, so it can only be logged.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
