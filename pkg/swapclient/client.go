// Package swapclient is an HTTP client for the swap coordinator API.
package swapclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/chainsafe/swap-coordinator/pkg/offer"
	"github.com/chainsafe/swap-coordinator/pkg/offer/service"
	"github.com/chainsafe/swap-coordinator/pkg/secret"
)

const defaultTimeout = 30 * time.Second

// ErrUnavailable marks transport failures and server side errors a caller may retry.
var ErrUnavailable = errors.New("coordinator unavailable")

// APIError is a non 2xx response from the coordinator.
type APIError struct {
	StatusCode int    `json:"code"`
	Message    string `json:"error"`
	Reason     string `json:"reason,omitempty"`
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s (%s, HTTP %d)", e.Message, e.Reason, e.StatusCode)
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
}

// Unwrap maps the reason back to the rejection kind so callers can use errors.Is with the
// offer package sentinels.
func (e *APIError) Unwrap() error {
	switch e.Reason {
	case "InvalidTerms":
		return offer.ErrInvalidTerms
	case "NotFound":
		return offer.ErrNotFound
	case "AlreadyTaken":
		return offer.ErrAlreadyTaken
	case "InvalidTransition":
		return offer.ErrInvalidTransition
	case "HashMismatch":
		return offer.ErrHashMismatch
	case "ExpiryViolation":
		return offer.ErrExpiryViolation
	case "StaleEvent":
		return offer.ErrStaleEvent
	case "Conflict":
		return offer.ErrConflict
	}
	if e.StatusCode >= http.StatusInternalServerError {
		return ErrUnavailable
	}
	return nil
}

// Client calls the coordinator HTTP API
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option configures the Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithBearerToken sends the token with every request. Only the chain event endpoint
// requires one.
func WithBearerToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client for the coordinator at baseURL
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid coordinator URL %q", baseURL)
	}
	c := &Client{
		baseURL: u.String(),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CreateOffer publishes a new offer
func (c *Client) CreateOffer(ctx context.Context, terms *offer.Terms) (*offer.Snapshot, error) {
	return c.snapshot(ctx, http.MethodPost, "/offers", terms)
}

// AcceptOffer accepts an open offer as taker
func (c *Client) AcceptOffer(ctx context.Context, id string, req *offer.AcceptRequest) (*offer.Snapshot, error) {
	return c.snapshot(ctx, http.MethodPost, offerPath(id, "accept"), req)
}

// RecordLock reports a deployed HTLC for side
func (c *Client) RecordLock(ctx context.Context, id string, side offer.Side, ref *offer.HTLCRef) (*offer.Snapshot, error) {
	return c.snapshot(ctx, http.MethodPost, offerPath(id, "lock"), &service.LockRequest{Side: side, HTLC: ref})
}

// RecordClaim reports a claim. The creator claim carries the preimage.
func (c *Client) RecordClaim(ctx context.Context, id string, side offer.Side, preimage secret.Preimage) (*offer.Snapshot, error) {
	return c.snapshot(ctx, http.MethodPost, offerPath(id, "claim"), &service.ClaimRequest{Side: side, Preimage: preimage})
}

// RecordRefund reports a refund of side's leg by requester
func (c *Client) RecordRefund(ctx context.Context, id string, side offer.Side, requester string) (*offer.Snapshot, error) {
	return c.snapshot(ctx, http.MethodPost, offerPath(id, "refund"), &service.RefundRequest{Side: side, Requester: requester})
}

// RecordExpiry asks the coordinator to expire the offer
func (c *Client) RecordExpiry(ctx context.Context, id string, side offer.Side) (*offer.Snapshot, error) {
	return c.snapshot(ctx, http.MethodPost, offerPath(id, "expire"), &service.ExpireRequest{Side: side})
}

// ObserveChainEvent submits a gateway observation
func (c *Client) ObserveChainEvent(ctx context.Context, ev *offer.ChainEvent) (*offer.Snapshot, error) {
	return c.snapshot(ctx, http.MethodPost, offerPath(ev.OfferID, "events"), ev)
}

// QueryOffer returns the current snapshot
func (c *Client) QueryOffer(ctx context.Context, id string) (*offer.Snapshot, error) {
	return c.snapshot(ctx, http.MethodGet, offerPath(id, ""), nil)
}

// ListOffers returns offers newest first
func (c *Client) ListOffers(ctx context.Context, filter *offer.Filter) ([]*offer.Snapshot, error) {
	q := url.Values{}
	if filter != nil {
		for _, st := range filter.Statuses {
			q.Add("status", string(st))
		}
		if filter.Limit != 0 {
			q.Set("limit", strconv.Itoa(filter.Limit))
		}
		if filter.Offset != 0 {
			q.Set("offset", strconv.Itoa(filter.Offset))
		}
	}
	path := "/offers"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var snaps []*offer.Snapshot
	if err := c.do(ctx, http.MethodGet, path, nil, &snaps); err != nil {
		return nil, err
	}
	return snaps, nil
}

func offerPath(id, action string) string {
	p := "/offers/" + url.PathEscape(id)
	if action != "" {
		p += "/" + action
	}
	return p
}

func (c *Client) snapshot(ctx context.Context, method, path string, body any) (*offer.Snapshot, error) {
	var snap offer.Snapshot
	if err := c.do(ctx, method, path, body, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
