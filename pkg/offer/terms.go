package offer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/chainsafe/swap-coordinator/pkg/chain"
	"github.com/chainsafe/swap-coordinator/pkg/secret"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Params are the protocol timing parameters.
type Params struct {
	// MinWindow is the minimum remaining lifetime of the taker leg when it is recorded.
	MinWindow time.Duration `default:"10m" validate:"gt=0"`
	// SafetyMargin is the minimum gap between the taker leg expiry and the later-locked,
	// earlier-expiring creator leg.
	SafetyMargin time.Duration `default:"120s" validate:"gt=0"`
	// OfferTTL bounds how long an offer may stay OPEN.
	OfferTTL time.Duration `default:"24h" validate:"gt=0"`
	// ClockSkew is the tolerance applied when comparing wall clock time to a deadline on a
	// chain that has not been observed recently.
	ClockSkew time.Duration `default:"30s" validate:"gte=0"`
	// DefaultTakerWindow is the taker leg lifetime suggested to clients.
	DefaultTakerWindow time.Duration `default:"1h" validate:"gtfield=MinWindow"`
}

// DefaultParams returns the parameters used when none are configured.
func DefaultParams() Params {
	var p Params
	if err := defaults.Set(&p); err != nil {
		panic(fmt.Sprintf("offer: default params: %v", err))
	}
	return p
}

// Validate checks the parameters for internal consistency.
func (p Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid protocol params: %w", err)
	}
	if p.DefaultTakerWindow <= p.SafetyMargin+p.ClockSkew {
		return fmt.Errorf("invalid protocol params: default taker window %s leaves no room for the safety margin", p.DefaultTakerWindow)
	}
	return nil
}

// Terms is the input of createOffer.
type Terms struct {
	CreatorAddresses Addresses       `json:"creator_addresses" validate:"required"`
	AmountFrom       decimal.Decimal `json:"amount_from"`
	AmountTo         decimal.Decimal `json:"amount_to"`
	TokenFrom        string          `json:"token_from" validate:"required,max=128"`
	TokenTo          string          `json:"token_to" validate:"required,max=128"`
	ChainFrom        chain.ID        `json:"chain_from" validate:"required,max=32"`
	ChainTo          chain.ID        `json:"chain_to" validate:"required,max=32,nefield=ChainFrom"`
	IdempotencyKey   string          `json:"idempotency_key,omitempty" validate:"omitempty,max=128"`
}

// Validate checks the terms against the offer invariants and the registered chains.
func (t *Terms) Validate(reg *chain.Registry) error {
	if err := validate.Struct(t); err != nil {
		return reject(ErrInvalidTerms, "%s", describeValidation(err))
	}
	if err := checkAmount("amount_from", t.AmountFrom); err != nil {
		return err
	}
	if err := checkAmount("amount_to", t.AmountTo); err != nil {
		return err
	}
	for _, id := range []chain.ID{t.ChainFrom, t.ChainTo} {
		if !reg.Supported(id) {
			return reject(ErrInvalidTerms, "unsupported chain %q", id)
		}
		if err := reg.ValidateAddress(id, t.CreatorAddresses[id]); err != nil {
			return reject(ErrInvalidTerms, "creator address: %v", err)
		}
	}
	return nil
}

// Amounts are stored as numeric(78,18), so anything finer or larger would not survive a
// round trip.
const (
	MaxAmountScale         = 18
	MaxAmountIntegerDigits = 60
)

func checkAmount(field string, d decimal.Decimal) error {
	if !d.IsPositive() {
		return reject(ErrInvalidTerms, "%s must be positive, got %s", field, d)
	}
	if !d.Equal(d.Round(MaxAmountScale)) {
		return reject(ErrInvalidTerms, "%s has more than %d decimal places: %s", field, MaxAmountScale, d)
	}
	if digits := len(d.Coefficient().String()) + int(d.Exponent()); digits > MaxAmountIntegerDigits {
		return reject(ErrInvalidTerms, "%s has more than %d integer digits", field, MaxAmountIntegerDigits)
	}
	return nil
}

// Matches reports whether o was created from the same terms.
func (t *Terms) Matches(o *Offer) bool {
	return t.ChainFrom == o.ChainFrom &&
		t.ChainTo == o.ChainTo &&
		t.TokenFrom == o.TokenFrom &&
		t.TokenTo == o.TokenTo &&
		t.AmountFrom.Equal(o.AmountFrom) &&
		t.AmountTo.Equal(o.AmountTo) &&
		t.CreatorAddresses[t.ChainFrom] == o.CreatorAddresses[o.ChainFrom] &&
		t.CreatorAddresses[t.ChainTo] == o.CreatorAddresses[o.ChainTo]
}

// New builds an OPEN offer from validated terms.
func New(id string, t *Terms, now time.Time) *Offer {
	return &Offer{
		ID: id,
		CreatorAddresses: Addresses{
			t.ChainFrom: t.CreatorAddresses[t.ChainFrom],
			t.ChainTo:   t.CreatorAddresses[t.ChainTo],
		},
		AmountFrom:     t.AmountFrom,
		AmountTo:       t.AmountTo,
		TokenFrom:      t.TokenFrom,
		TokenTo:        t.TokenTo,
		ChainFrom:      t.ChainFrom,
		ChainTo:        t.ChainTo,
		Status:         StatusOpen,
		IdempotencyKey: t.IdempotencyKey,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// AcceptRequest is the input of acceptOffer.
type AcceptRequest struct {
	TakerAddresses Addresses   `json:"taker_addresses" validate:"required"`
	SecretHash     secret.Hash `json:"secret_hash"`
}

// Validate checks the request shape against the offer's chains.
func (r *AcceptRequest) Validate(o *Offer, reg *chain.Registry) error {
	if err := validate.Struct(r); err != nil {
		return reject(ErrInvalidTerms, "%s", describeValidation(err))
	}
	if r.SecretHash.IsZero() {
		return reject(ErrInvalidTerms, "secret_hash is required")
	}
	for _, id := range []chain.ID{o.ChainFrom, o.ChainTo} {
		if err := reg.ValidateAddress(id, r.TakerAddresses[id]); err != nil {
			return reject(ErrInvalidTerms, "taker address: %v", err)
		}
	}
	return nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
