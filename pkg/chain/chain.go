// Package chain holds the per-chain collaborators of the coordinator: address validation and
// the gateway that reports what happened to an HTLC on its ledger. Both are looked up through
// a Registry keyed by chain ID instead of package level clients.
package chain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ID identifies a ledger.
type ID string

const (
	TON     ID = "ton"
	Stellar ID = "stellar"
)

func (id ID) String() string {
	return string(id)
}

var (
	ErrUnknownChain   = errors.New("unknown chain")
	ErrInvalidAddress = errors.New("invalid address")
)

// AddressValidator checks that addr is a well formed account address on one chain.
type AddressValidator func(addr string) error

type entry struct {
	validator AddressValidator
	gateway   Gateway
}

// Registry maps chain IDs to their validators and gateways.
type Registry struct {
	mu     sync.RWMutex
	chains map[ID]*entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{chains: make(map[ID]*entry)}
}

// DefaultRegistry returns a registry that knows the TON and Stellar address formats.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(TON, ValidateTONAddress)
	r.Register(Stellar, ValidateStellarAddress)
	return r
}

// Register adds or replaces the validator for a chain.
func (r *Registry) Register(id ID, validator AddressValidator) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.chains[id]
	if !ok {
		e = &entry{}
		r.chains[id] = e
	}
	e.validator = validator
}

// SetGateway attaches a gateway to an already registered chain.
func (r *Registry) SetGateway(gw Gateway) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.chains[gw.Chain()]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownChain, gw.Chain())
	}
	e.gateway = gw
	return nil
}

// Gateway returns the gateway for a chain, if one is attached.
func (r *Registry) Gateway(id ID) (Gateway, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.chains[id]
	if !ok || e.gateway == nil {
		return nil, false
	}
	return e.gateway, true
}

// Supported reports whether the chain is registered.
func (r *Registry) Supported(id ID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.chains[id]
	return ok
}

// IDs returns the registered chains in lexical order.
func (r *Registry) IDs() []ID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]ID, 0, len(r.chains))
	for id := range r.chains {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ValidateAddress checks addr against the chain's address format.
func (r *Registry) ValidateAddress(id ID, addr string) error {
	r.mu.RLock()
	e, ok := r.chains[id]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownChain, id)
	}
	if strings.TrimSpace(addr) == "" {
		return fmt.Errorf("%w: empty %s address", ErrInvalidAddress, id)
	}
	if e.validator == nil {
		return nil
	}
	if err := e.validator(addr); err != nil {
		return fmt.Errorf("%w: %s address %q: %v", ErrInvalidAddress, id, addr, err)
	}
	return nil
}
