// Package secret generates and verifies the hashlock preimage shared by both HTLC legs of a swap.
//
// Both on-chain verifiers (the TON contract's uint256 hash and the Soroban contract's U256)
// expect a raw 32-byte SHA-256 digest of the preimage, so that is the only commitment format.
package secret

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// HashSize is the byte length of a commitment.
	HashSize = sha256.Size

	// PreimageSize is the byte length of a freshly generated preimage (256 bits of entropy).
	PreimageSize = 32

	// MaxPreimageSize bounds caller supplied preimages. The TON claim message carries the
	// preimage in a single cell, which leaves room for at most 64 bytes next to the opcode.
	MaxPreimageSize = 64
)

var (
	ErrInvalidHash     = errors.New("invalid secret hash")
	ErrInvalidPreimage = errors.New("invalid secret preimage")
)

// Hash is the SHA-256 commitment stored in both HTLCs.
type Hash [HashSize]byte

// IsZero reports whether the hash is unset.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// String returns the lowercase hex encoding without prefix.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// ParseHash decodes a hex commitment, accepting an optional 0x prefix.
func ParseHash(s string) (Hash, error) {
	var h Hash
	raw, err := hex.DecodeString(strip0x(s))
	if err != nil {
		return h, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	if len(raw) != HashSize {
		return h, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidHash, HashSize, len(raw))
	}
	copy(h[:], raw)
	return h, nil
}

// Preimage is the secret revealed by the first claim.
type Preimage []byte

func (p Preimage) String() string {
	return hex.EncodeToString(p)
}

func (p Preimage) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Preimage) UnmarshalText(text []byte) error {
	parsed, err := ParsePreimage(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Equal compares two preimages in constant time.
func (p Preimage) Equal(other Preimage) bool {
	return subtle.ConstantTimeCompare(p, other) == 1
}

// ParsePreimage decodes a hex preimage, accepting an optional 0x prefix.
func ParsePreimage(s string) (Preimage, error) {
	raw, err := hex.DecodeString(strip0x(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPreimage, err)
	}
	if len(raw) == 0 || len(raw) > MaxPreimageSize {
		return nil, fmt.Errorf("%w: length must be between 1 and %d bytes", ErrInvalidPreimage, MaxPreimageSize)
	}
	return raw, nil
}

// New returns a fresh random preimage and its commitment.
// An error means the system entropy source failed and must be treated as fatal.
func New() (Preimage, Hash, error) {
	return NewFromReader(rand.Reader)
}

// NewFromReader is New with an explicit entropy source.
func NewFromReader(r io.Reader) (Preimage, Hash, error) {
	preimage := make(Preimage, PreimageSize)
	if _, err := io.ReadFull(r, preimage); err != nil {
		return nil, Hash{}, fmt.Errorf("read entropy: %w", err)
	}
	return preimage, Sum(preimage), nil
}

// Sum computes the commitment of a preimage.
func Sum(p Preimage) Hash {
	return sha256.Sum256(p)
}

// Verify reports whether the preimage hashes to h. It never panics and returns false for
// an empty or oversized preimage or an unset hash.
func Verify(p Preimage, h Hash) bool {
	if len(p) == 0 || len(p) > MaxPreimageSize || h.IsZero() {
		return false
	}
	sum := Sum(p)
	return subtle.ConstantTimeCompare(sum[:], h[:]) == 1
}

func strip0x(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s[2:]
	}
	return s
}
