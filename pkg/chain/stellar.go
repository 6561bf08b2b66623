package chain

import (
	"github.com/stellar/go/keypair"
)

// ValidateStellarAddress accepts a G... account strkey with a valid checksum.
func ValidateStellarAddress(addr string) error {
	_, err := keypair.ParseAddress(addr)
	return err
}
