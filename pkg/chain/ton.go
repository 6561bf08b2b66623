package chain

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

const (
	tonFriendlyLen     = 48
	tonFriendlyBytes   = 36
	tonFlagBounceable  = 0x11
	tonFlagNonBounce   = 0x51
	tonFlagTestOnly    = 0x80
	tonAccountHashSize = 32
)

// ValidateTONAddress accepts raw ("0:<64 hex>") and user-friendly (48 char base64 with
// CRC16 checksum) account addresses on the basechain or masterchain.
func ValidateTONAddress(addr string) error {
	if strings.Contains(addr, ":") {
		return validateTONRaw(addr)
	}
	return validateTONFriendly(addr)
}

func validateTONRaw(addr string) error {
	wcPart, hashPart, _ := strings.Cut(addr, ":")
	wc, err := strconv.ParseInt(wcPart, 10, 8)
	if err != nil {
		return fmt.Errorf("workchain: %w", err)
	}
	if err := checkWorkchain(int8(wc)); err != nil {
		return err
	}
	raw, err := hex.DecodeString(hashPart)
	if err != nil {
		return fmt.Errorf("account hash: %w", err)
	}
	if len(raw) != tonAccountHashSize {
		return fmt.Errorf("account hash must be %d bytes", tonAccountHashSize)
	}
	return nil
}

func validateTONFriendly(addr string) error {
	if len(addr) != tonFriendlyLen {
		return fmt.Errorf("user-friendly address must be %d characters", tonFriendlyLen)
	}

	enc := base64.URLEncoding
	if strings.ContainsAny(addr, "+/") {
		enc = base64.StdEncoding
	}
	raw, err := enc.DecodeString(addr)
	if err != nil {
		return fmt.Errorf("base64: %w", err)
	}
	if len(raw) != tonFriendlyBytes {
		return fmt.Errorf("decoded address must be %d bytes", tonFriendlyBytes)
	}

	flag := raw[0] &^ tonFlagTestOnly
	if flag != tonFlagBounceable && flag != tonFlagNonBounce {
		return fmt.Errorf("unknown address tag 0x%02x", raw[0])
	}
	if err := checkWorkchain(int8(raw[1])); err != nil {
		return err
	}

	want := binary.BigEndian.Uint16(raw[34:])
	if got := crc16XModem(raw[:34]); got != want {
		return fmt.Errorf("checksum mismatch")
	}
	return nil
}

func checkWorkchain(wc int8) error {
	if wc != 0 && wc != -1 {
		return fmt.Errorf("unsupported workchain %d", wc)
	}
	return nil
}

// crc16XModem is CRC-16/XMODEM (poly 0x1021, init 0), the checksum of TON friendly addresses.
func crc16XModem(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
