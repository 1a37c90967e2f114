package core

import (
	"fmt"
	"github.com/btcsuite/btcd/btcutil/bech32"
)

const (
	AddressHRP      = "klv"
	addressByteSize = 32
)

// IsValidAddress reports whether s is a well-formed bech32 address with the
// ledger's human-readable part and a 32 byte payload.
func IsValidAddress(s string) bool {
	_, err := AddressBytes(s)
	return err == nil
}

// AddressBytes decodes a bech32 address into its 32 byte payload.
func AddressBytes(s string) ([]byte, error) {
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("decode address: %w", err)
	}
	if hrp != AddressHRP {
		return nil, fmt.Errorf("invalid address prefix: %s", hrp)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("convert address bits: %w", err)
	}
	if len(raw) != addressByteSize {
		return nil, fmt.Errorf("invalid address length: %d", len(raw))
	}
	return raw, nil
}

// EncodeAddress encodes a 32 byte payload into a bech32 address.
func EncodeAddress(raw []byte) (string, error) {
	if len(raw) != addressByteSize {
		return "", fmt.Errorf("invalid address length: %d", len(raw))
	}
	conv, err := bech32.ConvertBits(raw, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("convert address bits: %w", err)
	}
	addr, err := bech32.Encode(AddressHRP, conv)
	if err != nil {
		return "", fmt.Errorf("encode address: %w", err)
	}
	return addr, nil
}
