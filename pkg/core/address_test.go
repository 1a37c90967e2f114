package core

import (
	"bytes"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestAddressRoundTrip(t *testing.T) {
	raw := bytes.Repeat([]byte{0xab}, 32)
	addr, err := EncodeAddress(raw)
	require.NoError(t, err)
	require.True(t, IsValidAddress(addr))

	decoded, err := AddressBytes(addr)
	require.NoError(t, err)
	require.Equal(t, raw, decoded)
}

func TestAddressRejectsMalformedInput(t *testing.T) {
	for name, input := range map[string]string{
		"empty":        "",
		"not bech32":   "definitely-not-an-address",
		"wrong prefix": "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4",
	} {
		t.Run(name, func(t *testing.T) {
			require.False(t, IsValidAddress(input))
		})
	}
}

func TestEncodeAddressRejectsWrongLength(t *testing.T) {
	_, err := EncodeAddress(bytes.Repeat([]byte{1}, 20))
	require.Error(t, err)
}
