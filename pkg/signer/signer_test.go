package signer

import (
	"crypto/rand"
	"encoding/base64"
	"github.com/stretchr/testify/require"
	"github.com/txsociety/klever-sdk/pkg/core"
	"golang.org/x/crypto/ed25519"
	"math/big"
	"testing"
)

func unsignedTx() *core.Transaction {
	return &core.Transaction{
		RawData: core.RawData{
			Nonce:        1,
			Sender:       "c2VuZGVy",
			KAppFee:      big.NewInt(500000),
			BandwidthFee: big.NewInt(1000000),
			Version:      1,
			ChainID:      "108",
		},
	}
}

func TestSignProducesVerifiableSignature(t *testing.T) {
	public, private, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	tx := unsignedTx()
	require.False(t, tx.Signed())

	signed, err := New().Sign(tx, private)
	require.NoError(t, err)
	require.True(t, signed.Signed())
	require.Len(t, signed.Signature, 1)

	signature, err := base64.StdEncoding.DecodeString(signed.Signature[0])
	require.NoError(t, err)
	digest, err := tx.RawData.Hash()
	require.NoError(t, err)
	require.True(t, ed25519.Verify(public, digest[:], signature))
}

func TestSignAppendsForMultisig(t *testing.T) {
	_, first, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	_, second, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	tx := unsignedTx()
	_, err = New().Sign(tx, first)
	require.NoError(t, err)
	_, err = New().Sign(tx, second)
	require.NoError(t, err)
	require.Len(t, tx.Signature, 2)
	require.NotEqual(t, tx.Signature[0], tx.Signature[1])
}

func TestSignValidatesInput(t *testing.T) {
	var verr *core.ValidationError

	_, err := New().Sign(nil, make([]byte, ed25519.PrivateKeySize))
	require.ErrorAs(t, err, &verr)

	_, err = New().Sign(unsignedTx(), []byte("short"))
	require.ErrorAs(t, err, &verr)
}
