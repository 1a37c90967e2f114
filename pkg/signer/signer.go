package signer

import (
	"encoding/base64"
	"github.com/txsociety/klever-sdk/pkg/core"
	"golang.org/x/crypto/ed25519"
)

// Local signs transactions with an in-process ed25519 key. It implements
// core.Signer, callers that delegate signing to an external agent plug in
// their own implementation instead.
type Local struct{}

func New() *Local {
	return &Local{}
}

// Sign appends a signature over the blake2b digest of the raw data. The
// transaction is unsigned until the first signature lands, multisig flows
// call Sign once per key.
func (s *Local) Sign(tx *core.Transaction, privateKey []byte) (*core.Transaction, error) {
	if tx == nil {
		return nil, core.NewValidationError("transaction", "required")
	}
	if len(privateKey) != ed25519.PrivateKeySize {
		return nil, core.NewValidationError("privateKey", "must be a 64 byte ed25519 key")
	}
	digest, err := tx.RawData.Hash()
	if err != nil {
		return nil, err
	}
	signature := ed25519.Sign(ed25519.PrivateKey(privateKey), digest[:])
	tx.Signature = append(tx.Signature, base64.StdEncoding.EncodeToString(signature))
	return tx, nil
}
