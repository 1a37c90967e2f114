package core

import (
	"encoding/json"
	"fmt"
	"golang.org/x/crypto/blake2b"
	"math/big"
)

// TxContract is one encoded operation inside a wire transaction.
type TxContract struct {
	Type      ContractType    `json:"type"`
	Parameter json.RawMessage `json:"parameter"`
}

// RawData is the signable body of a transaction.
type RawData struct {
	Nonce        uint64       `json:"nonce"`
	Sender       string       `json:"sender"`
	Contracts    []TxContract `json:"contract"`
	KAppFee      *big.Int     `json:"kAppFee"`
	BandwidthFee *big.Int     `json:"bandwidthFee"`
	Version      uint32       `json:"version"`
	ChainID      string       `json:"chainID"`
	PermissionID int32        `json:"permID,omitempty"`
	Data         []string     `json:"data,omitempty"`
}

// Hash computes the blake2b-256 digest of the canonical JSON encoding of the
// raw data. The ledger identifies transactions by this digest.
func (r *RawData) Hash() ([32]byte, error) {
	encoded, err := json.Marshal(r)
	if err != nil {
		return [32]byte{}, fmt.Errorf("encode raw data: %w", err)
	}
	return blake2b.Sum256(encoded), nil
}

// Transaction is the wire-format transaction. It is unsigned until at least
// one signature is attached, that is its only state transition.
type Transaction struct {
	RawData   RawData  `json:"rawData"`
	Signature []string `json:"signature,omitempty"`
	Hash      string   `json:"hash,omitempty"`
}

func (t *Transaction) Signed() bool {
	return len(t.Signature) > 0
}

// Signer turns an unsigned transaction into a signed one. Implementations may
// sign locally or hand off to an external agent, the SDK never needs to know.
type Signer interface {
	Sign(tx *Transaction, privateKey []byte) (*Transaction, error)
}

type TransactionStatus string

const (
	TransactionPending TransactionStatus = "pending"
	TransactionSuccess TransactionStatus = "success"
	TransactionFailed  TransactionStatus = "fail"
)

// Receipt is a raw, loosely-typed side-effect record attached to a mined
// transaction. Parsers read it but never mutate it.
type Receipt map[string]any

// TypeID returns the numeric receipt type when present.
func (r Receipt) TypeID() (int64, bool) {
	v, ok := r["type"]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case json.Number:
		id, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return id, true
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}

// TypeString returns the human-readable receipt type tag when present. Older
// indexing versions supply only the numeric type.
func (r Receipt) TypeString() string {
	s, _ := r["typeString"].(string)
	return s
}

func (r Receipt) StringField(key string) string {
	s, _ := r[key].(string)
	return s
}

func (r Receipt) AmountField(key string) (*big.Int, bool) {
	v, ok := r[key]
	if !ok {
		return nil, false
	}
	amount, err := ParseAmount(v)
	if err != nil {
		return nil, false
	}
	return amount, true
}

// TransactionInfo is the mined view of a transaction as returned by the
// indexing API, receipts included.
type TransactionInfo struct {
	Hash         string
	BlockNum     uint64
	Sender       string
	Nonce        uint64
	Status       TransactionStatus
	ResultCode   string
	KAppFee      *big.Int
	BandwidthFee *big.Int
	Timestamp    int64
	Contracts    []map[string]any
	Receipts     []Receipt
}

// FeeEstimate is a deterministic stub for now, callers must not assume
// non-zero values.
type FeeEstimate struct {
	KAppFee      *big.Int
	BandwidthFee *big.Int
}

// BuildContract is one operation inside a node build request.
type BuildContract struct {
	Type    ContractType `json:"contractType"`
	Payload any          `json:"payload"`
}

// BuildRequest is the plain request object for the node's build endpoint.
type BuildRequest struct {
	Sender       string          `json:"sender"`
	Nonce        *uint64         `json:"nonce,omitempty"`
	Contracts    []BuildContract `json:"contracts"`
	KDAFee       string          `json:"kdaFee,omitempty"`
	PermissionID int32           `json:"permID,omitempty"`
	Data         []string        `json:"data,omitempty"`
}
