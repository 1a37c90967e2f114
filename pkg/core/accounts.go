package core

import "math/big"

type AssetBalance struct {
	AssetID       string
	Balance       *big.Int
	FrozenBalance *big.Int
	Precision     uint32
}

type Account struct {
	Address string
	Nonce   uint64
	Balance *big.Int
	Assets  map[string]AssetBalance
}

type Block struct {
	Nonce      uint64
	Hash       string
	ParentHash string
	Timestamp  int64
	Producer   string
	TxCount    int
	Size       int64
}
