package core

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// NativeAssetID is the asset used when an operation or receipt does not name one.
const NativeAssetID = "KLV"

// ParseAmount converts a wire value (decimal string, json.Number or integer)
// into a non-negative big integer. Floating point representations are
// rejected, amounts never pass through float64.
func ParseAmount(v any) (*big.Int, error) {
	var s string
	switch n := v.(type) {
	case nil:
		return nil, fmt.Errorf("amount is empty")
	case *big.Int:
		return requireNonNegative(new(big.Int).Set(n))
	case json.Number:
		s = n.String()
	case string:
		s = n
	case int:
		return requireNonNegative(big.NewInt(int64(n)))
	case int64:
		return requireNonNegative(big.NewInt(n))
	case uint64:
		return new(big.Int).SetUint64(n), nil
	default:
		return nil, fmt.Errorf("unsupported amount type %T", v)
	}
	res, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %s", s)
	}
	return requireNonNegative(res)
}

func requireNonNegative(n *big.Int) (*big.Int, error) {
	if n.Sign() < 0 {
		return nil, fmt.Errorf("negative amount: %s", n.String())
	}
	return n, nil
}
