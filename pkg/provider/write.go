package provider

import (
	"context"
	"fmt"
	"github.com/txsociety/klever-sdk/pkg/core"
	"math/big"
)

type broadcastBody struct {
	Txs []*core.Transaction `json:"txs"`
}

type broadcastResult struct {
	TxHash    string   `json:"txHash"`
	TxsHashes []string `json:"txsHashes"`
}

// BroadcastTransaction submits one signed transaction and returns its hash.
func (p *Provider) BroadcastTransaction(ctx context.Context, tx *core.Transaction) (string, error) {
	if tx == nil {
		return "", core.NewValidationError("transaction", "required")
	}
	hashes, err := p.broadcast(ctx, []*core.Transaction{tx})
	if err != nil {
		return "", err
	}
	return hashes[0], nil
}

// BroadcastTransactions submits a batch. An empty batch fails before any
// network call.
func (p *Provider) BroadcastTransactions(ctx context.Context, txs []*core.Transaction) ([]string, error) {
	if len(txs) == 0 {
		return nil, core.NewValidationError("transactions", "empty transaction list")
	}
	return p.broadcast(ctx, txs)
}

func (p *Provider) broadcast(ctx context.Context, txs []*core.Transaction) ([]string, error) {
	const path = "/transaction/broadcast"
	raw, err := p.node.Post(ctx, path, broadcastBody{Txs: txs})
	p.logRequest(path, err)
	if err != nil {
		return nil, core.NewTransactionError("", "broadcast failed", err)
	}
	env, err := decodeEnvelope(raw)
	if err != nil {
		return nil, core.NewTransactionError("", "broadcast failed", err)
	}
	var result broadcastResult
	if derr := decodeData(env, &result); derr != nil && !env.failed() {
		return nil, core.NewTransactionError("", "broadcast failed", derr)
	}
	// A hash accompanied by a non-success code does not guarantee inclusion.
	if env.failed() {
		return nil, core.NewTransactionError(result.TxHash, fmt.Sprintf("broadcast rejected: %s", env.reason()), nil)
	}
	if len(result.TxsHashes) > 0 {
		return result.TxsHashes, nil
	}
	if len(result.TxHash) > 0 {
		return []string{result.TxHash}, nil
	}
	return nil, core.NewTransactionError("", "broadcast succeeded but no hash returned", nil)
}

type buildResult struct {
	Result *core.Transaction `json:"result"`
	TxHash string            `json:"txHash"`
}

// BuildTransaction asks the node to assemble an unsigned transaction from a
// build request. A missing nonce is resolved from the sender's account first.
func (p *Provider) BuildTransaction(ctx context.Context, req *core.BuildRequest) (*core.Transaction, error) {
	if req == nil || len(req.Contracts) == 0 {
		return nil, core.NewValidationError("contracts", "at least one operation required")
	}
	if len(req.Sender) > 0 && req.Nonce == nil {
		account, err := p.GetAccount(ctx, req.Sender, SkipCache())
		if err != nil {
			return nil, err
		}
		nonce := account.Nonce
		req.Nonce = &nonce
	}
	const path = "/transaction/send"
	raw, err := p.node.Post(ctx, path, req)
	p.logRequest(path, err)
	if err != nil {
		return nil, core.NewTransactionError("", fmt.Sprintf("build for %s failed", req.Sender), err)
	}
	env, err := decodeEnvelope(raw)
	if err != nil {
		return nil, core.NewTransactionError("", fmt.Sprintf("build for %s failed", req.Sender), err)
	}
	if env.failed() {
		return nil, core.NewTransactionError("", fmt.Sprintf("build for %s rejected: %s", req.Sender, env.reason()), nil)
	}
	var result buildResult
	if err := decodeData(env, &result); err != nil || result.Result == nil {
		return nil, core.NewTransactionError("", "build returned no transaction", err)
	}
	tx := result.Result
	if len(tx.Hash) == 0 {
		tx.Hash = result.TxHash
	}
	return tx, nil
}

// RequestFaucetFunds asks the faucet to fund address. Only test networks have
// a faucet, calling this on mainnet fails without touching the network.
func (p *Provider) RequestFaucetFunds(ctx context.Context, address string) error {
	if !core.IsValidAddress(address) {
		return core.NewValidationError("address", fmt.Sprintf("invalid address: %s", address))
	}
	if !p.network.IsTestnet {
		return core.NewValidationError("network", "faucet not available on mainnet")
	}
	path := "/transaction/send-user-funds/" + address
	raw, err := p.api.Post(ctx, path, nil)
	p.logRequest(path, err)
	if err != nil {
		return core.NewNetworkError(path, "faucet request", err)
	}
	env, err := decodeEnvelope(raw)
	if err != nil {
		return core.NewNetworkError(path, "faucet request", err)
	}
	if env.failed() {
		return core.NewNetworkError(path, env.reason(), nil)
	}
	return nil
}

// QueryContract runs a read-only contract query on the node.
func (p *Provider) QueryContract(ctx context.Context, query any) (map[string]any, error) {
	const path = "/vm/query"
	raw, err := p.node.Post(ctx, path, query)
	p.logRequest(path, err)
	if err != nil {
		return nil, core.NewNetworkError(path, "contract query", err)
	}
	env, err := decodeEnvelope(raw)
	if err != nil {
		return nil, core.NewNetworkError(path, "contract query", err)
	}
	if env.failed() {
		return nil, core.NewNetworkError(path, env.reason(), nil)
	}
	var body map[string]any
	if err := decodeData(env, &body); err != nil {
		return nil, core.NewNetworkError(path, "contract query", err)
	}
	return body, nil
}

// EstimateFee is a deterministic stub. Real fee modeling is out of scope,
// callers must not assume non-zero values.
func (p *Provider) EstimateFee(_ context.Context, _ *core.Transaction) (*core.FeeEstimate, error) {
	return &core.FeeEstimate{
		KAppFee:      big.NewInt(0),
		BandwidthFee: big.NewInt(0),
	}, nil
}
