package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/jinzhu/copier"
	"github.com/txsociety/klever-sdk/pkg/core"
	"github.com/txsociety/klever-sdk/pkg/network"
	"github.com/txsociety/klever-sdk/pkg/request"
	"log/slog"
	"math/big"
	"strconv"
	"time"
)

const (
	defaultPollInterval = 3 * time.Second
	defaultPollAttempts = 40
)

// Provider exposes reads, broadcast and transaction construction against one
// network. It owns its two HTTP clients and its cache exclusively, nothing is
// shared across provider instances.
type Provider struct {
	network *network.Record
	api     *request.Client
	node    *request.Client
	cache   *request.Cache
	debug   bool

	pollInterval time.Duration
	pollAttempts int
	clientOpts   []request.Option
}

type Option func(*Provider)

func WithDebug() Option {
	return func(p *Provider) { p.debug = true }
}

func WithCache(c *request.Cache) Option {
	return func(p *Provider) { p.cache = c }
}

func WithoutCache() Option {
	return func(p *Provider) { p.cache = nil }
}

func WithPollInterval(d time.Duration) Option {
	return func(p *Provider) { p.pollInterval = d }
}

func WithPollAttempts(n int) Option {
	return func(p *Provider) { p.pollAttempts = n }
}

func WithClientOptions(opts ...request.Option) Option {
	return func(p *Provider) { p.clientOpts = opts }
}

func New(net *network.Record, opts ...Option) (*Provider, error) {
	if net == nil {
		return nil, core.NewValidationError("network", "required")
	}
	if len(net.Endpoints.API) == 0 {
		return nil, core.NewValidationError("network", "api endpoint required")
	}
	p := &Provider{
		network:      net,
		cache:        request.NewCache(),
		pollInterval: defaultPollInterval,
		pollAttempts: defaultPollAttempts,
	}
	for _, opt := range opts {
		opt(p)
	}
	nodeURL := net.Endpoints.Node
	if len(nodeURL) == 0 {
		nodeURL = net.Endpoints.API
	}
	p.api = request.New(net.Endpoints.API, p.clientOpts...)
	p.node = request.New(nodeURL, p.clientOpts...)
	return p, nil
}

func (p *Provider) Network() *network.Record {
	return p.network
}

func (p *Provider) ClearCache() {
	if p.cache != nil {
		p.cache.Clear()
	}
}

// envelope is the API's response wrapper. A code other than "successful"/"0"
// signals a soft failure even on an HTTP 200.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
	Code  string          `json:"code"`
}

func (e *envelope) failed() bool {
	if len(e.Error) > 0 {
		return true
	}
	return len(e.Code) > 0 && e.Code != "successful" && e.Code != "0"
}

func (e *envelope) reason() string {
	if len(e.Error) > 0 {
		return e.Error
	}
	return fmt.Sprintf("code %s", e.Code)
}

func decodeEnvelope(raw json.RawMessage) (*envelope, error) {
	var env envelope
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response envelope: %w", err)
	}
	return &env, nil
}

func decodeData(env *envelope, v any) error {
	if len(env.Data) == 0 {
		return core.ErrNotFound
	}
	decoder := json.NewDecoder(bytes.NewReader(env.Data))
	decoder.UseNumber()
	return decoder.Decode(v)
}

func (p *Provider) logRequest(path string, err error) {
	if !p.debug {
		return
	}
	if err != nil {
		slog.Debug("ledger request failed", "path", path, "error", err.Error())
		return
	}
	slog.Debug("ledger request", "path", path)
}

type accountOptions struct {
	skipCache bool
}

type AccountOption func(*accountOptions)

// SkipCache bypasses the result cache for this call only.
func SkipCache() AccountOption {
	return func(o *accountOptions) { o.skipCache = true }
}

type wireAsset struct {
	AssetID       string      `json:"assetId"`
	Balance       json.Number `json:"balance"`
	FrozenBalance json.Number `json:"frozenBalance"`
	Precision     uint32      `json:"precision"`
}

type wireAccount struct {
	Address string               `json:"address"`
	Nonce   uint64               `json:"nonce"`
	Balance json.Number          `json:"balance"`
	Assets  map[string]wireAsset `json:"assets"`
}

// GetAccount fetches the typed account for address, serving repeated calls
// from the cache within its TTL.
func (p *Provider) GetAccount(ctx context.Context, address string, opts ...AccountOption) (*core.Account, error) {
	var options accountOptions
	for _, opt := range opts {
		opt(&options)
	}
	if !core.IsValidAddress(address) {
		return nil, core.NewValidationError("address", fmt.Sprintf("invalid address: %s", address))
	}
	cacheKey := "account:" + address
	if p.cache != nil && !options.skipCache {
		if v, ok := p.cache.Get(cacheKey); ok {
			return copyAccount(v.(*core.Account))
		}
	}
	path := "/address/" + address
	raw, err := p.api.Get(ctx, path)
	p.logRequest(path, err)
	if err != nil {
		return nil, core.NewNetworkError(path, "get account", err)
	}
	env, err := decodeEnvelope(raw)
	if err != nil {
		return nil, core.NewNetworkError(path, "get account", err)
	}
	if env.failed() {
		return nil, core.NewNetworkError(path, env.reason(), nil)
	}
	var body struct {
		Account *wireAccount `json:"account"`
	}
	if err := decodeData(env, &body); err != nil || body.Account == nil {
		return nil, core.NewNetworkError(path, "missing account body", err)
	}
	account, err := convertAccount(body.Account)
	if err != nil {
		return nil, core.NewNetworkError(path, "malformed account", err)
	}
	if p.cache != nil {
		p.cache.Set(cacheKey, account)
	}
	return copyAccount(account)
}

// copyAccount deep-copies before handing out, cached values must never escape
// by reference.
func copyAccount(src *core.Account) (*core.Account, error) {
	var dst core.Account
	if err := copier.CopyWithOption(&dst, src, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("copy account: %w", err)
	}
	return &dst, nil
}

func convertAccount(w *wireAccount) (*core.Account, error) {
	balance, err := core.ParseAmount(w.Balance)
	if err != nil {
		return nil, fmt.Errorf("account balance: %w", err)
	}
	account := &core.Account{
		Address: w.Address,
		Nonce:   w.Nonce,
		Balance: balance,
		Assets:  make(map[string]core.AssetBalance, len(w.Assets)),
	}
	for id, asset := range w.Assets {
		assetBalance, err := core.ParseAmount(asset.Balance)
		if err != nil {
			return nil, fmt.Errorf("asset %s balance: %w", id, err)
		}
		frozen := big.NewInt(0)
		if len(asset.FrozenBalance) > 0 {
			frozen, err = core.ParseAmount(asset.FrozenBalance)
			if err != nil {
				return nil, fmt.Errorf("asset %s frozen balance: %w", id, err)
			}
		}
		assetID := asset.AssetID
		if len(assetID) == 0 {
			assetID = id
		}
		account.Assets[id] = core.AssetBalance{
			AssetID:       assetID,
			Balance:       assetBalance,
			FrozenBalance: frozen,
			Precision:     asset.Precision,
		}
	}
	return account, nil
}

// GetBalance returns the balance of assetID (the native asset when empty).
// An asset the account does not hold yields zero, never an error.
func (p *Provider) GetBalance(ctx context.Context, address, assetID string) (*big.Int, error) {
	account, err := p.GetAccount(ctx, address)
	if err != nil {
		return nil, err
	}
	if len(assetID) == 0 || assetID == p.network.NativeCurrency.Symbol {
		if account.Balance == nil {
			return big.NewInt(0), nil
		}
		return account.Balance, nil
	}
	asset, ok := account.Assets[assetID]
	if !ok || asset.Balance == nil {
		return big.NewInt(0), nil
	}
	return asset.Balance, nil
}

// GetTransaction fetches the mined view of a transaction, receipts included.
// Absence surfaces as a NetworkError wrapping core.ErrNotFound.
func (p *Provider) GetTransaction(ctx context.Context, hash string, opts ...AccountOption) (*core.TransactionInfo, error) {
	var options accountOptions
	for _, opt := range opts {
		opt(&options)
	}
	cacheKey := "tx:" + hash
	if p.cache != nil && !options.skipCache {
		if v, ok := p.cache.Get(cacheKey); ok {
			return v.(*core.TransactionInfo), nil
		}
	}
	path := "/transaction/" + hash + "?withResults=true"
	raw, err := p.api.Get(ctx, path)
	p.logRequest(path, err)
	if err != nil {
		var httpErr *request.HTTPError
		if errors.As(err, &httpErr) && httpErr.Status == 404 {
			return nil, core.NewNetworkError(path, "transaction "+hash, core.ErrNotFound)
		}
		return nil, core.NewNetworkError(path, "get transaction "+hash, err)
	}
	env, err := decodeEnvelope(raw)
	if err != nil {
		return nil, core.NewNetworkError(path, "get transaction "+hash, err)
	}
	if env.failed() {
		return nil, core.NewNetworkError(path, env.reason(), nil)
	}
	var body struct {
		Transaction map[string]any `json:"transaction"`
	}
	if err := decodeData(env, &body); err != nil || body.Transaction == nil {
		return nil, core.NewNetworkError(path, "transaction "+hash, core.ErrNotFound)
	}
	info := convertTransactionInfo(body.Transaction)
	if p.cache != nil {
		p.cache.Set(cacheKey, info)
	}
	return info, nil
}

// GetTransactionReceipt returns the receipts of a mined transaction, nil when
// the transaction itself is unknown and an empty slice when it produced none.
func (p *Provider) GetTransactionReceipt(ctx context.Context, hash string) ([]core.Receipt, error) {
	info, err := p.GetTransaction(ctx, hash)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if info.Receipts == nil {
		return []core.Receipt{}, nil
	}
	return info.Receipts, nil
}

func convertTransactionInfo(m map[string]any) *core.TransactionInfo {
	info := &core.TransactionInfo{
		Hash:       stringValue(m, "hash"),
		Sender:     stringValue(m, "sender"),
		ResultCode: stringValue(m, "resultCode"),
		BlockNum:   uintValue(m, "blockNum"),
		Nonce:      uintValue(m, "nonce"),
		Timestamp:  int64(uintValue(m, "timestamp")),
	}
	info.KAppFee, _ = core.Receipt(m).AmountField("kAppFee")
	info.BandwidthFee, _ = core.Receipt(m).AmountField("bandwidthFee")
	switch stringValue(m, "status") {
	case "success":
		info.Status = core.TransactionSuccess
	case "fail", "failed":
		info.Status = core.TransactionFailed
	default:
		info.Status = core.TransactionPending
	}
	if contracts, ok := m["contract"].([]any); ok {
		for _, c := range contracts {
			if cm, ok := c.(map[string]any); ok {
				info.Contracts = append(info.Contracts, cm)
			}
		}
	}
	if receipts, ok := m["receipts"].([]any); ok {
		for _, r := range receipts {
			if rm, ok := r.(map[string]any); ok {
				info.Receipts = append(info.Receipts, core.Receipt(rm))
			}
		}
	}
	return info
}

func stringValue(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func uintValue(m map[string]any, key string) uint64 {
	switch v := m[key].(type) {
	case json.Number:
		n, err := strconv.ParseUint(v.String(), 10, 64)
		if err != nil {
			return 0
		}
		return n
	case float64:
		return uint64(v)
	case uint64:
		return v
	case int64:
		if v < 0 {
			return 0
		}
		return uint64(v)
	}
	return 0
}

// GetBlockNumber reads the current height from the node's overview endpoint.
func (p *Provider) GetBlockNumber(ctx context.Context) (uint64, error) {
	const path = "/node/overview"
	raw, err := p.node.Get(ctx, path)
	p.logRequest(path, err)
	if err != nil {
		return 0, core.NewNetworkError(path, "get overview", err)
	}
	env, err := decodeEnvelope(raw)
	if err != nil {
		return 0, core.NewNetworkError(path, "get overview", err)
	}
	if env.failed() {
		return 0, core.NewNetworkError(path, env.reason(), nil)
	}
	var body map[string]any
	if err := decodeData(env, &body); err != nil {
		return 0, core.NewNetworkError(path, "get overview", err)
	}
	if overview, ok := body["overview"].(map[string]any); ok {
		body = overview
	}
	if _, ok := body["nonce"]; !ok {
		return 0, core.NewNetworkError(path, "overview has no nonce", nil)
	}
	return uintValue(body, "nonce"), nil
}

type wireBlock struct {
	Nonce      uint64      `json:"nonce"`
	Hash       string      `json:"hash"`
	ParentHash string      `json:"parentHash"`
	Timestamp  int64       `json:"timestamp"`
	Producer   string      `json:"producerName"`
	TxCount    int         `json:"txCount"`
	Size       json.Number `json:"size"`
}

// GetBlock fetches a block by number, hash, or the literal "latest". Absence
// in any form (explicit API error, missing body, HTTP error status) is an
// expected steady state for speculative queries and returns nil, nil.
// Transport-level failures still propagate as NetworkError.
func (p *Provider) GetBlock(ctx context.Context, identifier any) (*core.Block, error) {
	switch id := identifier.(type) {
	case uint64:
		return p.getBlock(ctx, "/block/by-nonce/"+strconv.FormatUint(id, 10))
	case int:
		if id < 0 {
			return nil, core.NewValidationError("block", "negative block number")
		}
		return p.getBlock(ctx, "/block/by-nonce/"+strconv.Itoa(id))
	case int64:
		if id < 0 {
			return nil, core.NewValidationError("block", "negative block number")
		}
		return p.getBlock(ctx, "/block/by-nonce/"+strconv.FormatInt(id, 10))
	case string:
		if id == "latest" {
			height, err := p.GetBlockNumber(ctx)
			if err != nil {
				return nil, err
			}
			return p.getBlock(ctx, "/block/by-nonce/"+strconv.FormatUint(height, 10))
		}
		if n, err := strconv.ParseUint(id, 10, 64); err == nil {
			return p.getBlock(ctx, "/block/by-nonce/"+strconv.FormatUint(n, 10))
		}
		return p.getBlock(ctx, "/block/by-hash/"+id)
	default:
		return nil, core.NewValidationError("block", fmt.Sprintf("unsupported identifier type %T", identifier))
	}
}

func (p *Provider) getBlock(ctx context.Context, path string) (*core.Block, error) {
	raw, err := p.api.Get(ctx, path)
	p.logRequest(path, err)
	if err != nil {
		var httpErr *request.HTTPError
		if errors.As(err, &httpErr) {
			return nil, nil
		}
		return nil, core.NewNetworkError(path, "get block", err)
	}
	env, err := decodeEnvelope(raw)
	if err != nil {
		return nil, core.NewNetworkError(path, "get block", err)
	}
	if env.failed() {
		return nil, nil
	}
	var body struct {
		Block *wireBlock `json:"block"`
	}
	if err := decodeData(env, &body); err != nil || body.Block == nil {
		return nil, nil
	}
	size, _ := body.Block.Size.Int64()
	return &core.Block{
		Nonce:      body.Block.Nonce,
		Hash:       body.Block.Hash,
		ParentHash: body.Block.ParentHash,
		Timestamp:  body.Block.Timestamp,
		Producer:   body.Block.Producer,
		TxCount:    body.Block.TxCount,
		Size:       size,
	}, nil
}
