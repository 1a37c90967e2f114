package builder

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"github.com/txsociety/klever-sdk/pkg/core"
	"math/big"
)

const txVersion = 1

// BuildRequest renders the accumulated state into the plain request object
// the node's build endpoint accepts. When a smart-contract call is present
// the free-form data entries are base64-encoded, the node expects opaque
// bytes for contract input.
func (b *Builder) BuildRequest() (*core.BuildRequest, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.ops) == 0 {
		return nil, core.NewValidationError("contracts", "at least one operation required")
	}
	req := &core.BuildRequest{
		Sender: b.sender,
		Nonce:  b.nonce,
		KDAFee: b.kdaFee,
		Data:   b.renderData(),
	}
	if b.permissionID != nil {
		req.PermissionID = *b.permissionID
	}
	for _, op := range b.ops {
		req.Contracts = append(req.Contracts, core.BuildContract{
			Type:    op.ContractType(),
			Payload: op,
		})
	}
	return req, nil
}

func (b *Builder) renderData() []string {
	if len(b.data) == 0 {
		return nil
	}
	if !b.hasSmartContract() {
		return b.data
	}
	encoded := make([]string, len(b.data))
	for i, entry := range b.data {
		encoded[i] = base64.StdEncoding.EncodeToString([]byte(entry))
	}
	return encoded
}

func (b *Builder) hasSmartContract() bool {
	for _, op := range b.ops {
		if op.ContractType() == core.SmartContractType {
			return true
		}
	}
	return false
}

// Build renders through the node. The returned transaction is unsigned and
// carries only wire fields, hints the node echoes back are dropped.
func (b *Builder) Build(ctx context.Context) (*core.Transaction, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.provider == nil {
		return nil, core.NewValidationError("provider", "builder has no attached provider")
	}
	req, err := b.BuildRequest()
	if err != nil {
		return nil, err
	}
	return b.provider.BuildTransaction(ctx, req)
}

// ProtoOptions override builder state for the offline render path.
type ProtoOptions struct {
	ChainID      uint32
	Sender       string
	Nonce        *uint64
	KAppFee      *big.Int
	BandwidthFee *big.Int
	PermissionID *int32
}

// BuildProto renders fully offline, no node round trip. Chain id, sender and
// nonce must each come from the options, the builder state, or (for the chain
// id) the attached provider's network. There is no default nonce, offline
// callers must know theirs. Fees default to zero, realistic values are the
// caller's responsibility offline.
func (b *Builder) BuildProto(opts ProtoOptions) (*core.Transaction, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.ops) == 0 {
		return nil, core.NewValidationError("contracts", "at least one operation required")
	}
	chainID := opts.ChainID
	if chainID == 0 {
		chainID = b.chainID
	}
	if chainID == 0 && b.provider != nil {
		chainID = b.provider.Network().ChainID
	}
	if chainID == 0 {
		return nil, core.NewValidationError("chainID", "not resolvable from options, builder or provider")
	}
	sender := opts.Sender
	if len(sender) == 0 {
		sender = b.sender
	}
	if len(sender) == 0 {
		return nil, core.NewValidationError("sender", "required for offline build")
	}
	senderBytes, err := core.AddressBytes(sender)
	if err != nil {
		return nil, core.NewValidationError("sender", err.Error())
	}
	nonce := opts.Nonce
	if nonce == nil {
		nonce = b.nonce
	}
	if nonce == nil {
		return nil, core.NewValidationError("nonce", "required for offline build")
	}
	kAppFee := opts.KAppFee
	if kAppFee == nil {
		kAppFee = big.NewInt(0)
	}
	bandwidthFee := opts.BandwidthFee
	if bandwidthFee == nil {
		bandwidthFee = big.NewInt(0)
	}

	rawData := core.RawData{
		Nonce:        *nonce,
		Sender:       base64.StdEncoding.EncodeToString(senderBytes),
		KAppFee:      kAppFee,
		BandwidthFee: bandwidthFee,
		Version:      txVersion,
		ChainID:      fmt.Sprintf("%d", chainID),
		Data:         b.renderData(),
	}
	switch {
	case opts.PermissionID != nil:
		rawData.PermissionID = *opts.PermissionID
	case b.permissionID != nil:
		rawData.PermissionID = *b.permissionID
	}
	for _, op := range b.ops {
		parameter, err := json.Marshal(op)
		if err != nil {
			return nil, fmt.Errorf("encode contract type %d: %w", op.ContractType(), err)
		}
		rawData.Contracts = append(rawData.Contracts, core.TxContract{
			Type:      op.ContractType(),
			Parameter: parameter,
		})
	}

	digest, err := rawData.Hash()
	if err != nil {
		return nil, err
	}
	return &core.Transaction{
		RawData: rawData,
		Hash:    hex.EncodeToString(digest[:]),
	}, nil
}
