package builder

import (
	"github.com/txsociety/klever-sdk/pkg/core"
	"github.com/txsociety/klever-sdk/pkg/provider"
	"math/big"
)

// Builder accumulates typed contract operations plus transaction metadata and
// renders them into a build request, a node-built transaction, or a fully
// offline transaction. Mutators validate eagerly and are chainable, the first
// validation failure sticks and surfaces from Err and every renderer.
type Builder struct {
	provider *provider.Provider
	chainID  uint32

	ops          []core.Contract
	sender       string
	nonce        *uint64
	kdaFee       string
	permissionID *int32
	data         []string
	err          error
}

type Option func(*Builder)

func WithProvider(p *provider.Provider) Option {
	return func(b *Builder) { b.provider = p }
}

func WithChainID(chainID uint32) Option {
	return func(b *Builder) { b.chainID = chainID }
}

func New(opts ...Option) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Err returns the first validation failure recorded by a mutator.
func (b *Builder) Err() error {
	return b.err
}

// Operations returns the accumulated contracts in call order.
func (b *Builder) Operations() []core.Contract {
	return b.ops
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// append validates first, a rejected operation is never recorded.
func (b *Builder) append(c core.Contract) *Builder {
	if b.err != nil {
		return b
	}
	if err := c.Validate(); err != nil {
		return b.fail(err)
	}
	b.ops = append(b.ops, c)
	return b
}

func (b *Builder) Sender(address string) *Builder {
	if b.err != nil {
		return b
	}
	if !core.IsValidAddress(address) {
		return b.fail(core.NewValidationError("sender", "invalid address: "+address))
	}
	b.sender = address
	return b
}

func (b *Builder) Nonce(nonce uint64) *Builder {
	if b.err != nil {
		return b
	}
	b.nonce = &nonce
	return b
}

// KDAFee sets the asset used to pay fees.
func (b *Builder) KDAFee(assetID string) *Builder {
	if b.err != nil {
		return b
	}
	if len(assetID) == 0 {
		return b.fail(core.NewValidationError("kdaFee", "asset id required"))
	}
	b.kdaFee = assetID
	return b
}

func (b *Builder) PermissionID(id int32) *Builder {
	if b.err != nil {
		return b
	}
	if id < 0 {
		return b.fail(core.NewValidationError("permissionID", "must not be negative"))
	}
	b.permissionID = &id
	return b
}

// Data attaches free-form payload entries to the transaction.
func (b *Builder) Data(entries ...string) *Builder {
	if b.err != nil {
		return b
	}
	b.data = append(b.data, entries...)
	return b
}

func (b *Builder) Transfer(receiver string, amount *big.Int, kda string) *Builder {
	return b.append(&core.TransferContract{Receiver: receiver, Amount: amount, KDA: kda})
}

func (b *Builder) CreateAsset(c core.CreateAssetContract) *Builder {
	return b.append(&c)
}

func (b *Builder) CreateValidator(c core.CreateValidatorContract) *Builder {
	return b.append(&c)
}

func (b *Builder) ValidatorConfig(c core.ValidatorConfigContract) *Builder {
	return b.append(&c)
}

func (b *Builder) Freeze(amount *big.Int, kda string) *Builder {
	return b.append(&core.FreezeContract{Amount: amount, KDA: kda})
}

func (b *Builder) Unfreeze(bucketID, kda string) *Builder {
	return b.append(&core.UnfreezeContract{BucketID: bucketID, KDA: kda})
}

func (b *Builder) Delegate(validator, bucketID string) *Builder {
	return b.append(&core.DelegateContract{Receiver: validator, BucketID: bucketID})
}

func (b *Builder) Undelegate(bucketID string) *Builder {
	return b.append(&core.UndelegateContract{BucketID: bucketID})
}

func (b *Builder) Withdraw(c core.WithdrawContract) *Builder {
	return b.append(&c)
}

func (b *Builder) Claim(claimType int32, id string) *Builder {
	return b.append(&core.ClaimContract{ClaimType: claimType, ID: id})
}

func (b *Builder) Unjail() *Builder {
	return b.append(&core.UnjailContract{})
}

func (b *Builder) AssetTrigger(c core.AssetTriggerContract) *Builder {
	return b.append(&c)
}

func (b *Builder) SetAccountName(name string) *Builder {
	return b.append(&core.SetAccountNameContract{Name: name})
}

func (b *Builder) Proposal(c core.ProposalContract) *Builder {
	return b.append(&c)
}

func (b *Builder) Vote(c core.VoteContract) *Builder {
	return b.append(&c)
}

func (b *Builder) ConfigITO(c core.ConfigITOContract) *Builder {
	return b.append(&c)
}

func (b *Builder) SetITOPrices(c core.SetITOPricesContract) *Builder {
	return b.append(&c)
}

func (b *Builder) Buy(c core.BuyContract) *Builder {
	return b.append(&c)
}

func (b *Builder) Sell(c core.SellContract) *Builder {
	return b.append(&c)
}

func (b *Builder) CancelMarketOrder(orderID string) *Builder {
	return b.append(&core.CancelMarketOrderContract{OrderID: orderID})
}

func (b *Builder) CreateMarketplace(c core.CreateMarketplaceContract) *Builder {
	return b.append(&c)
}

func (b *Builder) ConfigMarketplace(c core.ConfigMarketplaceContract) *Builder {
	return b.append(&c)
}

func (b *Builder) UpdateAccountPermission(permissions ...core.AccountPermission) *Builder {
	return b.append(&core.UpdateAccountPermissionContract{Permissions: permissions})
}

func (b *Builder) Deposit(c core.DepositContract) *Builder {
	return b.append(&c)
}

func (b *Builder) ITOTrigger(c core.ITOTriggerContract) *Builder {
	return b.append(&c)
}

func (b *Builder) SmartContract(c core.SmartContractInvoke) *Builder {
	return b.append(&c)
}

// AddContract dispatches a generic operation to its typed path. Unrecognized
// operation types are appended as-is rather than rejected so that newer
// ledger contracts pass through older SDK versions.
func (b *Builder) AddContract(c core.Contract) *Builder {
	switch op := c.(type) {
	case *core.TransferContract:
		return b.Transfer(op.Receiver, op.Amount, op.KDA)
	case *core.FreezeContract:
		return b.Freeze(op.Amount, op.KDA)
	case *core.UnfreezeContract:
		return b.Unfreeze(op.BucketID, op.KDA)
	case *core.DelegateContract:
		return b.Delegate(op.Receiver, op.BucketID)
	case *core.UndelegateContract:
		return b.Undelegate(op.BucketID)
	case *core.ClaimContract:
		return b.Claim(op.ClaimType, op.ID)
	case *core.WithdrawContract:
		return b.Withdraw(*op)
	case nil:
		return b.fail(core.NewValidationError("contract", "required"))
	default:
		return b.append(c)
	}
}

// Reset clears accumulated operations and per-transaction state. The attached
// provider and chain id are builder-level configuration and survive.
func (b *Builder) Reset() *Builder {
	b.ops = nil
	b.sender = ""
	b.nonce = nil
	b.kdaFee = ""
	b.permissionID = nil
	b.data = nil
	b.err = nil
	return b
}
