package core

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// ContractType tags each operation variant. Values follow the ledger's
// contract enumeration.
type ContractType int64

const (
	TransferContractType                ContractType = 0
	CreateAssetContractType             ContractType = 1
	CreateValidatorContractType         ContractType = 2
	ValidatorConfigContractType         ContractType = 3
	FreezeContractType                  ContractType = 4
	UnfreezeContractType                ContractType = 5
	DelegateContractType                ContractType = 6
	UndelegateContractType              ContractType = 7
	WithdrawContractType                ContractType = 8
	ClaimContractType                   ContractType = 9
	UnjailContractType                  ContractType = 10
	AssetTriggerContractType            ContractType = 11
	SetAccountNameContractType          ContractType = 12
	ProposalContractType                ContractType = 13
	VoteContractType                    ContractType = 14
	ConfigITOContractType               ContractType = 15
	SetITOPricesContractType            ContractType = 16
	BuyContractType                     ContractType = 17
	SellContractType                    ContractType = 18
	CancelMarketOrderContractType       ContractType = 19
	CreateMarketplaceContractType       ContractType = 20
	ConfigMarketplaceContractType       ContractType = 21
	UpdateAccountPermissionContractType ContractType = 22
	DepositContractType                 ContractType = 23
	ITOTriggerContractType              ContractType = 24
	SmartContractType                   ContractType = 63
)

// Contract is the closed set of operations a transaction can carry.
// OpaqueContract is the forward-compatibility escape hatch for types this
// version does not know about.
type Contract interface {
	ContractType() ContractType
	Validate() error
}

type TransferContract struct {
	Receiver string   `json:"receiver"`
	Amount   *big.Int `json:"amount"`
	KDA      string   `json:"kda,omitempty"`
}

func (c *TransferContract) ContractType() ContractType { return TransferContractType }

func (c *TransferContract) Validate() error {
	if !IsValidAddress(c.Receiver) {
		return NewValidationError("receiver", fmt.Sprintf("invalid address: %s", c.Receiver))
	}
	if c.Amount == nil || c.Amount.Sign() <= 0 {
		return NewValidationError("amount", "must be positive")
	}
	return nil
}

type CreateAssetContract struct {
	Type          uint32         `json:"type"`
	Name          string         `json:"name"`
	Ticker        string         `json:"ticker"`
	OwnerAddress  string         `json:"ownerAddress,omitempty"`
	Precision     uint32         `json:"precision"`
	InitialSupply *big.Int       `json:"initialSupply,omitempty"`
	MaxSupply     *big.Int       `json:"maxSupply,omitempty"`
	Logo          string         `json:"logo,omitempty"`
	URIs          map[string]string `json:"uris,omitempty"`
	Royalties     map[string]any `json:"royalties,omitempty"`
	Properties    map[string]any `json:"properties,omitempty"`
	Attributes    map[string]any `json:"attributes,omitempty"`
	Staking       map[string]any `json:"staking,omitempty"`
}

func (c *CreateAssetContract) ContractType() ContractType { return CreateAssetContractType }

func (c *CreateAssetContract) Validate() error {
	if len(c.Name) == 0 {
		return NewValidationError("name", "required")
	}
	if len(c.Ticker) == 0 {
		return NewValidationError("ticker", "required")
	}
	if len(c.OwnerAddress) > 0 && !IsValidAddress(c.OwnerAddress) {
		return NewValidationError("ownerAddress", fmt.Sprintf("invalid address: %s", c.OwnerAddress))
	}
	return nil
}

type CreateValidatorContract struct {
	OwnerAddress        string   `json:"ownerAddress"`
	BLSPublicKey        string   `json:"blsPublicKey"`
	RewardAddress       string   `json:"rewardAddress"`
	CanDelegate         bool     `json:"canDelegate"`
	Commission          uint32   `json:"commission"`
	MaxDelegationAmount *big.Int `json:"maxDelegationAmount,omitempty"`
	Name                string   `json:"name,omitempty"`
	Logo                string   `json:"logo,omitempty"`
	URIs                map[string]string `json:"uris,omitempty"`
}

func (c *CreateValidatorContract) ContractType() ContractType { return CreateValidatorContractType }

func (c *CreateValidatorContract) Validate() error {
	if !IsValidAddress(c.OwnerAddress) {
		return NewValidationError("ownerAddress", fmt.Sprintf("invalid address: %s", c.OwnerAddress))
	}
	if len(c.BLSPublicKey) == 0 {
		return NewValidationError("blsPublicKey", "required")
	}
	if len(c.RewardAddress) > 0 && !IsValidAddress(c.RewardAddress) {
		return NewValidationError("rewardAddress", fmt.Sprintf("invalid address: %s", c.RewardAddress))
	}
	return nil
}

type ValidatorConfigContract struct {
	BLSPublicKey        string   `json:"blsPublicKey"`
	RewardAddress       string   `json:"rewardAddress,omitempty"`
	CanDelegate         bool     `json:"canDelegate"`
	Commission          uint32   `json:"commission"`
	MaxDelegationAmount *big.Int `json:"maxDelegationAmount,omitempty"`
	Name                string   `json:"name,omitempty"`
	Logo                string   `json:"logo,omitempty"`
	URIs                map[string]string `json:"uris,omitempty"`
}

func (c *ValidatorConfigContract) ContractType() ContractType { return ValidatorConfigContractType }

func (c *ValidatorConfigContract) Validate() error {
	if len(c.BLSPublicKey) == 0 {
		return NewValidationError("blsPublicKey", "required")
	}
	if len(c.RewardAddress) > 0 && !IsValidAddress(c.RewardAddress) {
		return NewValidationError("rewardAddress", fmt.Sprintf("invalid address: %s", c.RewardAddress))
	}
	return nil
}

type FreezeContract struct {
	Amount *big.Int `json:"amount"`
	KDA    string   `json:"kda,omitempty"`
}

func (c *FreezeContract) ContractType() ContractType { return FreezeContractType }

func (c *FreezeContract) Validate() error {
	if c.Amount == nil || c.Amount.Sign() <= 0 {
		return NewValidationError("amount", "must be positive")
	}
	return nil
}

type UnfreezeContract struct {
	BucketID string `json:"bucketID"`
	KDA      string `json:"kda,omitempty"`
}

func (c *UnfreezeContract) ContractType() ContractType { return UnfreezeContractType }

func (c *UnfreezeContract) Validate() error {
	if len(c.BucketID) == 0 {
		return NewValidationError("bucketID", "required")
	}
	return nil
}

type DelegateContract struct {
	Receiver string `json:"receiver"`
	BucketID string `json:"bucketID"`
}

func (c *DelegateContract) ContractType() ContractType { return DelegateContractType }

func (c *DelegateContract) Validate() error {
	if !IsValidAddress(c.Receiver) {
		return NewValidationError("receiver", fmt.Sprintf("invalid address: %s", c.Receiver))
	}
	if len(c.BucketID) == 0 {
		return NewValidationError("bucketID", "required")
	}
	return nil
}

type UndelegateContract struct {
	BucketID string `json:"bucketID"`
}

func (c *UndelegateContract) ContractType() ContractType { return UndelegateContractType }

func (c *UndelegateContract) Validate() error {
	if len(c.BucketID) == 0 {
		return NewValidationError("bucketID", "required")
	}
	return nil
}

type WithdrawContract struct {
	WithdrawType int32    `json:"withdrawType"`
	KDA          string   `json:"kda,omitempty"`
	Amount       *big.Int `json:"amount,omitempty"`
	CurrencyID   string   `json:"currencyID,omitempty"`
}

func (c *WithdrawContract) ContractType() ContractType { return WithdrawContractType }

func (c *WithdrawContract) Validate() error {
	if c.WithdrawType < 0 {
		return NewValidationError("withdrawType", "must not be negative")
	}
	if c.Amount != nil && c.Amount.Sign() < 0 {
		return NewValidationError("amount", "must not be negative")
	}
	return nil
}

type ClaimContract struct {
	ClaimType int32  `json:"claimType"`
	ID        string `json:"id,omitempty"`
}

func (c *ClaimContract) ContractType() ContractType { return ClaimContractType }

func (c *ClaimContract) Validate() error {
	if c.ClaimType < 0 {
		return NewValidationError("claimType", "must not be negative")
	}
	return nil
}

type UnjailContract struct{}

func (c *UnjailContract) ContractType() ContractType { return UnjailContractType }

func (c *UnjailContract) Validate() error { return nil }

type AssetTriggerContract struct {
	TriggerType int32          `json:"triggerType"`
	AssetID     string         `json:"assetId"`
	Receiver    string         `json:"receiver,omitempty"`
	Amount      *big.Int       `json:"amount,omitempty"`
	MIME        string         `json:"mime,omitempty"`
	Logo        string         `json:"logo,omitempty"`
	URIs        map[string]string `json:"uris,omitempty"`
	Role        map[string]any `json:"role,omitempty"`
	Staking     map[string]any `json:"staking,omitempty"`
}

func (c *AssetTriggerContract) ContractType() ContractType { return AssetTriggerContractType }

func (c *AssetTriggerContract) Validate() error {
	if len(c.AssetID) == 0 {
		return NewValidationError("assetId", "required")
	}
	if len(c.Receiver) > 0 && !IsValidAddress(c.Receiver) {
		return NewValidationError("receiver", fmt.Sprintf("invalid address: %s", c.Receiver))
	}
	return nil
}

type SetAccountNameContract struct {
	Name string `json:"name"`
}

func (c *SetAccountNameContract) ContractType() ContractType { return SetAccountNameContractType }

func (c *SetAccountNameContract) Validate() error {
	if len(c.Name) == 0 {
		return NewValidationError("name", "required")
	}
	return nil
}

type ProposalContract struct {
	Parameters     map[int32]string `json:"parameters"`
	Description    string           `json:"description,omitempty"`
	EpochsDuration uint32           `json:"epochsDuration"`
}

func (c *ProposalContract) ContractType() ContractType { return ProposalContractType }

func (c *ProposalContract) Validate() error {
	if len(c.Parameters) == 0 {
		return NewValidationError("parameters", "required")
	}
	return nil
}

type VoteContract struct {
	ProposalID uint64   `json:"proposalId"`
	Amount     *big.Int `json:"amount,omitempty"`
	Type       int32    `json:"type"`
}

func (c *VoteContract) ContractType() ContractType { return VoteContractType }

func (c *VoteContract) Validate() error {
	if c.Amount != nil && c.Amount.Sign() < 0 {
		return NewValidationError("amount", "must not be negative")
	}
	return nil
}

type ConfigITOContract struct {
	AssetID         string         `json:"assetId"`
	ReceiverAddress string         `json:"receiverAddress"`
	Status          int32          `json:"status"`
	MaxAmount       *big.Int       `json:"maxAmount,omitempty"`
	PackInfo        map[string]any `json:"packInfo,omitempty"`
}

func (c *ConfigITOContract) ContractType() ContractType { return ConfigITOContractType }

func (c *ConfigITOContract) Validate() error {
	if len(c.AssetID) == 0 {
		return NewValidationError("assetId", "required")
	}
	if !IsValidAddress(c.ReceiverAddress) {
		return NewValidationError("receiverAddress", fmt.Sprintf("invalid address: %s", c.ReceiverAddress))
	}
	return nil
}

type SetITOPricesContract struct {
	AssetID  string         `json:"assetId"`
	PackInfo map[string]any `json:"packInfo"`
}

func (c *SetITOPricesContract) ContractType() ContractType { return SetITOPricesContractType }

func (c *SetITOPricesContract) Validate() error {
	if len(c.AssetID) == 0 {
		return NewValidationError("assetId", "required")
	}
	if len(c.PackInfo) == 0 {
		return NewValidationError("packInfo", "required")
	}
	return nil
}

type BuyContract struct {
	BuyType    int32    `json:"buyType"`
	ID         string   `json:"id"`
	CurrencyID string   `json:"currencyID,omitempty"`
	Amount     *big.Int `json:"amount,omitempty"`
}

func (c *BuyContract) ContractType() ContractType { return BuyContractType }

func (c *BuyContract) Validate() error {
	if len(c.ID) == 0 {
		return NewValidationError("id", "required")
	}
	if c.Amount != nil && c.Amount.Sign() < 0 {
		return NewValidationError("amount", "must not be negative")
	}
	return nil
}

type SellContract struct {
	MarketType    int32    `json:"marketType"`
	MarketplaceID string   `json:"marketplaceID"`
	AssetID       string   `json:"assetId"`
	CurrencyID    string   `json:"currencyID,omitempty"`
	Price         *big.Int `json:"price,omitempty"`
	ReservePrice  *big.Int `json:"reservePrice,omitempty"`
	EndTime       int64    `json:"endTime,omitempty"`
}

func (c *SellContract) ContractType() ContractType { return SellContractType }

func (c *SellContract) Validate() error {
	if len(c.MarketplaceID) == 0 {
		return NewValidationError("marketplaceID", "required")
	}
	if len(c.AssetID) == 0 {
		return NewValidationError("assetId", "required")
	}
	return nil
}

type CancelMarketOrderContract struct {
	OrderID string `json:"orderID"`
}

func (c *CancelMarketOrderContract) ContractType() ContractType { return CancelMarketOrderContractType }

func (c *CancelMarketOrderContract) Validate() error {
	if len(c.OrderID) == 0 {
		return NewValidationError("orderID", "required")
	}
	return nil
}

type CreateMarketplaceContract struct {
	Name               string `json:"name"`
	ReferralAddress    string `json:"referralAddress,omitempty"`
	ReferralPercentage uint32 `json:"referralPercentage,omitempty"`
}

func (c *CreateMarketplaceContract) ContractType() ContractType { return CreateMarketplaceContractType }

func (c *CreateMarketplaceContract) Validate() error {
	if len(c.Name) == 0 {
		return NewValidationError("name", "required")
	}
	if len(c.ReferralAddress) > 0 && !IsValidAddress(c.ReferralAddress) {
		return NewValidationError("referralAddress", fmt.Sprintf("invalid address: %s", c.ReferralAddress))
	}
	return nil
}

type ConfigMarketplaceContract struct {
	MarketplaceID      string `json:"marketplaceID"`
	Name               string `json:"name,omitempty"`
	ReferralAddress    string `json:"referralAddress,omitempty"`
	ReferralPercentage uint32 `json:"referralPercentage,omitempty"`
}

func (c *ConfigMarketplaceContract) ContractType() ContractType { return ConfigMarketplaceContractType }

func (c *ConfigMarketplaceContract) Validate() error {
	if len(c.MarketplaceID) == 0 {
		return NewValidationError("marketplaceID", "required")
	}
	if len(c.ReferralAddress) > 0 && !IsValidAddress(c.ReferralAddress) {
		return NewValidationError("referralAddress", fmt.Sprintf("invalid address: %s", c.ReferralAddress))
	}
	return nil
}

type AccountPermission struct {
	Type           int32          `json:"type"`
	PermissionName string         `json:"permissionName,omitempty"`
	Threshold      uint64         `json:"threshold"`
	Operations     string         `json:"operations,omitempty"`
	Signers        []AccountSigner `json:"signers,omitempty"`
}

type AccountSigner struct {
	Address string `json:"address"`
	Weight  uint64 `json:"weight"`
}

type UpdateAccountPermissionContract struct {
	Permissions []AccountPermission `json:"permissions"`
}

func (c *UpdateAccountPermissionContract) ContractType() ContractType {
	return UpdateAccountPermissionContractType
}

func (c *UpdateAccountPermissionContract) Validate() error {
	if len(c.Permissions) == 0 {
		return NewValidationError("permissions", "required")
	}
	for _, p := range c.Permissions {
		for _, s := range p.Signers {
			if !IsValidAddress(s.Address) {
				return NewValidationError("signers", fmt.Sprintf("invalid address: %s", s.Address))
			}
		}
	}
	return nil
}

type DepositContract struct {
	DepositType int32    `json:"depositType"`
	ID          string   `json:"id,omitempty"`
	CurrencyID  string   `json:"currencyID,omitempty"`
	Amount      *big.Int `json:"amount"`
}

func (c *DepositContract) ContractType() ContractType { return DepositContractType }

func (c *DepositContract) Validate() error {
	if c.Amount == nil || c.Amount.Sign() <= 0 {
		return NewValidationError("amount", "must be positive")
	}
	return nil
}

type ITOTriggerContract struct {
	TriggerType     int32          `json:"triggerType"`
	AssetID         string         `json:"assetId"`
	ReceiverAddress string         `json:"receiverAddress,omitempty"`
	Status          int32          `json:"status,omitempty"`
	MaxAmount       *big.Int       `json:"maxAmount,omitempty"`
	PackInfo        map[string]any `json:"packInfo,omitempty"`
}

func (c *ITOTriggerContract) ContractType() ContractType { return ITOTriggerContractType }

func (c *ITOTriggerContract) Validate() error {
	if len(c.AssetID) == 0 {
		return NewValidationError("assetId", "required")
	}
	if len(c.ReceiverAddress) > 0 && !IsValidAddress(c.ReceiverAddress) {
		return NewValidationError("receiverAddress", fmt.Sprintf("invalid address: %s", c.ReceiverAddress))
	}
	return nil
}

type SmartContractInvoke struct {
	Type      int32               `json:"scType"`
	Address   string              `json:"address,omitempty"`
	CallValue map[string]*big.Int `json:"callValue,omitempty"`
}

func (c *SmartContractInvoke) ContractType() ContractType { return SmartContractType }

func (c *SmartContractInvoke) Validate() error {
	if len(c.Address) > 0 && !IsValidAddress(c.Address) {
		return NewValidationError("address", fmt.Sprintf("invalid address: %s", c.Address))
	}
	for _, v := range c.CallValue {
		if v == nil || v.Sign() < 0 {
			return NewValidationError("callValue", "must not be negative")
		}
	}
	return nil
}

// OpaqueContract carries an operation of a type this version does not model.
// It is passed through untouched instead of being rejected.
type OpaqueContract struct {
	Type    ContractType
	Payload json.RawMessage
}

func (c *OpaqueContract) ContractType() ContractType { return c.Type }

func (c *OpaqueContract) Validate() error {
	if c.Type < 0 {
		return NewValidationError("contractType", "must not be negative")
	}
	return nil
}

func (c *OpaqueContract) MarshalJSON() ([]byte, error) {
	if len(c.Payload) == 0 {
		return []byte("{}"), nil
	}
	return c.Payload, nil
}
