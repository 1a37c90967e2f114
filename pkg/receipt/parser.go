package receipt

import (
	"encoding/json"
	"fmt"
	"github.com/txsociety/klever-sdk/pkg/core"
	"math/big"
	"strconv"
)

// Receipt type tags as emitted by the ledger. Depending on indexing version a
// receipt carries the numeric type, the string tag, or both, so parsers match
// either.
const (
	TypeTransfer   int64 = 0
	TypeFreeze     int64 = 3
	TypeUnfreeze   int64 = 4
	TypeDelegate   int64 = 7
	TypeUndelegate int64 = 8
	TypeClaim      int64 = 17
	TypeWithdraw   int64 = 18
)

const (
	tagTransfer   = "Transfer"
	tagFreeze     = "Freeze"
	tagUnfreeze   = "Unfreeze"
	tagDelegate   = "Delegate"
	tagUndelegate = "Undelegate"
	tagClaim      = "Claim"
	tagWithdraw   = "Withdraw"
)

func matching(tx *core.TransactionInfo, op string, typeID int64, tag string) ([]core.Receipt, error) {
	if tx == nil || len(tx.Receipts) == 0 {
		return nil, core.NewParseError(op, "transaction has no receipts", nil)
	}
	var found []core.Receipt
	for _, r := range tx.Receipts {
		if id, ok := r.TypeID(); ok && id == typeID {
			found = append(found, r)
			continue
		}
		if r.TypeString() == tag {
			found = append(found, r)
		}
	}
	if len(found) == 0 {
		return nil, core.NewParseError(op, fmt.Sprintf("no %s receipt found", tag), tx.Receipts[0])
	}
	return found, nil
}

func amountOf(r core.Receipt) *big.Int {
	if v, ok := r.AmountField("value"); ok {
		return v
	}
	if v, ok := r.AmountField("amount"); ok {
		return v
	}
	return big.NewInt(0)
}

func assetOf(r core.Receipt) string {
	if kda := r.StringField("assetId"); len(kda) > 0 {
		return kda
	}
	return core.NativeAssetID
}

// contractRoot rebuilds the loose transaction shape the dot-path helper
// expects, so secondary fields can be recovered from contract parameters.
func contractRoot(tx *core.TransactionInfo) map[string]any {
	contracts := make([]any, len(tx.Contracts))
	for i, c := range tx.Contracts {
		contracts[i] = c
	}
	return map[string]any{"contract": contracts}
}

func lookupInt(root any, path string) (int64, bool) {
	v, ok := Lookup(root, path)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

type TransferItem struct {
	Sender   string
	Receiver string
	Amount   *big.Int
	KDA      string
}

// TransferData promotes the first transfer receipt to top level. Transfers is
// only populated when the transaction fanned out into more than one leg.
type TransferData struct {
	Sender    string
	Receiver  string
	Amount    *big.Int
	KDA       string
	Transfers []TransferItem
	Raw       *core.TransactionInfo
}

func Transfer(tx *core.TransactionInfo) (*TransferData, error) {
	found, err := matching(tx, "transfer", TypeTransfer, tagTransfer)
	if err != nil {
		return nil, err
	}
	items := make([]TransferItem, len(found))
	for i, r := range found {
		items[i] = TransferItem{
			Sender:   r.StringField("from"),
			Receiver: r.StringField("to"),
			Amount:   amountOf(r),
			KDA:      assetOf(r),
		}
	}
	data := &TransferData{
		Sender:   items[0].Sender,
		Receiver: items[0].Receiver,
		Amount:   items[0].Amount,
		KDA:      items[0].KDA,
		Raw:      tx,
	}
	if len(items) > 1 {
		data.Transfers = items
	}
	return data, nil
}

type FreezeItem struct {
	BucketID string
	Amount   *big.Int
	KDA      string
}

type FreezeData struct {
	BucketID string
	Amount   *big.Int
	KDA      string
	Freezes  []FreezeItem
	Raw      *core.TransactionInfo
}

func Freeze(tx *core.TransactionInfo) (*FreezeData, error) {
	found, err := matching(tx, "freeze", TypeFreeze, tagFreeze)
	if err != nil {
		return nil, err
	}
	items := make([]FreezeItem, len(found))
	for i, r := range found {
		items[i] = FreezeItem{
			BucketID: r.StringField("bucketId"),
			Amount:   amountOf(r),
			KDA:      assetOf(r),
		}
	}
	data := &FreezeData{
		BucketID: items[0].BucketID,
		Amount:   items[0].Amount,
		KDA:      items[0].KDA,
		Raw:      tx,
	}
	if len(items) > 1 {
		data.Freezes = items
	}
	return data, nil
}

type UnfreezeItem struct {
	BucketID       string
	Amount         *big.Int
	KDA            string
	AvailableEpoch uint64
}

type UnfreezeData struct {
	BucketID       string
	Amount         *big.Int
	KDA            string
	AvailableEpoch uint64
	Unfreezes      []UnfreezeItem
	Raw            *core.TransactionInfo
}

func Unfreeze(tx *core.TransactionInfo) (*UnfreezeData, error) {
	found, err := matching(tx, "unfreeze", TypeUnfreeze, tagUnfreeze)
	if err != nil {
		return nil, err
	}
	items := make([]UnfreezeItem, len(found))
	for i, r := range found {
		epoch := uint64(0)
		if v, ok := r.AmountField("availableEpoch"); ok {
			epoch = v.Uint64()
		}
		items[i] = UnfreezeItem{
			BucketID:       r.StringField("bucketId"),
			Amount:         amountOf(r),
			KDA:            assetOf(r),
			AvailableEpoch: epoch,
		}
	}
	data := &UnfreezeData{
		BucketID:       items[0].BucketID,
		Amount:         items[0].Amount,
		KDA:            items[0].KDA,
		AvailableEpoch: items[0].AvailableEpoch,
		Raw:            tx,
	}
	if len(items) > 1 {
		data.Unfreezes = items
	}
	return data, nil
}

type DelegateItem struct {
	BucketID string
	Amount   *big.Int
}

// DelegateData includes the validator address, which lives in the contract
// parameters rather than on the receipt.
type DelegateData struct {
	BucketID    string
	Validator   string
	Amount      *big.Int
	Delegations []DelegateItem
	Raw         *core.TransactionInfo
}

func Delegate(tx *core.TransactionInfo) (*DelegateData, error) {
	found, err := matching(tx, "delegate", TypeDelegate, tagDelegate)
	if err != nil {
		return nil, err
	}
	items := make([]DelegateItem, len(found))
	for i, r := range found {
		items[i] = DelegateItem{
			BucketID: r.StringField("bucketId"),
			Amount:   amountOf(r),
		}
	}
	validator, _ := LookupString(contractRoot(tx), "contract[0].parameter.receiver")
	data := &DelegateData{
		BucketID:  items[0].BucketID,
		Validator: validator,
		Amount:    items[0].Amount,
		Raw:       tx,
	}
	if len(items) > 1 {
		data.Delegations = items
	}
	return data, nil
}

type UndelegateData struct {
	BucketID      string
	Amount        *big.Int
	Undelegations []DelegateItem
	Raw           *core.TransactionInfo
}

func Undelegate(tx *core.TransactionInfo) (*UndelegateData, error) {
	found, err := matching(tx, "undelegate", TypeUndelegate, tagUndelegate)
	if err != nil {
		return nil, err
	}
	items := make([]DelegateItem, len(found))
	for i, r := range found {
		items[i] = DelegateItem{
			BucketID: r.StringField("bucketId"),
			Amount:   amountOf(r),
		}
	}
	data := &UndelegateData{
		BucketID: items[0].BucketID,
		Amount:   items[0].Amount,
		Raw:      tx,
	}
	if len(items) > 1 {
		data.Undelegations = items
	}
	return data, nil
}

type WithdrawItem struct {
	Amount *big.Int
	KDA    string
}

// WithdrawData carries the withdraw sub-type recovered from the contract
// parameters.
type WithdrawData struct {
	Amount       *big.Int
	KDA          string
	WithdrawType int64
	Withdrawals  []WithdrawItem
	Raw          *core.TransactionInfo
}

func Withdraw(tx *core.TransactionInfo) (*WithdrawData, error) {
	found, err := matching(tx, "withdraw", TypeWithdraw, tagWithdraw)
	if err != nil {
		return nil, err
	}
	items := make([]WithdrawItem, len(found))
	for i, r := range found {
		items[i] = WithdrawItem{
			Amount: amountOf(r),
			KDA:    assetOf(r),
		}
	}
	withdrawType, _ := lookupInt(contractRoot(tx), "contract[0].parameter.withdrawType")
	data := &WithdrawData{
		Amount:       items[0].Amount,
		KDA:          items[0].KDA,
		WithdrawType: withdrawType,
		Raw:          tx,
	}
	if len(items) > 1 {
		data.Withdrawals = items
	}
	return data, nil
}

type ClaimItem struct {
	Amount *big.Int
	KDA    string
}

// ClaimData treats every receipt on the transaction as a claimed-reward line
// item and totals their amounts. The claim sub-type comes from the contract
// parameters.
type ClaimData struct {
	ClaimType int64
	Amount    *big.Int
	KDA       string
	Rewards   []ClaimItem
	Raw       *core.TransactionInfo
}

func Claim(tx *core.TransactionInfo) (*ClaimData, error) {
	if tx == nil || len(tx.Receipts) == 0 {
		return nil, core.NewParseError("claim", "transaction has no receipts", nil)
	}
	total := big.NewInt(0)
	items := make([]ClaimItem, len(tx.Receipts))
	for i, r := range tx.Receipts {
		amount := amountOf(r)
		total = total.Add(total, amount)
		items[i] = ClaimItem{Amount: amount, KDA: assetOf(r)}
	}
	claimType, _ := lookupInt(contractRoot(tx), "contract[0].parameter.claimType")
	return &ClaimData{
		ClaimType: claimType,
		Amount:    total,
		KDA:       items[0].KDA,
		Rewards:   items,
		Raw:       tx,
	}, nil
}
