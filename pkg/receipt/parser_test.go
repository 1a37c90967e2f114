package receipt

import (
	"encoding/json"
	"fmt"
	"github.com/stretchr/testify/require"
	"github.com/txsociety/klever-sdk/pkg/core"
	"testing"
)

func minedTx(receipts []core.Receipt, contracts ...map[string]any) *core.TransactionInfo {
	return &core.TransactionInfo{
		Hash:      "aa11",
		BlockNum:  4242,
		Status:    core.TransactionSuccess,
		Receipts:  receipts,
		Contracts: contracts,
	}
}

func TestTransferSingleReceipt(t *testing.T) {
	tx := minedTx([]core.Receipt{
		{
			"type":    json.Number("0"),
			"from":    "klv1sender",
			"to":      "klv1receiver",
			"value":   json.Number("1000000"),
			"assetId": "KLV",
		},
	})

	data, err := Transfer(tx)
	require.NoError(t, err)
	require.Equal(t, "klv1sender", data.Sender)
	require.Equal(t, "klv1receiver", data.Receiver)
	require.Equal(t, "1000000", data.Amount.String())
	require.Equal(t, "KLV", data.KDA)
	require.Nil(t, data.Transfers)
	require.Same(t, tx, data.Raw)
}

func TestTransferFanOut(t *testing.T) {
	receipts := make([]core.Receipt, 22)
	for i := range receipts {
		receipts[i] = core.Receipt{
			"typeString": "Transfer",
			"from":       "klv1sender",
			"to":         fmt.Sprintf("klv1receiver%d", i),
			"value":      json.Number("100"),
		}
	}
	tx := minedTx(receipts)

	data, err := Transfer(tx)
	require.NoError(t, err)
	require.Len(t, data.Transfers, 22)
	// first leg promoted to top level
	require.Equal(t, "klv1receiver0", data.Receiver)
	require.Equal(t, data.Transfers[0].Receiver, data.Receiver)
	require.Equal(t, "klv1receiver21", data.Transfers[21].Receiver)
	// no asset id on the receipt means native currency
	require.Equal(t, core.NativeAssetID, data.KDA)
}

func TestTransferIgnoresForeignReceipts(t *testing.T) {
	tx := minedTx([]core.Receipt{
		{"type": json.Number("19"), "value": json.Number("500000")},
		{"type": json.Number("0"), "from": "a", "to": "b", "value": json.Number("7")},
	})

	data, err := Transfer(tx)
	require.NoError(t, err)
	require.Equal(t, "7", data.Amount.String())
	require.Nil(t, data.Transfers)
}

func TestTransferErrors(t *testing.T) {
	var perr *core.ParseError

	_, err := Transfer(nil)
	require.ErrorAs(t, err, &perr)

	_, err = Transfer(minedTx(nil))
	require.ErrorAs(t, err, &perr)

	_, err = Transfer(minedTx([]core.Receipt{{"type": json.Number("3")}}))
	require.ErrorAs(t, err, &perr)
	require.Contains(t, err.Error(), "no Transfer receipt found")
}

func TestFreeze(t *testing.T) {
	tx := minedTx([]core.Receipt{
		{
			"type":     json.Number("3"),
			"bucketId": "bucket-abc",
			"amount":   json.Number("5000000"),
			"assetId":  "KFI",
		},
	})

	data, err := Freeze(tx)
	require.NoError(t, err)
	require.Equal(t, "bucket-abc", data.BucketID)
	require.Equal(t, "5000000", data.Amount.String())
	require.Equal(t, "KFI", data.KDA)
	require.Nil(t, data.Freezes)
}

func TestUnfreeze(t *testing.T) {
	tx := minedTx([]core.Receipt{
		{
			"typeString":     "Unfreeze",
			"bucketId":       "bucket-abc",
			"value":          json.Number("5000000"),
			"availableEpoch": json.Number("120"),
		},
	})

	data, err := Unfreeze(tx)
	require.NoError(t, err)
	require.Equal(t, "bucket-abc", data.BucketID)
	require.Equal(t, uint64(120), data.AvailableEpoch)
	require.Equal(t, core.NativeAssetID, data.KDA)
}

func TestDelegateRecoversValidatorFromContract(t *testing.T) {
	tx := minedTx(
		[]core.Receipt{
			{"type": json.Number("7"), "bucketId": "bucket-1", "amount": json.Number("9000000")},
		},
		map[string]any{"parameter": map[string]any{"receiver": "klv1validator"}},
	)

	data, err := Delegate(tx)
	require.NoError(t, err)
	require.Equal(t, "bucket-1", data.BucketID)
	require.Equal(t, "klv1validator", data.Validator)
	require.Equal(t, "9000000", data.Amount.String())
}

func TestDelegateWithoutContractParameter(t *testing.T) {
	tx := minedTx([]core.Receipt{
		{"type": json.Number("7"), "bucketId": "bucket-1"},
	})

	data, err := Delegate(tx)
	require.NoError(t, err)
	require.Empty(t, data.Validator)
}

func TestUndelegate(t *testing.T) {
	tx := minedTx([]core.Receipt{
		{"type": json.Number("8"), "bucketId": "bucket-1", "amount": json.Number("100")},
		{"type": json.Number("8"), "bucketId": "bucket-2", "amount": json.Number("200")},
	})

	data, err := Undelegate(tx)
	require.NoError(t, err)
	require.Equal(t, "bucket-1", data.BucketID)
	require.Len(t, data.Undelegations, 2)
	require.Equal(t, "200", data.Undelegations[1].Amount.String())
}

func TestWithdrawRecoversSubType(t *testing.T) {
	tx := minedTx(
		[]core.Receipt{
			{"type": json.Number("18"), "amount": json.Number("333"), "assetId": "KFI"},
		},
		map[string]any{"parameter": map[string]any{"withdrawType": json.Number("1")}},
	)

	data, err := Withdraw(tx)
	require.NoError(t, err)
	require.Equal(t, "333", data.Amount.String())
	require.Equal(t, "KFI", data.KDA)
	require.Equal(t, int64(1), data.WithdrawType)
}

func TestClaimTotalsAllReceipts(t *testing.T) {
	tx := minedTx(
		[]core.Receipt{
			{"type": json.Number("17"), "amount": json.Number("100"), "assetId": "KLV"},
			{"type": json.Number("17"), "amount": json.Number("250"), "assetId": "KLV"},
			{"type": json.Number("0"), "value": json.Number("50")},
		},
		map[string]any{"parameter": map[string]any{"claimType": json.Number("0")}},
	)

	data, err := Claim(tx)
	require.NoError(t, err)
	// every receipt counts as a reward line, regardless of its type
	require.Equal(t, "400", data.Amount.String())
	require.Len(t, data.Rewards, 3)
	require.Equal(t, int64(0), data.ClaimType)
	require.Equal(t, "KLV", data.KDA)
}

func TestClaimWithoutReceipts(t *testing.T) {
	var perr *core.ParseError
	_, err := Claim(minedTx(nil))
	require.ErrorAs(t, err, &perr)
}
