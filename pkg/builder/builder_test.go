package builder

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"github.com/stretchr/testify/require"
	"github.com/txsociety/klever-sdk/pkg/core"
	"math/big"
	"testing"
)

func testAddress(t *testing.T, fill byte) string {
	t.Helper()
	addr, err := core.EncodeAddress(bytes.Repeat([]byte{fill}, 32))
	require.NoError(t, err)
	return addr
}

func TestRejectedOperationIsNeverRecorded(t *testing.T) {
	receiver := testAddress(t, 1)
	b := New().
		Transfer(receiver, big.NewInt(100), "").
		Transfer(receiver, big.NewInt(-1), "")

	require.Error(t, b.Err())
	var verr *core.ValidationError
	require.ErrorAs(t, b.Err(), &verr)
	require.Len(t, b.Operations(), 1)

	_, err := b.BuildRequest()
	require.Equal(t, b.Err(), err)
}

func TestStickyErrorSkipsLaterMutators(t *testing.T) {
	b := New().Sender("not-an-address").Nonce(7).Claim(0, "")

	require.Error(t, b.Err())
	require.Empty(t, b.Operations())
	require.Nil(t, b.nonce)
}

func TestBuildRequestRequiresOperations(t *testing.T) {
	_, err := New().BuildRequest()
	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "contracts", verr.Field)
}

func TestBuildRequestRendersAccumulatedState(t *testing.T) {
	sender := testAddress(t, 1)
	receiver := testAddress(t, 2)
	validator := testAddress(t, 3)

	req, err := New().
		Sender(sender).
		Nonce(42).
		KDAFee("KLV").
		Data("memo").
		Transfer(receiver, big.NewInt(1000000), "").
		Delegate(validator, "bucket-1").
		BuildRequest()
	require.NoError(t, err)

	require.Equal(t, sender, req.Sender)
	require.NotNil(t, req.Nonce)
	require.Equal(t, uint64(42), *req.Nonce)
	require.Equal(t, "KLV", req.KDAFee)
	require.Equal(t, []string{"memo"}, req.Data)
	require.Len(t, req.Contracts, 2)
	require.Equal(t, core.TransferContractType, req.Contracts[0].Type)
	require.Equal(t, core.DelegateContractType, req.Contracts[1].Type)
}

func TestDataIsEncodedForSmartContractCalls(t *testing.T) {
	req, err := New().
		Data("increment", "7").
		SmartContract(core.SmartContractInvoke{Type: 0}).
		BuildRequest()
	require.NoError(t, err)

	want := []string{
		base64.StdEncoding.EncodeToString([]byte("increment")),
		base64.StdEncoding.EncodeToString([]byte("7")),
	}
	require.Equal(t, want, req.Data)
}

func TestBuildWithoutProvider(t *testing.T) {
	b := New().Claim(0, "")
	_, err := b.Build(context.Background())

	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "provider", verr.Field)
}

func TestBuildProtoRequiresNonce(t *testing.T) {
	sender := testAddress(t, 1)
	b := New(WithChainID(108)).Sender(sender).Unjail()

	_, err := b.BuildProto(ProtoOptions{})
	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "nonce", verr.Field)
}

func TestBuildProtoRequiresChainID(t *testing.T) {
	sender := testAddress(t, 1)
	b := New().Sender(sender).Nonce(1).Unjail()

	_, err := b.BuildProto(ProtoOptions{})
	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "chainID", verr.Field)
}

func TestBuildProtoEncodesContracts(t *testing.T) {
	sender := testAddress(t, 1)
	receiver := testAddress(t, 2)

	tx, err := New(WithChainID(108)).
		Sender(sender).
		Nonce(42).
		Transfer(receiver, big.NewInt(1000000), "KLV").
		BuildProto(ProtoOptions{})
	require.NoError(t, err)

	require.Equal(t, uint64(42), tx.RawData.Nonce)
	require.Equal(t, "108", tx.RawData.ChainID)
	require.Equal(t, uint32(1), tx.RawData.Version)
	require.Equal(t, "0", tx.RawData.KAppFee.String())
	require.Equal(t, "0", tx.RawData.BandwidthFee.String())
	require.False(t, tx.Signed())
	require.Len(t, tx.Hash, 64)

	senderBytes, err := base64.StdEncoding.DecodeString(tx.RawData.Sender)
	require.NoError(t, err)
	require.Equal(t, bytes.Repeat([]byte{1}, 32), senderBytes)

	require.Len(t, tx.RawData.Contracts, 1)
	require.Equal(t, core.TransferContractType, tx.RawData.Contracts[0].Type)
	var param core.TransferContract
	require.NoError(t, json.Unmarshal(tx.RawData.Contracts[0].Parameter, &param))
	require.Equal(t, receiver, param.Receiver)
	require.Equal(t, "1000000", param.Amount.String())
	require.Equal(t, "KLV", param.KDA)
}

func TestBuildProtoOptionsOverrideBuilderState(t *testing.T) {
	sender := testAddress(t, 1)
	override := testAddress(t, 9)
	nonce := uint64(100)

	tx, err := New(WithChainID(108)).
		Sender(sender).
		Nonce(1).
		Unjail().
		BuildProto(ProtoOptions{
			ChainID:      109,
			Sender:       override,
			Nonce:        &nonce,
			KAppFee:      big.NewInt(500000),
			BandwidthFee: big.NewInt(1000000),
		})
	require.NoError(t, err)

	require.Equal(t, "109", tx.RawData.ChainID)
	require.Equal(t, uint64(100), tx.RawData.Nonce)
	require.Equal(t, "500000", tx.RawData.KAppFee.String())
	require.Equal(t, "1000000", tx.RawData.BandwidthFee.String())

	senderBytes, err := base64.StdEncoding.DecodeString(tx.RawData.Sender)
	require.NoError(t, err)
	require.Equal(t, bytes.Repeat([]byte{9}, 32), senderBytes)
}

func TestAddContractDispatchAndPassthrough(t *testing.T) {
	receiver := testAddress(t, 2)
	opaque := &core.OpaqueContract{Type: 77, Payload: json.RawMessage(`{"future":"field"}`)}

	b := New().
		AddContract(&core.TransferContract{Receiver: receiver, Amount: big.NewInt(5)}).
		AddContract(opaque)
	require.NoError(t, b.Err())
	require.Len(t, b.Operations(), 2)
	require.Equal(t, core.ContractType(77), b.Operations()[1].ContractType())

	require.Error(t, New().AddContract(nil).Err())
}

func TestResetKeepsConfiguration(t *testing.T) {
	sender := testAddress(t, 1)
	b := New(WithChainID(108)).
		Sender(sender).
		Nonce(3).
		Transfer("bad-address", big.NewInt(1), "")
	require.Error(t, b.Err())

	b.Reset()
	require.NoError(t, b.Err())
	require.Empty(t, b.Operations())

	// chain id survives the reset, state does not
	tx, err := b.Sender(sender).Nonce(1).Unjail().BuildProto(ProtoOptions{})
	require.NoError(t, err)
	require.Equal(t, "108", tx.RawData.ChainID)
	require.Empty(t, tx.RawData.Data)
}
