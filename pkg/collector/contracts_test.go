package collector

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ledgersync/collector/pkg/db"
	"github.com/ledgersync/collector/pkg/lcd"
	"github.com/ledgersync/collector/pkg/pipeline"
)

func TestNormalizeCode(t *testing.T) {
	now := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	raw := lcd.RawEntity{
		"code_id":   "5",
		"sender":    "terra1sender",
		"txhash":    "ABCDEF",
		"timestamp": "2021-01-15T08:30:00Z",
		"info":      map[string]any{"memo": "initial upload"},
	}

	code, err := NormalizeCode(raw, now)
	require.NoError(t, err)
	require.Equal(t, "5", code.CodeID)
	require.Equal(t, "terra1sender", code.Sender)
	require.Equal(t, "initial upload", code.TxMemo)
	require.Equal(t, time.Date(2021, 1, 15, 8, 30, 0, 0, time.UTC), code.Timestamp)
}

func TestNormalizeCodeDefaults(t *testing.T) {
	now := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)

	// Numeric code ids survive JSON decoding as float64.
	code, err := NormalizeCode(lcd.RawEntity{"code_id": float64(7)}, now)
	require.NoError(t, err)
	require.Equal(t, "7", code.CodeID)
	require.Equal(t, "", code.TxMemo)
	require.Equal(t, now, code.Timestamp)
}

func TestNormalizeCodeMissingID(t *testing.T) {
	_, err := NormalizeCode(lcd.RawEntity{"sender": "terra1sender"}, time.Now())
	require.ErrorIs(t, err, pipeline.ErrMalformedEntity)
}

func TestNormalizeContract(t *testing.T) {
	now := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	raw := lcd.RawEntity{
		"contract_address": "terra1contract",
		"owner":            "terra1owner",
		"creator":          "terra1creator",
		"code_id":          "5",
		"init_msg":         `{"count":0}`,
		"txhash":           "FEDCBA",
		"timestamp":        "not-a-timestamp",
		"info":             map[string]any{"memo": "deploy"},
	}

	contract, err := NormalizeContract(raw, now)
	require.NoError(t, err)
	require.Equal(t, "terra1contract", contract.ContractAddress)
	require.Equal(t, "terra1owner", contract.Owner)
	require.Equal(t, "5", contract.CodeID)
	require.Equal(t, "deploy", contract.TxMemo)
	// Unparsable timestamps fall back to the collection time.
	require.Equal(t, now, contract.Timestamp)
}

func TestNormalizeContractMissingAddress(t *testing.T) {
	_, err := NormalizeContract(lcd.RawEntity{"owner": "terra1owner"}, time.Now())
	require.ErrorIs(t, err, pipeline.ErrMalformedEntity)
}

func newTestContractProcessor(t *testing.T) (*ContractProcessor, *db.CodeStore, *db.ContractStore) {
	t.Helper()
	store, err := db.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	codes := db.NewCodeStore(store)
	contracts := db.NewContractStore(store)
	return NewContractProcessor(codes, contracts, nil, zap.NewNop()), codes, contracts
}

func TestContractProcessorReconcilesContractAndCode(t *testing.T) {
	processor, codes, contracts := newTestContractProcessor(t)

	raw := lcd.RawEntity{
		"contract_address": "terra1contract",
		"owner":            "terra1owner",
		"code_id":          "5",
		"code": map[string]any{
			"code_id": "5",
			"sender":  "terra1sender",
		},
	}
	require.NoError(t, processor.Process(context.Background(), raw))

	contract, err := contracts.FindOne("terra1contract")
	require.NoError(t, err)
	require.NotNil(t, contract)
	require.Equal(t, "terra1owner", contract.Owner)

	code, err := codes.FindOne("5")
	require.NoError(t, err)
	require.NotNil(t, code)
	require.Equal(t, "terra1sender", code.Sender)
}

func TestContractProcessorResightingUpdatesInPlace(t *testing.T) {
	processor, _, contracts := newTestContractProcessor(t)

	raw := lcd.RawEntity{"contract_address": "terra1contract", "owner": "terra1owner"}
	require.NoError(t, processor.Process(context.Background(), raw))

	raw["owner"] = "terra1newowner"
	require.NoError(t, processor.Process(context.Background(), raw))

	contract, err := contracts.FindOne("terra1contract")
	require.NoError(t, err)
	require.Equal(t, "terra1newowner", contract.Owner)
}

func TestContractProcessorMalformedEmbeddedCodeDoesNotAbort(t *testing.T) {
	processor, codes, contracts := newTestContractProcessor(t)

	raw := lcd.RawEntity{
		"contract_address": "terra1contract",
		"code":             map[string]any{"sender": "terra1sender"},
	}
	require.NoError(t, processor.Process(context.Background(), raw))

	contract, err := contracts.FindOne("terra1contract")
	require.NoError(t, err)
	require.NotNil(t, contract)

	code, err := codes.FindOne("")
	require.NoError(t, err)
	require.Nil(t, code)
}

func TestContractProcessorMalformedContract(t *testing.T) {
	processor, _, _ := newTestContractProcessor(t)

	err := processor.Process(context.Background(), lcd.RawEntity{"owner": "terra1owner"})
	require.ErrorIs(t, err, pipeline.ErrMalformedEntity)
}
