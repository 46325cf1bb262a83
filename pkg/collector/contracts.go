package collector

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ledgersync/collector/pkg/db"
	"github.com/ledgersync/collector/pkg/db/models"
	"github.com/ledgersync/collector/pkg/lcd"
	"github.com/ledgersync/collector/pkg/metrics"
	"github.com/ledgersync/collector/pkg/pipeline"
	"github.com/ledgersync/collector/pkg/redis"
)

// NormalizeCode maps a raw code descriptor into the canonical record.
// Optional fields default (memo "", timestamp now); only a missing code id is
// an error, the natural key cannot be defaulted.
func NormalizeCode(raw lcd.RawEntity, now time.Time) (*models.Code, error) {
	codeID := rawString(raw, "code_id")
	if codeID == "" {
		return nil, fmt.Errorf("%w: code entry without code_id", pipeline.ErrMalformedEntity)
	}
	code := &models.Code{
		CodeID:    codeID,
		Sender:    rawString(raw, "sender"),
		TxHash:    rawString(raw, "txhash"),
		Timestamp: rawTime(raw, "timestamp", now),
	}
	if info := rawChild(raw, "info"); info != nil {
		code.TxMemo = rawString(info, "memo")
	}
	return code, nil
}

// NormalizeContract maps a raw contract entry into the canonical record.
// Same defaulting policy as NormalizeCode; only a missing contract address
// is an error.
func NormalizeContract(raw lcd.RawEntity, now time.Time) (*models.Contract, error) {
	addr := rawString(raw, "contract_address")
	if addr == "" {
		return nil, fmt.Errorf("%w: contract entry without contract_address", pipeline.ErrMalformedEntity)
	}
	contract := &models.Contract{
		ContractAddress: addr,
		Owner:           rawString(raw, "owner"),
		Creator:         rawString(raw, "creator"),
		CodeID:          rawString(raw, "code_id"),
		InitMsg:         rawString(raw, "init_msg"),
		MigrateMsg:      rawString(raw, "migrate_msg"),
		TxHash:          rawString(raw, "txhash"),
		Timestamp:       rawTime(raw, "timestamp", now),
	}
	if info := rawChild(raw, "info"); info != nil {
		contract.TxMemo = rawString(info, "memo")
	}
	return contract, nil
}

// ContractProcessor normalizes and reconciles one raw contract page item,
// including the code descriptor embedded in it. Upstream is known to emit
// the same contract across pages; a re-sighting reconciles as an update.
type ContractProcessor struct {
	codes     *db.CodeStore
	contracts *db.ContractStore
	notifier  *redis.Client
	logger    *zap.Logger
	now       func() time.Time
}

func NewContractProcessor(codes *db.CodeStore, contracts *db.ContractStore, notifier *redis.Client, logger *zap.Logger) *ContractProcessor {
	return &ContractProcessor{
		codes:     codes,
		contracts: contracts,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

func (p *ContractProcessor) Process(ctx context.Context, raw lcd.RawEntity) error {
	now := p.now()

	// Reconcile the embedded code descriptor first so the contract never
	// references a code id the store has not seen.
	if codeRaw := rawChild(raw, "code"); codeRaw != nil {
		code, err := NormalizeCode(codeRaw, now)
		if err != nil {
			p.logger.Warn("Dropping embedded code descriptor", zap.Error(err))
		} else {
			outcome, err := p.codes.Reconcile(code)
			if err != nil {
				return err
			}
			metrics.RecordsTotal.WithLabelValues("codes", string(outcome)).Inc()
			if outcome == db.OutcomeCreated {
				p.logger.Info("Created code", zap.String("codeId", code.CodeID))
			}
		}
	}

	contract, err := NormalizeContract(raw, now)
	if err != nil {
		return err
	}
	outcome, err := p.contracts.Reconcile(contract)
	if err != nil {
		return err
	}
	metrics.RecordsTotal.WithLabelValues("contracts", string(outcome)).Inc()
	switch outcome {
	case db.OutcomeCreated:
		p.logger.Info("Created contract", zap.String("address", contract.ContractAddress))
	case db.OutcomeUpdated:
		p.logger.Debug("Updated existing contract", zap.String("address", contract.ContractAddress))
	}
	if p.notifier != nil {
		p.notifier.Publish(ctx, "collector:contracts", contract.ContractAddress)
	}
	return nil
}
