package collector

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ledgersync/collector/pkg/address"
	"github.com/ledgersync/collector/pkg/db"
	"github.com/ledgersync/collector/pkg/db/models"
	"github.com/ledgersync/collector/pkg/lcd"
	"github.com/ledgersync/collector/pkg/metrics"
	"github.com/ledgersync/collector/pkg/pipeline"
	"github.com/ledgersync/collector/pkg/redis"
)

// StakingSource is the set of per-validator detail lookups the aggregator
// fans out to. lcd.Client satisfies it.
type StakingSource interface {
	Delegators(ctx context.Context, operatorAddr string) ([]lcd.Delegator, error)
	SigningInfo(ctx context.Context, operatorAddr string) (*lcd.SigningInfo, error)
	MissedOracleVotes(ctx context.Context, operatorAddr string) (string, error)
	Rewards(ctx context.Context, operatorAddr string) ([]lcd.Coin, error)
}

// AvatarSource resolves an identity key suffix to a picture URL, best-effort.
// keybase.Client satisfies it.
type AvatarSource interface {
	Avatar(ctx context.Context, identity string) string
}

// ValidatorAggregationConfig carries the chain constants the aggregation
// depends on. They are passed in explicitly so the processor stays testable
// in isolation.
type ValidatorAggregationConfig struct {
	ChainID        string
	AccountPrefix  string
	BaseDenom      string
	SlashingPeriod int64
}

// ValidatorProcessor aggregates one upstream validator descriptor with four
// independently sourced lookups and reconciles the resulting snapshot. A
// single lookup's failure degrades to a documented default and never aborts
// the aggregation. The price table and total-token figure are fixed for one
// collection cycle; build a fresh processor per cycle.
type ValidatorProcessor struct {
	cfg         ValidatorAggregationConfig
	source      StakingSource
	avatars     AvatarSource
	store       *db.ValidatorStore
	notifier    *redis.Client
	pool        pond.Pool
	logger      *zap.Logger
	prices      map[string]string
	totalTokens decimal.Decimal
	now         func() time.Time
}

func NewValidatorProcessor(
	cfg ValidatorAggregationConfig,
	source StakingSource,
	avatars AvatarSource,
	store *db.ValidatorStore,
	notifier *redis.Client,
	pool pond.Pool,
	logger *zap.Logger,
	prices map[string]string,
	totalTokens decimal.Decimal,
) *ValidatorProcessor {
	return &ValidatorProcessor{
		cfg:         cfg,
		source:      source,
		avatars:     avatars,
		store:       store,
		notifier:    notifier,
		pool:        pool,
		logger:      logger,
		prices:      prices,
		totalTokens: totalTokens,
		now:         time.Now,
	}
}

func (p *ValidatorProcessor) Process(ctx context.Context, val lcd.Validator) error {
	snapshot, err := p.Aggregate(ctx, val)
	if err != nil {
		return err
	}

	outcome, err := p.store.Reconcile(snapshot)
	if err != nil {
		return err
	}
	metrics.RecordsTotal.WithLabelValues("validators", string(outcome)).Inc()
	if outcome == db.OutcomeCreated {
		p.logger.Info("New validator found",
			zap.String("moniker", snapshot.Moniker),
			zap.String("operator", snapshot.OperatorAddress))
	} else {
		p.logger.Info("Updated validator",
			zap.String("moniker", snapshot.Moniker),
			zap.String("operator", snapshot.OperatorAddress))
	}
	if p.notifier != nil {
		p.notifier.Publish(ctx, "collector:validators", snapshot.OperatorAddress)
	}
	return nil
}

// Aggregate builds the canonical snapshot for one validator descriptor.
func (p *ValidatorProcessor) Aggregate(ctx context.Context, val lcd.Validator) (*models.ValidatorSnapshot, error) {
	if val.OperatorAddress == "" {
		return nil, fmt.Errorf("%w: validator without operator_address", pipeline.ErrMalformedEntity)
	}
	accountAddr, err := address.ConvertPrefix(p.cfg.AccountPrefix, val.OperatorAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pipeline.ErrMalformedEntity, err)
	}

	// Fan out the independent lookups on the shared worker pool. Each one
	// captures its own failure and leaves the default in place.
	var (
		delegators []lcd.Delegator
		signing    *lcd.SigningInfo
		missed     string
		rewards    []lcd.Coin
		avatar     string
	)
	group := p.pool.NewGroupContext(ctx)
	groupCtx := group.Context()

	group.Submit(func() {
		if groupCtx.Err() != nil {
			return
		}
		result, err := p.source.Delegators(groupCtx, val.OperatorAddress)
		if err != nil {
			p.noteDefault("delegators", val.OperatorAddress, err)
			return
		}
		delegators = result
	})
	group.Submit(func() {
		if groupCtx.Err() != nil {
			return
		}
		result, err := p.source.SigningInfo(groupCtx, val.OperatorAddress)
		if err != nil {
			p.noteDefault("signing_info", val.OperatorAddress, err)
			return
		}
		signing = result
	})
	group.Submit(func() {
		if groupCtx.Err() != nil {
			return
		}
		result, err := p.source.MissedOracleVotes(groupCtx, val.OperatorAddress)
		if err != nil {
			p.noteDefault("missed_oracle_votes", val.OperatorAddress, err)
			return
		}
		missed = result
	})
	group.Submit(func() {
		if groupCtx.Err() != nil {
			return
		}
		result, err := p.source.Rewards(groupCtx, val.OperatorAddress)
		if err != nil {
			p.noteDefault("rewards", val.OperatorAddress, err)
			return
		}
		rewards = result
	})
	group.Submit(func() {
		if groupCtx.Err() != nil {
			return
		}
		avatar = p.avatars.Avatar(groupCtx, val.Description.Identity)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, pond.ErrGroupStopped) {
		p.logger.Warn("Aggregation fan-out error",
			zap.String("operator", val.OperatorAddress),
			zap.Error(err))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	selfAmount, selfWeight := selfDelegation(delegators, accountAddr)
	rewardPool, rewardTotal := valueRewardPool(rewards, p.prices, p.cfg.BaseDenom)

	tokens := val.Tokens
	if tokens == "" {
		tokens = "0"
	}
	votingPowerWeight := "0"
	if t, err := decimal.NewFromString(tokens); err == nil && p.totalTokens.IsPositive() {
		votingPowerWeight = t.Div(p.totalTokens).String()
	}

	snapshot := &models.ValidatorSnapshot{
		ChainID:         p.cfg.ChainID,
		OperatorAddress: val.OperatorAddress,
		AccountAddress:  accountAddr,
		ConsensusPubkey: val.ConsensusPubkey,
		Moniker:         val.Description.Moniker,
		Identity:        val.Description.Identity,
		Website:         val.Description.Website,
		SecurityContact: val.Description.SecurityContact,
		Details:         val.Description.Details,
		ProfileIcon:     avatar,

		Tokens:            tokens,
		DelegatorShares:   val.DelegatorShares,
		VotingPower:       tokens,
		VotingPowerWeight: votingPowerWeight,

		SelfDelegation:       selfAmount,
		SelfDelegationWeight: selfWeight,

		CommissionRate:          val.Commission.CommissionRates.Rate,
		MaxCommissionRate:       val.Commission.CommissionRates.MaxRate,
		MaxCommissionChangeRate: val.Commission.CommissionRates.MaxChangeRate,
		CommissionChangeDate:    parseTimeOrZero(val.Commission.UpdateTime),

		UpTime:           computeUptime(signing, p.cfg.SlashingPeriod),
		MissedOracleVote: parseInt64OrZero(missed),

		Status:          models.DeriveValidatorStatus(val.Status, val.Jailed),
		Jailed:          val.Jailed,
		UnbondingHeight: parseInt64OrZero(val.UnbondingHeight),
		UnbondingTime:   parseTimeOrZero(val.UnbondingTime),

		RewardPool:      rewardPool,
		RewardPoolTotal: rewardTotal,

		UpdatedAt: p.now(),
	}
	return snapshot, nil
}

func (p *ValidatorProcessor) noteDefault(source, operator string, err error) {
	metrics.AggregationDefaultsTotal.WithLabelValues(source).Inc()
	p.logger.Warn("Detail lookup failed, substituting default",
		zap.String("source", source),
		zap.String("operator", operator),
		zap.Error(err))
}

// selfDelegation scans the delegator set for the derived account address.
// First match wins if upstream ever emits duplicates; no entry yields (0, 0).
func selfDelegation(delegators []lcd.Delegator, accountAddr string) (amount, weight string) {
	for _, d := range delegators {
		if d.Address == accountAddr {
			amount, weight = d.Amount, d.Weight
			if amount == "" {
				amount = "0"
			}
			if weight == "" {
				weight = "0"
			}
			return amount, weight
		}
	}
	return "0", "0"
}

// computeUptime derives the missed-block uptime ratio over the slashing
// period, clamped to [0, 1]. Absent signing info or an undefined window
// reports 0.
func computeUptime(info *lcd.SigningInfo, slashingPeriod int64) float64 {
	if info == nil || slashingPeriod <= 0 {
		return 0
	}
	missedBlocks, err := strconv.ParseFloat(info.MissedBlocksCounter, 64)
	if err != nil {
		missedBlocks = 0
	}
	uptime := 1 - missedBlocks/float64(slashingPeriod)
	if math.IsNaN(uptime) || uptime < 0 {
		return 0
	}
	if uptime > 1 {
		return 1
	}
	return uptime
}

// valueRewardPool values each reward coin in the base denomination using the
// active price table. Base-denom amounts pass through, priced denoms divide
// by their price, unpriced denoms value as 0. Entries come back in canonical
// order: base denom first, the rest by denom.
func valueRewardPool(rewards []lcd.Coin, prices map[string]string, baseDenom string) ([]models.RewardPoolEntry, string) {
	total := decimal.Zero
	entries := make([]models.RewardPoolEntry, 0, len(rewards))
	for _, coin := range rewards {
		adjusted := adjustedAmount(coin, prices, baseDenom)
		if value, err := decimal.NewFromString(adjusted); err == nil {
			total = total.Add(value)
		}
		entries = append(entries, models.RewardPoolEntry{
			Denom:          coin.Denom,
			Amount:         coin.Amount,
			AdjustedAmount: adjusted,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Denom == baseDenom {
			return entries[j].Denom != baseDenom
		}
		if entries[j].Denom == baseDenom {
			return false
		}
		return entries[i].Denom < entries[j].Denom
	})
	return entries, total.String()
}

func adjustedAmount(coin lcd.Coin, prices map[string]string, baseDenom string) string {
	if coin.Denom == baseDenom {
		if coin.Amount == "" {
			return "0"
		}
		return coin.Amount
	}
	price, ok := prices[coin.Denom]
	if !ok {
		return "0"
	}
	amount, err := decimal.NewFromString(coin.Amount)
	if err != nil {
		return "0"
	}
	rate, err := decimal.NewFromString(price)
	if err != nil || rate.IsZero() {
		return "0"
	}
	return amount.Div(rate).String()
}
