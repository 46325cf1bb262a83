package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/puzpuzpuz/xsync/v4"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	collectors "github.com/ledgersync/collector/pkg/collector"
	"github.com/ledgersync/collector/pkg/config"
	"github.com/ledgersync/collector/pkg/db"
	"github.com/ledgersync/collector/pkg/keybase"
	"github.com/ledgersync/collector/pkg/lcd"
	"github.com/ledgersync/collector/pkg/logging"
	"github.com/ledgersync/collector/pkg/pipeline"
	"github.com/ledgersync/collector/pkg/redis"
	"github.com/ledgersync/collector/pkg/retry"
)

// PipelineStatus is the last observed state of one pipeline, served by /statusz.
type PipelineStatus struct {
	State     string    `json:"state"`
	LastRun   time.Time `json:"last_run"`
	LastError string    `json:"last_error,omitempty"`
}

// App wires the collector pipelines: the contract-registry walk runs at
// startup and on a schedule, validator and unvested cycles run on their own
// schedules. Each pipeline keeps a disjoint checkpoint and store keyspace.
type App struct {
	Config *config.Config
	Logger *zap.Logger

	DB       *db.DB
	LCD      *lcd.Client
	Notifier *redis.Client
	Keybase  *keybase.Client

	Codes      *db.CodeStore
	Contracts  *db.ContractStore
	Validators *db.ValidatorStore
	Unvested   *db.UnvestedStore

	Pool   pond.Pool
	Cron   *cron.Cron
	Server *http.Server

	// Status tracks pipelines we have run; served by /statusz.
	Status *xsync.Map[string, *PipelineStatus]

	// running guards each pipeline against overlapping invocations. Two
	// concurrent walkers would interleave writes on a shared checkpoint.
	running *xsync.Map[string, bool]
}

// Initialize builds the App from configuration.
func Initialize(ctx context.Context) (*App, error) {
	logger, err := logging.New()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	store, err := db.Open(filepath.Join(cfg.DataDir, "store"))
	if err != nil {
		return nil, err
	}

	lcdClient := lcd.NewWithOpts(lcd.Opts{Endpoints: cfg.LCDEndpoints})

	var notifier *redis.Client
	if cfg.RedisAddr != "" {
		notifier, err = redis.NewClient(ctx, redis.Opts{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
		if err != nil {
			logger.Warn("Redis unavailable, notifications disabled", zap.Error(err))
			notifier = nil
		}
	}

	app := &App{
		Config:     cfg,
		Logger:     logger,
		DB:         store,
		LCD:        lcdClient,
		Notifier:   notifier,
		Keybase:    keybase.New(logger),
		Codes:      db.NewCodeStore(store),
		Contracts:  db.NewContractStore(store),
		Validators: db.NewValidatorStore(store),
		Unvested:   db.NewUnvestedStore(store),
		Pool:       pond.NewPool(8),
		Status:     xsync.NewMap[string, *PipelineStatus](),
		running:    xsync.NewMap[string, bool](),
	}

	if err := app.setupScheduler(ctx); err != nil {
		return nil, err
	}
	app.setupServer()

	return app, nil
}

// setupScheduler registers the recurring collection cycles.
func (a *App) setupScheduler(ctx context.Context) error {
	a.Cron = cron.New(cron.WithSeconds(), cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))

	if _, err := a.Cron.AddFunc(a.Config.ContractsCron, func() {
		if err := a.runContracts(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.Logger.Error("Scheduled contract walk failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("schedule contracts: %w", err)
	}
	if _, err := a.Cron.AddFunc(a.Config.ValidatorsCron, func() {
		if err := a.runValidators(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.Logger.Error("Validator cycle failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("schedule validators: %w", err)
	}
	if _, err := a.Cron.AddFunc(a.Config.UnvestedCron, func() {
		if err := a.runUnvested(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.Logger.Error("Unvested cycle failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("schedule unvested: %w", err)
	}

	return nil
}

// runExclusive serializes invocations of one pipeline. Each pipeline owns a
// checkpoint and a store keyspace, so a scheduled run that catches a
// still-active walk of the same pipeline is skipped, not queued.
func (a *App) runExclusive(pipeline string, fn func() error) error {
	if _, loaded := a.running.LoadOrStore(pipeline, true); loaded {
		a.Logger.Warn("Previous run still active, skipping",
			zap.String("pipeline", pipeline))
		return nil
	}
	defer a.running.Delete(pipeline)
	return fn()
}

func (a *App) setStatus(pipeline, state string, err error) {
	status := &PipelineStatus{State: state, LastRun: time.Now().UTC()}
	if err != nil && !errors.Is(err, context.Canceled) {
		status.LastError = err.Error()
	}
	a.Status.Store(pipeline, status)
}

func (a *App) runContracts(ctx context.Context) error {
	return a.runExclusive("contracts", func() error { return a.contractsWalk(ctx) })
}

// contractsWalk walks the contract registry to its terminal token, resuming
// from the persisted position when one exists.
func (a *App) contractsWalk(ctx context.Context) error {
	checkpoint := pipeline.NewFileCheckpoint(filepath.Join(a.Config.DataDir, "contracts.position"))
	if a.Config.StartOffset != "" {
		token, err := checkpoint.Load()
		if err != nil {
			return err
		}
		if token == "" {
			if err := checkpoint.Save(a.Config.StartOffset); err != nil {
				return err
			}
		}
	}

	driver := &pipeline.Driver[lcd.RawEntity]{
		Name:       "contracts",
		Source:     &lcd.ContractsSource{Client: a.LCD},
		Processor:  collectors.NewContractProcessor(a.Codes, a.Contracts, a.Notifier, a.Logger),
		Checkpoint: checkpoint,
		Pause:      a.Config.PageInterval,
		Retry:      retry.DefaultConfig(),
		Logger:     a.Logger,
	}

	a.setStatus("contracts", "running", nil)
	err := driver.Run(ctx)
	a.setStatus("contracts", runOutcome(err), err)
	return err
}

func (a *App) runValidators(ctx context.Context) error {
	return a.runExclusive("validators", func() error { return a.validatorsCycle(ctx) })
}

// validatorsCycle executes one validator collection cycle: refresh the price
// table, fetch the validator set, aggregate and reconcile every validator.
func (a *App) validatorsCycle(ctx context.Context) error {
	a.setStatus("validators", "running", nil)

	prices, err := a.LCD.ExchangeRates(ctx)
	if err != nil {
		a.Logger.Warn("Price table unavailable, valuing unpriced denoms at zero", zap.Error(err))
		prices = map[string]string{}
	}

	var validators []lcd.Validator
	err = retry.WithBackoff(ctx, retry.DefaultConfig(), a.Logger, "validator set fetch", func() error {
		var fetchErr error
		validators, fetchErr = a.LCD.Validators(ctx)
		return fetchErr
	})
	if err != nil {
		a.setStatus("validators", "failed", err)
		return err
	}

	totalTokens := decimal.Zero
	for _, v := range validators {
		if tokens, err := decimal.NewFromString(v.Tokens); err == nil {
			totalTokens = totalTokens.Add(tokens)
		}
	}

	processor := collectors.NewValidatorProcessor(
		collectors.ValidatorAggregationConfig{
			ChainID:        a.Config.ChainID,
			AccountPrefix:  a.Config.AccountPrefix,
			BaseDenom:      a.Config.BaseDenom,
			SlashingPeriod: a.Config.SlashingPeriod,
		},
		a.LCD, a.Keybase, a.Validators, a.Notifier, a.Pool, a.Logger,
		prices, totalTokens,
	)

	driver := &pipeline.Driver[lcd.Validator]{
		Name:       "validators",
		Source:     pipeline.StaticSource[lcd.Validator]{Items: validators},
		Processor:  processor,
		Checkpoint: db.NewCheckpoint(a.DB, "validators"),
		Pause:      a.Config.PageInterval,
		Retry:      retry.DefaultConfig(),
		Logger:     a.Logger,
	}

	err = driver.Run(ctx)
	a.setStatus("validators", runOutcome(err), err)
	return err
}

func (a *App) runUnvested(ctx context.Context) error {
	return a.runExclusive("unvested", func() error { return a.unvestedCycle(ctx) })
}

// unvestedCycle executes one locked-supply collection cycle.
func (a *App) unvestedCycle(ctx context.Context) error {
	a.setStatus("unvested", "running", nil)
	unvested := collectors.NewUnvestedCollector(a.Config.VestingGlob, a.Unvested, a.Logger)
	err := unvested.Collect(ctx)
	a.setStatus("unvested", runOutcome(err), err)
	return err
}

func runOutcome(err error) string {
	switch {
	case err == nil:
		return "done"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "failed"
	}
}

// Start runs the collector until the context is cancelled or the initial
// contract walk fails unrecoverably. On failure the checkpoint stays at its
// last committed value, so a restart resumes safely.
func (a *App) Start(ctx context.Context) error {
	go func() { _ = a.Server.ListenAndServe() }()
	a.Cron.Start()
	a.Logger.Info("Collector started",
		zap.String("chainId", a.Config.ChainID),
		zap.Strings("lcd", a.Config.LCDEndpoints),
		zap.String("addr", a.Config.ListenAddr))

	// The contract walk runs to terminal once at startup; the scheduler
	// keeps the registry current afterwards.
	walkErr := make(chan error, 1)
	go func() { walkErr <- a.runContracts(ctx) }()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-walkErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			a.Logger.Error("Contract walk failed", zap.Error(err))
			runErr = err
		} else {
			<-ctx.Done()
		}
	}

	a.Logger.Info("Shutting down")
	_ = a.Server.Close()
	<-a.Cron.Stop().Done()
	if a.Notifier != nil {
		_ = a.Notifier.Close()
	}
	if err := a.DB.Close(); err != nil {
		a.Logger.Warn("Store close failed", zap.Error(err))
	}
	a.Logger.Info("Collector stopped")
	return runErr
}
