package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/ledgersync/collector/pkg/db"
	"github.com/ledgersync/collector/pkg/db/models"
	"github.com/ledgersync/collector/pkg/lcd"
	"github.com/ledgersync/collector/pkg/metrics"
)

// UnvestedCollector reads the newest locked-supply dump emitted by the node
// tooling and reconciles one entry per denomination, stamped with the
// collection time. Dump files are named so lexicographic order matches
// recency.
type UnvestedCollector struct {
	glob   string
	store  *db.UnvestedStore
	logger *zap.Logger
	now    func() time.Time
}

func NewUnvestedCollector(glob string, store *db.UnvestedStore, logger *zap.Logger) *UnvestedCollector {
	return &UnvestedCollector{
		glob:   glob,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Collect runs one collection cycle. A missing dump is not an error, the
// cycle simply records nothing.
func (c *UnvestedCollector) Collect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	paths, err := filepath.Glob(c.glob)
	if err != nil {
		return fmt.Errorf("glob vesting dumps %q: %w", c.glob, err)
	}
	if len(paths) == 0 {
		c.logger.Info("No vesting dump found", zap.String("glob", c.glob))
		return nil
	}
	sort.Strings(paths)
	latest := paths[len(paths)-1]

	raw, err := os.ReadFile(latest)
	if err != nil {
		return fmt.Errorf("read vesting dump %s: %w", latest, err)
	}
	var coins []lcd.Coin
	if err := json.Unmarshal(raw, &coins); err != nil {
		return fmt.Errorf("decode vesting dump %s: %w", latest, err)
	}

	datetime := c.now()
	saved := 0
	for _, coin := range coins {
		if coin.Denom == "" {
			c.logger.Warn("Dropping unvested entry without denom", zap.String("file", latest))
			continue
		}
		amount := coin.Amount
		if amount == "" {
			amount = "0"
		}
		entry := &models.Unvested{
			Denom:    coin.Denom,
			Datetime: datetime,
			Amount:   amount,
		}
		outcome, err := c.store.Reconcile(entry)
		if err != nil {
			return err
		}
		metrics.RecordsTotal.WithLabelValues("unvested", string(outcome)).Inc()
		saved++
	}

	c.logger.Info("Saved unvested entries",
		zap.String("file", latest),
		zap.Int("entries", saved))
	return nil
}
