package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ledgersync/collector/pkg/metrics"
	"github.com/ledgersync/collector/pkg/retry"
)

// Page is one upstream page. Next is the resumption token for the following
// page; empty means the walk is complete.
type Page[T any] struct {
	Items []T
	Next  string
}

// Source fetches one bounded page from the upstream API. The token must be
// either the prior call's Next or "" for a fresh start.
type Source[T any] interface {
	FetchPage(ctx context.Context, token string) (Page[T], error)
}

// Processor normalizes/aggregates one raw item and reconciles it into the store.
type Processor[T any] interface {
	Process(ctx context.Context, item T) error
}

// State enumerates the driver's walk states.
type State int

const (
	StateStart State = iota
	StateFetching
	StateProcessing
	StateCheckpointing
	StatePausing
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateFetching:
		return "fetching"
	case StateProcessing:
		return "processing"
	case StateCheckpointing:
		return "checkpointing"
	case StatePausing:
		return "pausing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Driver walks a paginated source to completion: fetch page, process each
// item in upstream order, persist the checkpoint, pause, repeat. The
// checkpoint is only advanced after the page it covers is fully reconciled,
// so a crash at any point resumes without re-processing committed pages.
type Driver[T any] struct {
	Name       string
	Source     Source[T]
	Processor  Processor[T]
	Checkpoint Checkpoint
	Pause      time.Duration
	Retry      retry.Config
	Logger     *zap.Logger
}

// Run executes the walk until the terminal token, a cancellation, or an
// unrecoverable error. On error the checkpoint stays at its last committed
// value, guaranteeing resumability.
func (d *Driver[T]) Run(ctx context.Context) error {
	token, err := d.Checkpoint.Load()
	if err != nil {
		return fmt.Errorf("%s: load checkpoint: %w", d.Name, err)
	}
	if token != "" {
		d.Logger.Info("Resuming walk from checkpoint",
			zap.String("pipeline", d.Name),
			zap.String("token", token))
	}

	var page Page[T]
	var pageStart time.Time
	state := StateFetching
	for {
		switch state {
		case StateFetching:
			pageStart = time.Now()
			fetchErr := retry.WithBackoff(ctx, d.Retry, d.Logger, d.Name+" page fetch", func() error {
				var err error
				page, err = d.Source.FetchPage(ctx, token)
				return err
			})
			if fetchErr != nil {
				metrics.PagesTotal.WithLabelValues(d.Name, "error").Inc()
				d.Logger.Error("Page fetch failed, halting walk",
					zap.String("pipeline", d.Name),
					zap.String("token", token),
					zap.Error(fetchErr))
				return fetchErr
			}
			metrics.PagesTotal.WithLabelValues(d.Name, "ok").Inc()
			d.Logger.Debug("Fetched page",
				zap.String("pipeline", d.Name),
				zap.String("token", token),
				zap.Int("items", len(page.Items)),
				zap.String("next", page.Next))
			state = StateProcessing

		case StateProcessing:
			if err := d.processPage(ctx, page); err != nil {
				return err
			}
			metrics.PageDuration.WithLabelValues(d.Name).Observe(time.Since(pageStart).Seconds())
			state = StateCheckpointing

		case StateCheckpointing:
			if page.Next == "" {
				if err := d.Checkpoint.Clear(); err != nil {
					return fmt.Errorf("%s: clear checkpoint: %w", d.Name, err)
				}
				state = StateDone
				continue
			}
			if err := d.Checkpoint.Save(page.Next); err != nil {
				return fmt.Errorf("%s: save checkpoint: %w", d.Name, err)
			}
			state = StatePausing

		case StatePausing:
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(d.Pause):
			}
			token = page.Next
			state = StateFetching

		case StateDone:
			d.Logger.Info("Walk complete", zap.String("pipeline", d.Name))
			return nil
		}
	}
}

// processPage runs every item in upstream order. A single item's failure is
// logged and the item skipped; store failures abort the page before the
// checkpoint advances. Cancellation is honored only between items so a
// reconcile is never interrupted mid-write.
func (d *Driver[T]) processPage(ctx context.Context, page Page[T]) error {
	for i, item := range page.Items {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := d.Processor.Process(ctx, item)
		switch {
		case err == nil:
		case errors.Is(err, ErrStoreUnavailable):
			return fmt.Errorf("%s: item %d: %w", d.Name, i, err)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		default:
			metrics.ItemsSkippedTotal.WithLabelValues(d.Name).Inc()
			d.Logger.Warn("Skipping item",
				zap.String("pipeline", d.Name),
				zap.Int("index", i),
				zap.Error(err))
		}
	}
	return nil
}
