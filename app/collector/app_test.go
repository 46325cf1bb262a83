package collector

import (
	"sync"
	"testing"

	"github.com/puzpuzpuz/xsync/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newGuardApp() *App {
	return &App{
		Logger:  zap.NewNop(),
		Status:  xsync.NewMap[string, *PipelineStatus](),
		running: xsync.NewMap[string, bool](),
	}
}

func TestRunExclusiveSkipsOverlappingRun(t *testing.T) {
	app := newGuardApp()
	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = app.runExclusive("contracts", func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	// A second invocation of the same pipeline must not run while the first
	// holds the guard; it would write to the same checkpoint.
	calls := 0
	require.NoError(t, app.runExclusive("contracts", func() error {
		calls++
		return nil
	}))
	require.Zero(t, calls)

	close(release)
	wg.Wait()

	// Once the first run finished the pipeline is runnable again.
	require.NoError(t, app.runExclusive("contracts", func() error {
		calls++
		return nil
	}))
	require.Equal(t, 1, calls)
}

func TestRunExclusiveAllowsDistinctPipelines(t *testing.T) {
	app := newGuardApp()
	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = app.runExclusive("contracts", func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	ran := false
	require.NoError(t, app.runExclusive("validators", func() error {
		ran = true
		return nil
	}))
	require.True(t, ran)

	close(release)
	wg.Wait()
}
