package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "columbus-5", cfg.ChainID)
	require.Equal(t, "terra", cfg.AccountPrefix)
	require.Equal(t, "uluna", cfg.BaseDenom)
	require.EqualValues(t, 10000, cfg.SlashingPeriod)
	require.Equal(t, []string{"http://localhost:1317"}, cfg.LCDEndpoints)
	require.Equal(t, 2*time.Second, cfg.PageInterval)
	require.Equal(t, ":3060", cfg.ListenAddr)
	require.Equal(t, "", cfg.RedisAddr)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("COLLECTOR_CHAIN_ID", "bombay-12")
	t.Setenv("COLLECTOR_WALK_PAGE_INTERVAL", "500ms")
	t.Setenv("COLLECTOR_WALK_START_OFFSET", "7500")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "bombay-12", cfg.ChainID)
	require.Equal(t, 500*time.Millisecond, cfg.PageInterval)
	require.Equal(t, "7500", cfg.StartOffset)
}
