package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnv(t *testing.T) {
	t.Setenv("COLLECTOR_TEST_ENV", "set")
	require.Equal(t, "set", Env("COLLECTOR_TEST_ENV", "fallback"))
	require.Equal(t, "fallback", Env("COLLECTOR_TEST_ENV_MISSING", "fallback"))
}

func TestEnvInt(t *testing.T) {
	t.Setenv("COLLECTOR_TEST_INT", "42")
	require.Equal(t, 42, EnvInt("COLLECTOR_TEST_INT", 7))

	t.Setenv("COLLECTOR_TEST_INT", "not-a-number")
	require.Equal(t, 7, EnvInt("COLLECTOR_TEST_INT", 7))

	t.Setenv("COLLECTOR_TEST_INT", "-3")
	require.Equal(t, 7, EnvInt("COLLECTOR_TEST_INT", 7))

	require.Equal(t, 7, EnvInt("COLLECTOR_TEST_INT_MISSING", 7))
}
