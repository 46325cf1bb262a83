package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full configuration surface of the collector. Values come
// from an optional config.yaml and COLLECTOR_* environment overrides.
type Config struct {
	// Chain identity and constants
	ChainID        string
	AccountPrefix  string
	BaseDenom      string
	SlashingPeriod int64

	// Upstream ledger-query endpoints
	LCDEndpoints []string

	// Local state
	DataDir     string
	VestingGlob string

	// Pagination walk
	PageInterval time.Duration
	StartOffset  string

	// Schedules (cron specs with seconds field)
	ContractsCron  string
	ValidatorsCron string
	UnvestedCron   string

	// Operational surface
	ListenAddr string

	// Optional notification collaborator; empty addr disables it
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Load reads configuration with defaults, an optional config file in the
// working directory or ./config, and COLLECTOR_-prefixed env overrides.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvPrefix("COLLECTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("chain.id", "columbus-5")
	v.SetDefault("chain.account_prefix", "terra")
	v.SetDefault("chain.base_denom", "uluna")
	v.SetDefault("chain.slashing_period", 10000)
	v.SetDefault("lcd.endpoints", []string{"http://localhost:1317"})
	v.SetDefault("data.dir", "./data")
	v.SetDefault("data.vesting_glob", "/tmp/vesting-*")
	v.SetDefault("walk.page_interval", "2s")
	v.SetDefault("walk.start_offset", "")
	v.SetDefault("cron.contracts", "0 0 * * * *")
	v.SetDefault("cron.validators", "0 */5 * * * *")
	v.SetDefault("cron.unvested", "0 */10 * * * *")
	v.SetDefault("server.addr", ":3060")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		ChainID:        v.GetString("chain.id"),
		AccountPrefix:  v.GetString("chain.account_prefix"),
		BaseDenom:      v.GetString("chain.base_denom"),
		SlashingPeriod: v.GetInt64("chain.slashing_period"),
		LCDEndpoints:   v.GetStringSlice("lcd.endpoints"),
		DataDir:        v.GetString("data.dir"),
		VestingGlob:    v.GetString("data.vesting_glob"),
		PageInterval:   v.GetDuration("walk.page_interval"),
		StartOffset:    v.GetString("walk.start_offset"),
		ContractsCron:  v.GetString("cron.contracts"),
		ValidatorsCron: v.GetString("cron.validators"),
		UnvestedCron:   v.GetString("cron.unvested"),
		ListenAddr:     v.GetString("server.addr"),
		RedisAddr:      v.GetString("redis.addr"),
		RedisPassword:  v.GetString("redis.password"),
		RedisDB:        v.GetInt("redis.db"),
	}

	if len(cfg.LCDEndpoints) == 0 {
		return nil, fmt.Errorf("no LCD endpoints configured")
	}
	if cfg.ChainID == "" {
		return nil, fmt.Errorf("chain id must not be empty")
	}
	return cfg, nil
}
