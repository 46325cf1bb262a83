package lcd

// Ledger-query endpoint paths. All paths are consolidated here so a change in
// the upstream API surface is a single-location edit.

const (
	// Contract registry queries (paginated by offset)
	contractsPath = "/v1/wasm/contracts"

	// Staking queries
	validatorsPath = "/v1/staking/validators"
	delegatorsPath = "/v1/staking/validators/%s/delegators"

	// Slashing queries
	signingInfoPath = "/v1/slashing/validators/%s/signing_info"

	// Oracle queries
	missedVotesPath   = "/v1/oracle/voters/%s/miss"
	exchangeRatesPath = "/v1/oracle/denoms/exchange_rates"

	// Distribution queries
	rewardsPath = "/v1/distribution/validators/%s/rewards"
)
