package lcd

// RawEntity is an unparsed upstream record. Its shape is source-defined and it
// stays an untyped field mapping until the normalizer turns it into a
// canonical record.
type RawEntity map[string]any

// Coin is a single denomination balance, amounts kept as decimal strings.
type Coin struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

// ValidatorDescription carries the operator-supplied identity fields.
type ValidatorDescription struct {
	Moniker         string `json:"moniker"`
	Identity        string `json:"identity"`
	Website         string `json:"website"`
	SecurityContact string `json:"security_contact"`
	Details         string `json:"details"`
}

// CommissionRates are the validator's commission settings, decimal strings.
type CommissionRates struct {
	Rate          string `json:"rate"`
	MaxRate       string `json:"max_rate"`
	MaxChangeRate string `json:"max_change_rate"`
}

// Commission wraps the rates with the last update time.
type Commission struct {
	CommissionRates CommissionRates `json:"commission_rates"`
	UpdateTime      string          `json:"update_time"`
}

// Validator is the upstream validator descriptor.
type Validator struct {
	OperatorAddress string               `json:"operator_address"`
	ConsensusPubkey string               `json:"consensus_pubkey"`
	Jailed          bool                 `json:"jailed"`
	Status          int                  `json:"status"`
	Tokens          string               `json:"tokens"`
	DelegatorShares string               `json:"delegator_shares"`
	Description     ValidatorDescription `json:"description"`
	UnbondingHeight string               `json:"unbonding_height"`
	UnbondingTime   string               `json:"unbonding_time"`
	Commission      Commission           `json:"commission"`
}

// SigningInfo is the slashing-module view of a validator's liveness within
// the current slashing-period window.
type SigningInfo struct {
	Address             string `json:"address"`
	StartHeight         string `json:"start_height"`
	IndexOffset         string `json:"index_offset"`
	JailedUntil         string `json:"jailed_until"`
	Tombstoned          bool   `json:"tombstoned"`
	MissedBlocksCounter string `json:"missed_blocks_counter"`
}

// Delegator is one entry of a validator's delegator set.
type Delegator struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
	Weight  string `json:"weight"`
}
