package models

import "time"

// ValidatorStatus is the derived lifecycle state of a validator.
type ValidatorStatus string

const (
	StatusActive    ValidatorStatus = "ACTIVE"
	StatusInactive  ValidatorStatus = "INACTIVE"
	StatusUnbonding ValidatorStatus = "UNBONDING"
	StatusJailed    ValidatorStatus = "JAILED"
	StatusUnknown   ValidatorStatus = "UNKNOWN"
)

// DeriveValidatorStatus maps the upstream numeric status code to the derived
// status enum. Jailed overrides everything; unrecognized codes are UNKNOWN.
func DeriveValidatorStatus(status int, jailed bool) ValidatorStatus {
	if jailed {
		return StatusJailed
	}
	switch status {
	case 1:
		return StatusInactive
	case 2:
		return StatusUnbonding
	case 3:
		return StatusActive
	default:
		return StatusUnknown
	}
}

// RewardPoolEntry is one denomination of a validator's reward pool together
// with its value adjusted into the base denomination.
type RewardPoolEntry struct {
	Denom          string `json:"denom"`
	Amount         string `json:"amount"`
	AdjustedAmount string `json:"adjusted_amount"`
}

// ValidatorSnapshot aggregates the independently sourced validator fields
// into one canonical record. The natural key is (OperatorAddress, ChainID);
// the snapshot is created on first sighting of an operator address and fully
// overwritten on every subsequent collection cycle, never deleted.
type ValidatorSnapshot struct {
	// Identity
	ChainID         string `json:"chain_id"`
	OperatorAddress string `json:"operator_address"`
	AccountAddress  string `json:"account_address"`
	ConsensusPubkey string `json:"consensus_pubkey"`
	Moniker         string `json:"moniker"`
	Identity        string `json:"identity"`
	Website         string `json:"website"`
	SecurityContact string `json:"security_contact"`
	Details         string `json:"details"`
	ProfileIcon     string `json:"profile_icon"`

	// Stake
	Tokens            string `json:"tokens"`
	DelegatorShares   string `json:"delegator_shares"`
	VotingPower       string `json:"voting_power"`
	VotingPowerWeight string `json:"voting_power_weight"`

	// Self-delegation, sourced from the delegator-set lookup
	SelfDelegation       string `json:"self_delegation"`
	SelfDelegationWeight string `json:"self_delegation_weight"`

	// Commission
	CommissionRate          string    `json:"commission_rate"`
	MaxCommissionRate       string    `json:"max_commission_rate"`
	MaxCommissionChangeRate string    `json:"max_commission_change_rate"`
	CommissionChangeDate    time.Time `json:"commission_change_date"`

	// Liveness
	UpTime           float64 `json:"up_time"`
	MissedOracleVote int64   `json:"missed_oracle_vote"`

	// Lifecycle
	Status          ValidatorStatus `json:"status"`
	Jailed          bool            `json:"jailed"`
	UnbondingHeight int64           `json:"unbonding_height"`
	UnbondingTime   time.Time       `json:"unbonding_time"`

	// Rewards, valued in the base denomination
	RewardPool      []RewardPoolEntry `json:"reward_pool"`
	RewardPoolTotal string            `json:"reward_pool_total"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Key returns the store key for the record's natural key.
func (v *ValidatorSnapshot) Key() string {
	return "validator/" + v.ChainID + "/" + v.OperatorAddress
}
