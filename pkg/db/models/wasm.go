package models

import "time"

// Code is a canonical deployed-code record. CodeID is the natural key; it is
// stable across re-ingestion, every other field is overwritten on update.
type Code struct {
	CodeID    string    `json:"code_id"`
	Sender    string    `json:"sender"`
	TxHash    string    `json:"tx_hash"`
	TxMemo    string    `json:"tx_memo"`
	Timestamp time.Time `json:"timestamp"`
}

// Key returns the store key for the record's natural key.
func (c *Code) Key() string {
	return "code/" + c.CodeID
}

// Contract is a canonical deployed-contract record keyed by its address.
type Contract struct {
	ContractAddress string    `json:"contract_address"`
	Owner           string    `json:"owner"`
	Creator         string    `json:"creator"`
	CodeID          string    `json:"code_id"`
	InitMsg         string    `json:"init_msg"`
	MigrateMsg      string    `json:"migrate_msg"`
	TxHash          string    `json:"tx_hash"`
	TxMemo          string    `json:"tx_memo"`
	Timestamp       time.Time `json:"timestamp"`
}

// Key returns the store key for the record's natural key.
func (c *Contract) Key() string {
	return "contract/" + c.ContractAddress
}
