package models

import "time"

// Unvested is one locked-supply figure, keyed by (denom, collection time).
type Unvested struct {
	Denom    string    `json:"denom"`
	Datetime time.Time `json:"datetime"`
	Amount   string    `json:"amount"`
}

// Key returns the store key for the record's natural key.
func (u *Unvested) Key() string {
	return "unvested/" + u.Denom + "/" + u.Datetime.UTC().Format(time.RFC3339)
}
