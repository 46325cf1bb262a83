package db

import (
	"encoding/json"
	"fmt"
)

// Outcome reports which branch a reconcile took.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
)

// findOne looks up a record by its natural key. A missing record returns
// (nil, nil) so callers can branch without error inspection.
func findOne[T any](d *DB, key string) (*T, error) {
	raw, found, err := d.get([]byte(key))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	var record T
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &record, nil
}

// reconcile looks up existing state by natural key and either inserts the
// record or overwrites all non-key fields in place. The freshly built record
// is authoritative, there is no partial merge with stale stored values, so
// reconciling the same record twice yields identical stored state.
func reconcile[T any](d *DB, key string, record *T) (Outcome, error) {
	existing, err := findOne[T](d, key)
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", key, err)
	}
	if err := d.put([]byte(key), raw); err != nil {
		return "", err
	}
	if existing == nil {
		return OutcomeCreated, nil
	}
	return OutcomeUpdated, nil
}
