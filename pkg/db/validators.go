package db

import (
	"github.com/ledgersync/collector/pkg/db/models"
)

// ValidatorStore reconciles validator snapshots keyed by
// (operator address, chain id).
type ValidatorStore struct {
	db *DB
}

func NewValidatorStore(db *DB) *ValidatorStore {
	return &ValidatorStore{db: db}
}

func (s *ValidatorStore) FindOne(chainID, operatorAddr string) (*models.ValidatorSnapshot, error) {
	key := (&models.ValidatorSnapshot{ChainID: chainID, OperatorAddress: operatorAddr}).Key()
	return findOne[models.ValidatorSnapshot](s.db, key)
}

func (s *ValidatorStore) Reconcile(snapshot *models.ValidatorSnapshot) (Outcome, error) {
	return reconcile(s.db, snapshot.Key(), snapshot)
}
