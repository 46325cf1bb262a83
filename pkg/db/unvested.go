package db

import (
	"time"

	"github.com/ledgersync/collector/pkg/db/models"
)

// UnvestedStore reconciles locked-supply entries keyed by (denom, datetime).
type UnvestedStore struct {
	db *DB
}

func NewUnvestedStore(db *DB) *UnvestedStore {
	return &UnvestedStore{db: db}
}

func (s *UnvestedStore) FindOne(denom string, datetime time.Time) (*models.Unvested, error) {
	key := (&models.Unvested{Denom: denom, Datetime: datetime}).Key()
	return findOne[models.Unvested](s.db, key)
}

func (s *UnvestedStore) Reconcile(entry *models.Unvested) (Outcome, error) {
	return reconcile(s.db, entry.Key(), entry)
}
