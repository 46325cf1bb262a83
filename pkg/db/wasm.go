package db

import (
	"github.com/ledgersync/collector/pkg/db/models"
)

// CodeStore reconciles deployed-code records keyed by code id.
type CodeStore struct {
	db *DB
}

func NewCodeStore(db *DB) *CodeStore {
	return &CodeStore{db: db}
}

func (s *CodeStore) FindOne(codeID string) (*models.Code, error) {
	return findOne[models.Code](s.db, (&models.Code{CodeID: codeID}).Key())
}

func (s *CodeStore) Reconcile(code *models.Code) (Outcome, error) {
	return reconcile(s.db, code.Key(), code)
}

// ContractStore reconciles deployed-contract records keyed by address.
type ContractStore struct {
	db *DB
}

func NewContractStore(db *DB) *ContractStore {
	return &ContractStore{db: db}
}

func (s *ContractStore) FindOne(address string) (*models.Contract, error) {
	return findOne[models.Contract](s.db, (&models.Contract{ContractAddress: address}).Key())
}

func (s *ContractStore) Reconcile(contract *models.Contract) (Outcome, error) {
	return reconcile(s.db, contract.Key(), contract)
}
