package repo

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormRepo struct {
	DB *gorm.DB
}

// lockForUpdate adds SELECT ... FOR UPDATE. The sqlite driver used by the
// unit tests has no row locks and rejects the clause, so it is applied on
// postgres only; sqlite serializes writers anyway.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() != "postgres" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
