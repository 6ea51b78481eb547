package models

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockItemRowTx takes a row lock on the item as the first statement of a
// ledger transaction. Every writer that checks stock before writing
// (issues and purchase lines) locks the same row, so two concurrent writers
// on one item cannot both pass the availability check against stale totals.
//
// The locking clause is applied on MySQL only: sqlite has no SELECT ... FOR
// UPDATE and serializes writers on its own (single-writer model).
func lockItemRowTx(tx *gorm.DB, itemId int) error {
	q := tx
	if tx.Dialector.Name() == "mysql" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var item Item
	return q.Select("id").First(&item, itemId).Error
}
