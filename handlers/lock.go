package handlers

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate はSELECT ... FOR UPDATEを付与します。
// SQLiteはFOR UPDATEをサポートしないため方言で分岐します。
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
