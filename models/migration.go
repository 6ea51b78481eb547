package models

import (
	"bitbucket.org/mmdatafocus/inventory_backend/config"
	"bitbucket.org/mmdatafocus/inventory_backend/utils"
)

func MigrateTable() {
	db := config.GetDB()

	utils.ErrorPanic(db.AutoMigrate(
		&User{},
		&Staff{},
		&Category{}, &Subcategory{}, &Item{},
		&Purchase{},
		&Issue{},
	))
}
