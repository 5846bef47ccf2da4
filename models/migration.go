package models

import (
	"github.com/colmadosys/colmado_backend/config"
	"github.com/colmadosys/colmado_backend/utils"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Product{},
		&Purchase{}, &PurchaseItem{},
		&Sale{}, &SaleItem{},
		&PurchaseReturn{}, &PurchaseReturnItem{},
		&User{},
	)
	utils.ErrorPanic(err)
}
