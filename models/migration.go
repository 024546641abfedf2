package models

import (
	"log"

	"github.com/khanomthai/bakery_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Unit{}, &UnitConversion{},
		&Supplier{}, &Ingredient{}, &InventoryTransaction{},
		&Recipe{}, &RecipeIngredient{}, &RecipeStep{},
		&FinancialCategory{}, &FinancialTransaction{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
