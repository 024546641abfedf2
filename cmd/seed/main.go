// Seeds the conversion rule table and the default bookkeeping categories.
// Safe to run repeatedly; existing rows are left alone.
package main

import (
	"context"
	"log"

	"github.com/khanomthai/bakery_backend/config"
	"github.com/khanomthai/bakery_backend/models"
)

func main() {
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	models.MigrateTable()

	ctx := context.Background()

	// Cached reference data may predate the migration; drop it so the
	// seeded tables are re-read.
	if err := config.ClearRedis(ctx); err != nil {
		log.Fatal("clearing redis: ", err)
	}

	if err := models.SeedUnitConversions(ctx); err != nil {
		log.Fatal("seeding unit conversions: ", err)
	}
	if err := models.SeedFinancialCategories(ctx); err != nil {
		log.Fatal("seeding financial categories: ", err)
	}

	log.Println("seed completed")
}
