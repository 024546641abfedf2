// Rebuilds ingredient stock counters from the transaction ledger. With no
// arguments every ingredient is reconciled; pass ids to narrow the run.
// -dry-run reports drift without writing.
package main

import (
	"context"
	"flag"
	"log"
	"strconv"

	"github.com/khanomthai/bakery_backend/config"
	"github.com/khanomthai/bakery_backend/models"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report drifted counters without rewriting them")
	flag.Parse()

	config.ConnectDatabaseWithRetry()

	ctx := context.Background()

	var ids []int
	if flag.NArg() > 0 {
		for _, arg := range flag.Args() {
			id, err := strconv.Atoi(arg)
			if err != nil || id < 1 {
				log.Fatalf("invalid ingredient id %q", arg)
			}
			ids = append(ids, id)
		}
	} else {
		ingredients, err := models.ListIngredients(ctx)
		if err != nil {
			log.Fatal(err)
		}
		for _, ingredient := range ingredients {
			ids = append(ids, ingredient.ID)
		}
	}

	drifted := 0
	for _, id := range ids {
		if *dryRun {
			ingredient, err := models.GetIngredient(ctx, id)
			if err != nil {
				log.Fatalf("ingredient %d: %v", id, err)
			}
			ledgerTotal, err := models.SumLedgerQuantity(ctx, id)
			if err != nil {
				log.Fatalf("ingredient %d: %v", id, err)
			}
			if !ingredient.CurrentStock.Equal(ledgerTotal) {
				drifted++
				log.Printf("ingredient %d: counter %s, ledger %s", id, ingredient.CurrentStock, ledgerTotal)
			}
			continue
		}

		before, after, err := models.RebuildIngredientStock(ctx, id)
		if err != nil {
			log.Fatalf("ingredient %d: %v", id, err)
		}
		if !before.Equal(after) {
			drifted++
			log.Printf("ingredient %d: counter %s -> %s", id, before, after)
		}
	}

	if *dryRun {
		log.Printf("checked %d ingredients, %d have drifted", len(ids), drifted)
		return
	}
	log.Printf("rebuilt %d ingredients, %d had drifted", len(ids), drifted)
}
