package models_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/khanomthai/bakery_backend/config"
	"github.com/khanomthai/bakery_backend/models"
	"github.com/shopspring/decimal"
)

func mustCreateIngredient(t *testing.T, ctx context.Context, name string, cost string, stock string) *models.Ingredient {
	t.Helper()
	ingredient, err := models.CreateIngredient(ctx, &models.NewIngredient{
		Name:         name,
		PurchaseUnit: "kg",
		CostPerUnit:  decimal.RequireFromString(cost),
		ReorderPoint: decimal.NewFromInt(2),
	})
	if err != nil {
		t.Fatalf("CreateIngredient(%s): %v", name, err)
	}
	if stock != "0" {
		_, err := models.ReceiveStock(ctx, &models.NewStockIn{
			Items: []models.StockInItem{{
				IngredientId: ingredient.ID,
				Quantity:     decimal.RequireFromString(stock),
			}},
			TransactionDate: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("initial ReceiveStock(%s): %v", name, err)
		}
	}
	return ingredient
}

func fetchStock(t *testing.T, ctx context.Context, id int) decimal.Decimal {
	t.Helper()
	ingredient, err := models.GetIngredient(ctx, id)
	if err != nil {
		t.Fatalf("GetIngredient(%d): %v", id, err)
	}
	return ingredient.CurrentStock
}

func countLedgerEntries(t *testing.T, ctx context.Context, id int) int64 {
	t.Helper()
	db := config.GetDB()
	var count int64
	err := db.WithContext(ctx).Model(&models.InventoryTransaction{}).
		Where("ingredient_id = ?", id).Count(&count).Error
	if err != nil {
		t.Fatalf("count ledger entries: %v", err)
	}
	return count
}

func TestStockLedgerLifecycle(t *testing.T) {
	setupIntegrationEnv(t)
	ctx := context.Background()

	flour := mustCreateIngredient(t, ctx, "Bread flour", "38.00", "10")

	// Receive adds to the counter and books a purchase entry.
	unitCost := decimal.RequireFromString("40.00")
	_, err := models.ReceiveStock(ctx, &models.NewStockIn{
		Items: []models.StockInItem{{
			IngredientId: flour.ID,
			Quantity:     decimal.NewFromInt(5),
			UnitCost:     &unitCost,
		}},
		TransactionDate: time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC),
		ReferenceNumber: "PO-1001",
	})
	if err != nil {
		t.Fatalf("ReceiveStock: %v", err)
	}
	if got := fetchStock(t, ctx, flour.ID); got.Cmp(decimal.NewFromInt(15)) != 0 {
		t.Fatalf("expected stock 15 after receive; got %s", got)
	}

	// The observed unit cost overwrites the ingredient price.
	updated, err := models.GetIngredient(ctx, flour.ID)
	if err != nil {
		t.Fatalf("GetIngredient: %v", err)
	}
	if updated.CostPerUnit.Cmp(unitCost) != 0 {
		t.Fatalf("expected cost_per_unit 40.00 after receive; got %s", updated.CostPerUnit)
	}

	// Issuing more than the balance fails with a typed error, leaves the
	// counter untouched and writes no entry.
	entriesBefore := countLedgerEntries(t, ctx, flour.ID)
	_, err = models.IssueStock(ctx, &models.NewStockOut{
		Items: []models.StockOutItem{{
			IngredientId: flour.ID,
			Quantity:     decimal.NewFromInt(20),
			Type:         models.InventoryTransactionTypeUsage,
		}},
		TransactionDate: time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC),
	})
	var insufficient *models.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError; got %v", err)
	}
	if insufficient.Ingredient != "Bread flour" {
		t.Fatalf("expected ingredient name in error; got %q", insufficient.Ingredient)
	}
	if insufficient.Available.Cmp(decimal.NewFromInt(15)) != 0 {
		t.Fatalf("expected available 15 in error; got %s", insufficient.Available)
	}
	if got := fetchStock(t, ctx, flour.ID); got.Cmp(decimal.NewFromInt(15)) != 0 {
		t.Fatalf("failed issue must not change stock; got %s", got)
	}
	if got := countLedgerEntries(t, ctx, flour.ID); got != entriesBefore {
		t.Fatalf("failed issue must not write entries; got %d want %d", got, entriesBefore)
	}

	// A valid issue decrements the counter.
	_, err = models.IssueStock(ctx, &models.NewStockOut{
		Items: []models.StockOutItem{{
			IngredientId: flour.ID,
			Quantity:     decimal.NewFromInt(3),
			Type:         models.InventoryTransactionTypeUsage,
		}},
		TransactionDate: time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("IssueStock: %v", err)
	}
	if got := fetchStock(t, ctx, flour.ID); got.Cmp(decimal.NewFromInt(12)) != 0 {
		t.Fatalf("expected stock 12 after issue; got %s", got)
	}
}

func TestStockAdjustment(t *testing.T) {
	setupIntegrationEnv(t)
	ctx := context.Background()

	sugar := mustCreateIngredient(t, ctx, "Caster sugar", "28.50", "15")

	// Counting the current balance books nothing.
	entriesBefore := countLedgerEntries(t, ctx, sugar.ID)
	transaction, err := models.AdjustStock(ctx, &models.NewStockAdjustment{
		IngredientId:    sugar.ID,
		ActualStock:     decimal.NewFromInt(15),
		TransactionDate: time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("AdjustStock(no-op): %v", err)
	}
	if transaction != nil {
		t.Fatalf("no-op adjustment must not create an entry; got %+v", transaction)
	}
	if got := countLedgerEntries(t, ctx, sugar.ID); got != entriesBefore {
		t.Fatalf("no-op adjustment wrote an entry")
	}

	// A shortfall books adjustment_out with the absolute difference and
	// sets the counter to the counted value.
	transaction, err = models.AdjustStock(ctx, &models.NewStockAdjustment{
		IngredientId:    sugar.ID,
		ActualStock:     decimal.NewFromInt(12),
		TransactionDate: time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC),
		Notes:           "monthly count",
	})
	if err != nil {
		t.Fatalf("AdjustStock(shortfall): %v", err)
	}
	if transaction.Type != models.InventoryTransactionTypeAdjustmentOut {
		t.Fatalf("expected adjustment_out; got %s", transaction.Type)
	}
	if transaction.Quantity.Cmp(decimal.NewFromInt(3)) != 0 {
		t.Fatalf("expected adjustment quantity 3; got %s", transaction.Quantity)
	}
	if got := fetchStock(t, ctx, sugar.ID); got.Cmp(decimal.NewFromInt(12)) != 0 {
		t.Fatalf("expected stock 12 after adjustment; got %s", got)
	}

	// An overage books adjustment_in.
	transaction, err = models.AdjustStock(ctx, &models.NewStockAdjustment{
		IngredientId:    sugar.ID,
		ActualStock:     decimal.RequireFromString("12.5"),
		TransactionDate: time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("AdjustStock(overage): %v", err)
	}
	if transaction.Type != models.InventoryTransactionTypeAdjustmentIn {
		t.Fatalf("expected adjustment_in; got %s", transaction.Type)
	}
	if transaction.Quantity.Cmp(decimal.RequireFromString("0.5")) != 0 {
		t.Fatalf("expected adjustment quantity 0.5; got %s", transaction.Quantity)
	}
}

func TestStockBatchAtomicity(t *testing.T) {
	setupIntegrationEnv(t)
	ctx := context.Background()

	butter := mustCreateIngredient(t, ctx, "Butter", "210.00", "8")
	yeast := mustCreateIngredient(t, ctx, "Dry yeast", "95.00", "2")

	butterEntries := countLedgerEntries(t, ctx, butter.ID)
	yeastEntries := countLedgerEntries(t, ctx, yeast.ID)

	// Second line exceeds yeast stock: the whole batch must roll back,
	// including the valid butter line.
	_, err := models.IssueStock(ctx, &models.NewStockOut{
		Items: []models.StockOutItem{
			{
				IngredientId: butter.ID,
				Quantity:     decimal.NewFromInt(1),
				Type:         models.InventoryTransactionTypeUsage,
			},
			{
				IngredientId: yeast.ID,
				Quantity:     decimal.NewFromInt(5),
				Type:         models.InventoryTransactionTypeUsage,
			},
		},
		TransactionDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
	})
	var insufficient *models.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError; got %v", err)
	}
	if insufficient.IngredientId != yeast.ID {
		t.Fatalf("expected failing ingredient %d; got %d", yeast.ID, insufficient.IngredientId)
	}

	if got := fetchStock(t, ctx, butter.ID); got.Cmp(decimal.NewFromInt(8)) != 0 {
		t.Fatalf("butter stock changed after failed batch; got %s", got)
	}
	if got := fetchStock(t, ctx, yeast.ID); got.Cmp(decimal.NewFromInt(2)) != 0 {
		t.Fatalf("yeast stock changed after failed batch; got %s", got)
	}
	if got := countLedgerEntries(t, ctx, butter.ID); got != butterEntries {
		t.Fatalf("failed batch wrote butter entries")
	}
	if got := countLedgerEntries(t, ctx, yeast.ID); got != yeastEntries {
		t.Fatalf("failed batch wrote yeast entries")
	}
}

func TestRebuildIngredientStock(t *testing.T) {
	setupIntegrationEnv(t)
	ctx := context.Background()

	salt := mustCreateIngredient(t, ctx, "Sea salt", "12.00", "20")
	_, err := models.IssueStock(ctx, &models.NewStockOut{
		Items: []models.StockOutItem{{
			IngredientId: salt.ID,
			Quantity:     decimal.NewFromInt(4),
			Type:         models.InventoryTransactionTypeWaste,
		}},
		TransactionDate: time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("IssueStock: %v", err)
	}

	// Corrupt the counter directly, then rebuild from the ledger.
	db := config.GetDB()
	err = db.WithContext(ctx).Model(&models.Ingredient{ID: salt.ID}).
		Update("CurrentStock", decimal.NewFromInt(99)).Error
	if err != nil {
		t.Fatalf("corrupt counter: %v", err)
	}

	before, after, err := models.RebuildIngredientStock(ctx, salt.ID)
	if err != nil {
		t.Fatalf("RebuildIngredientStock: %v", err)
	}
	if before.Cmp(decimal.NewFromInt(99)) != 0 {
		t.Fatalf("expected before=99; got %s", before)
	}
	if after.Cmp(decimal.NewFromInt(16)) != 0 {
		t.Fatalf("expected rebuilt counter 16; got %s", after)
	}
	if got := fetchStock(t, ctx, salt.ID); got.Cmp(decimal.NewFromInt(16)) != 0 {
		t.Fatalf("counter not persisted; got %s", got)
	}

	// The rebuilt counter must match the signed sum of the ledger.
	ledgerTotal, err := models.SumLedgerQuantity(ctx, salt.ID)
	if err != nil {
		t.Fatalf("SumLedgerQuantity: %v", err)
	}
	if ledgerTotal.Cmp(after) != 0 {
		t.Fatalf("ledger sum %s does not match rebuilt counter %s", ledgerTotal, after)
	}
}
