package models_test

import (
	"context"
	"testing"
	"time"

	"github.com/khanomthai/bakery_backend/models"
	"github.com/khanomthai/bakery_backend/utils"
	"github.com/shopspring/decimal"
)

func TestFinancialTransactionsAndSummary(t *testing.T) {
	setupIntegrationEnv(t)
	ctx := context.Background()

	sales, err := models.CreateFinancialCategory(ctx, &models.NewFinancialCategory{
		Name: "Sales",
		Type: models.FinancialTransactionTypeIncome,
	})
	if err != nil {
		t.Fatalf("CreateFinancialCategory(sales): %v", err)
	}
	rent, err := models.CreateFinancialCategory(ctx, &models.NewFinancialCategory{
		Name: "Rent",
		Type: models.FinancialTransactionTypeExpense,
	})
	if err != nil {
		t.Fatalf("CreateFinancialCategory(rent): %v", err)
	}

	// A transaction must match its category's type.
	_, err = models.CreateFinancialTransaction(ctx, &models.NewFinancialTransaction{
		CategoryId:      sales.ID,
		Type:            models.FinancialTransactionTypeExpense,
		Amount:          decimal.NewFromInt(100),
		Description:     "mismatched",
		TransactionDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	if err == nil || err.Error() != "category type does not match transaction type" {
		t.Fatalf("expected category type mismatch error; got %v", err)
	}

	entries := []struct {
		categoryId int
		entryType  models.FinancialTransactionType
		amount     string
		desc       string
	}{
		{sales.ID, models.FinancialTransactionTypeIncome, "1500.00", "morning sales"},
		{sales.ID, models.FinancialTransactionTypeIncome, "2200.50", "afternoon sales"},
		{rent.ID, models.FinancialTransactionTypeExpense, "800.00", "shop rent"},
	}
	for _, e := range entries {
		_, err := models.CreateFinancialTransaction(ctx, &models.NewFinancialTransaction{
			CategoryId:      e.categoryId,
			Type:            e.entryType,
			Amount:          decimal.RequireFromString(e.amount),
			Description:     e.desc,
			TransactionDate: time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC),
			PaymentMethod:   models.PaymentMethodCash,
		})
		if err != nil {
			t.Fatalf("CreateFinancialTransaction(%s): %v", e.desc, err)
		}
	}

	page, err := models.PaginateFinancialTransactions(ctx, &models.FinancialTransactionFilter{})
	if err != nil {
		t.Fatalf("PaginateFinancialTransactions: %v", err)
	}
	if page.Total != 3 {
		t.Fatalf("expected 3 transactions; got %d", page.Total)
	}
	if page.Summary.TotalIncome.Cmp(decimal.RequireFromString("3700.50")) != 0 {
		t.Fatalf("expected total income 3700.50; got %s", page.Summary.TotalIncome)
	}
	if page.Summary.TotalExpense.Cmp(decimal.RequireFromString("800.00")) != 0 {
		t.Fatalf("expected total expense 800.00; got %s", page.Summary.TotalExpense)
	}
	if page.Summary.Balance.Cmp(decimal.RequireFromString("2900.50")) != 0 {
		t.Fatalf("expected balance 2900.50; got %s", page.Summary.Balance)
	}

	// Category with booked entries cannot be deleted.
	if _, err := models.DeleteFinancialCategory(ctx, rent.ID); err == nil {
		t.Fatalf("expected delete of category with transactions to fail")
	}

	// Type filter narrows the page but not the summary.
	income := models.FinancialTransactionTypeIncome
	page, err = models.PaginateFinancialTransactions(ctx, &models.FinancialTransactionFilter{Type: &income})
	if err != nil {
		t.Fatalf("PaginateFinancialTransactions(income): %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected 2 income transactions; got %d", page.Total)
	}
	if page.Summary.TotalExpense.Cmp(decimal.RequireFromString("800.00")) != 0 {
		t.Fatalf("summary must ignore the type filter; got expense %s", page.Summary.TotalExpense)
	}

	// Inactive categories are hidden from the active-only listing but still
	// present in the full one.
	retired, err := models.CreateFinancialCategory(ctx, &models.NewFinancialCategory{
		Name:     "Old loans",
		Type:     models.FinancialTransactionTypeExpense,
		IsActive: utils.NewFalse(),
	})
	if err != nil {
		t.Fatalf("CreateFinancialCategory(retired): %v", err)
	}

	active, err := models.ListFinancialCategories(ctx, true)
	if err != nil {
		t.Fatalf("ListFinancialCategories(active): %v", err)
	}
	for _, c := range active {
		if c.ID == retired.ID {
			t.Fatalf("inactive category leaked into active-only listing")
		}
	}

	all, err := models.ListFinancialCategories(ctx, false)
	if err != nil {
		t.Fatalf("ListFinancialCategories(all): %v", err)
	}
	found := false
	for _, c := range all {
		if c.ID == retired.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("inactive category missing from full listing")
	}
}
