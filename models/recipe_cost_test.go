package models_test

import (
	"context"
	"testing"

	"github.com/khanomthai/bakery_backend/models"
	"github.com/shopspring/decimal"
)

func TestRecipeCostWithConversions(t *testing.T) {
	setupIntegrationEnv(t)
	ctx := context.Background()

	if err := models.SeedUnitConversions(ctx); err != nil {
		t.Fatalf("SeedUnitConversions: %v", err)
	}

	flour, err := models.CreateIngredient(ctx, &models.NewIngredient{
		Name:         "Cake flour",
		PurchaseUnit: "kg",
		CostPerUnit:  decimal.RequireFromString("100.00"),
	})
	if err != nil {
		t.Fatalf("CreateIngredient(flour): %v", err)
	}
	vanilla, err := models.CreateIngredient(ctx, &models.NewIngredient{
		Name:         "Vanilla extract",
		PurchaseUnit: "bottle",
		CostPerUnit:  decimal.RequireFromString("85.00"),
	})
	if err != nil {
		t.Fatalf("CreateIngredient(vanilla): %v", err)
	}

	// 500 g of flour at 100/kg = 50; vanilla has no drop->bottle rule so its
	// 2 "drop" lines fall back to the identity conversion (2 * 85 = 170)
	// and must be flagged.
	recipe, warnings, err := models.CreateRecipe(ctx, &models.NewRecipe{
		Name:          "Pound cake",
		YieldQuantity: decimal.NewFromInt(1),
		YieldUnit:     "loaf",
		LaborCost:     decimal.NewFromInt(10),
		OverheadCost:  decimal.NewFromInt(5),
		PackagingCost: decimal.NewFromInt(2),
		Ingredients: []*models.NewRecipeIngredient{
			{IngredientId: flour.ID, Quantity: decimal.NewFromInt(500), Unit: "g"},
			{IngredientId: vanilla.ID, Quantity: decimal.NewFromInt(2), Unit: "drop"},
		},
		Steps: []*models.NewRecipeStep{
			{StepNumber: 1, Instruction: "Cream butter and sugar."},
			{StepNumber: 2, Instruction: "Fold in flour, bake at 170C."},
		},
	})
	if err != nil {
		t.Fatalf("CreateRecipe: %v", err)
	}

	want := decimal.RequireFromString("237.00") // 50 + 170 + 10 + 5 + 2
	if recipe.TotalCost.Cmp(want) != 0 {
		t.Fatalf("expected total cost %s; got %s", want, recipe.TotalCost)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 conversion warning; got %d", len(warnings))
	}
	if warnings[0].IngredientId != vanilla.ID || warnings[0].FromUnit != "drop" {
		t.Fatalf("unexpected warning: %+v", warnings[0])
	}
	if len(recipe.Ingredients) != 2 || len(recipe.Steps) != 2 {
		t.Fatalf("expected 2 lines and 2 steps; got %d/%d", len(recipe.Ingredients), len(recipe.Steps))
	}

	// Update replaces lines wholesale and recomputes the stored total.
	updated, warnings, err := models.UpdateRecipe(ctx, recipe.ID, &models.NewRecipe{
		Name:          "Pound cake",
		YieldQuantity: decimal.NewFromInt(1),
		YieldUnit:     "loaf",
		LaborCost:     decimal.NewFromInt(10),
		Ingredients: []*models.NewRecipeIngredient{
			{IngredientId: flour.ID, Quantity: decimal.NewFromInt(250), Unit: "g"},
		},
		Steps: []*models.NewRecipeStep{
			{StepNumber: 1, Instruction: "Half batch."},
		},
	})
	if err != nil {
		t.Fatalf("UpdateRecipe: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings after update; got %d", len(warnings))
	}
	want = decimal.RequireFromString("35.00") // 25 + 10
	if updated.TotalCost.Cmp(want) != 0 {
		t.Fatalf("expected total cost %s after update; got %s", want, updated.TotalCost)
	}
	if len(updated.Ingredients) != 1 || len(updated.Steps) != 1 {
		t.Fatalf("lines not replaced wholesale; got %d/%d", len(updated.Ingredients), len(updated.Steps))
	}

	// Price change followed by recompute refreshes the stored total.
	_, err = models.UpdateIngredient(ctx, flour.ID, &models.NewIngredient{
		Name:         "Cake flour",
		PurchaseUnit: "kg",
		CostPerUnit:  decimal.RequireFromString("120.00"),
	})
	if err != nil {
		t.Fatalf("UpdateIngredient: %v", err)
	}
	recomputed, _, err := models.RecomputeRecipeCost(ctx, recipe.ID)
	if err != nil {
		t.Fatalf("RecomputeRecipeCost: %v", err)
	}
	want = decimal.RequireFromString("40.00") // 30 + 10
	if recomputed.TotalCost.Cmp(want) != 0 {
		t.Fatalf("expected total cost %s after recompute; got %s", want, recomputed.TotalCost)
	}
}

func TestConversionRuleCacheInvalidation(t *testing.T) {
	setupIntegrationEnv(t)
	ctx := context.Background()

	// No rule yet: not convertible.
	_, ok, err := models.ConvertQuantity(ctx, decimal.NewFromInt(500), "g", "kg")
	if err != nil {
		t.Fatalf("ConvertQuantity: %v", err)
	}
	if ok {
		t.Fatalf("expected g->kg to be unconvertible before seeding")
	}

	rule, err := models.CreateUnitConversion(ctx, &models.NewUnitConversion{
		FromUnit: "g",
		ToUnit:   "kg",
		Factor:   decimal.RequireFromString("0.001"),
	})
	if err != nil {
		t.Fatalf("CreateUnitConversion: %v", err)
	}

	// Creating the rule must invalidate the cached rule set.
	converted, ok, err := models.ConvertQuantity(ctx, decimal.NewFromInt(500), "g", "kg")
	if err != nil {
		t.Fatalf("ConvertQuantity: %v", err)
	}
	if !ok || converted.Cmp(decimal.RequireFromString("0.5")) != 0 {
		t.Fatalf("expected 500 g = 0.5 kg; got ok=%v %s", ok, converted)
	}

	// The inverse direction divides by the same rule.
	converted, ok, err = models.ConvertQuantity(ctx, decimal.NewFromInt(2), "kg", "g")
	if err != nil {
		t.Fatalf("ConvertQuantity: %v", err)
	}
	if !ok || converted.Cmp(decimal.NewFromInt(2000)) != 0 {
		t.Fatalf("expected 2 kg = 2000 g; got ok=%v %s", ok, converted)
	}

	// Deleting the rule drops the pair again.
	if _, err := models.DeleteUnitConversion(ctx, rule.ID); err != nil {
		t.Fatalf("DeleteUnitConversion: %v", err)
	}
	_, ok, err = models.ConvertQuantity(ctx, decimal.NewFromInt(500), "g", "kg")
	if err != nil {
		t.Fatalf("ConvertQuantity: %v", err)
	}
	if ok {
		t.Fatalf("expected g->kg to be unconvertible after delete")
	}
}
