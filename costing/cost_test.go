package costing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func testIngredients() map[int]*IngredientInfo {
	return map[int]*IngredientInfo{
		1: {Name: "Flour", PurchaseUnit: "kg", CostPerUnit: decimal.NewFromInt(100)},
		2: {Name: "Milk", PurchaseUnit: "l", CostPerUnit: decimal.NewFromInt(40)},
		3: {Name: "Vanilla", PurchaseUnit: "bottle", CostPerUnit: decimal.NewFromInt(85)},
	}
}

func lookupFrom(m map[int]*IngredientInfo) IngredientLookup {
	return func(id int) (*IngredientInfo, error) {
		ing, ok := m[id]
		if !ok {
			return nil, ErrIngredientNotFound
		}
		return ing, nil
	}
}

func TestComputeTotalCost(t *testing.T) {
	r := NewResolver(testRules())
	lookup := lookupFrom(testIngredients())

	// 500 g of flour at 100/kg with g->kg 0.001 = 50,
	// plus labor 10, overhead 5, packaging 2 = 67
	lines := []Line{
		{IngredientId: 1, Quantity: decimal.NewFromInt(500), Unit: "g"},
	}
	total, warnings, err := ComputeTotalCost(r, lines, lookup,
		decimal.NewFromInt(10), decimal.NewFromInt(5), decimal.NewFromInt(2))
	if err != nil {
		t.Fatalf("ComputeTotalCost: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %+v", warnings)
	}
	if want := decimal.NewFromInt(67); !total.Equal(want) {
		t.Fatalf("total = %s, want %s", total, want)
	}
}

func TestComputeTotalCostOrderInvariant(t *testing.T) {
	r := NewResolver(testRules())
	lookup := lookupFrom(testIngredients())

	lines := []Line{
		{IngredientId: 1, Quantity: decimal.RequireFromString("333.3"), Unit: "g"},
		{IngredientId: 2, Quantity: decimal.RequireFromString("750"), Unit: "ml"},
		{IngredientId: 1, Quantity: decimal.RequireFromString("1.25"), Unit: "kg"},
	}
	reversed := []Line{lines[2], lines[1], lines[0]}

	a, _, err := ComputeTotalCost(r, lines, lookup, decimal.Zero, decimal.Zero, decimal.Zero)
	if err != nil {
		t.Fatalf("ComputeTotalCost: %v", err)
	}
	b, _, err := ComputeTotalCost(r, reversed, lookup, decimal.Zero, decimal.Zero, decimal.Zero)
	if err != nil {
		t.Fatalf("ComputeTotalCost reversed: %v", err)
	}
	if !a.Equal(b) {
		t.Fatalf("total depends on line order: %s vs %s", a, b)
	}
}

func TestComputeTotalCostIdentityFallback(t *testing.T) {
	r := NewResolver(testRules())
	lookup := lookupFrom(testIngredients())

	// "drop" of vanilla cannot be converted to "bottle": quantity is used
	// unconverted and the fallback is reported
	lines := []Line{
		{IngredientId: 3, Quantity: decimal.NewFromInt(2), Unit: "drop"},
	}
	total, warnings, err := ComputeTotalCost(r, lines, lookup,
		decimal.Zero, decimal.Zero, decimal.Zero)
	if err != nil {
		t.Fatalf("ComputeTotalCost: %v", err)
	}
	if want := decimal.NewFromInt(170); !total.Equal(want) {
		t.Fatalf("total = %s, want %s (2 * 85 unconverted)", total, want)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected exactly one fallback warning, got %+v", warnings)
	}
	w := warnings[0]
	if w.IngredientId != 3 || w.FromUnit != "drop" || w.ToUnit != "bottle" {
		t.Fatalf("unexpected warning contents: %+v", w)
	}
}

func TestComputeTotalCostUnknownIngredient(t *testing.T) {
	r := NewResolver(testRules())
	lookup := lookupFrom(testIngredients())

	lines := []Line{
		{IngredientId: 99, Quantity: decimal.NewFromInt(1), Unit: "kg"},
	}
	_, _, err := ComputeTotalCost(r, lines, lookup, decimal.Zero, decimal.Zero, decimal.Zero)
	if err != ErrIngredientNotFound {
		t.Fatalf("expected ErrIngredientNotFound, got %v", err)
	}
}

func TestComputeTotalCostRoundsOnceAtOutput(t *testing.T) {
	r := NewResolver(testRules())
	ingredients := map[int]*IngredientInfo{
		1: {Name: "Salt", PurchaseUnit: "kg", CostPerUnit: decimal.RequireFromString("37.05")},
	}
	lookup := lookupFrom(ingredients)

	// three lines of 100 g each cost 3.705 per line; rounding per line
	// would give 3.71 * 3 = 11.13 instead of round(11.115) = 11.12
	lines := []Line{
		{IngredientId: 1, Quantity: decimal.NewFromInt(100), Unit: "g"},
		{IngredientId: 1, Quantity: decimal.NewFromInt(100), Unit: "g"},
		{IngredientId: 1, Quantity: decimal.NewFromInt(100), Unit: "g"},
	}
	total, _, err := ComputeTotalCost(r, lines, lookup, decimal.Zero, decimal.Zero, decimal.Zero)
	if err != nil {
		t.Fatalf("ComputeTotalCost: %v", err)
	}
	if want := decimal.RequireFromString("11.12"); !total.Equal(want) {
		t.Fatalf("total = %s, want %s", total, want)
	}
}
