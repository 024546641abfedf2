package costing

import (
	"errors"

	"github.com/shopspring/decimal"
)

const (
	// MoneyPlaces is the scale money values are rounded to at output.
	MoneyPlaces int32 = 2
	// QuantityPlaces is the scale quantities are rounded to at output.
	QuantityPlaces int32 = 4
)

var ErrIngredientNotFound = errors.New("ingredient not found")

// Line is one row of a recipe's bill of materials.
type Line struct {
	IngredientId int
	Quantity     decimal.Decimal
	Unit         string
}

// IngredientInfo is what the aggregator needs to cost a line: the unit the
// ingredient's price is quoted in and the price per one of that unit.
type IngredientInfo struct {
	Name         string
	PurchaseUnit string
	CostPerUnit  decimal.Decimal
}

// IngredientLookup resolves an ingredient id. Returning ErrIngredientNotFound
// aborts the whole computation.
type IngredientLookup func(id int) (*IngredientInfo, error)

// ConversionWarning records a line that fell back to a 1:1 unit ratio
// because no conversion rule was known between its unit and the ingredient's
// purchase unit. The total still includes the unconverted quantity.
type ConversionWarning struct {
	IngredientId int    `json:"ingredient_id"`
	Ingredient   string `json:"ingredient"`
	FromUnit     string `json:"from_unit"`
	ToUnit       string `json:"to_unit"`
}

// ComputeTotalCost resolves each line's quantity into the ingredient's
// purchase unit, multiplies by the unit cost, sums the line costs and adds
// the fixed costs. Summation happens at full precision; the result is
// rounded once at output. Line order does not affect the result.
//
// Unconvertible units fall back to the raw quantity (treated as if the units
// matched) and are reported in the returned warnings so the caller can
// surface a possible costing error instead of hiding it.
func ComputeTotalCost(resolver *Resolver, lines []Line, lookup IngredientLookup,
	laborCost, overheadCost, packagingCost decimal.Decimal) (decimal.Decimal, []ConversionWarning, error) {

	var warnings []ConversionWarning

	ingredientCost := decimal.Zero
	for _, line := range lines {
		ingredient, err := lookup(line.IngredientId)
		if err != nil {
			return decimal.Zero, nil, err
		}
		if ingredient == nil {
			return decimal.Zero, nil, ErrIngredientNotFound
		}

		qty, ok := resolver.Convert(line.Quantity, line.Unit, ingredient.PurchaseUnit)
		if !ok {
			// identity fallback: keep producing a number rather than
			// rejecting the save, but tell the caller about it
			qty = line.Quantity
			warnings = append(warnings, ConversionWarning{
				IngredientId: line.IngredientId,
				Ingredient:   ingredient.Name,
				FromUnit:     NormalizeUnit(line.Unit),
				ToUnit:       NormalizeUnit(ingredient.PurchaseUnit),
			})
		}

		ingredientCost = ingredientCost.Add(qty.Mul(ingredient.CostPerUnit))
	}

	total := ingredientCost.
		Add(laborCost).
		Add(overheadCost).
		Add(packagingCost)

	return total.Round(MoneyPlaces), warnings, nil
}
