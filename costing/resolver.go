// Package costing holds the unit conversion resolver and the recipe cost
// aggregator. Both are pure: storage access goes through injected lookups so
// the math is testable without a live database.
package costing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RuleSource resolves a directed conversion factor between two normalized
// unit symbols. The table stores only one direction per convertible pair;
// the resolver checks both directions before giving up.
type RuleSource interface {
	Factor(fromUnit, toUnit string) (decimal.Decimal, bool)
}

// MapRuleSource is an in-memory RuleSource keyed by "from|to".
type MapRuleSource map[string]decimal.Decimal

func (m MapRuleSource) Factor(fromUnit, toUnit string) (decimal.Decimal, bool) {
	f, ok := m[fromUnit+"|"+toUnit]
	return f, ok
}

// NormalizeUnit canonicalizes a unit symbol for lookup. Symbols are
// case-insensitive ("KG" and "kg" are the same unit).
func NormalizeUnit(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}

type Resolver struct {
	rules RuleSource
}

func NewResolver(rules RuleSource) *Resolver {
	return &Resolver{rules: rules}
}

// Convert converts quantity from one unit to another. The second return
// value reports whether a conversion was known; callers decide the fallback
// policy when it is false.
func (r *Resolver) Convert(quantity decimal.Decimal, fromUnit, toUnit string) (decimal.Decimal, bool) {
	from := NormalizeUnit(fromUnit)
	to := NormalizeUnit(toUnit)

	if from == to {
		return quantity, true
	}

	if factor, ok := r.rules.Factor(from, to); ok {
		return quantity.Mul(factor), true
	}

	// only one direction is stored per pair; try the inverse
	if factor, ok := r.rules.Factor(to, from); ok {
		return quantity.Div(factor), true
	}

	return decimal.Zero, false
}

// CanConvert mirrors Convert's identity/direct/inverse lookup without
// performing the arithmetic.
func (r *Resolver) CanConvert(fromUnit, toUnit string) bool {
	from := NormalizeUnit(fromUnit)
	to := NormalizeUnit(toUnit)

	if from == to {
		return true
	}
	if _, ok := r.rules.Factor(from, to); ok {
		return true
	}
	_, ok := r.rules.Factor(to, from)
	return ok
}
