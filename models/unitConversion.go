package models

import (
	"context"
	"errors"
	"time"

	"github.com/khanomthai/bakery_backend/config"
	"github.com/khanomthai/bakery_backend/costing"
	"github.com/khanomthai/bakery_backend/utils"
	"github.com/shopspring/decimal"
)

// UnitConversion stores one directed conversion factor per convertible unit
// pair (from * factor = to). The resolver checks both directions, so the
// inverse row must never be inserted alongside the direct one.
type UnitConversion struct {
	ID        int             `gorm:"primary_key" json:"id"`
	FromUnit  string          `gorm:"size:20;not null;uniqueIndex:idx_unit_conversion_pair,priority:1" json:"from_unit" binding:"required"`
	ToUnit    string          `gorm:"size:20;not null;uniqueIndex:idx_unit_conversion_pair,priority:2" json:"to_unit" binding:"required"`
	Factor    decimal.Decimal `gorm:"type:decimal(20,10);not null" json:"factor" binding:"required"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUnitConversion struct {
	FromUnit string          `json:"from_unit" binding:"required"`
	ToUnit   string          `json:"to_unit" binding:"required"`
	Factor   decimal.Decimal `json:"factor" binding:"required"`
}

const conversionRuleCacheKey = "UnitConversion:all"

func (input *NewUnitConversion) validate(ctx context.Context, id int) error {
	from := costing.NormalizeUnit(input.FromUnit)
	to := costing.NormalizeUnit(input.ToUnit)

	if from == "" || to == "" {
		return errors.New("from unit and to unit are required")
	}
	if from == to {
		return errors.New("from unit and to unit must differ")
	}
	if !input.Factor.IsPositive() {
		return errors.New("factor must be greater than zero")
	}

	// one rule per unordered pair: reject both the duplicate and its inverse
	count, err := utils.ResourceCountWhere[UnitConversion](ctx,
		"((from_unit = ? AND to_unit = ?) OR (from_unit = ? AND to_unit = ?)) AND NOT id = ?",
		from, to, to, from, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("a conversion rule between these units already exists")
	}
	return nil
}

func CreateUnitConversion(ctx context.Context, input *NewUnitConversion) (*UnitConversion, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	rule := UnitConversion{
		FromUnit: costing.NormalizeUnit(input.FromUnit),
		ToUnit:   costing.NormalizeUnit(input.ToUnit),
		Factor:   input.Factor,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&rule).Error; err != nil {
		return nil, err
	}
	if err := config.RemoveRedisKey(conversionRuleCacheKey); err != nil {
		return nil, err
	}

	return &rule, nil
}

func UpdateUnitConversion(ctx context.Context, id int, input *NewUnitConversion) (*UnitConversion, error) {
	if _, err := utils.FetchModel[UnitConversion](ctx, id); err != nil {
		return nil, err
	}
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	update := UnitConversion{
		ID:       id,
		FromUnit: costing.NormalizeUnit(input.FromUnit),
		ToUnit:   costing.NormalizeUnit(input.ToUnit),
		Factor:   input.Factor,
	}

	db := config.GetDB()
	err := db.WithContext(ctx).Model(&update).Updates(map[string]interface{}{
		"FromUnit": update.FromUnit,
		"ToUnit":   update.ToUnit,
		"Factor":   update.Factor,
	}).Error
	if err != nil {
		return nil, err
	}
	if err := config.RemoveRedisKey(conversionRuleCacheKey); err != nil {
		return nil, err
	}

	return &update, nil
}

func DeleteUnitConversion(ctx context.Context, id int) (*UnitConversion, error) {
	result, err := utils.FetchModel[UnitConversion](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(result).Error; err != nil {
		return nil, err
	}
	if err := config.RemoveRedisKey(conversionRuleCacheKey); err != nil {
		return nil, err
	}

	return result, nil
}

func ListUnitConversions(ctx context.Context) ([]*UnitConversion, error) {
	db := config.GetDB()
	var rules []*UnitConversion
	if err := db.WithContext(ctx).Order("from_unit, to_unit").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// GetConversionRuleSource loads the whole rule table (redis first, then db)
// as a costing.RuleSource. The table is reference data a few dozen rows
// large; recipe costing resolves every line against it.
func GetConversionRuleSource(ctx context.Context) (costing.RuleSource, error) {
	var rules []*UnitConversion

	exists, err := config.GetRedisObject(conversionRuleCacheKey, &rules)
	if err != nil {
		return nil, err
	}
	if !exists {
		rules, err = utils.FetchAllModels[UnitConversion](ctx)
		if err != nil {
			return nil, err
		}
		if err := config.SetRedisObject(conversionRuleCacheKey, &rules, 0); err != nil {
			return nil, err
		}
	}

	source := make(costing.MapRuleSource, len(rules))
	for _, rule := range rules {
		source[rule.FromUnit+"|"+rule.ToUnit] = rule.Factor
	}
	return source, nil
}

// GetConversionResolver builds a resolver over the persisted rule table.
func GetConversionResolver(ctx context.Context) (*costing.Resolver, error) {
	source, err := GetConversionRuleSource(ctx)
	if err != nil {
		return nil, err
	}
	return costing.NewResolver(source), nil
}

// ConvertQuantity converts a quantity between two unit symbols using the
// persisted rule table. ok is false when no rule (direct or inverse) exists.
func ConvertQuantity(ctx context.Context, quantity decimal.Decimal, fromUnit, toUnit string) (decimal.Decimal, bool, error) {
	resolver, err := GetConversionResolver(ctx)
	if err != nil {
		return decimal.Zero, false, err
	}
	converted, ok := resolver.Convert(quantity, fromUnit, toUnit)
	return converted, ok, nil
}

// CanConvertUnits reports whether two unit symbols are convertible,
// for validation and selector UIs.
func CanConvertUnits(ctx context.Context, fromUnit, toUnit string) (bool, error) {
	resolver, err := GetConversionResolver(ctx)
	if err != nil {
		return false, err
	}
	return resolver.CanConvert(fromUnit, toUnit), nil
}
