package models

import (
	"context"
	"errors"
	"time"

	"github.com/khanomthai/bakery_backend/config"
	"github.com/khanomthai/bakery_backend/utils"
	"github.com/shopspring/decimal"
)

// Ingredient tracks stock in its purchase unit: CurrentStock and
// ReorderPoint are quantities of PurchaseUnit, and CostPerUnit is the price
// of one PurchaseUnit. CurrentStock is only ever changed through the
// inventory ledger operations in stock.go.
type Ingredient struct {
	ID           int             `gorm:"primary_key" json:"id"`
	SupplierId   int             `gorm:"index" json:"supplier_id"`
	Name         string          `gorm:"size:255;not null" json:"name" binding:"required"`
	PurchaseUnit string          `gorm:"size:50;not null" json:"purchase_unit" binding:"required"`
	CostPerUnit  decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"cost_per_unit"`
	CurrentStock decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"current_stock"`
	ReorderPoint decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"reorder_point"`
	Supplier     *Supplier       `gorm:"foreignKey:SupplierId" json:"supplier,omitempty"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewIngredient struct {
	SupplierId   int             `json:"supplier_id"`
	Name         string          `json:"name" binding:"required"`
	PurchaseUnit string          `json:"purchase_unit" binding:"required"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
}

// StockStatus derives the dashboard badge from the reorder point.
func (i *Ingredient) StockStatus() StockStatus {
	if i.CurrentStock.LessThanOrEqual(i.ReorderPoint) {
		return StockStatusLow
	}
	if i.CurrentStock.LessThanOrEqual(i.ReorderPoint.Mul(decimal.NewFromInt(2))) {
		return StockStatusMedium
	}
	return StockStatusNormal
}

// validate input for both create & update. (id = 0 for create)
func (input *NewIngredient) validate(ctx context.Context, id int) error {
	if err := utils.ValidateUnique[Ingredient](ctx, "name", input.Name, id); err != nil {
		return err
	}
	if input.SupplierId > 0 {
		if err := utils.ValidateResourceId[Supplier](ctx, input.SupplierId); err != nil {
			return errors.New("supplier not found")
		}
	}
	if input.CostPerUnit.IsNegative() {
		return errors.New("cost per unit cannot be negative")
	}
	if input.ReorderPoint.IsNegative() {
		return errors.New("reorder point cannot be negative")
	}
	return nil
}

func CreateIngredient(ctx context.Context, input *NewIngredient) (*Ingredient, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	ingredient := Ingredient{
		SupplierId:   input.SupplierId,
		Name:         input.Name,
		PurchaseUnit: input.PurchaseUnit,
		CostPerUnit:  input.CostPerUnit,
		ReorderPoint: input.ReorderPoint,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&ingredient).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func UpdateIngredient(ctx context.Context, id int, input *NewIngredient) (*Ingredient, error) {
	if _, err := utils.FetchModel[Ingredient](ctx, id); err != nil {
		return nil, err
	}
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	update := Ingredient{ID: id}
	db := config.GetDB()
	// CurrentStock deliberately not updatable here; use the stock operations
	err := db.WithContext(ctx).Model(&update).Updates(map[string]interface{}{
		"SupplierId":   input.SupplierId,
		"Name":         input.Name,
		"PurchaseUnit": input.PurchaseUnit,
		"CostPerUnit":  input.CostPerUnit,
		"ReorderPoint": input.ReorderPoint,
	}).Error
	if err != nil {
		return nil, err
	}

	return utils.FetchModel[Ingredient](ctx, id)
}

func DeleteIngredient(ctx context.Context, id int) (*Ingredient, error) {
	result, err := utils.FetchModel[Ingredient](ctx, id)
	if err != nil {
		return nil, err
	}

	// ingredients referenced by recipes or ledger entries must stay
	count, err := utils.ResourceCountWhere[RecipeIngredient](ctx, "ingredient_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("cannot delete ingredient used in recipes")
	}
	count, err = utils.ResourceCountWhere[InventoryTransaction](ctx, "ingredient_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("cannot delete ingredient with inventory transactions")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func GetIngredient(ctx context.Context, id int) (*Ingredient, error) {
	return utils.FetchModel[Ingredient](ctx, id, "Supplier")
}

func ListIngredients(ctx context.Context) ([]*Ingredient, error) {
	db := config.GetDB()
	var ingredients []*Ingredient
	if err := db.WithContext(ctx).Preload("Supplier").Order("name").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}
