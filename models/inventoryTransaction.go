package models

import (
	"context"
	"time"

	"github.com/khanomthai/bakery_backend/config"
	"github.com/shopspring/decimal"
)

// InventoryTransaction is one entry of the append-only stock ledger. Rows
// are never updated or deleted: every change to an ingredient's stock is a
// new entry, and current stock must always equal the signed sum of entries.
type InventoryTransaction struct {
	ID              int                      `gorm:"primary_key" json:"id"`
	IngredientId    int                      `gorm:"index;not null" json:"ingredient_id"`
	Type            InventoryTransactionType `gorm:"type:enum('purchase','usage','adjustment_in','adjustment_out','waste');not null" json:"type"`
	Quantity        decimal.Decimal          `gorm:"type:decimal(20,4);not null" json:"quantity"`
	UnitCost        decimal.Decimal          `gorm:"type:decimal(20,2);default:0" json:"unit_cost"`
	TransactionDate time.Time                `gorm:"index;not null" json:"transaction_date"`
	Notes           string                   `gorm:"type:text" json:"notes"`
	Ingredient      *Ingredient              `gorm:"foreignKey:IngredientId" json:"ingredient,omitempty"`
	CreatedAt       time.Time                `gorm:"autoCreateTime" json:"created_at"`
}

// SignedQuantity is the entry's effect on stock: positive for purchase and
// adjustment_in, negative for usage, waste and adjustment_out.
func (t *InventoryTransaction) SignedQuantity() decimal.Decimal {
	return t.Quantity.Mul(t.Type.SignedEffect())
}

type InventoryTransactionFilter struct {
	IngredientId int                       `form:"ingredient_id"`
	Type         *InventoryTransactionType `form:"type"`
	DateFrom     *time.Time                `form:"date_from" time_format:"2006-01-02"`
	DateTo       *time.Time                `form:"date_to" time_format:"2006-01-02"`
	Page         int                       `form:"page"`
	PageSize     int                       `form:"page_size"`
}

type InventoryTransactionPage struct {
	Transactions []*InventoryTransaction `json:"transactions"`
	Total        int64                   `json:"total"`
	Page         int                     `json:"page"`
	PageSize     int                     `json:"page_size"`
}

// PaginateInventoryTransactions lists ledger entries newest-first with the
// history screen's filters.
func PaginateInventoryTransactions(ctx context.Context, filter *InventoryTransactionFilter) (*InventoryTransactionPage, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&InventoryTransaction{})

	if filter.IngredientId > 0 {
		dbCtx = dbCtx.Where("ingredient_id = ?", filter.IngredientId)
	}
	if filter.Type != nil && *filter.Type != "" {
		dbCtx = dbCtx.Where("type = ?", *filter.Type)
	}
	if filter.DateFrom != nil {
		dbCtx = dbCtx.Where("DATE(transaction_date) >= DATE(?)", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		dbCtx = dbCtx.Where("DATE(transaction_date) <= DATE(?)", *filter.DateTo)
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	var transactions []*InventoryTransaction
	err := dbCtx.Preload("Ingredient").
		Order("transaction_date DESC, id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	return &InventoryTransactionPage{
		Transactions: transactions,
		Total:        total,
		Page:         page,
		PageSize:     pageSize,
	}, nil
}

// SumLedgerQuantity returns the signed sum of all ledger entries for an
// ingredient. With an opening stock of zero this is what current_stock must
// reconcile to.
func SumLedgerQuantity(ctx context.Context, ingredientId int) (decimal.Decimal, error) {
	db := config.GetDB()

	var total decimal.Decimal
	err := db.WithContext(ctx).Model(&InventoryTransaction{}).
		Where("ingredient_id = ?", ingredientId).
		Select(`COALESCE(SUM(CASE
			WHEN type IN ('purchase', 'adjustment_in') THEN quantity
			ELSE -quantity
		END), 0)`).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
