package reports

import (
	"context"
	"time"

	"github.com/khanomthai/bakery_backend/config"
	"github.com/khanomthai/bakery_backend/costing"
	"github.com/khanomthai/bakery_backend/models"
	"github.com/shopspring/decimal"
)

type StockDashboardResponse struct {
	IngredientCount    int                           `json:"ingredient_count"`
	LowStockCount      int                           `json:"low_stock_count"`
	TotalStockValue    decimal.Decimal               `json:"total_stock_value"`
	LowStockItems      []*StockValueRow              `json:"low_stock_items"`
	RecentTransactions []*models.InventoryTransaction `json:"recent_transactions"`
	MonthlyMovement    []*MonthlyMovementRow         `json:"monthly_movement"`
}

type MonthlyMovementRow struct {
	Month       string          `json:"month"`
	QuantityIn  decimal.Decimal `json:"quantity_in"`
	QuantityOut decimal.Decimal `json:"quantity_out"`
	ValueIn     decimal.Decimal `json:"value_in"`
	ValueOut    decimal.Decimal `json:"value_out"`
}

// GetStockDashboard assembles the landing-page numbers: headline counters,
// the low-stock list, the latest ledger entries and six months of in/out
// movement.
func GetStockDashboard(ctx context.Context) (*StockDashboardResponse, error) {

	db := config.GetDB()

	type counters struct {
		IngredientCount int
		LowStockCount   int
		TotalStockValue decimal.Decimal
	}
	countersSQL := `
SELECT
    COUNT(i.id) AS ingredient_count,
    COALESCE(SUM(CASE WHEN i.current_stock <= i.reorder_point THEN 1 ELSE 0 END), 0) AS low_stock_count,
    COALESCE(SUM(i.current_stock * i.cost_per_unit), 0) AS total_stock_value
FROM ingredients i;
`
	var c counters
	if err := db.WithContext(ctx).Raw(countersSQL).Scan(&c).Error; err != nil {
		return nil, err
	}

	lowStockItems, err := GetLowStockIngredients(ctx)
	if err != nil {
		return nil, err
	}

	var recent []*models.InventoryTransaction
	err = db.WithContext(ctx).Preload("Ingredient").
		Order("transaction_date DESC, id DESC").Limit(10).
		Find(&recent).Error
	if err != nil {
		return nil, err
	}

	sixMonthsAgo := time.Now().UTC().AddDate(0, -5, 0)
	monthStart := time.Date(sixMonthsAgo.Year(), sixMonthsAgo.Month(), 1, 0, 0, 0, 0, time.UTC)

	movementSQL := `
SELECT
    DATE_FORMAT(t.transaction_date, '%Y-%m') AS month,
    COALESCE(SUM(CASE WHEN t.type IN ('purchase', 'adjustment_in') THEN t.quantity ELSE 0 END), 0) AS quantity_in,
    COALESCE(SUM(CASE WHEN t.type IN ('usage', 'adjustment_out', 'waste') THEN t.quantity ELSE 0 END), 0) AS quantity_out,
    COALESCE(SUM(CASE WHEN t.type IN ('purchase', 'adjustment_in') THEN t.quantity * t.unit_cost ELSE 0 END), 0) AS value_in,
    COALESCE(SUM(CASE WHEN t.type IN ('usage', 'adjustment_out', 'waste') THEN t.quantity * t.unit_cost ELSE 0 END), 0) AS value_out
FROM inventory_transactions t
WHERE t.transaction_date >= ?
GROUP BY DATE_FORMAT(t.transaction_date, '%Y-%m')
ORDER BY month;
`
	var movement []*MonthlyMovementRow
	if err := db.WithContext(ctx).Raw(movementSQL, monthStart).Scan(&movement).Error; err != nil {
		return nil, err
	}

	return &StockDashboardResponse{
		IngredientCount:    c.IngredientCount,
		LowStockCount:      c.LowStockCount,
		TotalStockValue:    c.TotalStockValue.Round(costing.MoneyPlaces),
		LowStockItems:      lowStockItems,
		RecentTransactions: recent,
		MonthlyMovement:    movement,
	}, nil
}
