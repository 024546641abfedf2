package reports

import (
	"context"
	"errors"

	"github.com/khanomthai/bakery_backend/config"
	"github.com/khanomthai/bakery_backend/costing"
	"github.com/khanomthai/bakery_backend/models"
	"github.com/shopspring/decimal"
)

type StockValueRow struct {
	IngredientId int                `json:"ingredient_id"`
	Ingredient   string             `json:"ingredient"`
	Supplier     string             `json:"supplier"`
	PurchaseUnit string             `json:"purchase_unit"`
	CurrentStock decimal.Decimal    `json:"current_stock"`
	ReorderPoint decimal.Decimal    `json:"reorder_point"`
	CostPerUnit  decimal.Decimal    `json:"cost_per_unit"`
	StockValue   decimal.Decimal    `json:"stock_value"`
	StockStatus  models.StockStatus `json:"stock_status"`
}

type SupplierStockRow struct {
	SupplierId      int             `json:"supplier_id"`
	Supplier        string          `json:"supplier"`
	IngredientCount int             `json:"ingredient_count"`
	StockValue      decimal.Decimal `json:"stock_value"`
}

type MovementSummaryRow struct {
	Type          models.InventoryTransactionType `json:"type"`
	EntryCount    int                             `json:"entry_count"`
	TotalQuantity decimal.Decimal                 `json:"total_quantity"`
	TotalValue    decimal.Decimal                 `json:"total_value"`
}

type StockReportResponse struct {
	Rows            []*StockValueRow      `json:"rows"`
	BySupplier      []*SupplierStockRow   `json:"by_supplier"`
	MovementSummary []*MovementSummaryRow `json:"movement_summary"`
	TotalStockValue decimal.Decimal       `json:"total_stock_value"`
}

// GetStockReport builds the valuation report: per-ingredient stock value,
// the supplier rollup, and a movement summary by entry type over the
// requested window. Stock value is current_stock * cost_per_unit summed at
// full precision and rounded once.
func GetStockReport(ctx context.Context, fromDate, toDate models.MyDateString) (*StockReportResponse, error) {

	if err := fromDate.StartOfDayUTCTime(); err != nil {
		return nil, err
	}
	if err := toDate.EndOfDayUTCTime(); err != nil {
		return nil, err
	}
	if toDate.Time().Before(fromDate.Time()) {
		return nil, errors.New("to date must not be before from date")
	}

	db := config.GetDB()

	rowsSQL := `
SELECT
    i.id AS ingredient_id,
    i.name AS ingredient,
    COALESCE(s.name, '') AS supplier,
    i.purchase_unit,
    i.current_stock,
    i.reorder_point,
    i.cost_per_unit,
    i.current_stock * i.cost_per_unit AS stock_value,
    CASE
        WHEN i.current_stock <= i.reorder_point THEN 'low'
        WHEN i.current_stock <= i.reorder_point * 2 THEN 'medium'
        ELSE 'normal'
    END AS stock_status
FROM ingredients i
LEFT JOIN suppliers s ON s.id = i.supplier_id
ORDER BY i.name;
`
	var rows []*StockValueRow
	if err := db.WithContext(ctx).Raw(rowsSQL).Scan(&rows).Error; err != nil {
		return nil, err
	}

	supplierSQL := `
SELECT
    s.id AS supplier_id,
    s.name AS supplier,
    COUNT(i.id) AS ingredient_count,
    COALESCE(SUM(i.current_stock * i.cost_per_unit), 0) AS stock_value
FROM suppliers s
LEFT JOIN ingredients i ON i.supplier_id = s.id
GROUP BY s.id, s.name
ORDER BY stock_value DESC;
`
	var bySupplier []*SupplierStockRow
	if err := db.WithContext(ctx).Raw(supplierSQL).Scan(&bySupplier).Error; err != nil {
		return nil, err
	}

	movementSQL := `
SELECT
    t.type,
    COUNT(t.id) AS entry_count,
    COALESCE(SUM(t.quantity), 0) AS total_quantity,
    COALESCE(SUM(t.quantity * t.unit_cost), 0) AS total_value
FROM inventory_transactions t
WHERE t.transaction_date BETWEEN ? AND ?
GROUP BY t.type
ORDER BY t.type;
`
	var movementSummary []*MovementSummaryRow
	err := db.WithContext(ctx).Raw(movementSQL, fromDate.Time(), toDate.Time()).
		Scan(&movementSummary).Error
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.StockValue)
	}

	return &StockReportResponse{
		Rows:            rows,
		BySupplier:      bySupplier,
		MovementSummary: movementSummary,
		TotalStockValue: total.Round(costing.MoneyPlaces),
	}, nil
}

// GetLowStockIngredients lists ingredients at or below their reorder point,
// most urgent first.
func GetLowStockIngredients(ctx context.Context) ([]*StockValueRow, error) {

	sql := `
SELECT
    i.id AS ingredient_id,
    i.name AS ingredient,
    COALESCE(s.name, '') AS supplier,
    i.purchase_unit,
    i.current_stock,
    i.reorder_point,
    i.cost_per_unit,
    i.current_stock * i.cost_per_unit AS stock_value,
    CASE
        WHEN i.current_stock <= i.reorder_point THEN 'low'
        WHEN i.current_stock <= i.reorder_point * 2 THEN 'medium'
        ELSE 'normal'
    END AS stock_status
FROM ingredients i
LEFT JOIN suppliers s ON s.id = i.supplier_id
WHERE i.current_stock <= i.reorder_point
ORDER BY i.current_stock / NULLIF(i.reorder_point, 0) ASC, i.name;
`
	var rows []*StockValueRow
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
