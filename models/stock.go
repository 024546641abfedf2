package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bsm/redislock"
	"github.com/khanomthai/bakery_backend/config"
	"github.com/khanomthai/bakery_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Stock ledger operations. Each batch is one database transaction: every
// ledger entry is written together with its stock counter change, and a
// failing line rolls back the whole batch.

// InsufficientStockError carries the ingredient identity and the balance at
// the time of the attempt so callers can present an actionable message.
type InsufficientStockError struct {
	IngredientId int             `json:"ingredient_id"`
	Ingredient   string          `json:"ingredient"`
	Requested    decimal.Decimal `json:"requested"`
	Available    decimal.Decimal `json:"available"`
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (requested: %s, available: %s)",
		e.Ingredient, e.Requested, e.Available)
}

type StockInItem struct {
	IngredientId int              `json:"ingredient_id" binding:"required"`
	Quantity     decimal.Decimal  `json:"quantity" binding:"required"`
	UnitCost     *decimal.Decimal `json:"unit_cost"`
	Notes        string           `json:"notes"`
}

type NewStockIn struct {
	Items           []StockInItem `json:"items" binding:"required,min=1,dive"`
	TransactionDate time.Time     `json:"transaction_date" binding:"required"`
	ReferenceNumber string        `json:"reference_number"`
	SupplierId      int           `json:"supplier_id"`
}

type StockOutItem struct {
	IngredientId int                      `json:"ingredient_id" binding:"required"`
	Quantity     decimal.Decimal          `json:"quantity" binding:"required"`
	Type         InventoryTransactionType `json:"type" binding:"required"`
	Notes        string                   `json:"notes"`
}

type NewStockOut struct {
	Items           []StockOutItem `json:"items" binding:"required,min=1,dive"`
	TransactionDate time.Time      `json:"transaction_date" binding:"required"`
}

type NewStockAdjustment struct {
	IngredientId    int             `json:"ingredient_id" binding:"required"`
	ActualStock     decimal.Decimal `json:"actual_stock"`
	TransactionDate time.Time       `json:"transaction_date" binding:"required"`
	Notes           string          `json:"notes"`
}

// lockIngredients obtains best-effort redis locks for the ingredient ids.
// The SELECT ... FOR UPDATE inside the transaction is the real guard against
// lost counter updates; the redis lock just reduces contention between
// concurrent batch submissions.
func lockIngredients(ctx context.Context, ingredientIds []int) func() {
	redisLock := config.GetRedisLock()
	if redisLock == nil {
		return func() {}
	}

	var locks []*redislock.Lock
	for _, id := range utils.UniqueSlice(ingredientIds) {
		lock, err := redisLock.Obtain(ctx, fmt.Sprintf("lock:ingredient:%d", id), 30*time.Second, nil)
		if err != nil {
			continue
		}
		locks = append(locks, lock)
	}
	return func() {
		for _, lock := range locks {
			_ = lock.Release(ctx)
		}
	}
}

// fetchIngredientForUpdate loads an ingredient row with a row-level lock
// held until the surrounding transaction ends.
func fetchIngredientForUpdate(tx *gorm.DB, ctx context.Context, id int) (*Ingredient, error) {
	var ingredient Ingredient
	err := tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&ingredient, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("ingredient not found")
		}
		return nil, err
	}
	return &ingredient, nil
}

// ReceiveStock books a purchase for every line: one ledger entry plus a
// stock increment, and a cost_per_unit overwrite when the line carries an
// observed unit cost (last write wins). All lines commit or none do.
func ReceiveStock(ctx context.Context, input *NewStockIn) ([]*InventoryTransaction, error) {
	ingredientIds := make([]int, 0, len(input.Items))
	for _, item := range input.Items {
		if !item.Quantity.IsPositive() {
			return nil, ErrInvalidQuantity
		}
		if item.UnitCost != nil && item.UnitCost.IsNegative() {
			return nil, errors.New("unit cost cannot be negative")
		}
		ingredientIds = append(ingredientIds, item.IngredientId)
	}
	if input.SupplierId > 0 {
		if err := utils.ValidateResourceId[Supplier](ctx, input.SupplierId); err != nil {
			return nil, errors.New("supplier not found")
		}
	}

	release := lockIngredients(ctx, ingredientIds)
	defer release()

	db := config.GetDB()
	tx := db.Begin()

	transactions := make([]*InventoryTransaction, 0, len(input.Items))
	for _, item := range input.Items {
		ingredient, err := fetchIngredientForUpdate(tx, ctx, item.IngredientId)
		if err != nil {
			tx.Rollback()
			return nil, err
		}

		unitCost := ingredient.CostPerUnit
		if item.UnitCost != nil {
			unitCost = *item.UnitCost
		}

		transaction := InventoryTransaction{
			IngredientId:    item.IngredientId,
			Type:            InventoryTransactionTypePurchase,
			Quantity:        item.Quantity,
			UnitCost:        unitCost,
			TransactionDate: input.TransactionDate,
			Notes:           strings.TrimSpace(input.ReferenceNumber + " " + item.Notes),
		}
		if err := tx.WithContext(ctx).Create(&transaction).Error; err != nil {
			tx.Rollback()
			return nil, err
		}

		updates := map[string]interface{}{
			"CurrentStock": ingredient.CurrentStock.Add(item.Quantity),
		}
		if cost := utils.DereferencePtr(item.UnitCost); cost.IsPositive() {
			updates["CostPerUnit"] = cost
		}
		if err := tx.WithContext(ctx).Model(ingredient).Updates(updates).Error; err != nil {
			tx.Rollback()
			return nil, err
		}

		transactions = append(transactions, &transaction)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// IssueStock removes stock for usage, waste or manual write-down lines. A
// line whose quantity exceeds the ingredient's balance aborts the whole
// batch with InsufficientStockError; quantities are never clamped.
func IssueStock(ctx context.Context, input *NewStockOut) ([]*InventoryTransaction, error) {
	ingredientIds := make([]int, 0, len(input.Items))
	for _, item := range input.Items {
		if !item.Quantity.IsPositive() {
			return nil, ErrInvalidQuantity
		}
		if !item.Type.IsOutgoing() {
			return nil, errors.New("invalid stock out transaction type")
		}
		ingredientIds = append(ingredientIds, item.IngredientId)
	}

	release := lockIngredients(ctx, ingredientIds)
	defer release()

	db := config.GetDB()
	tx := db.Begin()

	transactions := make([]*InventoryTransaction, 0, len(input.Items))
	for _, item := range input.Items {
		ingredient, err := fetchIngredientForUpdate(tx, ctx, item.IngredientId)
		if err != nil {
			tx.Rollback()
			return nil, err
		}

		if ingredient.CurrentStock.LessThan(item.Quantity) {
			tx.Rollback()
			return nil, &InsufficientStockError{
				IngredientId: ingredient.ID,
				Ingredient:   ingredient.Name,
				Requested:    item.Quantity,
				Available:    ingredient.CurrentStock,
			}
		}

		transaction := InventoryTransaction{
			IngredientId:    item.IngredientId,
			Type:            item.Type,
			Quantity:        item.Quantity,
			UnitCost:        ingredient.CostPerUnit,
			TransactionDate: input.TransactionDate,
			Notes:           item.Notes,
		}
		if err := tx.WithContext(ctx).Create(&transaction).Error; err != nil {
			tx.Rollback()
			return nil, err
		}

		err = tx.WithContext(ctx).Model(ingredient).
			Update("CurrentStock", ingredient.CurrentStock.Sub(item.Quantity)).Error
		if err != nil {
			tx.Rollback()
			return nil, err
		}

		transactions = append(transactions, &transaction)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// AdjustStock records a stock count. The counter is set to the counted
// value (not incremented, to avoid compounding rounding error) and the
// difference is booked as adjustment_in/out. Counting the current balance
// is a no-op: no ledger entry is written.
func AdjustStock(ctx context.Context, input *NewStockAdjustment) (*InventoryTransaction, error) {
	if input.ActualStock.IsNegative() {
		return nil, errors.New("actual stock cannot be negative")
	}

	release := lockIngredients(ctx, []int{input.IngredientId})
	defer release()

	db := config.GetDB()
	tx := db.Begin()

	ingredient, err := fetchIngredientForUpdate(tx, ctx, input.IngredientId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	difference := input.ActualStock.Sub(ingredient.CurrentStock)
	if difference.IsZero() {
		tx.Rollback()
		return nil, nil
	}

	transactionType := InventoryTransactionTypeAdjustmentIn
	if difference.IsNegative() {
		transactionType = InventoryTransactionTypeAdjustmentOut
	}

	notes := input.Notes
	if notes == "" {
		notes = "stock count"
	}
	transaction := InventoryTransaction{
		IngredientId:    input.IngredientId,
		Type:            transactionType,
		Quantity:        difference.Abs(),
		UnitCost:        ingredient.CostPerUnit,
		TransactionDate: input.TransactionDate,
		Notes:           "stock adjustment: " + notes,
	}
	if err := tx.WithContext(ctx).Create(&transaction).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	err = tx.WithContext(ctx).Model(ingredient).
		Update("CurrentStock", input.ActualStock).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &transaction, nil
}

// ReceiveIngredientStock is the single-ingredient receive used from the
// ingredient detail screen.
func ReceiveIngredientStock(ctx context.Context, ingredientId int, quantity decimal.Decimal,
	unitCost *decimal.Decimal, transactionDate time.Time, notes string) (*InventoryTransaction, error) {

	transactions, err := ReceiveStock(ctx, &NewStockIn{
		Items: []StockInItem{{
			IngredientId: ingredientId,
			Quantity:     quantity,
			UnitCost:     unitCost,
			Notes:        notes,
		}},
		TransactionDate: transactionDate,
	})
	if err != nil {
		return nil, err
	}
	return transactions[0], nil
}

// RebuildIngredientStock recomputes an ingredient's counter from the ledger
// (reconciliation invariant: opening stock is zero, so the counter must
// equal the signed entry sum). Returns the previous and rebuilt values.
func RebuildIngredientStock(ctx context.Context, ingredientId int) (before decimal.Decimal, after decimal.Decimal, err error) {
	db := config.GetDB()
	tx := db.Begin()

	ingredient, err := fetchIngredientForUpdate(tx, ctx, ingredientId)
	if err != nil {
		tx.Rollback()
		return decimal.Zero, decimal.Zero, err
	}

	var total decimal.Decimal
	err = tx.WithContext(ctx).Model(&InventoryTransaction{}).
		Where("ingredient_id = ?", ingredientId).
		Select(`COALESCE(SUM(CASE
			WHEN type IN ('purchase', 'adjustment_in') THEN quantity
			ELSE -quantity
		END), 0)`).
		Scan(&total).Error
	if err != nil {
		tx.Rollback()
		return decimal.Zero, decimal.Zero, err
	}

	before = ingredient.CurrentStock
	if err := tx.WithContext(ctx).Model(ingredient).Update("CurrentStock", total).Error; err != nil {
		tx.Rollback()
		return decimal.Zero, decimal.Zero, err
	}

	if err := tx.Commit().Error; err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return before, total, nil
}
