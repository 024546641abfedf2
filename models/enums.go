package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

// InventoryTransactionType classifies a stock ledger entry. The sign of the
// stock effect is implied by the type; quantities are always stored positive.
type InventoryTransactionType string

const (
	InventoryTransactionTypePurchase      InventoryTransactionType = "purchase"
	InventoryTransactionTypeUsage         InventoryTransactionType = "usage"
	InventoryTransactionTypeAdjustmentIn  InventoryTransactionType = "adjustment_in"
	InventoryTransactionTypeAdjustmentOut InventoryTransactionType = "adjustment_out"
	InventoryTransactionTypeWaste         InventoryTransactionType = "waste"
)

func (t InventoryTransactionType) Valid() bool {
	switch t {
	case InventoryTransactionTypePurchase,
		InventoryTransactionTypeUsage,
		InventoryTransactionTypeAdjustmentIn,
		InventoryTransactionTypeAdjustmentOut,
		InventoryTransactionTypeWaste:
		return true
	}
	return false
}

// IsOutgoing reports whether a type is allowed on a stock-out line.
func (t InventoryTransactionType) IsOutgoing() bool {
	switch t {
	case InventoryTransactionTypeUsage,
		InventoryTransactionTypeWaste,
		InventoryTransactionTypeAdjustmentOut:
		return true
	}
	return false
}

// SignedEffect returns +1 for types that add stock and -1 for types that
// remove it.
func (t InventoryTransactionType) SignedEffect() decimal.Decimal {
	switch t {
	case InventoryTransactionTypePurchase, InventoryTransactionTypeAdjustmentIn:
		return decimal.NewFromInt(1)
	case InventoryTransactionTypeUsage, InventoryTransactionTypeAdjustmentOut, InventoryTransactionTypeWaste:
		return decimal.NewFromInt(-1)
	}
	return decimal.Zero
}

type FinancialTransactionType string

const (
	FinancialTransactionTypeIncome  FinancialTransactionType = "income"
	FinancialTransactionTypeExpense FinancialTransactionType = "expense"
)

func (t FinancialTransactionType) Valid() bool {
	return t == FinancialTransactionTypeIncome || t == FinancialTransactionTypeExpense
}

type PaymentMethod string

const (
	PaymentMethodCash       PaymentMethod = "cash"
	PaymentMethodTransfer   PaymentMethod = "transfer"
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodCheque     PaymentMethod = "cheque"
	PaymentMethodOther      PaymentMethod = "other"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCreditCard,
		PaymentMethodCheque, PaymentMethodOther:
		return true
	}
	return false
}

// StockStatus is derived from current stock versus reorder point.
type StockStatus string

const (
	StockStatusLow    StockStatus = "low"
	StockStatusMedium StockStatus = "medium"
	StockStatusNormal StockStatus = "normal"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
)
