package models

import (
	"context"
	"errors"
	"time"

	"github.com/khanomthai/bakery_backend/config"
	"github.com/khanomthai/bakery_backend/utils"
	"github.com/shopspring/decimal"
)

type FinancialTransaction struct {
	ID              int                      `gorm:"primary_key" json:"id"`
	CategoryId      int                      `gorm:"index;not null" json:"category_id"`
	Type            FinancialTransactionType `gorm:"type:enum('income','expense');not null" json:"type"`
	Amount          decimal.Decimal          `gorm:"type:decimal(20,2);not null" json:"amount"`
	Description     string                   `gorm:"size:255;not null" json:"description"`
	Notes           string                   `gorm:"type:text" json:"notes"`
	TransactionDate time.Time                `gorm:"index;not null" json:"transaction_date"`
	ReferenceNumber string                   `gorm:"size:100" json:"reference_number"`
	PaymentMethod   PaymentMethod            `gorm:"size:20" json:"payment_method"`
	Category        *FinancialCategory       `gorm:"foreignKey:CategoryId" json:"category,omitempty"`
	CreatedAt       time.Time                `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time                `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewFinancialTransaction struct {
	CategoryId      int                      `json:"category_id" binding:"required"`
	Type            FinancialTransactionType `json:"type" binding:"required"`
	Amount          decimal.Decimal          `json:"amount" binding:"required"`
	Description     string                   `json:"description" binding:"required"`
	Notes           string                   `json:"notes"`
	TransactionDate time.Time                `json:"transaction_date" binding:"required"`
	ReferenceNumber string                   `json:"reference_number"`
	PaymentMethod   PaymentMethod            `json:"payment_method"`
}

func (input *NewFinancialTransaction) validate(ctx context.Context) error {
	if !input.Type.Valid() {
		return errors.New("type must be income or expense")
	}
	if !input.Amount.IsPositive() {
		return errors.New("amount must be greater than zero")
	}
	if input.PaymentMethod != "" && !input.PaymentMethod.Valid() {
		return errors.New("invalid payment method")
	}

	category, err := utils.FetchModel[FinancialCategory](ctx, input.CategoryId)
	if err != nil {
		return errors.New("category not found")
	}
	if category.Type != input.Type {
		return errors.New("category type does not match transaction type")
	}
	return nil
}

func CreateFinancialTransaction(ctx context.Context, input *NewFinancialTransaction) (*FinancialTransaction, error) {
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	transaction := FinancialTransaction{
		CategoryId:      input.CategoryId,
		Type:            input.Type,
		Amount:          input.Amount,
		Description:     input.Description,
		Notes:           input.Notes,
		TransactionDate: input.TransactionDate,
		ReferenceNumber: input.ReferenceNumber,
		PaymentMethod:   input.PaymentMethod,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&transaction).Error; err != nil {
		return nil, err
	}
	return &transaction, nil
}

func UpdateFinancialTransaction(ctx context.Context, id int, input *NewFinancialTransaction) (*FinancialTransaction, error) {
	if _, err := utils.FetchModel[FinancialTransaction](ctx, id); err != nil {
		return nil, err
	}
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	update := FinancialTransaction{ID: id}
	db := config.GetDB()
	err := db.WithContext(ctx).Model(&update).Updates(map[string]interface{}{
		"CategoryId":      input.CategoryId,
		"Type":            input.Type,
		"Amount":          input.Amount,
		"Description":     input.Description,
		"Notes":           input.Notes,
		"TransactionDate": input.TransactionDate,
		"ReferenceNumber": input.ReferenceNumber,
		"PaymentMethod":   input.PaymentMethod,
	}).Error
	if err != nil {
		return nil, err
	}

	return utils.FetchModel[FinancialTransaction](ctx, id, "Category")
}

func DeleteFinancialTransaction(ctx context.Context, id int) (*FinancialTransaction, error) {
	result, err := utils.FetchModel[FinancialTransaction](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func GetFinancialTransaction(ctx context.Context, id int) (*FinancialTransaction, error) {
	return utils.FetchModel[FinancialTransaction](ctx, id, "Category")
}

type FinancialTransactionFilter struct {
	Type       *FinancialTransactionType `form:"type"`
	CategoryId int                       `form:"category_id"`
	StartDate  *time.Time                `form:"start_date" time_format:"2006-01-02"`
	EndDate    *time.Time                `form:"end_date" time_format:"2006-01-02"`
	Page       int                       `form:"page"`
	PageSize   int                       `form:"page_size"`
}

type FinancialSummary struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
}

type FinancialTransactionPage struct {
	Transactions []*FinancialTransaction `json:"transactions"`
	Total        int64                   `json:"total"`
	Page         int                     `json:"page"`
	PageSize     int                     `json:"page_size"`
	Summary      FinancialSummary        `json:"summary"`
}

// PaginateFinancialTransactions lists entries newest first with the
// income/expense/balance summary for the same date window. The summary
// ignores the type and category filters on purpose: it describes the
// period, not the page.
func PaginateFinancialTransactions(ctx context.Context, filter *FinancialTransactionFilter) (*FinancialTransactionPage, error) {
	db := config.GetDB()

	query := db.WithContext(ctx).Model(&FinancialTransaction{})
	if filter.Type != nil {
		if !filter.Type.Valid() {
			return nil, errors.New("type must be income or expense")
		}
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.CategoryId > 0 {
		query = query.Where("category_id = ?", filter.CategoryId)
	}
	if filter.StartDate != nil && filter.EndDate != nil {
		query = query.Where("transaction_date BETWEEN ? AND ?", *filter.StartDate, *filter.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}

	var transactions []*FinancialTransaction
	err := query.Preload("Category").
		Order("transaction_date DESC, id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	summary, err := GetFinancialSummary(ctx, filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, err
	}

	return &FinancialTransactionPage{
		Transactions: transactions,
		Total:        total,
		Page:         page,
		PageSize:     pageSize,
		Summary:      *summary,
	}, nil
}

func GetFinancialSummary(ctx context.Context, startDate, endDate *time.Time) (*FinancialSummary, error) {
	db := config.GetDB()

	query := db.WithContext(ctx).Model(&FinancialTransaction{})
	if startDate != nil && endDate != nil {
		query = query.Where("transaction_date BETWEEN ? AND ?", *startDate, *endDate)
	}

	var summary FinancialSummary
	err := query.Select(`
		COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0) AS total_income,
		COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0) AS total_expense`).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)

	return &summary, nil
}

type RecentDescription struct {
	Description string    `json:"description"`
	UsageCount  int       `json:"usage_count"`
	LastUsed    time.Time `json:"last_used"`
}

// GetRecentDescriptions suggests the most reused entry descriptions,
// optionally narrowed by category and type.
func GetRecentDescriptions(ctx context.Context, categoryId int, transactionType *FinancialTransactionType) ([]*RecentDescription, error) {
	db := config.GetDB()

	query := db.WithContext(ctx).Model(&FinancialTransaction{}).
		Select("description, COUNT(*) AS usage_count, MAX(created_at) AS last_used").
		Group("description").
		Order("usage_count DESC, last_used DESC").
		Limit(10)
	if categoryId > 0 {
		query = query.Where("category_id = ?", categoryId)
	}
	if transactionType != nil {
		query = query.Where("type = ?", *transactionType)
	}

	var descriptions []*RecentDescription
	if err := query.Scan(&descriptions).Error; err != nil {
		return nil, err
	}
	return descriptions, nil
}
