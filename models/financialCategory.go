package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/khanomthai/bakery_backend/config"
	"github.com/khanomthai/bakery_backend/utils"
)

type FinancialCategory struct {
	ID          int                      `gorm:"primary_key" json:"id"`
	Name        string                   `gorm:"size:255;not null" json:"name"`
	Type        FinancialTransactionType `gorm:"type:enum('income','expense');not null" json:"type"`
	Description string                   `gorm:"size:255" json:"description"`
	Color       string                   `gorm:"size:20" json:"color"`
	IsActive    bool                     `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time                `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time                `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewFinancialCategory struct {
	Name        string                   `json:"name" binding:"required"`
	Type        FinancialTransactionType `json:"type" binding:"required"`
	Description string                   `json:"description"`
	Color       string                   `json:"color"`
	IsActive    *bool                    `json:"is_active"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewFinancialCategory) validate(ctx context.Context, id int) error {
	if !input.Type.Valid() {
		return errors.New("type must be income or expense")
	}
	// the same name may exist once per type (e.g. "Other" income and expense)
	count, err := utils.ResourceCountWhere[FinancialCategory](ctx,
		"name = ? AND type = ? AND id != ?", input.Name, input.Type, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("category name already exists for this type")
	}
	return nil
}

func CreateFinancialCategory(ctx context.Context, input *NewFinancialCategory) (*FinancialCategory, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	if input.IsActive == nil {
		input.IsActive = utils.NewTrue()
	}
	category := FinancialCategory{
		Name:        input.Name,
		Type:        input.Type,
		Description: input.Description,
		Color:       input.Color,
		IsActive:    *input.IsActive,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func UpdateFinancialCategory(ctx context.Context, id int, input *NewFinancialCategory) (*FinancialCategory, error) {
	category, err := utils.FetchModel[FinancialCategory](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	isActive := category.IsActive
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(category).Updates(map[string]interface{}{
		"Name":        input.Name,
		"Type":        input.Type,
		"Description": input.Description,
		"Color":       input.Color,
		"IsActive":    isActive,
	}).Error
	if err != nil {
		return nil, err
	}
	category.Name = input.Name
	category.Type = input.Type
	category.Description = input.Description
	category.Color = input.Color
	category.IsActive = isActive

	return category, nil
}

func DeleteFinancialCategory(ctx context.Context, id int) (*FinancialCategory, error) {
	category, err := utils.FetchModel[FinancialCategory](ctx, id)
	if err != nil {
		return nil, err
	}

	// categories with booked transactions cannot be removed
	count, err := utils.ResourceCountWhere[FinancialTransaction](ctx, "category_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("cannot delete category with linked transactions")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func GetFinancialCategory(ctx context.Context, id int) (*FinancialCategory, error) {
	return utils.FetchModel[FinancialCategory](ctx, id)
}

// ListFinancialCategories returns every category with its transaction count,
// newest first. activeOnly narrows to categories still in use for entry
// forms.
func ListFinancialCategories(ctx context.Context, activeOnly bool) ([]*FinancialCategoryWithCount, error) {
	sql := `
SELECT
    c.*,
    COUNT(t.id) AS transaction_count
FROM financial_categories c
LEFT JOIN financial_transactions t ON t.category_id = c.id
%s
GROUP BY c.id
ORDER BY c.created_at DESC;
`
	where := ""
	if activeOnly {
		where = "WHERE c.is_active = true"
	}

	var categories []*FinancialCategoryWithCount
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(fmt.Sprintf(sql, where)).Scan(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

type FinancialCategoryWithCount struct {
	FinancialCategory
	TransactionCount int `json:"transaction_count"`
}
