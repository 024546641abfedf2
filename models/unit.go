package models

import (
	"context"
	"time"

	"github.com/khanomthai/bakery_backend/config"
	"github.com/khanomthai/bakery_backend/utils"
)

// Unit is a measurement unit offered in recipe and ingredient forms.
// Conversion math does not depend on this table; it works on raw symbols.
type Unit struct {
	ID           int       `gorm:"primary_key" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name" binding:"required"`
	Abbreviation string    `gorm:"size:50;not null" json:"abbreviation" binding:"required"`
	Description  string    `gorm:"type:text" json:"description"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUnit struct {
	Name         string `json:"name" binding:"required"`
	Abbreviation string `json:"abbreviation" binding:"required"`
	Description  string `json:"description"`
}

func (input *NewUnit) validate(ctx context.Context, id int) error {
	return utils.ValidateUnique[Unit](ctx, "name", input.Name, id)
}

func CreateUnit(ctx context.Context, input *NewUnit) (*Unit, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	unit := Unit{
		Name:         input.Name,
		Abbreviation: input.Abbreviation,
		Description:  input.Description,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&unit).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func UpdateUnit(ctx context.Context, id int, input *NewUnit) (*Unit, error) {
	if _, err := utils.FetchModel[Unit](ctx, id); err != nil {
		return nil, err
	}
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	update := Unit{ID: id}
	db := config.GetDB()
	err := db.WithContext(ctx).Model(&update).Updates(map[string]interface{}{
		"Name":         input.Name,
		"Abbreviation": input.Abbreviation,
		"Description":  input.Description,
	}).Error
	if err != nil {
		return nil, err
	}
	update.Name = input.Name
	update.Abbreviation = input.Abbreviation
	update.Description = input.Description

	return &update, nil
}

func DeleteUnit(ctx context.Context, id int) (*Unit, error) {
	result, err := utils.FetchModel[Unit](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func GetUnit(ctx context.Context, id int) (*Unit, error) {
	return utils.FetchModel[Unit](ctx, id)
}

func ListUnits(ctx context.Context) ([]*Unit, error) {
	db := config.GetDB()
	var units []*Unit
	if err := db.WithContext(ctx).Order("name").Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}
