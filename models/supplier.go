package models

import (
	"context"
	"errors"
	"time"

	"github.com/khanomthai/bakery_backend/config"
	"github.com/khanomthai/bakery_backend/utils"
)

type Supplier struct {
	ID            int       `gorm:"primary_key" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name" binding:"required"`
	ContactPerson string    `gorm:"size:255" json:"contact_person"`
	Phone         string    `gorm:"size:20" json:"phone"`
	Email         string    `gorm:"size:255" json:"email"`
	Address       string    `gorm:"type:text" json:"address"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSupplier struct {
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewSupplier) validate(ctx context.Context, id int) error {
	if err := utils.ValidateUnique[Supplier](ctx, "name", input.Name, id); err != nil {
		return err
	}
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return errors.New("invalid email")
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return errors.New("invalid phone number")
		}
	}
	return nil
}

func CreateSupplier(ctx context.Context, input *NewSupplier) (*Supplier, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	supplier := Supplier{
		Name:          input.Name,
		ContactPerson: input.ContactPerson,
		Phone:         input.Phone,
		Email:         input.Email,
		Address:       input.Address,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&supplier).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func UpdateSupplier(ctx context.Context, id int, input *NewSupplier) (*Supplier, error) {
	if _, err := utils.FetchModel[Supplier](ctx, id); err != nil {
		return nil, err
	}
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	update := Supplier{ID: id}
	db := config.GetDB()
	err := db.WithContext(ctx).Model(&update).Updates(map[string]interface{}{
		"Name":          input.Name,
		"ContactPerson": input.ContactPerson,
		"Phone":         input.Phone,
		"Email":         input.Email,
		"Address":       input.Address,
	}).Error
	if err != nil {
		return nil, err
	}
	update.Name = input.Name
	update.ContactPerson = input.ContactPerson
	update.Phone = input.Phone
	update.Email = input.Email
	update.Address = input.Address

	return &update, nil
}

func DeleteSupplier(ctx context.Context, id int) (*Supplier, error) {
	result, err := utils.FetchModel[Supplier](ctx, id)
	if err != nil {
		return nil, err
	}

	// suppliers referenced by ingredients cannot be removed
	count, err := utils.ResourceCountWhere[Ingredient](ctx, "supplier_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("cannot delete supplier with linked ingredients")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func GetSupplier(ctx context.Context, id int) (*Supplier, error) {
	return utils.FetchModel[Supplier](ctx, id)
}

func ListSuppliers(ctx context.Context) ([]*Supplier, error) {
	db := config.GetDB()
	var suppliers []*Supplier
	if err := db.WithContext(ctx).Order("name").Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}
