package models

import (
	"context"
	"errors"
	"time"

	"github.com/khanomthai/bakery_backend/config"
	"github.com/khanomthai/bakery_backend/costing"
	"github.com/khanomthai/bakery_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Recipe struct {
	ID            int                 `gorm:"primary_key" json:"id"`
	Name          string              `gorm:"size:255;not null" json:"name"`
	Description   string              `gorm:"type:text" json:"description"`
	ImageUrl      string              `gorm:"size:500" json:"image_url"`
	YieldQuantity decimal.Decimal     `gorm:"type:decimal(20,4);not null" json:"yield_quantity"`
	YieldUnit     string              `gorm:"size:50;not null" json:"yield_unit"`
	TotalCost     decimal.Decimal     `gorm:"type:decimal(20,2);default:0" json:"total_cost"`
	SellingPrice  *decimal.Decimal    `gorm:"type:decimal(20,2)" json:"selling_price"`
	LaborCost     decimal.Decimal     `gorm:"type:decimal(20,2);default:0" json:"labor_cost"`
	OverheadCost  decimal.Decimal     `gorm:"type:decimal(20,2);default:0" json:"overhead_cost"`
	PackagingCost decimal.Decimal     `gorm:"type:decimal(20,2);default:0" json:"packaging_cost"`
	Ingredients   []*RecipeIngredient `gorm:"foreignKey:RecipeId" json:"ingredients,omitempty"`
	Steps         []*RecipeStep       `gorm:"foreignKey:RecipeId" json:"steps,omitempty"`
	CreatedAt     time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

// RecipeIngredient is one line of a recipe. Quantity is stored in the unit
// the recipe uses; conversion to the ingredient's purchase unit happens at
// costing time.
type RecipeIngredient struct {
	ID           int             `gorm:"primary_key" json:"id"`
	RecipeId     int             `gorm:"index;not null" json:"recipe_id"`
	IngredientId int             `gorm:"index;not null" json:"ingredient_id"`
	Quantity     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	Unit         string          `gorm:"size:50;not null" json:"unit"`
	Ingredient   *Ingredient     `gorm:"foreignKey:IngredientId" json:"ingredient,omitempty"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type RecipeStep struct {
	ID          int       `gorm:"primary_key" json:"id"`
	RecipeId    int       `gorm:"index;not null" json:"recipe_id"`
	StepNumber  int       `gorm:"not null" json:"step_number"`
	Instruction string    `gorm:"type:text;not null" json:"instruction"`
	ImageUrl    string    `gorm:"size:500" json:"image_url"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NewRecipeIngredient struct {
	IngredientId int             `json:"ingredient_id" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
	Unit         string          `json:"unit" binding:"required"`
}

type NewRecipeStep struct {
	StepNumber  int    `json:"step_number" binding:"required"`
	Instruction string `json:"instruction" binding:"required"`
	ImageUrl    string `json:"image_url"`
}

type NewRecipe struct {
	Name          string                 `json:"name" binding:"required"`
	Description   string                 `json:"description"`
	ImageUrl      string                 `json:"image_url"`
	YieldQuantity decimal.Decimal        `json:"yield_quantity" binding:"required"`
	YieldUnit     string                 `json:"yield_unit" binding:"required"`
	SellingPrice  *decimal.Decimal       `json:"selling_price"`
	LaborCost     decimal.Decimal        `json:"labor_cost"`
	OverheadCost  decimal.Decimal        `json:"overhead_cost"`
	PackagingCost decimal.Decimal        `json:"packaging_cost"`
	Ingredients   []*NewRecipeIngredient `json:"ingredients" binding:"dive"`
	Steps         []*NewRecipeStep       `json:"steps" binding:"dive"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewRecipe) validate(ctx context.Context, id int) error {
	if err := utils.ValidateUnique[Recipe](ctx, "name", input.Name, id); err != nil {
		return err
	}
	if !input.YieldQuantity.IsPositive() {
		return errors.New("yield quantity must be greater than zero")
	}
	for _, c := range []decimal.Decimal{input.LaborCost, input.OverheadCost, input.PackagingCost} {
		if c.IsNegative() {
			return errors.New("cost components cannot be negative")
		}
	}
	if input.SellingPrice != nil && input.SellingPrice.IsNegative() {
		return errors.New("selling price cannot be negative")
	}

	ingredientIds := make([]int, 0, len(input.Ingredients))
	for _, line := range input.Ingredients {
		if !line.Quantity.IsPositive() {
			return ErrInvalidQuantity
		}
		ingredientIds = append(ingredientIds, line.IngredientId)
	}
	if err := utils.ValidateResourcesId[Ingredient](ctx, ingredientIds); err != nil {
		return errors.New("ingredient not found")
	}

	seen := map[int]bool{}
	for _, step := range input.Steps {
		if seen[step.StepNumber] {
			return errors.New("duplicate step number")
		}
		seen[step.StepNumber] = true
	}
	return nil
}

// costLines maps the recipe's ingredient lines into costing input.
func (input *NewRecipe) costLines() []costing.Line {
	lines := make([]costing.Line, 0, len(input.Ingredients))
	for _, line := range input.Ingredients {
		lines = append(lines, costing.Line{
			IngredientId: line.IngredientId,
			Quantity:     line.Quantity,
			Unit:         line.Unit,
		})
	}
	return lines
}

// txIngredientLookup resolves ingredient cost data inside the recipe's
// transaction so the costing run sees the same snapshot the lines were
// validated against.
func txIngredientLookup(tx *gorm.DB, ctx context.Context) costing.IngredientLookup {
	return func(id int) (*costing.IngredientInfo, error) {
		var ingredient Ingredient
		if err := tx.WithContext(ctx).First(&ingredient, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, costing.ErrIngredientNotFound
			}
			return nil, err
		}
		return &costing.IngredientInfo{
			Name:         ingredient.Name,
			PurchaseUnit: ingredient.PurchaseUnit,
			CostPerUnit:  ingredient.CostPerUnit,
		}, nil
	}
}

// CreateRecipe stores the recipe, its lines and steps, and computes
// TotalCost in the same transaction. Conversion warnings (lines costed with
// the identity fallback) come back to the caller so the UI can flag them.
func CreateRecipe(ctx context.Context, input *NewRecipe) (*Recipe, []costing.ConversionWarning, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, nil, err
	}

	resolver, err := GetConversionResolver(ctx)
	if err != nil {
		return nil, nil, err
	}

	db := config.GetDB()
	tx := db.Begin()

	recipe := Recipe{
		Name:          input.Name,
		Description:   input.Description,
		ImageUrl:      input.ImageUrl,
		YieldQuantity: input.YieldQuantity,
		YieldUnit:     input.YieldUnit,
		SellingPrice:  input.SellingPrice,
		LaborCost:     input.LaborCost,
		OverheadCost:  input.OverheadCost,
		PackagingCost: input.PackagingCost,
	}
	if err := tx.WithContext(ctx).Create(&recipe).Error; err != nil {
		tx.Rollback()
		return nil, nil, err
	}

	warnings, err := writeRecipeLines(tx, ctx, &recipe, input, resolver)
	if err != nil {
		tx.Rollback()
		return nil, nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, nil, err
	}

	result, err := GetRecipe(ctx, recipe.ID)
	if err != nil {
		return nil, nil, err
	}
	return result, warnings, nil
}

// UpdateRecipe replaces the recipe's lines and steps wholesale and
// recomputes TotalCost from the new lines.
func UpdateRecipe(ctx context.Context, id int, input *NewRecipe) (*Recipe, []costing.ConversionWarning, error) {
	recipe, err := utils.FetchModel[Recipe](ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if err := input.validate(ctx, id); err != nil {
		return nil, nil, err
	}

	resolver, err := GetConversionResolver(ctx)
	if err != nil {
		return nil, nil, err
	}

	db := config.GetDB()
	tx := db.Begin()

	err = tx.WithContext(ctx).Model(recipe).Updates(map[string]interface{}{
		"Name":          input.Name,
		"Description":   input.Description,
		"ImageUrl":      input.ImageUrl,
		"YieldQuantity": input.YieldQuantity,
		"YieldUnit":     input.YieldUnit,
		"SellingPrice":  input.SellingPrice,
		"LaborCost":     input.LaborCost,
		"OverheadCost":  input.OverheadCost,
		"PackagingCost": input.PackagingCost,
	}).Error
	if err != nil {
		tx.Rollback()
		return nil, nil, err
	}

	err = tx.WithContext(ctx).Where("recipe_id = ?", id).Delete(&RecipeIngredient{}).Error
	if err != nil {
		tx.Rollback()
		return nil, nil, err
	}
	err = tx.WithContext(ctx).Where("recipe_id = ?", id).Delete(&RecipeStep{}).Error
	if err != nil {
		tx.Rollback()
		return nil, nil, err
	}

	warnings, err := writeRecipeLines(tx, ctx, recipe, input, resolver)
	if err != nil {
		tx.Rollback()
		return nil, nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, nil, err
	}

	result, err := GetRecipe(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return result, warnings, nil
}

// writeRecipeLines inserts the ingredient lines and steps, runs the costing
// pass and writes TotalCost back onto the recipe row.
func writeRecipeLines(tx *gorm.DB, ctx context.Context, recipe *Recipe, input *NewRecipe,
	resolver *costing.Resolver) ([]costing.ConversionWarning, error) {

	for _, line := range input.Ingredients {
		recipeIngredient := RecipeIngredient{
			RecipeId:     recipe.ID,
			IngredientId: line.IngredientId,
			Quantity:     line.Quantity,
			Unit:         line.Unit,
		}
		if err := tx.WithContext(ctx).Create(&recipeIngredient).Error; err != nil {
			return nil, err
		}
	}

	for _, step := range input.Steps {
		recipeStep := RecipeStep{
			RecipeId:    recipe.ID,
			StepNumber:  step.StepNumber,
			Instruction: step.Instruction,
			ImageUrl:    step.ImageUrl,
		}
		if err := tx.WithContext(ctx).Create(&recipeStep).Error; err != nil {
			return nil, err
		}
	}

	totalCost, warnings, err := costing.ComputeTotalCost(resolver, input.costLines(),
		txIngredientLookup(tx, ctx), input.LaborCost, input.OverheadCost, input.PackagingCost)
	if err != nil {
		return nil, err
	}

	if err := tx.WithContext(ctx).Model(recipe).Update("TotalCost", totalCost).Error; err != nil {
		return nil, err
	}
	recipe.TotalCost = totalCost

	return warnings, nil
}

func DeleteRecipe(ctx context.Context, id int) (*Recipe, error) {
	recipe, err := utils.FetchModel[Recipe](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Where("recipe_id = ?", id).Delete(&RecipeIngredient{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Where("recipe_id = ?", id).Delete(&RecipeStep{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Delete(recipe).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return recipe, nil
}

func GetRecipe(ctx context.Context, id int) (*Recipe, error) {
	db := config.GetDB()
	var recipe Recipe
	err := db.WithContext(ctx).
		Preload("Ingredients.Ingredient").
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_number")
		}).
		First(&recipe, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func ListRecipes(ctx context.Context) ([]*Recipe, error) {
	db := config.GetDB()
	var recipes []*Recipe
	if err := db.WithContext(ctx).Order("created_at DESC").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// RecomputeRecipeCost re-runs the costing pass against current ingredient
// prices and conversion rules. Called after price changes so stored totals
// do not go stale.
func RecomputeRecipeCost(ctx context.Context, id int) (*Recipe, []costing.ConversionWarning, error) {
	recipe, err := GetRecipe(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	resolver, err := GetConversionResolver(ctx)
	if err != nil {
		return nil, nil, err
	}

	lines := make([]costing.Line, 0, len(recipe.Ingredients))
	for _, line := range recipe.Ingredients {
		lines = append(lines, costing.Line{
			IngredientId: line.IngredientId,
			Quantity:     line.Quantity,
			Unit:         line.Unit,
		})
	}

	db := config.GetDB()
	totalCost, warnings, err := costing.ComputeTotalCost(resolver, lines,
		txIngredientLookup(db, ctx), recipe.LaborCost, recipe.OverheadCost, recipe.PackagingCost)
	if err != nil {
		return nil, nil, err
	}

	if err := db.WithContext(ctx).Model(recipe).Update("TotalCost", totalCost).Error; err != nil {
		return nil, nil, err
	}
	recipe.TotalCost = totalCost

	return recipe, warnings, nil
}
