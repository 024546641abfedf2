package models

import (
	"context"

	"github.com/khanomthai/bakery_backend/config"
	"github.com/shopspring/decimal"
)

// SeedUnitConversions loads the standard kitchen conversion table. Existing
// pairs (in either direction) are left untouched so manual edits survive
// re-seeding.
func SeedUnitConversions(ctx context.Context) error {
	type seedRule struct {
		from   string
		to     string
		factor string
	}
	rules := []seedRule{
		// weight
		{"g", "kg", "0.001"},
		{"mg", "g", "0.001"},
		{"mg", "kg", "0.000001"},
		// volume
		{"ml", "l", "0.001"},
		{"cc", "ml", "1"},
		{"cc", "l", "0.001"},
		// spoons
		{"tsp", "ml", "5"},
		{"tbsp", "ml", "15"},
		{"tsp", "tbsp", "0.333333"},
		// cups
		{"cup", "ml", "240"},
		{"cup", "l", "0.24"},
	}

	db := config.GetDB()
	for _, rule := range rules {
		var count int64
		err := db.WithContext(ctx).Model(&UnitConversion{}).
			Where("(from_unit = ? AND to_unit = ?) OR (from_unit = ? AND to_unit = ?)",
				rule.from, rule.to, rule.to, rule.from).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		factor, err := decimal.NewFromString(rule.factor)
		if err != nil {
			return err
		}
		conversion := UnitConversion{
			FromUnit: rule.from,
			ToUnit:   rule.to,
			Factor:   factor,
		}
		if err := db.WithContext(ctx).Create(&conversion).Error; err != nil {
			return err
		}
	}

	return config.RemoveRedisKey(conversionRuleCacheKey)
}

// SeedFinancialCategories loads the default bookkeeping categories. Thai
// labels match the entry forms.
func SeedFinancialCategories(ctx context.Context) error {
	categories := []FinancialCategory{
		{Name: "รายได้จากการขาย", Type: FinancialTransactionTypeIncome, Description: "รายได้จากการขายสินค้าและบริการ", Color: "#22c55e"},
		{Name: "รายได้อื่นๆ", Type: FinancialTransactionTypeIncome, Description: "รายได้อื่นๆ ที่ไม่ใช่จากการขาย", Color: "#10b981"},
		{Name: "ดอกเบี้ยรับ", Type: FinancialTransactionTypeIncome, Description: "ดอกเบี้ยจากเงินฝากธนาคาร", Color: "#14b8a6"},
		{Name: "เงินคืน/ส่วนลด", Type: FinancialTransactionTypeIncome, Description: "เงินคืนหรือส่วนลดที่ได้รับ", Color: "#06b6d4"},

		{Name: "ค่าวัตถุดิบ", Type: FinancialTransactionTypeExpense, Description: "ค่าใช้จ่ายสำหรับซื้อวัตถุดิบ", Color: "#ef4444"},
		{Name: "ค่าเช่า", Type: FinancialTransactionTypeExpense, Description: "ค่าเช่าสถานที่", Color: "#f97316"},
		{Name: "ค่าน้ำ/ค่าไฟ", Type: FinancialTransactionTypeExpense, Description: "ค่าสาธารณูปโภค", Color: "#f59e0b"},
		{Name: "เงินเดือน", Type: FinancialTransactionTypeExpense, Description: "เงินเดือนพนักงาน", Color: "#eab308"},
		{Name: "ค่าขนส่ง", Type: FinancialTransactionTypeExpense, Description: "ค่าขนส่งสินค้า", Color: "#84cc16"},
		{Name: "ค่าโฆษณา/การตลาด", Type: FinancialTransactionTypeExpense, Description: "ค่าใช้จ่ายด้านการตลาด", Color: "#8b5cf6"},
		{Name: "ค่าซ่อมบำรุง", Type: FinancialTransactionTypeExpense, Description: "ค่าซ่อมแซมและบำรุงรักษา", Color: "#a855f7"},
		{Name: "ค่าใช้จ่ายเบ็ดเตล็ด", Type: FinancialTransactionTypeExpense, Description: "ค่าใช้จ่ายอื่นๆ", Color: "#64748b"},
	}

	db := config.GetDB()
	for _, category := range categories {
		var count int64
		err := db.WithContext(ctx).Model(&FinancialCategory{}).
			Where("name = ? AND type = ?", category.Name, category.Type).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		category.IsActive = true
		if err := db.WithContext(ctx).Create(&category).Error; err != nil {
			return err
		}
	}
	return nil
}
