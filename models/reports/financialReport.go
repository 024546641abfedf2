package reports

import (
	"context"
	"errors"

	"github.com/khanomthai/bakery_backend/config"
	"github.com/khanomthai/bakery_backend/models"
	"github.com/shopspring/decimal"
)

type CategoryTotalRow struct {
	CategoryId int             `json:"category_id"`
	Category   string          `json:"category"`
	Color      string          `json:"color"`
	Total      decimal.Decimal `json:"total"`
}

type DailySummaryRow struct {
	Date          string          `json:"date"`
	IncomeAmount  decimal.Decimal `json:"income_amount"`
	ExpenseAmount decimal.Decimal `json:"expense_amount"`
}

type FinancialReportResponse struct {
	IncomeByCategory  []*CategoryTotalRow     `json:"income_by_category"`
	ExpenseByCategory []*CategoryTotalRow     `json:"expense_by_category"`
	DailySummary      []*DailySummaryRow      `json:"daily_summary"`
	Summary           models.FinancialSummary `json:"summary"`
}

// GetFinancialReport sums booked income and expense over the window, broken
// down by category and by day.
func GetFinancialReport(ctx context.Context, fromDate, toDate models.MyDateString) (*FinancialReportResponse, error) {

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

	categorySQL := `
SELECT
    c.id AS category_id,
    c.name AS category,
    c.color,
    COALESCE(SUM(t.amount), 0) AS total
FROM financial_transactions t
JOIN financial_categories c ON c.id = t.category_id
WHERE t.type = ? AND t.transaction_date BETWEEN ? AND ?
GROUP BY c.id, c.name, c.color
ORDER BY total DESC;
`
	var incomeByCategory []*CategoryTotalRow
	err := db.WithContext(ctx).Raw(categorySQL,
		models.FinancialTransactionTypeIncome, fromDate.Time(), toDate.Time()).
		Scan(&incomeByCategory).Error
	if err != nil {
		return nil, err
	}

	var expenseByCategory []*CategoryTotalRow
	err = db.WithContext(ctx).Raw(categorySQL,
		models.FinancialTransactionTypeExpense, fromDate.Time(), toDate.Time()).
		Scan(&expenseByCategory).Error
	if err != nil {
		return nil, err
	}

	dailySQL := `
SELECT
    DATE_FORMAT(t.transaction_date, '%Y-%m-%d') AS date,
    COALESCE(SUM(CASE WHEN t.type = 'income' THEN t.amount ELSE 0 END), 0) AS income_amount,
    COALESCE(SUM(CASE WHEN t.type = 'expense' THEN t.amount ELSE 0 END), 0) AS expense_amount
FROM financial_transactions t
WHERE t.transaction_date BETWEEN ? AND ?
GROUP BY DATE_FORMAT(t.transaction_date, '%Y-%m-%d')
ORDER BY date;
`
	var dailySummary []*DailySummaryRow
	err = db.WithContext(ctx).Raw(dailySQL, fromDate.Time(), toDate.Time()).
		Scan(&dailySummary).Error
	if err != nil {
		return nil, err
	}

	from := fromDate.Time()
	to := toDate.Time()
	summary, err := models.GetFinancialSummary(ctx, &from, &to)
	if err != nil {
		return nil, err
	}

	return &FinancialReportResponse{
		IncomeByCategory:  incomeByCategory,
		ExpenseByCategory: expenseByCategory,
		DailySummary:      dailySummary,
		Summary:           *summary,
	}, nil
}
