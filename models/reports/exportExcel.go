package reports

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ExportStockReportExcel writes the valuation report as an xlsx workbook:
// one sheet for per-ingredient stock value, one for the supplier rollup and
// one for the movement summary.
func ExportStockReportExcel(ctx context.Context, w io.Writer, report *StockReportResponse) error {

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Stock Value"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	f.SetCellValue(sheet, "A1", "Ingredient")
	f.SetCellValue(sheet, "B1", "Supplier")
	f.SetCellValue(sheet, "C1", "Unit")
	f.SetCellValue(sheet, "D1", "CurrentStock")
	f.SetCellValue(sheet, "E1", "ReorderPoint")
	f.SetCellValue(sheet, "F1", "CostPerUnit")
	f.SetCellValue(sheet, "G1", "StockValue")
	f.SetCellValue(sheet, "H1", "Status")

	for i, row := range report.Rows {
		n := fmt.Sprint(i + 2)
		f.SetCellValue(sheet, "A"+n, row.Ingredient)
		f.SetCellValue(sheet, "B"+n, row.Supplier)
		f.SetCellValue(sheet, "C"+n, row.PurchaseUnit)
		f.SetCellValue(sheet, "D"+n, row.CurrentStock.String())
		f.SetCellValue(sheet, "E"+n, row.ReorderPoint.String())
		f.SetCellValue(sheet, "F"+n, row.CostPerUnit.String())
		f.SetCellValue(sheet, "G"+n, row.StockValue.String())
		f.SetCellValue(sheet, "H"+n, string(row.StockStatus))
	}
	totalRow := fmt.Sprint(len(report.Rows) + 3)
	f.SetCellValue(sheet, "F"+totalRow, "Total")
	f.SetCellValue(sheet, "G"+totalRow, report.TotalStockValue.String())

	supplierSheet := "By Supplier"
	if _, err := f.NewSheet(supplierSheet); err != nil {
		return err
	}
	f.SetCellValue(supplierSheet, "A1", "Supplier")
	f.SetCellValue(supplierSheet, "B1", "IngredientCount")
	f.SetCellValue(supplierSheet, "C1", "StockValue")
	for i, row := range report.BySupplier {
		n := fmt.Sprint(i + 2)
		f.SetCellValue(supplierSheet, "A"+n, row.Supplier)
		f.SetCellValue(supplierSheet, "B"+n, row.IngredientCount)
		f.SetCellValue(supplierSheet, "C"+n, row.StockValue.String())
	}

	movementSheet := "Movement"
	if _, err := f.NewSheet(movementSheet); err != nil {
		return err
	}
	f.SetCellValue(movementSheet, "A1", "Type")
	f.SetCellValue(movementSheet, "B1", "Entries")
	f.SetCellValue(movementSheet, "C1", "TotalQuantity")
	f.SetCellValue(movementSheet, "D1", "TotalValue")
	for i, row := range report.MovementSummary {
		n := fmt.Sprint(i + 2)
		f.SetCellValue(movementSheet, "A"+n, string(row.Type))
		f.SetCellValue(movementSheet, "B"+n, row.EntryCount)
		f.SetCellValue(movementSheet, "C"+n, row.TotalQuantity.String())
		f.SetCellValue(movementSheet, "D"+n, row.TotalValue.String())
	}

	return f.Write(w)
}

// ExportFinancialReportExcel writes the income/expense report workbook.
func ExportFinancialReportExcel(ctx context.Context, w io.Writer, report *FinancialReportResponse) error {

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	f.SetCellValue(sheet, "A1", "TotalIncome")
	f.SetCellValue(sheet, "B1", "TotalExpense")
	f.SetCellValue(sheet, "C1", "Balance")
	f.SetCellValue(sheet, "A2", report.Summary.TotalIncome.String())
	f.SetCellValue(sheet, "B2", report.Summary.TotalExpense.String())
	f.SetCellValue(sheet, "C2", report.Summary.Balance.String())

	categorySheet := "By Category"
	if _, err := f.NewSheet(categorySheet); err != nil {
		return err
	}
	f.SetCellValue(categorySheet, "A1", "Type")
	f.SetCellValue(categorySheet, "B1", "Category")
	f.SetCellValue(categorySheet, "C1", "Total")
	rowNo := 2
	for _, row := range report.IncomeByCategory {
		n := fmt.Sprint(rowNo)
		f.SetCellValue(categorySheet, "A"+n, "income")
		f.SetCellValue(categorySheet, "B"+n, row.Category)
		f.SetCellValue(categorySheet, "C"+n, row.Total.String())
		rowNo++
	}
	for _, row := range report.ExpenseByCategory {
		n := fmt.Sprint(rowNo)
		f.SetCellValue(categorySheet, "A"+n, "expense")
		f.SetCellValue(categorySheet, "B"+n, row.Category)
		f.SetCellValue(categorySheet, "C"+n, row.Total.String())
		rowNo++
	}

	dailySheet := "Daily"
	if _, err := f.NewSheet(dailySheet); err != nil {
		return err
	}
	f.SetCellValue(dailySheet, "A1", "Date")
	f.SetCellValue(dailySheet, "B1", "Income")
	f.SetCellValue(dailySheet, "C1", "Expense")
	for i, row := range report.DailySummary {
		n := fmt.Sprint(i + 2)
		f.SetCellValue(dailySheet, "A"+n, row.Date)
		f.SetCellValue(dailySheet, "B"+n, row.IncomeAmount.String())
		f.SetCellValue(dailySheet, "C"+n, row.ExpenseAmount.String())
	}

	return f.Write(w)
}
