package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/khanomthai/bakery_backend/models"
	"github.com/khanomthai/bakery_backend/models/reports"
	"github.com/shopspring/decimal"
)

// Ingredients

func listIngredientsHandler(c *gin.Context) {
	ingredients, err := models.ListIngredients(c.Request.Context())
	if err != nil {
		respondError(c, "listIngredientsHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": ingredients})
}

func getIngredientHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	ingredient, err := models.GetIngredient(c.Request.Context(), id)
	if err != nil {
		respondError(c, "getIngredientHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ingredient":   ingredient,
		"stock_status": ingredient.StockStatus(),
	})
}

func createIngredientHandler(c *gin.Context) {
	var input models.NewIngredient
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "createIngredientHandler", err)
		return
	}
	ingredient, err := models.CreateIngredient(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "createIngredientHandler", err)
		return
	}
	c.JSON(http.StatusCreated, ingredient)
}

func updateIngredientHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewIngredient
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "updateIngredientHandler", err)
		return
	}
	ingredient, err := models.UpdateIngredient(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "updateIngredientHandler", err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}

func deleteIngredientHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	ingredient, err := models.DeleteIngredient(c.Request.Context(), id)
	if err != nil {
		respondError(c, "deleteIngredientHandler", err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}

// receiveIngredientStockHandler books a purchase for a single ingredient
// from its detail screen.
func receiveIngredientStockHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input struct {
		Quantity        decimal.Decimal  `json:"quantity" binding:"required"`
		UnitCost        *decimal.Decimal `json:"unit_cost"`
		TransactionDate time.Time        `json:"transaction_date" binding:"required"`
		Notes           string           `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "receiveIngredientStockHandler", err)
		return
	}

	transaction, err := models.ReceiveIngredientStock(c.Request.Context(), id,
		input.Quantity, input.UnitCost, input.TransactionDate, input.Notes)
	if err != nil {
		respondError(c, "receiveIngredientStockHandler", err)
		return
	}
	c.JSON(http.StatusCreated, transaction)
}

// Stock operations

func stockDashboardHandler(c *gin.Context) {
	dashboard, err := reports.GetStockDashboard(c.Request.Context())
	if err != nil {
		respondError(c, "stockDashboardHandler", err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func stockInHandler(c *gin.Context) {
	var input models.NewStockIn
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "stockInHandler", err)
		return
	}
	transactions, err := models.ReceiveStock(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "stockInHandler", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transactions": transactions})
}

func stockOutHandler(c *gin.Context) {
	var input models.NewStockOut
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "stockOutHandler", err)
		return
	}
	transactions, err := models.IssueStock(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "stockOutHandler", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transactions": transactions})
}

func stockAdjustmentHandler(c *gin.Context) {
	var input models.NewStockAdjustment
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "stockAdjustmentHandler", err)
		return
	}
	transaction, err := models.AdjustStock(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "stockAdjustmentHandler", err)
		return
	}
	if transaction == nil {
		// counted stock matched the counter; nothing booked
		c.JSON(http.StatusOK, gin.H{"adjusted": false})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"adjusted": true, "transaction": transaction})
}

func stockHistoryHandler(c *gin.Context) {
	var filter models.InventoryTransactionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondError(c, "stockHistoryHandler", err)
		return
	}
	page, err := models.PaginateInventoryTransactions(c.Request.Context(), &filter)
	if err != nil {
		respondError(c, "stockHistoryHandler", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func stockReportHandler(c *gin.Context) {
	fromDate, toDate, ok := dateRangeQuery(c)
	if !ok {
		return
	}
	report, err := reports.GetStockReport(c.Request.Context(), fromDate, toDate)
	if err != nil {
		respondError(c, "stockReportHandler", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func stockReportExportHandler(c *gin.Context) {
	fromDate, toDate, ok := dateRangeQuery(c)
	if !ok {
		return
	}
	report, err := reports.GetStockReport(c.Request.Context(), fromDate, toDate)
	if err != nil {
		respondError(c, "stockReportExportHandler", err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=stock-report.xlsx")
	if err := reports.ExportStockReportExcel(c.Request.Context(), c.Writer, report); err != nil {
		respondError(c, "stockReportExportHandler", err)
	}
}

// rebuildIngredientStockHandler reconciles one ingredient's counter against
// its ledger history.
func rebuildIngredientStockHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	before, after, err := models.RebuildIngredientStock(c.Request.Context(), id)
	if err != nil {
		respondError(c, "rebuildIngredientStockHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"before": before, "after": after})
}
