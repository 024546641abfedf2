package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/khanomthai/bakery_backend/models"
	"github.com/khanomthai/bakery_backend/models/reports"
)

// Financial transactions

func listFinancialTransactionsHandler(c *gin.Context) {
	var filter models.FinancialTransactionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondError(c, "listFinancialTransactionsHandler", err)
		return
	}
	page, err := models.PaginateFinancialTransactions(c.Request.Context(), &filter)
	if err != nil {
		respondError(c, "listFinancialTransactionsHandler", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func getFinancialTransactionHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	transaction, err := models.GetFinancialTransaction(c.Request.Context(), id)
	if err != nil {
		respondError(c, "getFinancialTransactionHandler", err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}

func createFinancialTransactionHandler(c *gin.Context) {
	var input models.NewFinancialTransaction
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "createFinancialTransactionHandler", err)
		return
	}
	transaction, err := models.CreateFinancialTransaction(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "createFinancialTransactionHandler", err)
		return
	}
	c.JSON(http.StatusCreated, transaction)
}

func updateFinancialTransactionHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewFinancialTransaction
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "updateFinancialTransactionHandler", err)
		return
	}
	transaction, err := models.UpdateFinancialTransaction(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "updateFinancialTransactionHandler", err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}

func deleteFinancialTransactionHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	transaction, err := models.DeleteFinancialTransaction(c.Request.Context(), id)
	if err != nil {
		respondError(c, "deleteFinancialTransactionHandler", err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}

func financialReportHandler(c *gin.Context) {
	fromDate, toDate, ok := dateRangeQuery(c)
	if !ok {
		return
	}
	report, err := reports.GetFinancialReport(c.Request.Context(), fromDate, toDate)
	if err != nil {
		respondError(c, "financialReportHandler", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func financialReportExportHandler(c *gin.Context) {
	fromDate, toDate, ok := dateRangeQuery(c)
	if !ok {
		return
	}
	report, err := reports.GetFinancialReport(c.Request.Context(), fromDate, toDate)
	if err != nil {
		respondError(c, "financialReportExportHandler", err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=finance-report.xlsx")
	if err := reports.ExportFinancialReportExcel(c.Request.Context(), c.Writer, report); err != nil {
		respondError(c, "financialReportExportHandler", err)
	}
}

func recentDescriptionsHandler(c *gin.Context) {
	categoryId, _ := strconv.Atoi(c.Query("category_id"))

	var transactionType *models.FinancialTransactionType
	if t := c.Query("type"); t != "" {
		parsed := models.FinancialTransactionType(t)
		if !parsed.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "type must be income or expense"})
			return
		}
		transactionType = &parsed
	}

	descriptions, err := models.GetRecentDescriptions(c.Request.Context(), categoryId, transactionType)
	if err != nil {
		respondError(c, "recentDescriptionsHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"descriptions": descriptions})
}

// Financial categories

func listFinancialCategoriesHandler(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	categories, err := models.ListFinancialCategories(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, "listFinancialCategoriesHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func createFinancialCategoryHandler(c *gin.Context) {
	var input models.NewFinancialCategory
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "createFinancialCategoryHandler", err)
		return
	}
	category, err := models.CreateFinancialCategory(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "createFinancialCategoryHandler", err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func getFinancialCategoryHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	category, err := models.GetFinancialCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, "getFinancialCategoryHandler", err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func updateFinancialCategoryHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewFinancialCategory
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "updateFinancialCategoryHandler", err)
		return
	}
	category, err := models.UpdateFinancialCategory(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "updateFinancialCategoryHandler", err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func deleteFinancialCategoryHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	category, err := models.DeleteFinancialCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, "deleteFinancialCategoryHandler", err)
		return
	}
	c.JSON(http.StatusOK, category)
}
