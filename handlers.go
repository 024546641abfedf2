package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/khanomthai/bakery_backend/config"
	"github.com/khanomthai/bakery_backend/models"
	"github.com/khanomthai/bakery_backend/utils"
)

func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// respondError maps model errors onto HTTP statuses. Unexpected errors are
// logged with the request context and reported as a bare 500.
func respondError(c *gin.Context, funcName string, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(validationErrs)})
		return
	}

	var insufficientStock *models.InsufficientStockError
	if errors.As(err, &insufficientStock) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "INSUFFICIENT_STOCK",
			"detail": insufficientStock,
		})
		return
	}

	if errors.Is(err, utils.ErrorRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	switch err.Error() {
	case "ingredient not found", "supplier not found", "category not found":
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	if isKnownValidationError(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logger := config.GetLogger()
	config.LogError(logger, "handlers.go", funcName, "model call", nil, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func isKnownValidationError(err error) bool {
	if errors.Is(err, models.ErrInvalidQuantity) {
		return true
	}
	// models signal rule violations with lowercase sentence errors; anything
	// wrapped or driver-originated falls through to 500
	msg := err.Error()
	known := []string{
		"amount must be greater than zero",
		"type must be income or expense",
		"invalid payment method",
		"category type does not match transaction type",
		"category name already exists for this type",
		"cannot delete category with linked transactions",
		"cannot delete supplier with linked ingredients",
		"cannot delete ingredient used in recipes",
		"cannot delete ingredient with inventory transactions",
		"invalid email",
		"invalid phone number",
		"invalid stock out transaction type",
		"actual stock cannot be negative",
		"unit cost cannot be negative",
		"cost per unit cannot be negative",
		"reorder point cannot be negative",
		"cost components cannot be negative",
		"selling price cannot be negative",
		"yield quantity must be greater than zero",
		"duplicate step number",
		"from unit and to unit are required",
		"from unit and to unit must differ",
		"factor must be greater than zero",
		"a conversion rule between these units already exists",
		"to date must not be before from date",
		"error parsing date, want YYYY-MM-DD",
	}
	for _, k := range known {
		if msg == k {
			return true
		}
	}
	// utils.ValidateUnique errors ("duplicate name", "duplicate abbreviation")
	return strings.HasPrefix(msg, "duplicate ")
}

func dateRangeQuery(c *gin.Context) (models.MyDateString, models.MyDateString, bool) {
	start := c.Query("start_date")
	end := c.Query("end_date")
	if start == "" || end == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date and end_date are required"})
		return models.MyDateString{}, models.MyDateString{}, false
	}
	fromDate, err := models.ParseDateString(start)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return models.MyDateString{}, models.MyDateString{}, false
	}
	toDate, err := models.ParseDateString(end)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return models.MyDateString{}, models.MyDateString{}, false
	}
	return fromDate, toDate, true
}
