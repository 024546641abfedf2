package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/khanomthai/bakery_backend/models"
	"github.com/shopspring/decimal"
)

// Units

func listUnitsHandler(c *gin.Context) {
	units, err := models.ListUnits(c.Request.Context())
	if err != nil {
		respondError(c, "listUnitsHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"units": units})
}

func createUnitHandler(c *gin.Context) {
	var input models.NewUnit
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "createUnitHandler", err)
		return
	}
	unit, err := models.CreateUnit(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "createUnitHandler", err)
		return
	}
	c.JSON(http.StatusCreated, unit)
}

func getUnitHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	unit, err := models.GetUnit(c.Request.Context(), id)
	if err != nil {
		respondError(c, "getUnitHandler", err)
		return
	}
	c.JSON(http.StatusOK, unit)
}

func updateUnitHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewUnit
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "updateUnitHandler", err)
		return
	}
	unit, err := models.UpdateUnit(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "updateUnitHandler", err)
		return
	}
	c.JSON(http.StatusOK, unit)
}

func deleteUnitHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	unit, err := models.DeleteUnit(c.Request.Context(), id)
	if err != nil {
		respondError(c, "deleteUnitHandler", err)
		return
	}
	c.JSON(http.StatusOK, unit)
}

// Suppliers

func listSuppliersHandler(c *gin.Context) {
	suppliers, err := models.ListSuppliers(c.Request.Context())
	if err != nil {
		respondError(c, "listSuppliersHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suppliers": suppliers})
}

func createSupplierHandler(c *gin.Context) {
	var input models.NewSupplier
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "createSupplierHandler", err)
		return
	}
	supplier, err := models.CreateSupplier(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "createSupplierHandler", err)
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

func getSupplierHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	supplier, err := models.GetSupplier(c.Request.Context(), id)
	if err != nil {
		respondError(c, "getSupplierHandler", err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func updateSupplierHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewSupplier
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "updateSupplierHandler", err)
		return
	}
	supplier, err := models.UpdateSupplier(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "updateSupplierHandler", err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func deleteSupplierHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	supplier, err := models.DeleteSupplier(c.Request.Context(), id)
	if err != nil {
		respondError(c, "deleteSupplierHandler", err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

// Unit conversions

func listUnitConversionsHandler(c *gin.Context) {
	conversions, err := models.ListUnitConversions(c.Request.Context())
	if err != nil {
		respondError(c, "listUnitConversionsHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversions": conversions})
}

func createUnitConversionHandler(c *gin.Context) {
	var input models.NewUnitConversion
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "createUnitConversionHandler", err)
		return
	}
	conversion, err := models.CreateUnitConversion(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "createUnitConversionHandler", err)
		return
	}
	c.JSON(http.StatusCreated, conversion)
}

func updateUnitConversionHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewUnitConversion
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "updateUnitConversionHandler", err)
		return
	}
	conversion, err := models.UpdateUnitConversion(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "updateUnitConversionHandler", err)
		return
	}
	c.JSON(http.StatusOK, conversion)
}

func deleteUnitConversionHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	conversion, err := models.DeleteUnitConversion(c.Request.Context(), id)
	if err != nil {
		respondError(c, "deleteUnitConversionHandler", err)
		return
	}
	c.JSON(http.StatusOK, conversion)
}

// convertQuantityHandler exposes the resolver for entry forms: given a
// quantity and unit pair it answers with the converted quantity, or
// convertible=false when no rule covers the pair.
func convertQuantityHandler(c *gin.Context) {
	var input struct {
		Quantity decimal.Decimal `json:"quantity" binding:"required"`
		FromUnit string          `json:"from_unit" binding:"required"`
		ToUnit   string          `json:"to_unit" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "convertQuantityHandler", err)
		return
	}

	converted, ok, err := models.ConvertQuantity(c.Request.Context(), input.Quantity, input.FromUnit, input.ToUnit)
	if err != nil {
		respondError(c, "convertQuantityHandler", err)
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"convertible": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"convertible": true, "quantity": converted})
}

// checkConvertibleHandler answers whether a unit pair has a conversion rule,
// for unit selectors that grey out incompatible units.
func checkConvertibleHandler(c *gin.Context) {
	fromUnit := c.Query("from_unit")
	toUnit := c.Query("to_unit")
	if fromUnit == "" || toUnit == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from_unit and to_unit are required"})
		return
	}

	convertible, err := models.CanConvertUnits(c.Request.Context(), fromUnit, toUnit)
	if err != nil {
		respondError(c, "checkConvertibleHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"convertible": convertible})
}
