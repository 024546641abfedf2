package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/khanomthai/bakery_backend/models"
)

func listRecipesHandler(c *gin.Context) {
	recipes, err := models.ListRecipes(c.Request.Context())
	if err != nil {
		respondError(c, "listRecipesHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func getRecipeHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	recipe, err := models.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, "getRecipeHandler", err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func createRecipeHandler(c *gin.Context) {
	var input models.NewRecipe
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "createRecipeHandler", err)
		return
	}
	recipe, warnings, err := models.CreateRecipe(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "createRecipeHandler", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"recipe": recipe, "conversion_warnings": warnings})
}

func updateRecipeHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewRecipe
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "updateRecipeHandler", err)
		return
	}
	recipe, warnings, err := models.UpdateRecipe(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "updateRecipeHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": recipe, "conversion_warnings": warnings})
}

func deleteRecipeHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	recipe, err := models.DeleteRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, "deleteRecipeHandler", err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// recomputeRecipeCostHandler refreshes a stored total after ingredient
// prices or conversion rules change.
func recomputeRecipeCostHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	recipe, warnings, err := models.RecomputeRecipeCost(c.Request.Context(), id)
	if err != nil {
		respondError(c, "recomputeRecipeCostHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": recipe, "conversion_warnings": warnings})
}
