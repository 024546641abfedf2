package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/khanomthai/bakery_backend/config"
	"github.com/khanomthai/bakery_backend/middlewares"
	"github.com/khanomthai/bakery_backend/models"
	"github.com/khanomthai/bakery_backend/utils"
	"github.com/sirupsen/logrus"
)

const defaultPort = "8080"

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func registerRoutes(r *gin.Engine) {
	ingredients := r.Group("/ingredients")
	{
		ingredients.GET("", listIngredientsHandler)
		ingredients.POST("", createIngredientHandler)
		ingredients.GET("/:id", getIngredientHandler)
		ingredients.PUT("/:id", updateIngredientHandler)
		ingredients.DELETE("/:id", deleteIngredientHandler)
		ingredients.POST("/:id/receive-stock", receiveIngredientStockHandler)
		ingredients.POST("/:id/rebuild-stock", rebuildIngredientStockHandler)
	}

	stock := r.Group("/stock")
	{
		stock.GET("", stockDashboardHandler)
		stock.POST("/in", stockInHandler)
		stock.POST("/out", stockOutHandler)
		stock.POST("/adjustment", stockAdjustmentHandler)
		stock.GET("/history", stockHistoryHandler)
		stock.GET("/report", stockReportHandler)
		stock.GET("/report/export", stockReportExportHandler)
	}

	recipes := r.Group("/recipes")
	{
		recipes.GET("", listRecipesHandler)
		recipes.POST("", createRecipeHandler)
		recipes.GET("/:id", getRecipeHandler)
		recipes.PUT("/:id", updateRecipeHandler)
		recipes.DELETE("/:id", deleteRecipeHandler)
		recipes.POST("/:id/recompute-cost", recomputeRecipeCostHandler)
	}

	finance := r.Group("/finance")
	{
		finance.GET("", listFinancialTransactionsHandler)
		finance.POST("", createFinancialTransactionHandler)
		finance.GET("/report", financialReportHandler)
		finance.GET("/report/export", financialReportExportHandler)
		finance.GET("/recent-descriptions", recentDescriptionsHandler)
		finance.GET("/categories", listFinancialCategoriesHandler)
		finance.POST("/categories", createFinancialCategoryHandler)
		finance.GET("/categories/:id", getFinancialCategoryHandler)
		finance.PUT("/categories/:id", updateFinancialCategoryHandler)
		finance.DELETE("/categories/:id", deleteFinancialCategoryHandler)
		finance.GET("/:id", getFinancialTransactionHandler)
		finance.PUT("/:id", updateFinancialTransactionHandler)
		finance.DELETE("/:id", deleteFinancialTransactionHandler)
	}

	settings := r.Group("/settings")
	{
		settings.GET("/units", listUnitsHandler)
		settings.POST("/units", createUnitHandler)
		settings.GET("/units/:id", getUnitHandler)
		settings.PUT("/units/:id", updateUnitHandler)
		settings.DELETE("/units/:id", deleteUnitHandler)

		settings.GET("/suppliers", listSuppliersHandler)
		settings.POST("/suppliers", createSupplierHandler)
		settings.GET("/suppliers/:id", getSupplierHandler)
		settings.PUT("/suppliers/:id", updateSupplierHandler)
		settings.DELETE("/suppliers/:id", deleteSupplierHandler)

		settings.GET("/conversions", listUnitConversionsHandler)
		settings.POST("/conversions", createUnitConversionHandler)
		settings.PUT("/conversions/:id", updateUnitConversionHandler)
		settings.DELETE("/conversions/:id", deleteUnitConversionHandler)
		settings.POST("/conversions/convert", convertQuantityHandler)
		settings.GET("/conversions/check", checkConvertibleHandler)
	}
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		// Cloud Run standard env var.
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// Cloud Run sends SIGTERM on revision shutdown; handle it for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP so the platform considers the revision
	// healthy. Until DB/Redis are ready, app endpoints return 503.
	r := gin.New()

	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Writer.Header().Set("x-correlation-id", cid)
		c.Next()
	})
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		// Gate app endpoints on dependency readiness.
		if config.GetDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// In production, require an explicit allowlist via CORS_ALLOWED_ORIGINS
	// (comma-separated). In development, allow all.
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "Authorization", "x-correlation-id")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.Use(middlewares.RequestLogger(logger))
	r.Use(gin.Recovery())

	registerRoutes(r)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()

	// AutoMigrate can run DDL that blocks tables; allow running migrations
	// as a separate job instead.
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port)
	log.Println("Server started successfully")

	// Block until shutdown or server error.
	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	// Drain HTTP requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	// Close Redis (best-effort).
	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}
