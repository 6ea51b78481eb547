package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"bitbucket.org/mmdatafocus/inventory_backend/config"
	"bitbucket.org/mmdatafocus/inventory_backend/controllers"
	"bitbucket.org/mmdatafocus/inventory_backend/middlewares"
	"bitbucket.org/mmdatafocus/inventory_backend/models"
)

const defaultPort = "8080"

type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func registerRoutes(r *gin.Engine) {
	r.POST("/api/login", controllers.Login)

	api := r.Group("/api", middlewares.LoginRequired())
	{
		api.POST("/change-password", controllers.ChangeUserPassword)

		api.GET("/stock", controllers.StockOverview)
		api.GET("/stock/:id/available", controllers.AvailableStock)

		api.GET("/categories", controllers.CategoryList)
		api.POST("/categories", controllers.CategoryCreate)
		api.GET("/categories/:id/subcategories", controllers.SubcategoriesByCategory)
		api.POST("/subcategories", controllers.SubcategoryCreate)
		api.GET("/subcategories/:id/specs", controllers.PurchasedSpecs)
		api.GET("/subcategories/:id/serials", controllers.SerialsBySubcategory)
		api.GET("/items", controllers.ItemList)
		api.POST("/items", controllers.ItemCreate)
		api.GET("/items/:id/serials", controllers.SerialsByItem)

		api.GET("/staff", controllers.StaffList)
		api.POST("/staff", controllers.StaffCreate)
		api.PUT("/staff/:id", controllers.StaffUpdate)
		api.DELETE("/staff/:id", controllers.StaffDelete)

		api.GET("/purchases", controllers.PurchaseList)
		api.POST("/purchases", controllers.PurchaseCreate)
		api.POST("/purchases/bill-image", uploadBillHandler())
		api.GET("/purchases/bill-image/:filename", billImageHandler())

		api.GET("/issues", controllers.IssueList)
		api.POST("/issues", controllers.IssueCreate)

		api.GET("/reports/laptops", controllers.LaptopReport)
		api.GET("/reports/purchases.csv", controllers.ExportPurchasesCSV)
		api.GET("/reports/purchases.xlsx", controllers.ExportPurchasesExcel)
	}

	admin := r.Group("/api", middlewares.LoginRequired(), middlewares.AdminOnly())
	{
		admin.GET("/users", controllers.UserList)
		admin.POST("/users", controllers.UserCreate)
		admin.DELETE("/users/:id", controllers.UserDelete)
	}
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
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
	// healthy. Until the DB is ready, app endpoints return 503.
	r := gin.New()
	r.Use(middlewares.CorrelationMiddleware())
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		if config.GetDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// In production, require an explicit allowlist via CORS_ALLOWED_ORIGINS
	// (comma-separated). In non-production, allow all.
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
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	// Optional rate limiting (recommended for production).
	// Env:
	// - RATE_LIMIT_ENABLED=true
	// - RATE_LIMIT_WINDOW_SECONDS=60
	// - RATE_LIMIT_MAX_REQUESTS=600
	if strings.EqualFold(strings.TrimSpace(os.Getenv("RATE_LIMIT_ENABLED")), "true") {
		client := redis.NewClient(&redis.Options{Addr: os.Getenv("REDIS_ADDRESS")})
		limit := int64(600)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_MAX_REQUESTS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				limit = n
			}
		}
		windowSec := int64(60)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_WINDOW_SECONDS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				windowSec = n
			}
		}
		rateLimiter := NewRateLimiter(client, limit, time.Duration(windowSec)*time.Second)
		r.Use(rateLimiter.RateLimitMiddleware)
	}

	r.Use(middlewares.AuthMiddleware())
	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())
	registerRoutes(r)
	r.NoRoute(customNotFoundHandler)

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

	// Stock math reads its own uncommitted view inside a transaction; READ
	// COMMITTED keeps concurrent issue requests from stale repeatable reads.
	if db.Dialector.Name() == "mysql" {
		if err := db.Exec("SET SESSION TRANSACTION ISOLATION LEVEL READ COMMITTED").Error; err != nil {
			logger.WithFields(logrus.Fields{
				"field": "database",
			}).Warn("failed to set isolation level: " + err.Error())
		}
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port, "/")
	log.Println("Server started successfully")

	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}

// customErrorLogger is a custom Gin middleware that logs only errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

func NewRateLimiter(client *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// RateLimitMiddleware enforces a fixed-window per-IP request limit in redis.
func (rl *RateLimiter) RateLimitMiddleware(c *gin.Context) {
	key := c.ClientIP()

	exists, err := rl.client.Exists(c.Request.Context(), key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	if exists == 0 {
		err := rl.client.Set(c.Request.Context(), key, 1, rl.window).Err()
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
		c.Next()
		return
	}

	count, err := rl.client.Incr(c.Request.Context(), key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	if count > rl.limit {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": fmt.Sprintf("Rate limit exceeded. Try again in %d seconds", int(rl.window.Seconds())),
		})
		return
	}

	c.Next()
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
