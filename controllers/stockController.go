package controllers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/inventory_backend/models"
	"github.com/gin-gonic/gin"
)

// StockOverview serves the dashboard: per-item purchased, issued and
// available quantities plus the headline totals.
func StockOverview(c *gin.Context) {
	overview, err := models.GetStockOverview(c.Request.Context())
	if err != nil {
		respondError(c, "stockController.go", "StockOverview", err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// AvailableStock answers the live availability probe used by the issue form,
// optionally scoped to one serial number.
func AvailableStock(c *gin.Context) {
	itemId, ok := paramInt(c, "id")
	if !ok {
		return
	}
	available, err := models.AvailableStock(c.Request.Context(), itemId, c.Query("serial_no"))
	if err != nil {
		respondError(c, "stockController.go", "AvailableStock", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item_id": itemId, "available": available})
}
