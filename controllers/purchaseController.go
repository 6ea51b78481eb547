package controllers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/inventory_backend/models"
	"github.com/gin-gonic/gin"
)

func PurchaseCreate(c *gin.Context) {
	var in models.NewPurchase
	if !bindJSON(c, &in) {
		return
	}
	purchases, err := models.CreatePurchase(c.Request.Context(), &in)
	if err != nil {
		respondError(c, "purchaseController.go", "PurchaseCreate", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":   "purchase recorded successfully",
		"purchases": purchases,
	})
}

// PurchaseList returns the purchase register, optionally filtered by the
// search query param across vendor, category, subcategory and serial number.
func PurchaseList(c *gin.Context) {
	rows, err := models.SearchPurchases(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, "purchaseController.go", "PurchaseList", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchases": rows})
}
