package controllers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/inventory_backend/models"
	"github.com/gin-gonic/gin"
)

func CategoryList(c *gin.Context) {
	categories, err := models.GetAllCategories(c.Request.Context())
	if err != nil {
		respondError(c, "catalogController.go", "CategoryList", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func CategoryCreate(c *gin.Context) {
	var in models.NewCategory
	if !bindJSON(c, &in) {
		return
	}
	category, err := models.CreateCategory(c.Request.Context(), &in)
	if err != nil {
		respondError(c, "catalogController.go", "CategoryCreate", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "category added successfully", "category": category})
}

func SubcategoryCreate(c *gin.Context) {
	var in models.NewSubcategory
	if !bindJSON(c, &in) {
		return
	}
	subcategory, err := models.CreateSubcategory(c.Request.Context(), &in)
	if err != nil {
		respondError(c, "catalogController.go", "SubcategoryCreate", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "subcategory added successfully", "subcategory": subcategory})
}

// SubcategoriesByCategory backs the dependent dropdowns on the issue and
// purchase forms.
func SubcategoriesByCategory(c *gin.Context) {
	categoryId, ok := paramInt(c, "id")
	if !ok {
		return
	}
	subcategories, err := models.GetSubcategoriesByCategory(c.Request.Context(), categoryId)
	if err != nil {
		respondError(c, "catalogController.go", "SubcategoriesByCategory", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subcategories": subcategories})
}

func ItemList(c *gin.Context) {
	items, err := models.GetAllItems(c.Request.Context())
	if err != nil {
		respondError(c, "catalogController.go", "ItemList", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func ItemCreate(c *gin.Context) {
	var in models.NewItem
	if !bindJSON(c, &in) {
		return
	}
	item, err := models.CreateItem(c.Request.Context(), &in)
	if err != nil {
		respondError(c, "catalogController.go", "ItemCreate", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "item added successfully", "item": item})
}

// PurchasedSpecs lists the distinct purchased spec variants of a subcategory,
// keyed by item id, for the issue form's specs dropdown.
func PurchasedSpecs(c *gin.Context) {
	subcategoryId, ok := paramInt(c, "id")
	if !ok {
		return
	}
	specs, err := models.GetPurchasedSpecs(c.Request.Context(), subcategoryId)
	if err != nil {
		respondError(c, "catalogController.go", "PurchasedSpecs", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"specs": specs})
}

func SerialsByItem(c *gin.Context) {
	itemId, ok := paramInt(c, "id")
	if !ok {
		return
	}
	serials, err := models.GetSerialsByItem(c.Request.Context(), itemId)
	if err != nil {
		respondError(c, "catalogController.go", "SerialsByItem", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"serials": serials})
}

func SerialsBySubcategory(c *gin.Context) {
	subcategoryId, ok := paramInt(c, "id")
	if !ok {
		return
	}
	serials, err := models.GetSerialsBySubcategory(c.Request.Context(), subcategoryId)
	if err != nil {
		respondError(c, "catalogController.go", "SerialsBySubcategory", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"serials": serials})
}
