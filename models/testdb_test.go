package models_test

import (
	"context"
	"strconv"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bitbucket.org/mmdatafocus/inventory_backend/config"
	"bitbucket.org/mmdatafocus/inventory_backend/models"
)

// setupTestDB points the package at a fresh in-memory sqlite database.
// One connection only: every sqlite in-memory connection is its own database.
func setupTestDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	config.SetDB(db)
	models.MigrateTable()
	t.Cleanup(func() {
		_ = sqlDB.Close()
		config.SetDB(nil)
	})
}

func seedCatalog(t *testing.T, ctx context.Context, categoryName, subcategoryName string) (int, int) {
	t.Helper()
	category, err := models.FirstOrCreateCategoryByName(ctx, categoryName)
	if err != nil {
		t.Fatalf("FirstOrCreateCategoryByName(%q): %v", categoryName, err)
	}
	subcategory, err := models.FirstOrCreateSubcategoryByName(ctx, category.ID, subcategoryName)
	if err != nil {
		t.Fatalf("FirstOrCreateSubcategoryByName(%q): %v", subcategoryName, err)
	}
	return category.ID, subcategory.ID
}

func seedPurchase(t *testing.T, ctx context.Context, categoryId, subcategoryId int, specs, serialNo string, quantity int) *models.Purchase {
	t.Helper()
	created, err := models.CreatePurchase(ctx, &models.NewPurchase{
		Vendor: "ACME Traders",
		Date:   "2026-01-05",
		Lines: []models.NewPurchaseLine{
			{
				CategoryID:    categoryId,
				SubcategoryID: subcategoryId,
				Specs:         specs,
				SerialNo:      serialNo,
				Quantity:      strconv.Itoa(quantity),
				UnitPrice:     "150000",
			},
		},
	})
	if err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("CreatePurchase: expected 1 line, got %d", len(created))
	}
	return created[0]
}
