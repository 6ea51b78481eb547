package models_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"bitbucket.org/mmdatafocus/inventory_backend/config"
	"bitbucket.org/mmdatafocus/inventory_backend/models"
)

func TestCreatePurchase_SkipsNonPositiveAndBlankRows(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	categoryId, subcategoryId := seedCatalog(t, ctx, "Accessory", "Mouse")

	created, err := models.CreatePurchase(ctx, &models.NewPurchase{
		Vendor: "ACME Traders",
		Date:   "2026-01-05",
		Lines: []models.NewPurchaseLine{
			{CategoryID: categoryId, SubcategoryID: subcategoryId, Quantity: "5", UnitPrice: "10000"},
			// blank form row: no catalog selection
			{Quantity: "", UnitPrice: ""},
			// zero and negative quantities are skipped, not errors
			{CategoryID: categoryId, SubcategoryID: subcategoryId, Quantity: "0"},
			{CategoryID: categoryId, SubcategoryID: subcategoryId, Quantity: "-3"},
		},
	})
	if err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("created %d purchases, want 1", len(created))
	}
	if created[0].Quantity != 5 {
		t.Fatalf("quantity = %d, want 5", created[0].Quantity)
	}

	available, err := models.AvailableStock(ctx, created[0].ItemID, "")
	if err != nil {
		t.Fatalf("AvailableStock: %v", err)
	}
	if available != 5 {
		t.Fatalf("available = %d, want 5", available)
	}
}

func TestCreatePurchase_ZeroQuantityStillRegistersItem(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	categoryId, subcategoryId := seedCatalog(t, ctx, "PC", "Monitor")

	// A zero-quantity line resolves (and here creates) its item even though
	// no purchase row is written for it.
	created, err := models.CreatePurchase(ctx, &models.NewPurchase{
		Vendor: "ACME Traders",
		Date:   "2026-01-05",
		Lines: []models.NewPurchaseLine{
			{CategoryID: categoryId, SubcategoryID: subcategoryId, Specs: "Spare Screen", Quantity: "0"},
		},
	})
	if err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}
	if len(created) != 0 {
		t.Fatalf("zero-quantity line wrote %d purchases, want 0", len(created))
	}

	var item models.Item
	err = config.GetDB().WithContext(ctx).
		Where("category_id = ? AND subcategory_id = ? AND specs = ?", categoryId, subcategoryId, "Spare Screen").
		First(&item).Error
	if err != nil {
		t.Fatalf("item not registered by zero-quantity line: %v", err)
	}

	// A later real purchase of the same triple reuses the registered item.
	purchase := seedPurchase(t, ctx, categoryId, subcategoryId, "Spare Screen", "", 2)
	if purchase.ItemID != item.ID {
		t.Fatalf("purchase resolved to item %d, want registered item %d", purchase.ItemID, item.ID)
	}
}

func TestCreatePurchase_MalformedNumberAbortsBatch(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	categoryId, subcategoryId := seedCatalog(t, ctx, "Accessory", "Mouse")

	_, err := models.CreatePurchase(ctx, &models.NewPurchase{
		Vendor: "ACME Traders",
		Date:   "2026-01-05",
		Lines: []models.NewPurchaseLine{
			{CategoryID: categoryId, SubcategoryID: subcategoryId, Quantity: "5", UnitPrice: "10000"},
			{CategoryID: categoryId, SubcategoryID: subcategoryId, Quantity: "five"},
		},
	})
	var validationErr *models.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("malformed quantity: got %v, want ValidationError", err)
	}
	if !strings.Contains(validationErr.Message, "row 2") {
		t.Fatalf("error does not name the offending row: %q", validationErr.Message)
	}

	// Nothing of the batch may have been written.
	rows, err := models.SearchPurchases(ctx, "")
	if err != nil {
		t.Fatalf("SearchPurchases: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("aborted batch wrote %d rows, want 0", len(rows))
	}
}

func TestCreatePurchase_ExactTripleItemReuse(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	categoryId, subcategoryId := seedCatalog(t, ctx, "PC", "Laptop")

	first := seedPurchase(t, ctx, categoryId, subcategoryId, "Core i5 8GB", "", 2)
	second := seedPurchase(t, ctx, categoryId, subcategoryId, "Core i5 8GB", "", 3)
	other := seedPurchase(t, ctx, categoryId, subcategoryId, "Core i7 16GB", "", 1)

	if first.ItemID != second.ItemID {
		t.Fatalf("same triple resolved to items %d and %d", first.ItemID, second.ItemID)
	}
	if first.ItemID == other.ItemID {
		t.Fatalf("different specs reused item %d", first.ItemID)
	}

	available, err := models.AvailableStock(ctx, first.ItemID, "")
	if err != nil {
		t.Fatalf("AvailableStock: %v", err)
	}
	if available != 5 {
		t.Fatalf("available = %d, want 5", available)
	}
}

func TestSearchPurchases_FiltersAcrossJoinedFields(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	pcCat, laptopSub := seedCatalog(t, ctx, "PC", "Laptop")
	accCat, mouseSub := seedCatalog(t, ctx, "Accessory", "Mouse")
	seedPurchase(t, ctx, pcCat, laptopSub, "Core i5 8GB", "LT-001", 1)
	seedPurchase(t, ctx, accCat, mouseSub, "", "", 10)

	rows, err := models.SearchPurchases(ctx, "Laptop")
	if err != nil {
		t.Fatalf("SearchPurchases: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("search by subcategory: %d rows, want 1", len(rows))
	}
	if rows[0].SerialNo != "LT-001" {
		t.Fatalf("wrong row matched: serial %q", rows[0].SerialNo)
	}

	rows, err = models.SearchPurchases(ctx, "LT-001")
	if err != nil {
		t.Fatalf("SearchPurchases: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("search by serial: %d rows, want 1", len(rows))
	}

	rows, err = models.SearchPurchases(ctx, "")
	if err != nil {
		t.Fatalf("SearchPurchases: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("unfiltered: %d rows, want 2", len(rows))
	}
}

func TestGetSerials(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	categoryId, subcategoryId := seedCatalog(t, ctx, "PC", "Monitor")
	purchase := seedPurchase(t, ctx, categoryId, subcategoryId, "", "SN1", 1)
	seedPurchase(t, ctx, categoryId, subcategoryId, "", "SN2", 1)
	seedPurchase(t, ctx, categoryId, subcategoryId, "", "", 5)

	serials, err := models.GetSerialsByItem(ctx, purchase.ItemID)
	if err != nil {
		t.Fatalf("GetSerialsByItem: %v", err)
	}
	if len(serials) != 2 {
		t.Fatalf("item serials = %v, want [SN1 SN2]", serials)
	}

	serials, err = models.GetSerialsBySubcategory(ctx, subcategoryId)
	if err != nil {
		t.Fatalf("GetSerialsBySubcategory: %v", err)
	}
	if len(serials) != 2 {
		t.Fatalf("subcategory serials = %v, want [SN1 SN2]", serials)
	}
}
