package models_test

import (
	"context"
	"errors"
	"testing"

	"bitbucket.org/mmdatafocus/inventory_backend/models"
)

func TestAvailableStock_IssueAndReturnCycle(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	categoryId, subcategoryId := seedCatalog(t, ctx, "Accessory", "Mouse")
	purchase := seedPurchase(t, ctx, categoryId, subcategoryId, "", "", 10)

	available, err := models.AvailableStock(ctx, purchase.ItemID, "")
	if err != nil {
		t.Fatalf("AvailableStock: %v", err)
	}
	if available != 10 {
		t.Fatalf("after purchase: available = %d, want 10", available)
	}

	issue, err := models.CreateIssue(ctx, &models.NewIssue{
		Department:    "IT",
		StaffName:     "Aung Aung",
		CategoryID:    categoryId,
		SubcategoryID: subcategoryId,
		Quantity:      4,
		Date:          "2026-01-10",
	})
	if err != nil {
		t.Fatalf("CreateIssue: %v", err)
	}
	if issue.IsReturn {
		t.Fatalf("forward issue marked as return")
	}

	available, err = models.AvailableStock(ctx, purchase.ItemID, "")
	if err != nil {
		t.Fatalf("AvailableStock: %v", err)
	}
	if available != 6 {
		t.Fatalf("after issuing 4: available = %d, want 6", available)
	}

	// Over-issue must fail and report the current availability.
	_, err = models.CreateIssue(ctx, &models.NewIssue{
		Department:    "IT",
		StaffName:     "Aung Aung",
		CategoryID:    categoryId,
		SubcategoryID: subcategoryId,
		Quantity:      7,
		Date:          "2026-01-11",
	})
	var stockErr *models.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("over-issue: got %v, want InsufficientStockError", err)
	}
	if stockErr.Available != 6 || stockErr.Requested != 7 {
		t.Fatalf("over-issue: got available=%d requested=%d, want 6/7", stockErr.Available, stockErr.Requested)
	}

	// A failed issue must not change the ledger.
	available, err = models.AvailableStock(ctx, purchase.ItemID, "")
	if err != nil {
		t.Fatalf("AvailableStock: %v", err)
	}
	if available != 6 {
		t.Fatalf("after failed issue: available = %d, want 6", available)
	}

	// Negative quantity reconciles the open issue instead of writing a row.
	returned, err := models.CreateIssue(ctx, &models.NewIssue{
		Department:    "IT",
		StaffName:     "Aung Aung",
		CategoryID:    categoryId,
		SubcategoryID: subcategoryId,
		Quantity:      -4,
		Date:          "2026-01-20",
	})
	if err != nil {
		t.Fatalf("return: %v", err)
	}
	if returned.ID != issue.ID {
		t.Fatalf("return flipped issue %d, want %d", returned.ID, issue.ID)
	}
	if !returned.IsReturn {
		t.Fatalf("return did not set IsReturn")
	}
	if returned.ReturnDate == nil {
		t.Fatalf("return did not set ReturnDate")
	}

	issues, err := models.GetAllIssues(ctx)
	if err != nil {
		t.Fatalf("GetAllIssues: %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("return appended a row: %d issues, want 1", len(issues))
	}

	available, err = models.AvailableStock(ctx, purchase.ItemID, "")
	if err != nil {
		t.Fatalf("AvailableStock: %v", err)
	}
	if available != 10 {
		t.Fatalf("after return: available = %d, want 10", available)
	}
}

func TestAvailableStock_SerialScoped(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	categoryId, subcategoryId := seedCatalog(t, ctx, "PC", "Monitor")
	purchase := seedPurchase(t, ctx, categoryId, subcategoryId, "", "SN1", 1)
	seedPurchase(t, ctx, categoryId, subcategoryId, "", "SN2", 1)

	issue, err := models.CreateIssue(ctx, &models.NewIssue{
		Department:    "Finance",
		StaffName:     "Su Su",
		CategoryID:    categoryId,
		SubcategoryID: subcategoryId,
		Quantity:      1,
		Date:          "2026-02-01",
		SerialNo:      "SN1",
	})
	if err != nil {
		t.Fatalf("issue SN1: %v", err)
	}
	if issue.SerialNo != "SN1" {
		t.Fatalf("issue recorded serial %q, want SN1", issue.SerialNo)
	}

	// SN1 is spoken for; SN2 still available.
	_, err = models.CreateIssue(ctx, &models.NewIssue{
		Department:    "Finance",
		StaffName:     "Mya Mya",
		CategoryID:    categoryId,
		SubcategoryID: subcategoryId,
		Quantity:      1,
		Date:          "2026-02-02",
		SerialNo:      "SN1",
	})
	var stockErr *models.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("second issue of SN1: got %v, want InsufficientStockError", err)
	}
	if stockErr.SerialNo != "SN1" {
		t.Fatalf("error serial = %q, want SN1", stockErr.SerialNo)
	}

	if _, err := models.CreateIssue(ctx, &models.NewIssue{
		Department:    "Finance",
		StaffName:     "Mya Mya",
		CategoryID:    categoryId,
		SubcategoryID: subcategoryId,
		Quantity:      1,
		Date:          "2026-02-02",
		SerialNo:      "SN2",
	}); err != nil {
		t.Fatalf("issue SN2: %v", err)
	}

	available, err := models.AvailableStock(ctx, purchase.ItemID, "SN1")
	if err != nil {
		t.Fatalf("AvailableStock(SN1): %v", err)
	}
	if available != 0 {
		t.Fatalf("SN1 available = %d, want 0", available)
	}
}

func TestCreateIssue_ReturnMatching(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	categoryId, subcategoryId := seedCatalog(t, ctx, "Accessory", "Keyboard")
	seedPurchase(t, ctx, categoryId, subcategoryId, "", "", 10)

	// Two identical open issues; the return must flip the most recent one.
	first, err := models.CreateIssue(ctx, &models.NewIssue{
		Department:    "HR",
		StaffName:     "Kyaw Kyaw",
		CategoryID:    categoryId,
		SubcategoryID: subcategoryId,
		Quantity:      2,
		Date:          "2026-03-01",
	})
	if err != nil {
		t.Fatalf("first issue: %v", err)
	}
	second, err := models.CreateIssue(ctx, &models.NewIssue{
		Department:    "HR",
		StaffName:     "Kyaw Kyaw",
		CategoryID:    categoryId,
		SubcategoryID: subcategoryId,
		Quantity:      2,
		Date:          "2026-03-05",
	})
	if err != nil {
		t.Fatalf("second issue: %v", err)
	}

	returned, err := models.CreateIssue(ctx, &models.NewIssue{
		Department:    "HR",
		StaffName:     "Kyaw Kyaw",
		CategoryID:    categoryId,
		SubcategoryID: subcategoryId,
		Quantity:      -2,
		Date:          "2026-03-10",
	})
	if err != nil {
		t.Fatalf("return: %v", err)
	}
	if returned.ID != second.ID {
		t.Fatalf("return flipped issue %d, want most recent %d", returned.ID, second.ID)
	}

	// Second return of the same shape now matches the older issue.
	returned, err = models.CreateIssue(ctx, &models.NewIssue{
		Department:    "HR",
		StaffName:     "Kyaw Kyaw",
		CategoryID:    categoryId,
		SubcategoryID: subcategoryId,
		Quantity:      -2,
		Date:          "2026-03-11",
	})
	if err != nil {
		t.Fatalf("second return: %v", err)
	}
	if returned.ID != first.ID {
		t.Fatalf("second return flipped issue %d, want %d", returned.ID, first.ID)
	}

	// Nothing left to return: the ledger must stay untouched.
	_, err = models.CreateIssue(ctx, &models.NewIssue{
		Department:    "HR",
		StaffName:     "Kyaw Kyaw",
		CategoryID:    categoryId,
		SubcategoryID: subcategoryId,
		Quantity:      -2,
		Date:          "2026-03-12",
	})
	if !errors.Is(err, models.ErrNoMatchingIssue) {
		t.Fatalf("exhausted return: got %v, want ErrNoMatchingIssue", err)
	}
	issues, err := models.GetAllIssues(ctx)
	if err != nil {
		t.Fatalf("GetAllIssues: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("failed return changed row count: %d, want 2", len(issues))
	}
	for _, issue := range issues {
		if !issue.IsReturn {
			t.Fatalf("issue %d still open after reconciling both returns", issue.ID)
		}
	}
}

func TestCreateIssue_ReturnRequiresMatchingStaff(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	categoryId, subcategoryId := seedCatalog(t, ctx, "Accessory", "Headset")
	seedPurchase(t, ctx, categoryId, subcategoryId, "", "", 10)

	issue, err := models.CreateIssue(ctx, &models.NewIssue{
		Department:    "IT",
		StaffName:     "Mg Mg",
		CategoryID:    categoryId,
		SubcategoryID: subcategoryId,
		Quantity:      3,
		Date:          "2026-06-01",
	})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// A different staff member cannot return Mg Mg's issue.
	_, err = models.CreateIssue(ctx, &models.NewIssue{
		Department:    "IT",
		StaffName:     "Aung Aung",
		CategoryID:    categoryId,
		SubcategoryID: subcategoryId,
		Quantity:      -3,
		Date:          "2026-06-02",
	})
	if !errors.Is(err, models.ErrNoMatchingIssue) {
		t.Fatalf("wrong staff return: got %v, want ErrNoMatchingIssue", err)
	}

	// The original issue stays open and the ledger is unchanged.
	issues, err := models.GetAllIssues(ctx)
	if err != nil {
		t.Fatalf("GetAllIssues: %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("failed return changed row count: %d, want 1", len(issues))
	}
	if issues[0].IsReturn {
		t.Fatalf("failed return flipped issue %d", issues[0].ID)
	}

	// The right staff member still can.
	returned, err := models.CreateIssue(ctx, &models.NewIssue{
		Department:    "IT",
		StaffName:     "Mg Mg",
		CategoryID:    categoryId,
		SubcategoryID: subcategoryId,
		Quantity:      -3,
		Date:          "2026-06-03",
	})
	if err != nil {
		t.Fatalf("return: %v", err)
	}
	if returned.ID != issue.ID {
		t.Fatalf("return flipped issue %d, want %d", returned.ID, issue.ID)
	}
}

func TestCreateIssue_ReturnQuantityMustMatchExactly(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	categoryId, subcategoryId := seedCatalog(t, ctx, "Accessory", "Cable")
	seedPurchase(t, ctx, categoryId, subcategoryId, "", "", 10)

	if _, err := models.CreateIssue(ctx, &models.NewIssue{
		Department:    "IT",
		StaffName:     "Zaw Zaw",
		CategoryID:    categoryId,
		SubcategoryID: subcategoryId,
		Quantity:      3,
		Date:          "2026-04-01",
	}); err != nil {
		t.Fatalf("issue: %v", err)
	}

	// An issue of 3 cannot be reconciled by a return of 2.
	_, err := models.CreateIssue(ctx, &models.NewIssue{
		Department:    "IT",
		StaffName:     "Zaw Zaw",
		CategoryID:    categoryId,
		SubcategoryID: subcategoryId,
		Quantity:      -2,
		Date:          "2026-04-02",
	})
	if !errors.Is(err, models.ErrNoMatchingIssue) {
		t.Fatalf("partial return: got %v, want ErrNoMatchingIssue", err)
	}
}

func TestGetStockOverview_Totals(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	categoryId, subcategoryId := seedCatalog(t, ctx, "PC", "Laptop")
	seedPurchase(t, ctx, categoryId, subcategoryId, "Core i5 8GB", "", 5)

	if _, err := models.CreateIssue(ctx, &models.NewIssue{
		Department:    "IT",
		StaffName:     "Hla Hla",
		CategoryID:    categoryId,
		SubcategoryID: subcategoryId,
		SpecsItemID:   mustResolveSpecsItem(t, ctx, subcategoryId, "Core i5 8GB"),
		Quantity:      2,
		Date:          "2026-05-01",
	}); err != nil {
		t.Fatalf("issue: %v", err)
	}

	overview, err := models.GetStockOverview(ctx)
	if err != nil {
		t.Fatalf("GetStockOverview: %v", err)
	}
	if overview.TotalPurchaseQuantity != 5 {
		t.Fatalf("total purchased = %d, want 5", overview.TotalPurchaseQuantity)
	}
	if overview.TotalIssueQuantity != 2 {
		t.Fatalf("total issued = %d, want 2", overview.TotalIssueQuantity)
	}
	if len(overview.Rows) == 0 {
		t.Fatalf("overview has no rows")
	}
	row := overview.Rows[0]
	if row.StockAvailable != 3 {
		t.Fatalf("row available = %d, want 3", row.StockAvailable)
	}
}

func mustResolveSpecsItem(t *testing.T, ctx context.Context, subcategoryId int, specs string) int {
	t.Helper()
	options, err := models.GetPurchasedSpecs(ctx, subcategoryId)
	if err != nil {
		t.Fatalf("GetPurchasedSpecs: %v", err)
	}
	for _, opt := range options {
		if opt.Specs == specs {
			return opt.ID
		}
	}
	t.Fatalf("no purchased specs option %q", specs)
	return 0
}
