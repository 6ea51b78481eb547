package models_test

import (
	"context"
	"errors"
	"testing"

	"bitbucket.org/mmdatafocus/inventory_backend/models"
)

func TestNormalizeSpecs(t *testing.T) {
	str := func(s string) *string { return &s }
	cases := []struct {
		name string
		in   *string
		want *string
	}{
		{"nil", nil, nil},
		{"empty", str(""), nil},
		{"whitespace", str("   "), nil},
		{"dash", str("-"), nil},
		{"padded dash", str(" - "), nil},
		{"real specs", str("Core i5 8GB"), str("Core i5 8GB")},
		{"trims", str("  Core i5  "), str("Core i5")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := models.NormalizeSpecs(tc.in)
			if (got == nil) != (tc.want == nil) {
				t.Fatalf("NormalizeSpecs = %v, want %v", got, tc.want)
			}
			if got != nil && *got != *tc.want {
				t.Fatalf("NormalizeSpecs = %q, want %q", *got, *tc.want)
			}
		})
	}
}

// Sentinel specs values ("", "-", NULL) all mean "no specification": issues
// against a spec-less subcategory must resolve to one stable item regardless
// of which sentinel the purchases carried.
func TestResolveItemForIssue_SentinelPriority(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	categoryId, subcategoryId := seedCatalog(t, ctx, "Accessory", "Headset")
	dash := seedPurchase(t, ctx, categoryId, subcategoryId, "-", "", 3)
	empty := seedPurchase(t, ctx, categoryId, subcategoryId, "", "", 2)

	if dash.ItemID == empty.ItemID {
		t.Fatalf("purchase keys on literal specs: %q and %q must be distinct items", "-", "")
	}

	// "" sorts before "-" in the sentinel order, so issues bind to the "" item.
	resolved, err := models.ResolveItemForIssue(ctx, categoryId, subcategoryId, 0)
	if err != nil {
		t.Fatalf("ResolveItemForIssue: %v", err)
	}
	if resolved.Item.ID != empty.ItemID {
		t.Fatalf("resolved item %d, want empty-specs item %d", resolved.Item.ID, empty.ItemID)
	}

	// Resolution is stable across calls.
	again, err := models.ResolveItemForIssue(ctx, categoryId, subcategoryId, 0)
	if err != nil {
		t.Fatalf("ResolveItemForIssue again: %v", err)
	}
	if again.Item.ID != resolved.Item.ID {
		t.Fatalf("resolution not idempotent: %d then %d", resolved.Item.ID, again.Item.ID)
	}
}

func TestResolveItemForIssue_CreatesSpecLessItemOnFirstSight(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	categoryId, subcategoryId := seedCatalog(t, ctx, "Furniture", "Chair")

	resolved, err := models.ResolveItemForIssue(ctx, categoryId, subcategoryId, 0)
	if err != nil {
		t.Fatalf("ResolveItemForIssue: %v", err)
	}
	if resolved.Item.Specs != nil {
		t.Fatalf("lazily created item has specs %q, want NULL", *resolved.Item.Specs)
	}

	again, err := models.ResolveItemForIssue(ctx, categoryId, subcategoryId, 0)
	if err != nil {
		t.Fatalf("ResolveItemForIssue again: %v", err)
	}
	if again.Item.ID != resolved.Item.ID {
		t.Fatalf("second resolution created a new item: %d then %d", resolved.Item.ID, again.Item.ID)
	}
}

func TestResolveItemForIssue_SpecsMandatoryWhenPurchased(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	categoryId, subcategoryId := seedCatalog(t, ctx, "PC", "Laptop")
	purchase := seedPurchase(t, ctx, categoryId, subcategoryId, "Core i7 16GB", "", 4)

	// No selection: rejected, not defaulted.
	_, err := models.ResolveItemForIssue(ctx, categoryId, subcategoryId, 0)
	var validationErr *models.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("missing specs selection: got %v, want ValidationError", err)
	}

	resolved, err := models.ResolveItemForIssue(ctx, categoryId, subcategoryId, purchase.ItemID)
	if err != nil {
		t.Fatalf("ResolveItemForIssue with selection: %v", err)
	}
	if resolved.Item.ID != purchase.ItemID {
		t.Fatalf("resolved item %d, want %d", resolved.Item.ID, purchase.ItemID)
	}
	if resolved.DisplayName() != "Core i7 16GB" {
		t.Fatalf("display name %q, want specs text", resolved.DisplayName())
	}
}

func TestResolvedItem_DisplayNameFallback(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	categoryId, subcategoryId := seedCatalog(t, ctx, "Furniture", "Desk")

	resolved, err := models.ResolveItemForIssue(ctx, categoryId, subcategoryId, 0)
	if err != nil {
		t.Fatalf("ResolveItemForIssue: %v", err)
	}
	if resolved.DisplayName() != "Desk" {
		t.Fatalf("display name %q, want subcategory name", resolved.DisplayName())
	}
}
