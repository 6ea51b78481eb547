package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/inventory_backend/config"
	"bitbucket.org/mmdatafocus/inventory_backend/utils"
	"gorm.io/gorm"
)

// Item is the atomic unit of inventory, keyed by category, subcategory and an
// optional free-text specification. Items are created lazily the first time a
// purchase or issue references a new triple and are never deleted.
type Item struct {
	ID            int          `gorm:"primary_key" json:"id"`
	CategoryID    int          `gorm:"index;not null" json:"category_id"`
	Category      *Category    `json:"category,omitempty"`
	SubcategoryID int          `gorm:"index;not null" json:"subcategory_id"`
	Subcategory   *Subcategory `json:"subcategory,omitempty"`
	Specs         *string      `gorm:"size:255" json:"specs"`
	CreatedAt     time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// NormalizeSpecs maps every sentinel form of "no specification" (NULL, empty,
// "-", surrounding whitespace) to nil. Every ledger operation that reasons
// about specs goes through this one helper.
func NormalizeSpecs(raw *string) *string {
	if raw == nil {
		return nil
	}
	s := strings.TrimSpace(*raw)
	if s == "" || s == "-" {
		return nil
	}
	return &s
}

// sentinel ordering used when picking the item for a spec-less issue:
// NULL first, then empty string, then "-", then anything else, ties broken by
// lowest id (earliest created).
const specsSentinelOrder = `CASE WHEN specs IS NULL THEN 0
	WHEN TRIM(specs) = '' THEN 1
	WHEN TRIM(specs) = '-' THEN 2
	ELSE 3 END, id`

// ResolvedItem is an Item plus the display names the issue ledger denormalizes
// onto each issue row.
type ResolvedItem struct {
	Item            Item
	CategoryName    string
	SubcategoryName string
}

// DisplayName derives the human-readable item name recorded on issues:
// the first non-empty of specs, subcategory name, category name.
func (r *ResolvedItem) DisplayName() string {
	if s := NormalizeSpecs(r.Item.Specs); s != nil {
		return *s
	}
	if r.SubcategoryName != "" {
		return r.SubcategoryName
	}
	return r.CategoryName
}

// SubcategoryRequiresSpecs reports whether any historically-purchased item in
// the (category, subcategory) pair carries a meaningful specification. When it
// does, issue requests must select a concrete item id.
func SubcategoryRequiresSpecs(tx *gorm.DB, categoryId int, subcategoryId int) (bool, error) {
	var count int64
	err := tx.Model(&Item{}).
		Joins("JOIN purchases ON items.id = purchases.item_id").
		Where("items.category_id = ? AND items.subcategory_id = ?", categoryId, subcategoryId).
		Where("items.specs IS NOT NULL AND TRIM(items.specs) <> '' AND TRIM(items.specs) <> '-'").
		Distinct("items.id").
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ResolveItemForIssue resolves which item an issue request refers to.
//
// When the subcategory has purchased items with real specs, specsSelector is
// mandatory and is interpreted as an item id. Otherwise the spec-less item for
// the pair is looked up by sentinel priority, or created with NULL specs when
// the pair has never been seen.
func ResolveItemForIssue(ctx context.Context, categoryId int, subcategoryId int, specsSelector int) (*ResolvedItem, error) {
	db := config.GetDB()
	var resolved *ResolvedItem
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		resolved, txErr = resolveItemForIssueTx(tx, categoryId, subcategoryId, specsSelector)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

func resolveItemForIssueTx(tx *gorm.DB, categoryId int, subcategoryId int, specsSelector int) (*ResolvedItem, error) {
	requiresSpecs, err := SubcategoryRequiresSpecs(tx, categoryId, subcategoryId)
	if err != nil {
		return nil, err
	}

	if requiresSpecs {
		if specsSelector == 0 {
			return nil, NewValidationError("specs selection is required for this item")
		}
		var item Item
		if err := tx.First(&item, specsSelector).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, utils.ErrorRecordNotFound
			}
			return nil, err
		}
		return newResolvedItem(tx, item)
	}

	var item Item
	err = tx.Where("category_id = ? AND subcategory_id = ?", categoryId, subcategoryId).
		Order(specsSentinelOrder).
		First(&item).Error
	if err == nil {
		return newResolvedItem(tx, item)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// first issue against this pair: create the spec-less item
	item = Item{CategoryID: categoryId, SubcategoryID: subcategoryId, Specs: nil}
	if err := tx.Create(&item).Error; err != nil {
		return nil, err
	}
	return newResolvedItem(tx, item)
}

func newResolvedItem(tx *gorm.DB, item Item) (*ResolvedItem, error) {
	resolved := ResolvedItem{Item: item}
	var category Category
	if err := tx.First(&category, item.CategoryID).Error; err == nil {
		resolved.CategoryName = category.Name
	}
	var subcategory Subcategory
	if err := tx.First(&subcategory, item.SubcategoryID).Error; err == nil {
		resolved.SubcategoryName = subcategory.Name
	}
	return &resolved, nil
}

// firstOrCreateItemExact resolves the item for a purchase line by exact match
// on the (category, subcategory, specs-literal) triple. Unlike issue
// resolution, no sentinel normalization applies: purchases key on the literal
// specs text.
func firstOrCreateItemExact(tx *gorm.DB, categoryId int, subcategoryId int, specs string) (*Item, error) {
	var item Item
	err := tx.Where("category_id = ? AND subcategory_id = ? AND specs = ?", categoryId, subcategoryId, specs).
		First(&item).Error
	if err == nil {
		return &item, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	item = Item{CategoryID: categoryId, SubcategoryID: subcategoryId, Specs: &specs}
	if err := tx.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

type NewItem struct {
	CategoryID    int    `json:"category_id" binding:"required"`
	SubcategoryID int    `json:"subcategory_id" binding:"required"`
	Specs         string `json:"specs"`
}

// CreateItem is the explicit "items" page path; specs are stored as given.
func CreateItem(ctx context.Context, input *NewItem) (*Item, error) {
	if err := utils.ValidateResourceId[Category](ctx, input.CategoryID); err != nil {
		return nil, err
	}
	if err := utils.ValidateResourceId[Subcategory](ctx, input.SubcategoryID); err != nil {
		return nil, err
	}

	db := config.GetDB()
	item := Item{
		CategoryID:    input.CategoryID,
		SubcategoryID: input.SubcategoryID,
		Specs:         &input.Specs,
	}
	if err := db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func GetAllItems(ctx context.Context) ([]*Item, error) {
	db := config.GetDB()
	var items []*Item
	err := db.WithContext(ctx).
		Preload("Category").
		Preload("Subcategory").
		Order("id DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ItemSpecsOption is one selectable specification for the issue form.
type ItemSpecsOption struct {
	ID    int    `json:"id"`
	Specs string `json:"specs"`
}

// GetPurchasedSpecs lists the items of a subcategory that have been purchased
// with a meaningful specification, for the issue form's specs selector.
func GetPurchasedSpecs(ctx context.Context, subcategoryId int) ([]*ItemSpecsOption, error) {
	db := config.GetDB()
	var options []*ItemSpecsOption
	err := db.WithContext(ctx).Model(&Item{}).
		Select("DISTINCT items.id AS id, TRIM(items.specs) AS specs").
		Joins("JOIN purchases ON items.id = purchases.item_id").
		Where("items.subcategory_id = ?", subcategoryId).
		Where("items.specs IS NOT NULL AND TRIM(items.specs) <> '' AND TRIM(items.specs) <> '-'").
		Order("specs").
		Scan(&options).Error
	if err != nil {
		return nil, err
	}
	return options, nil
}
