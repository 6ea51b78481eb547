package models

import (
	"context"
	"strconv"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/inventory_backend/config"
	"bitbucket.org/mmdatafocus/inventory_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Purchase is one received line of stock. Append-only.
type Purchase struct {
	ID        int             `gorm:"primary_key" json:"id"`
	ItemID    int             `gorm:"index;not null" json:"item_id"`
	Item      *Item           `json:"item,omitempty"`
	Vendor    string          `gorm:"size:100" json:"vendor"`
	Date      time.Time       `gorm:"not null" json:"date"`
	SerialNo  string          `gorm:"size:100" json:"serial_no"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	Remarks   string          `gorm:"size:255" json:"remarks"`
	BillImage string          `gorm:"size:255" json:"bill_image"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// NewPurchaseLine is one row of the batch purchase form. Quantity and unit
// price arrive as the raw form strings: empty rows are common and are skipped,
// while genuinely malformed numbers abort the whole batch.
type NewPurchaseLine struct {
	CategoryID    int    `json:"category_id"`
	SubcategoryID int    `json:"subcategory_id"`
	Specs         string `json:"specs"`
	SerialNo      string `json:"serial_no"`
	Quantity      string `json:"quantity"`
	UnitPrice     string `json:"unit_price"`
	Remarks       string `json:"remarks"`
}

type NewPurchase struct {
	Vendor    string            `json:"vendor" binding:"required"`
	Date      string            `json:"purchase_date" binding:"required"`
	BillImage string            `json:"bill_image"`
	Lines     []NewPurchaseLine `json:"lines" binding:"required,min=1"`
}

type purchaseLine struct {
	categoryId    int
	subcategoryId int
	specs         string
	serialNo      string
	quantity      int
	unitPrice     decimal.Decimal
	remarks       string
}

// parseLines validates numerics up front so a malformed row aborts the batch
// before anything is written.
func (input *NewPurchase) parseLines() ([]purchaseLine, error) {
	lines := make([]purchaseLine, 0, len(input.Lines))
	for i, raw := range input.Lines {
		// rows without a category/subcategory selection are blank form rows
		if raw.CategoryID == 0 || raw.SubcategoryID == 0 {
			continue
		}

		quantity := 0
		if q := strings.TrimSpace(raw.Quantity); q != "" {
			n, err := strconv.Atoi(q)
			if err != nil {
				return nil, NewValidationError("row %d: quantity %q is not a number", i+1, raw.Quantity)
			}
			quantity = n
		}
		unitPrice := decimal.Zero
		if p := strings.TrimSpace(raw.UnitPrice); p != "" {
			d, err := decimal.NewFromString(p)
			if err != nil {
				return nil, NewValidationError("row %d: unit price %q is not a number", i+1, raw.UnitPrice)
			}
			unitPrice = d
		}

		lines = append(lines, purchaseLine{
			categoryId:    raw.CategoryID,
			subcategoryId: raw.SubcategoryID,
			specs:         raw.Specs,
			serialNo:      raw.SerialNo,
			quantity:      quantity,
			unitPrice:     unitPrice,
			remarks:       raw.Remarks,
		})
	}
	return lines, nil
}

// CreatePurchase records a batch of purchase lines in one transaction. Each
// line resolves its item by exact (category, subcategory, specs) match,
// creating the item on first sight. Lines with quantity <= 0 still register
// their item in the catalog but write no purchase row, matching the batch
// form where empty rows are routine.
func CreatePurchase(ctx context.Context, input *NewPurchase) ([]*Purchase, error) {
	if strings.TrimSpace(input.Vendor) == "" || strings.TrimSpace(input.Date) == "" {
		return nil, NewValidationError("vendor and purchase date are required")
	}
	date, err := utils.ParseFlexibleDate(input.Date)
	if err != nil {
		return nil, NewValidationError("invalid purchase date: %v", err)
	}
	lines, err := input.parseLines()
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var created []*Purchase
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, line := range lines {
			item, txErr := firstOrCreateItemExact(tx, line.categoryId, line.subcategoryId, line.specs)
			if txErr != nil {
				return txErr
			}
			if line.quantity <= 0 {
				continue
			}
			if txErr := lockItemRowTx(tx, item.ID); txErr != nil {
				return txErr
			}
			purchase := Purchase{
				ItemID:    item.ID,
				Vendor:    input.Vendor,
				Date:      date,
				SerialNo:  line.serialNo,
				Quantity:  line.quantity,
				UnitPrice: line.unitPrice,
				Remarks:   line.remarks,
				BillImage: input.BillImage,
			}
			if txErr := tx.Create(&purchase).Error; txErr != nil {
				return txErr
			}
			created = append(created, &purchase)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	invalidateStockOverview()
	return created, nil
}

// PurchaseRow is one purchase list entry with its catalog names joined in.
type PurchaseRow struct {
	ID          int             `json:"id"`
	Vendor      string          `json:"vendor"`
	Date        time.Time       `json:"date"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory"`
	Specs       *string         `json:"specs"`
	Remarks     string          `json:"remarks"`
	SerialNo    string          `json:"serial_no"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	BillImage   string          `json:"bill_image"`
}

// SearchPurchases lists purchases newest-first, optionally filtered by a
// search term over vendor, category, subcategory and serial number.
func SearchPurchases(ctx context.Context, search string) ([]*PurchaseRow, error) {
	db := config.GetDB()
	q := db.WithContext(ctx).Model(&Purchase{}).
		Select(`purchases.id, purchases.vendor, purchases.date,
			c.name AS category, s.name AS subcategory, i.specs,
			purchases.remarks, purchases.serial_no, purchases.quantity,
			purchases.unit_price,
			purchases.quantity * purchases.unit_price AS total_price,
			purchases.bill_image`).
		Joins("JOIN items i ON purchases.item_id = i.id").
		Joins("JOIN categories c ON i.category_id = c.id").
		Joins("JOIN subcategories s ON i.subcategory_id = s.id")
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("purchases.vendor LIKE ? OR c.name LIKE ? OR s.name LIKE ? OR purchases.serial_no LIKE ?",
			like, like, like, like)
	}
	var rows []*PurchaseRow
	if err := q.Order("purchases.id DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetSerialsByItem lists the serial numbers purchased for one item.
func GetSerialsByItem(ctx context.Context, itemId int) ([]string, error) {
	db := config.GetDB()
	var serials []string
	err := db.WithContext(ctx).Model(&Purchase{}).
		Joins("JOIN items i ON purchases.item_id = i.id").
		Where("i.id = ? AND purchases.serial_no IS NOT NULL AND TRIM(purchases.serial_no) <> ''", itemId).
		Pluck("purchases.serial_no", &serials).Error
	if err != nil {
		return nil, err
	}
	return serials, nil
}

// GetSerialsBySubcategory lists serial numbers purchased across a subcategory.
func GetSerialsBySubcategory(ctx context.Context, subcategoryId int) ([]string, error) {
	db := config.GetDB()
	var serials []string
	err := db.WithContext(ctx).Model(&Purchase{}).
		Joins("JOIN items i ON purchases.item_id = i.id").
		Where("i.subcategory_id = ? AND purchases.serial_no IS NOT NULL AND TRIM(purchases.serial_no) <> ''", subcategoryId).
		Pluck("purchases.serial_no", &serials).Error
	if err != nil {
		return nil, err
	}
	return serials, nil
}
