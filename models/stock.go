package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/inventory_backend/config"
	"gorm.io/gorm"
)

// AvailableStock answers "how much of item X (optionally serial S) can still
// be issued": purchased quantity minus non-returned issued quantity. A
// negative result is only possible if the no-oversubscription invariant was
// already violated and is treated as a bug signal, not a normal outcome.
func AvailableStock(ctx context.Context, itemId int, serialNo string) (int, error) {
	db := config.GetDB()
	return availableStockTx(db.WithContext(ctx), itemId, serialNo)
}

func availableStockTx(tx *gorm.DB, itemId int, serialNo string) (int, error) {
	purchased, err := totalPurchasedTx(tx, itemId, serialNo)
	if err != nil {
		return 0, err
	}
	issued, err := totalIssuedTx(tx, itemId, serialNo)
	if err != nil {
		return 0, err
	}
	return purchased - issued, nil
}

func totalPurchasedTx(tx *gorm.DB, itemId int, serialNo string) (int, error) {
	q := tx.Model(&Purchase{}).Where("item_id = ?", itemId)
	if serialNo != "" {
		q = q.Where("serial_no = ?", serialNo)
	}
	var total int
	if err := q.Select("COALESCE(SUM(quantity), 0)").Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func totalIssuedTx(tx *gorm.DB, itemId int, serialNo string) (int, error) {
	q := tx.Model(&Issue{}).Where("item_id = ? AND is_return = ?", itemId, false)
	if serialNo != "" {
		q = q.Where("serial_no = ?", serialNo)
	}
	var total int
	if err := q.Select("COALESCE(SUM(quantity), 0)").Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// StockRow is one dashboard line: available stock per (category, subcategory).
type StockRow struct {
	Category       string `json:"category"`
	Subcategory    string `json:"subcategory"`
	TotalPurchased int    `json:"total_purchased"`
	TotalIssued    int    `json:"total_issued"`
	StockAvailable int    `json:"stock_available"`
}

// StockOverview is the dashboard payload.
type StockOverview struct {
	TotalPurchaseQuantity int         `json:"total_purchase_quantity"`
	TotalIssueQuantity    int         `json:"total_issue_quantity"`
	TotalStaffCount       int64       `json:"total_staff_count"`
	Rows                  []*StockRow `json:"stock_data"`
}

const stockOverviewSQL = `
WITH all_categories AS (
    SELECT DISTINCT c.name AS category, s.name AS subcategory
    FROM items i
    LEFT JOIN categories c ON i.category_id = c.id
    LEFT JOIN subcategories s ON i.subcategory_id = s.id
    WHERE c.name IS NOT NULL AND s.name IS NOT NULL
),
purchase_totals AS (
    SELECT c.name AS category, s.name AS subcategory, COALESCE(SUM(p.quantity), 0) AS total_purchased
    FROM items i
    LEFT JOIN categories c ON i.category_id = c.id
    LEFT JOIN subcategories s ON i.subcategory_id = s.id
    LEFT JOIN purchases p ON i.id = p.item_id
    WHERE c.name IS NOT NULL AND s.name IS NOT NULL
    GROUP BY c.name, s.name
),
issue_totals AS (
    SELECT c.name AS category, s.name AS subcategory,
           COALESCE(SUM(CASE WHEN iss.is_return = false THEN iss.quantity ELSE 0 END), 0) AS total_issued
    FROM items i
    LEFT JOIN categories c ON i.category_id = c.id
    LEFT JOIN subcategories s ON i.subcategory_id = s.id
    LEFT JOIN issues iss ON i.id = iss.item_id
    WHERE c.name IS NOT NULL AND s.name IS NOT NULL
    GROUP BY c.name, s.name
)
SELECT ac.category, ac.subcategory,
       COALESCE(pt.total_purchased, 0) AS total_purchased,
       COALESCE(it.total_issued, 0) AS total_issued,
       COALESCE(pt.total_purchased, 0) - COALESCE(it.total_issued, 0) AS stock_available
FROM all_categories ac
LEFT JOIN purchase_totals pt ON ac.category = pt.category AND ac.subcategory = pt.subcategory
LEFT JOIN issue_totals it ON ac.category = it.category AND ac.subcategory = it.subcategory
ORDER BY ac.category, ac.subcategory`

const (
	stockOverviewCacheKey = "cache:stockOverview"
	stockOverviewCacheTTL = 30 * time.Second
)

// invalidateStockOverview drops the cached dashboard. Called after every
// successful purchase or issue write; a no-op when Redis is not configured.
func invalidateStockOverview() {
	_ = config.RemoveRedisKey(stockOverviewCacheKey)
}

// GetStockOverview builds the stock dashboard, serving from the Redis cache
// when a fresh copy is there.
func GetStockOverview(ctx context.Context) (*StockOverview, error) {
	var cached StockOverview
	if hit, err := config.GetRedisObject(stockOverviewCacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	db := config.GetDB()

	overview := StockOverview{Rows: []*StockRow{}}
	if err := db.WithContext(ctx).Model(&Purchase{}).
		Select("COALESCE(SUM(quantity), 0)").Scan(&overview.TotalPurchaseQuantity).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&Issue{}).
		Select("COALESCE(SUM(CASE WHEN is_return = false THEN quantity ELSE 0 END), 0)").
		Scan(&overview.TotalIssueQuantity).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&Staff{}).Count(&overview.TotalStaffCount).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Raw(stockOverviewSQL).Scan(&overview.Rows).Error; err != nil {
		return nil, err
	}
	_ = config.SetRedisObject(stockOverviewCacheKey, overview, stockOverviewCacheTTL)
	return &overview, nil
}
