package reports

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"bitbucket.org/mmdatafocus/inventory_backend/config"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type PurchaseExportRow struct {
	ID          int
	Vendor      string
	Date        time.Time
	Category    string
	Subcategory string
	Specs       *string
	SerialNo    *string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
}

const purchaseExportSQL = `
SELECT p.id, p.vendor, p.date, c.name AS category, s.name AS subcategory,
       i.specs, p.serial_no, p.quantity, p.unit_price,
       p.quantity * p.unit_price AS total_price
FROM purchases p
LEFT JOIN items i ON p.item_id = i.id
LEFT JOIN categories c ON i.category_id = c.id
LEFT JOIN subcategories s ON i.subcategory_id = s.id
%s
ORDER BY p.date DESC`

func getPurchaseExportRows(ctx context.Context, startDate, endDate *time.Time) ([]*PurchaseExportRow, error) {
	db := config.GetDB()

	where := ""
	args := []interface{}{}
	if startDate != nil && endDate != nil {
		where = "WHERE p.date >= ? AND p.date < ?"
		args = append(args, *startDate, endDate.AddDate(0, 0, 1))
	}

	var rows []*PurchaseExportRow
	sql := fmt.Sprintf(purchaseExportSQL, where)
	if err := db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

var purchaseExportHeader = []string{
	"Purchase ID", "Vendor", "Date", "Category", "Subcategory",
	"Specifications", "Serial Number", "Quantity", "Unit Price", "Total Price",
}

// WritePurchasesCSV streams the purchase register as CSV, with the overall
// item and amount totals appended as footer rows.
func WritePurchasesCSV(ctx context.Context, w io.Writer, startDate, endDate *time.Time) error {
	rows, err := getPurchaseExportRows(ctx, startDate, endDate)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(purchaseExportHeader); err != nil {
		return err
	}

	totalItems := 0
	totalAmount := decimal.Zero
	for _, row := range rows {
		record := []string{
			fmt.Sprint(row.ID),
			row.Vendor,
			row.Date.Format("2006-01-02"),
			row.Category,
			row.Subcategory,
			derefOrEmpty(row.Specs),
			derefOrEmpty(row.SerialNo),
			fmt.Sprint(row.Quantity),
			row.UnitPrice.StringFixed(2),
			row.TotalPrice.StringFixed(2),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
		totalItems += row.Quantity
		totalAmount = totalAmount.Add(row.TotalPrice)
	}
	if err := writer.Write([]string{}); err != nil {
		return err
	}
	if err := writer.Write([]string{"Total Items Purchased", fmt.Sprint(totalItems)}); err != nil {
		return err
	}
	if err := writer.Write([]string{"Total Amount Purchased", totalAmount.StringFixed(2)}); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// WritePurchasesExcel writes the same register as an xlsx workbook.
func WritePurchasesExcel(ctx context.Context, w io.Writer, startDate, endDate *time.Time) error {
	rows, err := getPurchaseExportRows(ctx, startDate, endDate)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	sheet := "Sheet1"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	for col, title := range purchaseExportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, title)
	}

	totalItems := 0
	totalAmount := decimal.Zero
	for i, row := range rows {
		values := []interface{}{
			row.ID,
			row.Vendor,
			row.Date.Format("2006-01-02"),
			row.Category,
			row.Subcategory,
			derefOrEmpty(row.Specs),
			derefOrEmpty(row.SerialNo),
			row.Quantity,
			row.UnitPrice.StringFixed(2),
			row.TotalPrice.StringFixed(2),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
		totalItems += row.Quantity
		totalAmount = totalAmount.Add(row.TotalPrice)
	}

	footerRow := len(rows) + 3
	f.SetCellValue(sheet, fmt.Sprintf("A%d", footerRow), "Total Items Purchased")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", footerRow), totalItems)
	f.SetCellValue(sheet, fmt.Sprintf("A%d", footerRow+1), "Total Amount Purchased")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", footerRow+1), totalAmount.StringFixed(2))

	return f.Write(w)
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
