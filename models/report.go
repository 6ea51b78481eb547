package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/inventory_backend/config"
	"bitbucket.org/mmdatafocus/inventory_backend/utils"
)

// Laptop lifecycle policy: a laptop is written off 4.5 years after purchase,
// and an employee becomes eligible for one 18 months after joining.
const (
	laptopLifeDays        = 1642
	laptopEligibilityDays = 547
	laptopAgePolicy       = "4.5 Years"
	reportDateLayout      = "02 January, 2006"
)

type LaptopReportRow struct {
	User                string  `json:"user"`
	Department          string  `json:"department"`
	LaptopAgePolicy     string  `json:"laptop_age_policy"`
	DateOfPurchase      *string `json:"date_of_purchase"`
	EndOfLaptopLife     *string `json:"end_of_laptop_life"`
	IssueDate           string  `json:"issue_date"`
	EmployeeJoiningDate *string `json:"employee_joining_date"`
	EmployeeEligibility *string `json:"employee_eligibility"`
	Specs               *string `json:"specs"`
	SerialNo            string  `json:"serial_no"`
	Description         string  `json:"description"`
}

// LaptopReportFilter narrows the report. By is one of "Users", "Department",
// "Specs", "Serial No" (substring match on Value) or "Date of Purchase",
// "Issue Date", "Employee Joining Date" (exact day match on Date).
// Empty/"All" means no filter.
type LaptopReportFilter struct {
	By    string
	Value string
	Date  string
}

type laptopReportRecord struct {
	StaffName     string
	Department    string
	IssueDate     time.Time
	Specs         *string
	PurchaseDate  *time.Time
	SerialNo      string
	DateOfJoining *time.Time
	Remarks       string
}

// GetLaptopReport lists currently-open laptop issues with the lifecycle dates
// derived from the purchase and joining dates.
func GetLaptopReport(ctx context.Context, filter *LaptopReportFilter) ([]*LaptopReportRow, error) {
	db := config.GetDB()
	q := db.WithContext(ctx).Model(&Issue{}).
		Select(`issues.staff_name, issues.department, issues.date AS issue_date,
			issues.specs, p.date AS purchase_date, issues.serial_no,
			st.date_of_joining, p.remarks`).
		Joins("LEFT JOIN items i ON issues.item_id = i.id").
		Joins("LEFT JOIN purchases p ON i.id = p.item_id").
		Joins("LEFT JOIN staff st ON issues.staff_name = st.name").
		Joins("LEFT JOIN categories c ON i.category_id = c.id").
		Joins("LEFT JOIN subcategories s ON i.subcategory_id = s.id").
		Where("LOWER(c.name) LIKE ?", "%pc%").
		Where("LOWER(s.name) = ?", "laptop").
		Where("issues.is_return = ?", false)

	if filter != nil && filter.By != "" && filter.By != "All" {
		likeColumns := map[string]string{
			"Users":      "issues.staff_name",
			"Department": "issues.department",
			"Specs":      "issues.specs",
			"Serial No":  "issues.serial_no",
		}
		dateColumns := map[string]string{
			"Date of Purchase":      "p.date",
			"Issue Date":            "issues.date",
			"Employee Joining Date": "st.date_of_joining",
		}
		if col, ok := likeColumns[filter.By]; ok && filter.Value != "" {
			q = q.Where(col+" LIKE ?", "%"+filter.Value+"%")
		} else if col, ok := dateColumns[filter.By]; ok && filter.Date != "" {
			day, err := utils.ParseFlexibleDate(filter.Date)
			if err != nil {
				return nil, NewValidationError("invalid filter date: %v", err)
			}
			q = q.Where(col+" >= ? AND "+col+" < ?", day, day.AddDate(0, 0, 1))
		}
	}

	var records []laptopReportRecord
	if err := q.Group("issues.id").Order("issues.id DESC").Scan(&records).Error; err != nil {
		return nil, err
	}

	rows := make([]*LaptopReportRow, 0, len(records))
	for _, rec := range records {
		row := LaptopReportRow{
			User:            rec.StaffName,
			Department:      rec.Department,
			LaptopAgePolicy: laptopAgePolicy,
			IssueDate:       rec.IssueDate.Format(reportDateLayout),
			Specs:           rec.Specs,
			SerialNo:        rec.SerialNo,
			Description:     rec.Remarks,
		}
		if rec.PurchaseDate != nil {
			purchased := rec.PurchaseDate.Format(reportDateLayout)
			endOfLife := rec.PurchaseDate.AddDate(0, 0, laptopLifeDays).Format(reportDateLayout)
			row.DateOfPurchase = &purchased
			row.EndOfLaptopLife = &endOfLife
		}
		if rec.DateOfJoining != nil {
			joined := rec.DateOfJoining.Format(reportDateLayout)
			eligibility := rec.DateOfJoining.AddDate(0, 0, laptopEligibilityDays).Format(reportDateLayout)
			row.EmployeeJoiningDate = &joined
			row.EmployeeEligibility = &eligibility
		}
		rows = append(rows, &row)
	}
	return rows, nil
}
