package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/inventory_backend/config"
	"bitbucket.org/mmdatafocus/inventory_backend/utils"
	"gorm.io/gorm"
)

// Issue records a quantity of an item given to a staff member. Rows are
// append-only except for the return fields: reconciling a return flips
// IsReturn on the matched original issue instead of writing a new row.
type Issue struct {
	ID           int        `gorm:"primary_key" json:"id"`
	ItemID       int        `gorm:"index;not null" json:"item_id"`
	Item         *Item      `json:"item,omitempty"`
	Department   string     `gorm:"size:100;not null" json:"department"`
	StaffName    string     `gorm:"size:100;not null" json:"staff_name"`
	ItemName     string     `gorm:"size:255" json:"item_name"`
	Specs        *string    `gorm:"size:255" json:"specs"`
	Category     string     `gorm:"size:100" json:"category"`
	Subcategory  string     `gorm:"size:100" json:"subcategory"`
	Quantity     int        `gorm:"not null" json:"quantity"`
	Date         time.Time  `gorm:"not null" json:"date"`
	SerialNo     string     `gorm:"size:100" json:"serial_no"`
	Remarks      string     `gorm:"size:255" json:"remarks"`
	IsReturn     bool       `gorm:"not null;default:false;index" json:"is_return"`
	ReturnReason string     `gorm:"size:255" json:"return_reason"`
	ReturnDate   *time.Time `json:"return_date"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

type NewIssue struct {
	Department    string `json:"department" binding:"required"`
	StaffName     string `json:"staff_name" binding:"required"`
	CategoryID    int    `json:"category_id" binding:"required"`
	SubcategoryID int    `json:"subcategory_id" binding:"required"`
	// SpecsItemID selects a concrete item when the subcategory requires a
	// specification. Zero means "no selection".
	SpecsItemID int `json:"specs_id"`
	// Quantity is signed: positive issues stock, negative requests a return.
	Quantity int    `json:"quantity" binding:"required"`
	Date     string `json:"date" binding:"required"`
	SerialNo string `json:"serial_no"`
	Remarks  string `json:"remarks"`
}

func (input *NewIssue) validate() (time.Time, error) {
	if strings.TrimSpace(input.Department) == "" ||
		strings.TrimSpace(input.StaffName) == "" ||
		input.CategoryID == 0 || input.SubcategoryID == 0 ||
		strings.TrimSpace(input.Date) == "" {
		return time.Time{}, NewValidationError("department, staff, category, subcategory and date are required")
	}
	if input.Quantity == 0 {
		return time.Time{}, NewValidationError("quantity cannot be zero")
	}
	date, err := utils.ParseFlexibleDate(input.Date)
	if err != nil {
		return time.Time{}, NewValidationError("invalid date: %v", err)
	}
	return date, nil
}

// CreateIssue validates and records an issue or reconciles a return, as one
// atomic transaction. Stock checks and the subsequent write happen under a
// row lock on the item, so concurrent callers cannot jointly oversubscribe.
//
// Forward issue (Quantity > 0): whole-item availability is checked first,
// then availability scoped to the serial number when one is given, then a new
// open issue row is appended.
//
// Return (Quantity < 0): the most recent open issue matching (department,
// staff, item, abs quantity) is flipped to returned; no new row is written.
// The mutated original row is returned.
func CreateIssue(ctx context.Context, input *NewIssue) (*Issue, error) {
	date, err := input.validate()
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var issue *Issue
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		resolved, txErr := resolveItemForIssueTx(tx, input.CategoryID, input.SubcategoryID, input.SpecsItemID)
		if txErr != nil {
			return txErr
		}
		itemId := resolved.Item.ID

		// Redis lock is a best-effort optimization; the row lock below is
		// the actual guarantee.
		release, _ := utils.ItemLock(ctx, itemId, "issue.go", "CreateIssue")
		defer release()

		if txErr := lockItemRowTx(tx, itemId); txErr != nil {
			return txErr
		}

		if input.Quantity < 0 {
			issue, txErr = reconcileReturnTx(tx, input, itemId, date)
			return txErr
		}

		available, txErr := availableStockTx(tx, itemId, "")
		if txErr != nil {
			return txErr
		}
		if input.Quantity > available {
			return &InsufficientStockError{Available: available, Requested: input.Quantity}
		}
		if input.SerialNo != "" {
			serialAvailable, serr := availableStockTx(tx, itemId, input.SerialNo)
			if serr != nil {
				return serr
			}
			if input.Quantity > serialAvailable {
				return &InsufficientStockError{Available: serialAvailable, Requested: input.Quantity, SerialNo: input.SerialNo}
			}
		}

		issue = &Issue{
			ItemID:      itemId,
			Department:  input.Department,
			StaffName:   input.StaffName,
			ItemName:    resolved.DisplayName(),
			Specs:       resolved.Item.Specs,
			Category:    resolved.CategoryName,
			Subcategory: resolved.SubcategoryName,
			Quantity:    input.Quantity,
			Date:        date,
			SerialNo:    input.SerialNo,
			Remarks:     input.Remarks,
			IsReturn:    false,
		}
		return tx.Create(issue).Error
	})
	if err != nil {
		return nil, err
	}
	invalidateStockOverview()
	return issue, nil
}

// reconcileReturnTx matches a return request against the most recent open
// issue (highest id) for the same department, staff, item and quantity.
func reconcileReturnTx(tx *gorm.DB, input *NewIssue, itemId int, date time.Time) (*Issue, error) {
	positiveQty := -input.Quantity

	var original Issue
	err := tx.Where("department = ? AND staff_name = ? AND item_id = ? AND quantity = ? AND is_return = ?",
		input.Department, input.StaffName, itemId, positiveQty, false).
		Order("id DESC").
		First(&original).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoMatchingIssue
		}
		return nil, err
	}

	returnReason := input.Remarks
	if returnReason == "" {
		returnReason = fmt.Sprintf("Returned on %s", input.Date)
	}
	err = tx.Model(&original).Updates(map[string]interface{}{
		"is_return":     true,
		"return_reason": returnReason,
		"return_date":   date,
	}).Error
	if err != nil {
		return nil, err
	}
	return &original, nil
}

// GetAllIssues lists issues newest-first with their denormalized display fields.
func GetAllIssues(ctx context.Context) ([]*Issue, error) {
	db := config.GetDB()
	var issues []*Issue
	err := db.WithContext(ctx).Order("id DESC").Find(&issues).Error
	if err != nil {
		return nil, err
	}
	return issues, nil
}
