package models

import (
	"context"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/inventory_backend/config"
	"bitbucket.org/mmdatafocus/inventory_backend/utils"
)

type Staff struct {
	ID            int        `gorm:"primary_key" json:"id"`
	Dept          string     `gorm:"size:100;not null" json:"dept"`
	Name          string     `gorm:"size:100;not null" json:"name"`
	Designation   string     `gorm:"size:100;not null" json:"designation"`
	DateOfJoining *time.Time `json:"date_of_joining"`
	Phone         string     `gorm:"size:30" json:"phone"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName overrides the default pluralization (staffs → staff).
func (Staff) TableName() string { return "staff" }

type NewStaff struct {
	Dept          string `json:"dept" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Designation   string `json:"designation" binding:"required"`
	DateOfJoining string `json:"date_of_joining"`
	Phone         string `json:"phone"`
}

func (input *NewStaff) validate() (*time.Time, error) {
	if strings.TrimSpace(input.Dept) == "" || strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Designation) == "" {
		return nil, NewValidationError("department, name and designation are required")
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return nil, NewValidationError("invalid phone number: %v", err)
		}
	}
	if strings.TrimSpace(input.DateOfJoining) == "" {
		return nil, nil
	}
	joined, err := utils.ParseFlexibleDate(input.DateOfJoining)
	if err != nil {
		return nil, NewValidationError("invalid date of joining: %v", err)
	}
	return &joined, nil
}

func CreateStaff(ctx context.Context, input *NewStaff) (*Staff, error) {
	joined, err := input.validate()
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	staff := Staff{
		Dept:          input.Dept,
		Name:          input.Name,
		Designation:   input.Designation,
		DateOfJoining: joined,
		Phone:         input.Phone,
	}
	if err := db.WithContext(ctx).Create(&staff).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

func UpdateStaff(ctx context.Context, id int, input *NewStaff) (*Staff, error) {
	joined, err := input.validate()
	if err != nil {
		return nil, err
	}

	staff, err := utils.FetchModel[Staff](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(staff).Updates(map[string]interface{}{
		"dept":            input.Dept,
		"name":            input.Name,
		"designation":     input.Designation,
		"date_of_joining": joined,
		"phone":           input.Phone,
	}).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

func DeleteStaff(ctx context.Context, id int) (*Staff, error) {
	staff, err := utils.FetchModel[Staff](ctx, id)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

func GetAllStaff(ctx context.Context) ([]*Staff, error) {
	db := config.GetDB()
	var staff []*Staff
	if err := db.WithContext(ctx).Order("id DESC").Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

// GetDepartments lists the distinct departments seen on staff records, for
// the department dropdowns on the staff and issue forms.
func GetDepartments(ctx context.Context) ([]string, error) {
	db := config.GetDB()
	var departments []string
	err := db.WithContext(ctx).Model(&Staff{}).
		Distinct("dept").
		Order("dept").
		Pluck("dept", &departments).Error
	if err != nil {
		return nil, err
	}
	return departments, nil
}
