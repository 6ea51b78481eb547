package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/inventory_backend/config"
	"bitbucket.org/mmdatafocus/inventory_backend/utils"
)

type Category struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCategory struct {
	Name string `json:"name" binding:"required"`
}

func CreateCategory(ctx context.Context, input *NewCategory) (*Category, error) {
	if err := utils.ValidateUnique[Category](ctx, "name", input.Name, 0); err != nil {
		return nil, err
	}

	db := config.GetDB()
	category := Category{
		Name: input.Name,
	}
	if err := db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}

	return &category, nil
}

// FirstOrCreateCategoryByName backs the "custom category" path on the item
// form: a name typed free-hand reuses the existing row when one matches
// case-insensitively.
func FirstOrCreateCategoryByName(ctx context.Context, name string) (*Category, error) {
	db := config.GetDB()
	var category Category
	err := db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&category).Error
	if err == nil {
		return &category, nil
	}
	category = Category{Name: name}
	if err := db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func GetCategory(ctx context.Context, id int) (*Category, error) {
	return utils.FetchModel[Category](ctx, id)
}

func GetAllCategories(ctx context.Context) ([]*Category, error) {
	db := config.GetDB()
	var categories []*Category
	if err := db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

type Subcategory struct {
	ID         int       `gorm:"primary_key" json:"id"`
	CategoryID int       `gorm:"index;not null" json:"category_id" binding:"required"`
	Category   *Category `json:"category,omitempty"`
	Name       string    `gorm:"size:100;not null" json:"name" binding:"required"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSubcategory struct {
	CategoryID int    `json:"category_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
}

func (input *NewSubcategory) validate(ctx context.Context) error {
	if err := utils.ValidateResourceId[Category](ctx, input.CategoryID); err != nil {
		return err
	}
	// unique per category, case-insensitive
	count, err := utils.ResourceCountWhere[Subcategory](ctx, "LOWER(name) = LOWER(?) AND category_id = ?", input.Name, input.CategoryID)
	if err != nil {
		return err
	}
	if count > 0 {
		return NewValidationError("subcategory already exists for this category")
	}
	return nil
}

func CreateSubcategory(ctx context.Context, input *NewSubcategory) (*Subcategory, error) {
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	db := config.GetDB()
	subcategory := Subcategory{
		CategoryID: input.CategoryID,
		Name:       input.Name,
	}
	if err := db.WithContext(ctx).Create(&subcategory).Error; err != nil {
		return nil, err
	}

	return &subcategory, nil
}

// FirstOrCreateSubcategoryByName mirrors FirstOrCreateCategoryByName for the
// custom-subcategory path.
func FirstOrCreateSubcategoryByName(ctx context.Context, categoryId int, name string) (*Subcategory, error) {
	db := config.GetDB()
	var subcategory Subcategory
	err := db.WithContext(ctx).Where("LOWER(name) = LOWER(?) AND category_id = ?", name, categoryId).First(&subcategory).Error
	if err == nil {
		return &subcategory, nil
	}
	subcategory = Subcategory{CategoryID: categoryId, Name: name}
	if err := db.WithContext(ctx).Create(&subcategory).Error; err != nil {
		return nil, err
	}
	return &subcategory, nil
}

func GetSubcategory(ctx context.Context, id int) (*Subcategory, error) {
	return utils.FetchModel[Subcategory](ctx, id)
}

func GetSubcategoriesByCategory(ctx context.Context, categoryId int) ([]*Subcategory, error) {
	db := config.GetDB()
	var subcategories []*Subcategory
	if err := db.WithContext(ctx).Where("category_id = ?", categoryId).Order("name ASC").Find(&subcategories).Error; err != nil {
		return nil, err
	}
	return subcategories, nil
}
