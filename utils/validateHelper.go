package utils

import (
	"context"
	"errors"

	"bitbucket.org/mmdatafocus/inventory_backend/config"
)

// check if id exists, return RecordNotFound Error
func ValidateResourceId[T any](ctx context.Context, id interface{}) error {

	count, err := ResourceCountWhere[T](ctx, "id = ?", id)
	if err != nil {
		return err
	}
	if count <= 0 {
		return ErrorRecordNotFound
	}

	return nil
}

// reject a value already present in the column (case-insensitive),
// optionally excluding one row (for updates)
func ValidateUnique[T any](ctx context.Context, column string, value interface{}, exceptId int) error {
	var count int64
	var err error
	if exceptId == 0 {
		count, err = ResourceCountWhere[T](ctx, "LOWER("+column+") = LOWER(?)", value)
	} else {
		count, err = ResourceCountWhere[T](ctx, "LOWER("+column+") = LOWER(?) AND NOT id = ?", value, exceptId)
	}

	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("duplicate " + column)
	}
	return nil
}

// count records matching $condition
func ResourceCountWhere[T any](ctx context.Context, condition string, value ...interface{}) (int64, error) {
	var model T

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&model)
	var count int64
	dbCtx.Where(condition, value...)
	if err := dbCtx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
