package utils

import (
	"context"

	"bitbucket.org/mmdatafocus/inventory_backend/config"
)

/* DB fetching */

// fetch model from db
// (may return RecordNotFound)
func FetchModel[T any](ctx context.Context, id int, associations ...string) (*T, error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	// preloading
	for _, field := range associations {
		dbCtx = dbCtx.Preload(field)
	}
	var result T
	err := dbCtx.First(&result, id).Error
	if err != nil {
		return nil, ErrorRecordNotFound
	}
	return &result, nil
}

// fetch all models from db
func FetchAllModels[T any](ctx context.Context, associations ...string) ([]*T, error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	// preloading
	for _, field := range associations {
		dbCtx = dbCtx.Preload(field)
	}
	var results []*T
	err := dbCtx.Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
