// stock-recheck recomputes available stock for every item and reports
// anything negative. A negative balance means issues were recorded past the
// purchased quantity, usually by writes that predate the row locking in the
// issue path.
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/stock-recheck
package main

import (
	"context"
	"fmt"
	"os"

	"bitbucket.org/mmdatafocus/inventory_backend/config"
	"bitbucket.org/mmdatafocus/inventory_backend/models"
	"bitbucket.org/mmdatafocus/inventory_backend/utils"
)

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	items, err := utils.FetchAllModels[models.Item](ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to list items: %v\n", err)
		os.Exit(1)
	}

	negatives := 0
	for _, item := range items {
		available, err := models.AvailableStock(ctx, item.ID, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "item %d: %v\n", item.ID, err)
			continue
		}
		if available < 0 {
			negatives++
			specs := ""
			if item.Specs != nil {
				specs = *item.Specs
			}
			fmt.Printf("item %d (category=%d subcategory=%d specs=%q): available=%d\n",
				item.ID, item.CategoryID, item.SubcategoryID, specs, available)
		}
	}

	if negatives == 0 {
		fmt.Printf("checked %d items: no negative balances\n", len(items))
		return
	}
	fmt.Printf("checked %d items: %d negative balances\n", len(items), negatives)
	os.Exit(2)
}
