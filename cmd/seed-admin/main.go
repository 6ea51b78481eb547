// seed-admin creates or updates the default admin user.
//
// Usage (from backend directory):
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-admin
//
// The password comes from SEED_ADMIN_PASSWORD, defaulting to "admin123" for
// local development.
package main

import (
	"context"
	"fmt"
	"os"

	"gorm.io/gorm"

	"bitbucket.org/mmdatafocus/inventory_backend/config"
	"bitbucket.org/mmdatafocus/inventory_backend/models"
	"bitbucket.org/mmdatafocus/inventory_backend/utils"
)

const adminUsername = "admin"

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	models.MigrateTable()

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}

	var existing models.User
	err = db.WithContext(ctx).Model(&models.User{}).Where("username = ?", adminUsername).First(&existing).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			fmt.Fprintf(os.Stderr, "failed to lookup user: %v\n", err)
			os.Exit(1)
		}
		u := models.User{
			Username: adminUsername,
			Password: string(hashed),
			Role:     models.RoleAdmin,
		}
		if err := db.WithContext(ctx).Create(&u).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to create admin user: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created admin user: username=%q\n", adminUsername)
		return
	}

	if err := db.WithContext(ctx).Model(&models.User{}).Where("username = ?", adminUsername).Updates(map[string]any{
		"password": string(hashed),
		"role":     models.RoleAdmin,
	}).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to update admin user: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Updated admin user: username=%q\n", adminUsername)
}
