package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/inventory_backend/config"
	"bitbucket.org/mmdatafocus/inventory_backend/utils"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Username  string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      string    `gorm:"size:20;not null;default:user" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Username        string `json:"username" binding:"required"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	Role            string `json:"role" binding:"required,oneof=admin user"`
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {
	if input.Password != input.ConfirmPassword {
		return nil, NewValidationError("passwords do not match")
	}
	if err := utils.ValidateUnique[User](ctx, "username", input.Username, 0); err != nil {
		return nil, NewValidationError("username already exists")
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	user := User{
		Username: input.Username,
		Password: string(hashed),
		Role:     input.Role,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies credentials and returns the matching user.
func Authenticate(ctx context.Context, username string, password string) (*User, error) {
	db := config.GetDB()
	var user User
	err := db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("invalid username or password")
		}
		return nil, err
	}
	if err := utils.ComparePassword(user.Password, password); err != nil {
		return nil, NewValidationError("invalid username or password")
	}
	return &user, nil
}

type ChangePassword struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

func ChangeUserPassword(ctx context.Context, userId int, input *ChangePassword) error {
	if input.NewPassword != input.ConfirmPassword {
		return NewValidationError("new passwords do not match")
	}

	user, err := utils.FetchModel[User](ctx, userId)
	if err != nil {
		return err
	}
	if err := utils.ComparePassword(user.Password, input.CurrentPassword); err != nil {
		return NewValidationError("your current password is not correct")
	}

	hashed, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	db := config.GetDB()
	return db.WithContext(ctx).Model(user).Update("password", string(hashed)).Error
}

func DeleteUser(ctx context.Context, id int) (*User, error) {
	user, err := utils.FetchModel[User](ctx, id)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func GetAllUsers(ctx context.Context) ([]*User, error) {
	db := config.GetDB()
	var users []*User
	if err := db.WithContext(ctx).Order("id DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
