package controllers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/inventory_backend/models"
	"bitbucket.org/mmdatafocus/inventory_backend/utils"
	"github.com/gin-gonic/gin"
)

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Login(c *gin.Context) {
	var in LoginInput
	if !bindJSON(c, &in) {
		return
	}

	user, err := models.Authenticate(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		respondError(c, "authController.go", "Login", err)
		return
	}

	token, err := utils.JwtGenerate(user.ID, user.Username, user.Role)
	if err != nil {
		respondError(c, "authController.go", "Login", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

func ChangeUserPassword(c *gin.Context) {
	userId, ok := utils.GetUserIdFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	var in models.ChangePassword
	if !bindJSON(c, &in) {
		return
	}

	if err := models.ChangeUserPassword(c.Request.Context(), userId, &in); err != nil {
		respondError(c, "authController.go", "ChangeUserPassword", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "your password has been updated successfully"})
}

func UserList(c *gin.Context) {
	users, err := models.GetAllUsers(c.Request.Context())
	if err != nil {
		respondError(c, "authController.go", "UserList", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func UserCreate(c *gin.Context) {
	var in models.NewUser
	if !bindJSON(c, &in) {
		return
	}

	user, err := models.CreateUser(c.Request.Context(), &in)
	if err != nil {
		respondError(c, "authController.go", "UserCreate", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "user added successfully", "user": user})
}

func UserDelete(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	user, err := models.DeleteUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, "authController.go", "UserDelete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted successfully", "user": user})
}
