package controllers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/inventory_backend/models"
	"github.com/gin-gonic/gin"
)

func StaffList(c *gin.Context) {
	staff, err := models.GetAllStaff(c.Request.Context())
	if err != nil {
		respondError(c, "staffController.go", "StaffList", err)
		return
	}
	departments, err := models.GetDepartments(c.Request.Context())
	if err != nil {
		respondError(c, "staffController.go", "StaffList", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"staff": staff, "departments": departments})
}

func StaffCreate(c *gin.Context) {
	var in models.NewStaff
	if !bindJSON(c, &in) {
		return
	}

	staff, err := models.CreateStaff(c.Request.Context(), &in)
	if err != nil {
		respondError(c, "staffController.go", "StaffCreate", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "staff member added successfully", "staff": staff})
}

func StaffUpdate(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	var in models.NewStaff
	if !bindJSON(c, &in) {
		return
	}

	staff, err := models.UpdateStaff(c.Request.Context(), id, &in)
	if err != nil {
		respondError(c, "staffController.go", "StaffUpdate", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "staff updated successfully", "staff": staff})
}

func StaffDelete(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	staff, err := models.DeleteStaff(c.Request.Context(), id)
	if err != nil {
		respondError(c, "staffController.go", "StaffDelete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "staff deleted successfully", "staff": staff})
}
