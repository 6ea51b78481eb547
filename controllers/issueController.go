package controllers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/inventory_backend/models"
	"github.com/gin-gonic/gin"
)

// IssueCreate records an issue, or reconciles a return when the quantity is
// negative.
func IssueCreate(c *gin.Context) {
	var in models.NewIssue
	if !bindJSON(c, &in) {
		return
	}
	issue, err := models.CreateIssue(c.Request.Context(), &in)
	if err != nil {
		respondError(c, "issueController.go", "IssueCreate", err)
		return
	}
	if issue.IsReturn {
		c.JSON(http.StatusOK, gin.H{"message": "return recorded successfully", "issue": issue})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "issue recorded successfully", "issue": issue})
}

func IssueList(c *gin.Context) {
	issues, err := models.GetAllIssues(c.Request.Context())
	if err != nil {
		respondError(c, "issueController.go", "IssueList", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"issues": issues})
}
