package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"bitbucket.org/mmdatafocus/inventory_backend/config"
	"bitbucket.org/mmdatafocus/inventory_backend/models"
	"bitbucket.org/mmdatafocus/inventory_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// respondError translates ledger errors into rejected-transaction responses.
// Recoverable errors (validation, insufficient stock, unmatched return) carry
// their message to the caller; anything unexpected is logged and reported as
// a generic internal failure without leaking detail.
func respondError(c *gin.Context, moduleName string, funcName string, err error) {
	var validationErr *models.ValidationError
	var stockErr *models.InsufficientStockError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": validationErr.Message})
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{
			"message":   stockErr.Error(),
			"available": stockErr.Available,
			"requested": stockErr.Requested,
			"serial_no": stockErr.SerialNo,
		})
	case errors.Is(err, models.ErrNoMatchingIssue):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	default:
		// tie the log line to the request and the acting user
		correlationId, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
		username, _ := utils.GetUsernameFromContext(c.Request.Context())
		config.LogError(config.GetLogger(), moduleName, funcName, "unexpected error", map[string]string{
			"correlation_id": correlationId,
			"username":       username,
		}, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
	}
}

func paramInt(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid " + name})
		return 0, false
	}
	return n, true
}

// bindJSON binds the payload and reports field-level validation failures.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "invalid payload",
				"errors":  utils.ProcessValidationErrors(err),
			})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload", "error": err.Error()})
		return false
	}
	return true
}
