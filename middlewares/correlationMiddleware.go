package middlewares

import (
	"bitbucket.org/mmdatafocus/inventory_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CorrelationMiddleware tags each request with a correlation id so log lines
// from one request can be tied together.
func CorrelationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationId := c.Request.Header.Get("X-Correlation-Id")
		if correlationId == "" {
			correlationId = uuid.NewString()
		}
		ctx := utils.SetCorrelationIdInContext(c.Request.Context(), correlationId)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set("X-Correlation-Id", correlationId)
		c.Next()
	}
}
