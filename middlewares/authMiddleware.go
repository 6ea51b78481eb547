package middlewares

import (
	"net/http"
	"strings"

	"bitbucket.org/mmdatafocus/inventory_backend/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware parses a Bearer token and stores the user identity in the
// request context. Routes that require a login should be wrapped with
// LoginRequired after this.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.Request.Header.Get("Authorization")

		if auth == "" {
			c.Next()
			return
		}

		bearer := "Bearer "
		if !strings.HasPrefix(auth, bearer) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		auth = auth[len(bearer):]

		validate, err := utils.JwtValidate(auth)
		if err != nil || !validate.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		claim, _ := validate.Claims.(*utils.JwtCustomClaim)

		ctx := c.Request.Context()
		ctx = utils.SetUserIdInContext(ctx, claim.ID)
		ctx = utils.SetUsernameInContext(ctx, claim.Username)
		ctx = utils.SetRoleInContext(ctx, claim.Role)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// LoginRequired rejects requests that did not present a valid token.
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetUserIdFromContext(c.Request.Context()); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "you need to be logged in"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminOnly rejects requests whose token does not carry the admin role.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := utils.GetRoleFromContext(c.Request.Context())
		if role != "admin" {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied: admins only"})
			c.Abort()
			return
		}
		c.Next()
	}
}
