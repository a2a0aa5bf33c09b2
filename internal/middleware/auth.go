package middleware

import (
	"acaia_backend/internal/model"
	"acaia_backend/internal/repository"
	"acaia_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and resolves the full user
// record, so handlers see current role and active status rather than
// whatever the token was minted with.
func AuthMiddleware(secret string, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			util.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, secret)
		if err != nil {
			util.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		user, err := users.FindUserByID(claims.UserID)
		if err != nil {
			util.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		if !user.IsActive {
			util.Unauthorized(c, "account is disabled")
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

// RoleMiddleware restricts the route to the given roles. Admins always
// pass.
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.CurrentUser(c)
		if user == nil {
			util.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}

		if user.Role != model.Admin {
			hasRole := false
			for _, role := range roles {
				if user.Role == role {
					hasRole = true
					break
				}
			}
			if !hasRole {
				util.Forbidden(c)
				c.Abort()
				return
			}
		}

		c.Next()
	}
}
