package Middleware

import (
	"net/http"

	"AcuCare/Models"
	"AcuCare/Utils/Token"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// JwtAuthMiddleware verifies the bearer credential and stores the embedded
// identity on the context. It rejects with 401 without calling the handler.
func JwtAuthMiddleware(maker *Token.Maker) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := Token.ExtractJWT(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required", "code": "MISSING_TOKEN"})
			c.Abort()
			return
		}
		identity, err := maker.Verify(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "code": "INVALID_TOKEN"})
			c.Abort()
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequireRoles allows the request through only when the authenticated
// identity carries one of the listed roles.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required", "code": "MISSING_TOKEN"})
			c.Abort()
			return
		}
		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "Not enough permission", "code": "INSUFFICIENT_PERMISSIONS"})
		c.Abort()
	}
}

// RequireActiveUser rejects tokens whose account has since been deactivated.
func RequireActiveUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required", "code": "MISSING_TOKEN"})
			c.Abort()
			return
		}
		user, err := Models.GetUserByID(identity.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found", "code": "USER_NOT_FOUND"})
			c.Abort()
			return
		}
		if !user.IsActive() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is inactive", "code": "ACCOUNT_INACTIVE"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func IdentityFromContext(c *gin.Context) (Token.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return Token.Identity{}, false
	}
	identity, ok := value.(Token.Identity)
	return identity, ok
}

// SetIdentity is used by tests to seed an authenticated context.
func SetIdentity(c *gin.Context, identity Token.Identity) {
	c.Set(identityKey, identity)
}
