package middleware

import (
	"strings"

	"github.com/Anantmishra121/learningedgeBackend/models"
	"github.com/Anantmishra121/learningedgeBackend/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// tokenFromRequest reads the JWT from the Authorization header or the token cookie
func tokenFromRequest(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	if cookie, err := c.Cookie("token"); err == nil {
		return cookie
	}
	return ""
}

// AuthMiddleware validates the login token and puts the user in the context
func AuthMiddleware(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			utils.LogError("Missing auth token for %s", c.Request.URL.Path)
			utils.Unauthorized(c, utils.ErrTokenMissing)
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString, secret)
		if err != nil {
			utils.LogError("Invalid token: %v", err)
			utils.Unauthorized(c, utils.ErrInvalidToken)
			c.Abort()
			return
		}

		var user models.User
		if err := db.WithContext(c.Request.Context()).First(&user, claims.UserID).Error; err != nil {
			utils.LogError("User not found: %v", err)
			utils.Unauthorized(c, "User not found")
			c.Abort()
			return
		}

		c.Set("user", user)
		utils.LogDebug("User %d authenticated successfully", user.ID)
		c.Next()
	}
}

func requireAccountType(accountType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			utils.LogError("User not found in context")
			utils.Unauthorized(c, "User not found")
			c.Abort()
			return
		}

		if user.AccountType != accountType {
			utils.LogError("User %d with role %s denied %s route", user.ID, user.AccountType, accountType)
			utils.Forbidden(c, "This is a Protected Route for "+accountType)
			c.Abort()
			return
		}
		c.Next()
	}
}

// IsStudent allows only student accounts
func IsStudent() gin.HandlerFunc {
	return requireAccountType(models.AccountTypeStudent)
}

// IsInstructor allows only instructor accounts
func IsInstructor() gin.HandlerFunc {
	return requireAccountType(models.AccountTypeInstructor)
}

// IsAdmin allows only admin accounts
func IsAdmin() gin.HandlerFunc {
	return requireAccountType(models.AccountTypeAdmin)
}

// CurrentUser returns the authenticated user set by AuthMiddleware
func CurrentUser(c *gin.Context) (models.User, bool) {
	value, exists := c.Get("user")
	if !exists {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}
