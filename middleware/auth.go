package middleware

import (
	"net/http"
	"strings"

	"github.com/alinbpe/motel-management-system/models"
	"github.com/alinbpe/motel-management-system/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const operatorKey = "operator"

// Auth validates the bearer token and loads the operator User into the
// context. Every mutating route sits behind this; the workflow service still
// re-checks the role policy itself.
func Auth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.JSONError(c, http.StatusUnauthorized, "authorization header missing")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		var user models.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "unknown operator")
			c.Abort()
			return
		}

		c.Set(operatorKey, user)
		c.Next()
	}
}

// Operator returns the authenticated user set by Auth.
func Operator(c *gin.Context) (models.User, bool) {
	value, exists := c.Get(operatorKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}
