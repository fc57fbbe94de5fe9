package auth

import (
	"net/http"

	"fintrack/internal/database"
	"fintrack/internal/models"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the session and stores the user in the context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := GetSession(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		if session.IsExpired() {
			DeleteSession(c)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired, please log in again"})
			c.Abort()
			return
		}

		var user models.User
		db := database.GetDB()
		if err := db.Where("id = ?", session.UserID).First(&user).Error; err != nil {
			DeleteSession(c)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		// Store user info in context for handlers to use
		c.Set("user_id", user.ID)
		c.Set("email", user.Email)
		c.Set("name", user.Name)

		c.Next()
	}
}

// LogoutHandler handles user logout
func LogoutHandler(c *gin.Context) {
	DeleteSession(c)
	c.Redirect(http.StatusTemporaryRedirect, "/")
}
