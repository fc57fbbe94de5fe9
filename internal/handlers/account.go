package handlers

import (
	"encoding/json"
	"net/http"

	"fintrack/internal/database"
	"fintrack/internal/models"

	"github.com/gin-gonic/gin"
)

// GetCurrentUser returns the authenticated user's profile
func GetCurrentUser(c *gin.Context) {
	userID := c.GetString("user_id")

	db := database.GetDB()
	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles edits to the user's name and notification preferences
func UpdateProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var request models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input: "+err.Error(), err)
		return
	}

	db := database.GetDB()
	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	updates := map[string]interface{}{}
	if request.Name != "" {
		updates["name"] = request.Name
	}
	if request.Preferences != nil {
		prefs, err := json.Marshal(request.Preferences)
		if err != nil {
			handleError(c, http.StatusInternalServerError, "Failed to encode preferences", err)
			return
		}
		updates["preferences"] = prefs
	}

	if len(updates) > 0 {
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			handleError(c, http.StatusInternalServerError, "Failed to update profile", err)
			return
		}
	}

	c.JSON(http.StatusOK, user)
}
