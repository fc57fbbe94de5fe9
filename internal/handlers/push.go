package handlers

import (
	"errors"
	"net/http"

	"fintrack/internal/database"
	"fintrack/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SavePushSubscription registers or refreshes a browser push subscription.
// Subscriptions are keyed by endpoint: re-registering from the same browser
// updates the existing row, including moving it to the current user.
func SavePushSubscription(c *gin.Context) {
	var request models.SavePushSubscriptionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input: "+err.Error(), err)
		return
	}

	userID := c.GetString("user_id")
	userAgent := request.UserAgent
	if userAgent == "" {
		userAgent = c.GetHeader("User-Agent")
	}

	db := database.GetDB()
	var subscription models.PushSubscription
	err := db.Where("endpoint = ?", request.Endpoint).First(&subscription).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"user_id":    userID,
			"p256dh":     request.Keys.P256dh,
			"auth":       request.Keys.Auth,
			"user_agent": userAgent,
		}
		if err := db.Model(&subscription).Updates(updates).Error; err != nil {
			handleError(c, http.StatusInternalServerError, "Failed to update push subscription", err)
			return
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		subscription = models.PushSubscription{
			UserID:    userID,
			Endpoint:  request.Endpoint,
			P256dh:    request.Keys.P256dh,
			Auth:      request.Keys.Auth,
			UserAgent: userAgent,
		}
		if err := db.Create(&subscription).Error; err != nil {
			handleError(c, http.StatusInternalServerError, "Failed to save push subscription", err)
			return
		}
	default:
		handleError(c, http.StatusInternalServerError, "Failed to look up push subscription", err)
		return
	}

	c.JSON(http.StatusCreated, subscription)
}

// DeletePushSubscription removes the requester's subscription for an endpoint
func DeletePushSubscription(c *gin.Context) {
	var request models.DeletePushSubscriptionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input: "+err.Error(), err)
		return
	}

	userID := c.GetString("user_id")
	db := database.GetDB()
	if err := db.Where("endpoint = ? AND user_id = ?", request.Endpoint, userID).
		Delete(&models.PushSubscription{}).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete push subscription", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
