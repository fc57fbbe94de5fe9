package handlers

import (
	"errors"
	"net/http"
	"time"

	"fintrack/internal/database"
	"fintrack/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetNotifications returns the requester's 50 most recent in-app notifications
func GetNotifications(c *gin.Context) {
	userID := c.GetString("user_id")
	db := database.GetDB()

	var notifications []models.Notification
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(50).
		Find(&notifications).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch notifications", err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead stamps a notification as read by its owner
func MarkNotificationRead(c *gin.Context) {
	userID := c.GetString("user_id")
	notificationID := c.Param("id")

	db := database.GetDB()
	var notification models.Notification
	if err := db.Where("id = ? AND user_id = ?", notificationID, userID).First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to fetch notification", err)
		return
	}

	now := time.Now()
	if err := db.Model(&notification).Update("read_at", now).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to mark notification as read", err)
		return
	}

	notification.ReadAt = &now
	c.JSON(http.StatusOK, notification)
}
