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

// CreateReminder handles creating a new recurring reminder
func CreateReminder(c *gin.Context) {
	var request models.CreateReminderRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input: "+err.Error(), err)
		return
	}

	if request.NextRunAt.Before(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Next run time must be in the future"})
		return
	}
	if request.EntityType != "" && request.EntityID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entity_id is required when entity_type is set"})
		return
	}

	reminder := models.Reminder{
		UserID:     c.GetString("user_id"),
		Title:      request.Title,
		Message:    request.Message,
		Cadence:    request.Cadence,
		NextRunAt:  request.NextRunAt,
		EntityType: request.EntityType,
		EntityID:   request.EntityID,
		Email:      request.Email,
		InApp:      request.InApp,
		WebPush:    request.WebPush,
		Active:     true,
	}

	db := database.GetDB()
	if err := db.Create(&reminder).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create reminder", err)
		return
	}

	c.JSON(http.StatusCreated, reminder)
}

// GetReminders handles listing the requester's reminders
func GetReminders(c *gin.Context) {
	userID := c.GetString("user_id")
	db := database.GetDB()

	var reminders []models.Reminder
	if err := db.Where("user_id = ?", userID).Order("next_run_at ASC").Find(&reminders).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch reminders", err)
		return
	}

	c.JSON(http.StatusOK, reminders)
}

// UpdateReminder handles editing a reminder owned by the requester.
// The run bookkeeping fields (last_run_at, run_count) belong to the
// dispatch pipeline and cannot be edited here.
func UpdateReminder(c *gin.Context) {
	userID := c.GetString("user_id")
	reminderID := c.Param("id")

	var request models.UpdateReminderRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input: "+err.Error(), err)
		return
	}

	db := database.GetDB()
	var reminder models.Reminder
	if err := db.Where("id = ? AND user_id = ?", reminderID, userID).First(&reminder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reminder not found"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to fetch reminder", err)
		return
	}

	updates := map[string]interface{}{}
	if request.Title != "" {
		updates["title"] = request.Title
	}
	if request.Message != "" {
		updates["message"] = request.Message
	}
	if request.Cadence != "" {
		updates["cadence"] = request.Cadence
	}
	if request.NextRunAt != nil {
		if request.NextRunAt.Before(time.Now()) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Next run time must be in the future"})
			return
		}
		updates["next_run_at"] = *request.NextRunAt
	}
	if request.Email != nil {
		updates["email"] = *request.Email
	}
	if request.InApp != nil {
		updates["in_app"] = *request.InApp
	}
	if request.WebPush != nil {
		updates["web_push"] = *request.WebPush
	}
	if request.Active != nil {
		updates["active"] = *request.Active
	}

	if len(updates) > 0 {
		if err := db.Model(&reminder).Updates(updates).Error; err != nil {
			handleError(c, http.StatusInternalServerError, "Failed to update reminder", err)
			return
		}
	}

	c.JSON(http.StatusOK, reminder)
}

// DeleteReminder handles removing a reminder owned by the requester
func DeleteReminder(c *gin.Context) {
	userID := c.GetString("user_id")
	reminderID := c.Param("id")

	db := database.GetDB()
	result := db.Where("id = ? AND user_id = ?", reminderID, userID).Delete(&models.Reminder{})
	if result.Error != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete reminder", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reminder not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
