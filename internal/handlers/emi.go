package handlers

import (
	"net/http"
	"strconv"

	"fintrack/internal/database"
	"fintrack/internal/models"
	"fintrack/internal/services"

	"github.com/gin-gonic/gin"
)

// CreateEMI handles tracking a new EMI, validating the amount and
// materializing its amortization schedule
func CreateEMI(c *gin.Context) {
	var request models.CreateEMIRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input: "+err.Error(), err)
		return
	}

	if !request.Principal.IsPositive() || !request.EMIAmount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Principal and EMI amount must be positive"})
		return
	}
	if !request.EndDate.After(request.StartDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "End date must be after start date"})
		return
	}

	if err := services.ValidateEMIAmount(request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("user_id")
	emi := models.EMI{
		UserID:        userID,
		Institution:   request.Institution,
		Principal:     request.Principal,
		InterestRate:  request.InterestRate,
		EMIAmount:     request.EMIAmount,
		DueDayOfMonth: request.DueDayOfMonth,
		StartDate:     request.StartDate,
		EndDate:       request.EndDate,
		Active:        true,
	}

	db := database.GetDB()
	if err := db.Create(&emi).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create EMI", err)
		return
	}

	// Persist the amortization schedule alongside the EMI
	schedule := services.BuildSchedule(emi)
	if len(schedule) > 0 {
		if err := db.Create(&schedule).Error; err != nil {
			handleError(c, http.StatusInternalServerError, "Failed to create EMI schedule", err)
			return
		}
	}

	c.JSON(http.StatusCreated, emi)
}

// GetEMIs handles listing the requester's EMIs, newest first
func GetEMIs(c *gin.Context) {
	userID := c.GetString("user_id")
	db := database.GetDB()

	query := db.Where("user_id = ?", userID)
	if activeStr := c.Query("active"); activeStr != "" {
		active, err := strconv.ParseBool(activeStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid active filter"})
			return
		}
		query = query.Where("active = ?", active)
	}

	var emis []models.EMI
	if err := query.Order("created_at DESC").Find(&emis).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch EMIs", err)
		return
	}

	c.JSON(http.StatusOK, emis)
}

// GetEMISchedule returns the amortization schedule for one of the
// requester's EMIs
func GetEMISchedule(c *gin.Context) {
	userID := c.GetString("user_id")
	emiID := c.Param("id")

	db := database.GetDB()
	var emi models.EMI
	if err := db.Where("id = ? AND user_id = ?", emiID, userID).First(&emi).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "EMI not found"})
		return
	}

	var schedule []models.EMIPayment
	if err := db.Where("emi_id = ?", emi.ID).Order("payment_number ASC").Find(&schedule).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch EMI schedule", err)
		return
	}

	// Older EMIs created before schedules were persisted get one on the fly
	if len(schedule) == 0 {
		schedule = services.BuildSchedule(emi)
	}

	c.JSON(http.StatusOK, schedule)
}
