package handlers

import (
	"net/http"

	"fintrack/internal/database"
	"fintrack/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateLoan handles tracking a new loan
func CreateLoan(c *gin.Context) {
	var request models.CreateLoanRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input: "+err.Error(), err)
		return
	}

	if !request.Principal.IsPositive() || !request.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Principal and amount must be positive"})
		return
	}

	status := request.Status
	if status == "" {
		status = models.LoanActive
	}

	loan := models.Loan{
		UserID:       c.GetString("user_id"),
		Institution:  request.Institution,
		Principal:    request.Principal,
		InterestRate: request.InterestRate,
		Amount:       request.Amount,
		StartDate:    request.StartDate,
		EndDate:      request.EndDate,
		Status:       status,
	}

	db := database.GetDB()
	if err := db.Create(&loan).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create loan", err)
		return
	}

	c.JSON(http.StatusCreated, loan)
}

// GetLoans handles listing the requester's loans
func GetLoans(c *gin.Context) {
	userID := c.GetString("user_id")
	db := database.GetDB()

	query := db.Where("user_id = ?", userID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var loans []models.Loan
	if err := query.Order("created_at DESC").Find(&loans).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch loans", err)
		return
	}

	c.JSON(http.StatusOK, loans)
}
