package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/database"
	"fintrack/internal/models"
	"fintrack/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateExpense handles logging a new expense
func CreateExpense(c *gin.Context) {
	var request models.CreateExpenseRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input: "+err.Error(), err)
		return
	}

	if !request.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive"})
		return
	}

	userID := c.GetString("user_id")
	currency := request.Currency
	if currency == "" {
		currency = "INR"
	}

	expense := models.Expense{
		UserID:     userID,
		Title:      request.Title,
		Amount:     request.Amount,
		Category:   request.Category,
		Date:       request.Date,
		Notes:      request.Notes,
		ReceiptURL: request.ReceiptURL,
		Currency:   currency,
	}

	db := database.GetDB()
	if err := db.Create(&expense).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create expense", err)
		return
	}

	c.JSON(http.StatusCreated, expense)
}

// GetExpenses handles listing expenses with period filtering and pagination
func GetExpenses(c *gin.Context) {
	userID := c.GetString("user_id")
	db := database.GetDB()

	query := db.Model(&models.Expense{}).Where("user_id = ?", userID)

	// Period filtering relative to now
	period := c.DefaultQuery("period", "all")
	if period != "all" {
		now := time.Now()
		var startDate time.Time
		switch period {
		case "month":
			startDate = now.AddDate(0, -1, 0)
		case "quarter":
			startDate = now.AddDate(0, -3, 0)
		case "year":
			startDate = now.AddDate(-1, 0, 0)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period, must be month, quarter, year or all"})
			return
		}
		query = query.Where("date >= ?", startDate)
	}

	// Pagination with defaults
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100 // max limit
	}
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	var total int64
	if err := query.Count(&total).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to count expenses", err)
		return
	}

	var expenses []models.Expense
	if err := query.Order("date DESC").Limit(limit).Offset(offset).Find(&expenses).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch expenses", err)
		return
	}

	pages := (total + int64(limit) - 1) / int64(limit)
	c.JSON(http.StatusOK, gin.H{
		"expenses": expenses,
		"pagination": gin.H{
			"total": total,
			"page":  page,
			"limit": limit,
			"pages": pages,
		},
	})
}

// UpdateExpense handles editing an expense owned by the requester
func UpdateExpense(c *gin.Context) {
	userID := c.GetString("user_id")
	expenseID := c.Param("id")

	var request models.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input: "+err.Error(), err)
		return
	}

	db := database.GetDB()
	var expense models.Expense
	if err := db.Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to fetch expense", err)
		return
	}

	updates := map[string]interface{}{}
	if request.Title != "" {
		updates["title"] = request.Title
	}
	if request.Amount != nil {
		if !request.Amount.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive"})
			return
		}
		updates["amount"] = *request.Amount
	}
	if request.Category != "" {
		updates["category"] = request.Category
	}
	if request.Date != nil {
		updates["date"] = *request.Date
	}
	if request.Notes != nil {
		updates["notes"] = *request.Notes
	}
	if request.Currency != "" {
		updates["currency"] = request.Currency
	}

	if len(updates) > 0 {
		if err := db.Model(&expense).Updates(updates).Error; err != nil {
			handleError(c, http.StatusInternalServerError, "Failed to update expense", err)
			return
		}
	}

	c.JSON(http.StatusOK, expense)
}

// DeleteExpense soft-deletes an expense owned by the requester
func DeleteExpense(c *gin.Context) {
	userID := c.GetString("user_id")
	expenseID := c.Param("id")

	db := database.GetDB()
	result := db.Where("id = ? AND user_id = ?", expenseID, userID).Delete(&models.Expense{})
	if result.Error != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete expense", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UploadReceipt attaches a receipt file to an expense via Cloudinary.
// The receipts parameter is nil when Cloudinary is unconfigured.
func UploadReceipt(receipts *services.ReceiptService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if receipts == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Receipt storage is not configured"})
			return
		}

		userID := c.GetString("user_id")
		expenseID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid expense id"})
			return
		}

		db := database.GetDB()
		var expense models.Expense
		if err := db.Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
			return
		}

		fileHeader, err := c.FormFile("receipt")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing receipt file"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			handleError(c, http.StatusInternalServerError, "Failed to read uploaded file", err)
			return
		}
		defer file.Close()

		url, err := receipts.UploadReceipt(file, fileHeader.Filename, userID, expense.ID)
		if err != nil {
			handleError(c, http.StatusInternalServerError, "Failed to upload receipt", err)
			return
		}

		if err := db.Model(&expense).Update("receipt_url", url).Error; err != nil {
			handleError(c, http.StatusInternalServerError, "Failed to save receipt URL", err)
			return
		}

		log.Printf("Uploaded receipt for expense %d (user %s)", expense.ID, userID)
		c.JSON(http.StatusOK, gin.H{"receipt_url": url})
	}
}
