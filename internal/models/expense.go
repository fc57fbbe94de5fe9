package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense represents a single logged expense
type Expense struct {
	ID         uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     string          `gorm:"size:36;not null;index:idx_expense_user_date" json:"user_id"`
	Title      string          `gorm:"size:255;not null" json:"title"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Category   string          `gorm:"size:100;not null" json:"category"`
	Date       time.Time       `gorm:"not null;index:idx_expense_user_date" json:"date"`
	Notes      string          `gorm:"type:text" json:"notes"`
	ReceiptURL string          `gorm:"size:512" json:"receipt_url"`
	Currency   string          `gorm:"size:3;not null;default:'INR'" json:"currency"`
	CreatedAt  time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"not null" json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Expense model
func (Expense) TableName() string {
	return "expense"
}

// CreateExpenseRequest represents the data needed to log a new expense
type CreateExpenseRequest struct {
	Title      string          `json:"title" binding:"required,max=255"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Category   string          `json:"category" binding:"required,max=100"`
	Date       time.Time       `json:"date" binding:"required"`
	Notes      string          `json:"notes" binding:"max=2000"`
	ReceiptURL string          `json:"receipt_url" binding:"omitempty,url"`
	Currency   string          `json:"currency" binding:"omitempty,len=3"`
}

// UpdateExpenseRequest represents the editable fields of an expense
type UpdateExpenseRequest struct {
	Title    string           `json:"title" binding:"omitempty,max=255"`
	Amount   *decimal.Decimal `json:"amount"`
	Category string           `json:"category" binding:"omitempty,max=100"`
	Date     *time.Time       `json:"date"`
	Notes    *string          `json:"notes"`
	Currency string           `json:"currency" binding:"omitempty,len=3"`
}
