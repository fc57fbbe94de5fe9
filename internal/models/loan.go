package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus represents the repayment state of a loan
type LoanStatus string

const (
	LoanActive    LoanStatus = "active"
	LoanRepaid    LoanStatus = "repaid"
	LoanDefaulted LoanStatus = "defaulted"
)

// Loan represents a non-installment loan being tracked
type Loan struct {
	ID           uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       string          `gorm:"size:36;not null;index:idx_loan_user_status" json:"user_id"`
	Institution  string          `gorm:"size:255;not null" json:"institution"`
	Principal    decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"principal"`
	InterestRate float64         `gorm:"not null" json:"interest_rate"`
	Amount       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	StartDate    time.Time       `gorm:"not null" json:"start_date"`
	EndDate      *time.Time      `json:"end_date"`
	Status       LoanStatus      `gorm:"size:10;not null;default:'active';index:idx_loan_user_status" json:"status"`
	CreatedAt    time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null" json:"updated_at"`
}

// TableName specifies the table name for the Loan model
func (Loan) TableName() string {
	return "loan"
}

// CreateLoanRequest represents the data needed to track a new loan
type CreateLoanRequest struct {
	Institution  string          `json:"institution" binding:"required,max=255"`
	Principal    decimal.Decimal `json:"principal" binding:"required"`
	InterestRate float64         `json:"interest_rate" binding:"min=0"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	StartDate    time.Time       `json:"start_date" binding:"required"`
	EndDate      *time.Time      `json:"end_date"`
	Status       LoanStatus      `json:"status" binding:"omitempty,oneof=active repaid defaulted"`
}
