package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EMIPaymentStatus represents the state of a single scheduled EMI payment
type EMIPaymentStatus string

const (
	EMIPaymentPending EMIPaymentStatus = "pending"
	EMIPaymentPaid    EMIPaymentStatus = "paid"
	EMIPaymentMissed  EMIPaymentStatus = "missed"
)

// EMI represents an equated-monthly-installment loan being tracked
type EMI struct {
	ID            uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        string          `gorm:"size:36;not null;index:idx_emi_user_active" json:"user_id"`
	Institution   string          `gorm:"size:255;not null" json:"institution"`
	Principal     decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"principal"`
	InterestRate  float64         `gorm:"not null" json:"interest_rate"`
	EMIAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"emi_amount"`
	DueDayOfMonth int             `gorm:"not null" json:"due_day_of_month"`
	StartDate     time.Time       `gorm:"not null" json:"start_date"`
	EndDate       time.Time       `gorm:"not null" json:"end_date"`
	Active        bool            `gorm:"not null;default:true;index:idx_emi_user_active" json:"active"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`
}

// EMIPayment represents one row of an EMI's amortization schedule
type EMIPayment struct {
	ID                   uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	EMIID                uint             `gorm:"not null;index:idx_emi_payment_due" json:"emi_id"`
	PaymentNumber        int              `gorm:"not null" json:"payment_number"`
	DueDate              time.Time        `gorm:"not null;index:idx_emi_payment_due" json:"due_date"`
	EMI                  decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"emi"`
	PrincipalComponent   decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"principal_component"`
	InterestComponent    decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"interest_component"`
	OutstandingPrincipal decimal.Decimal  `gorm:"type:decimal(14,2);not null" json:"outstanding_principal"`
	PaidAt               *time.Time       `json:"paid_at"`
	Status               EMIPaymentStatus `gorm:"size:10;not null;default:'pending'" json:"status"`
	CreatedAt            time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt            time.Time        `gorm:"not null" json:"updated_at"`
}

// TableName specifies the table name for the EMI model
func (EMI) TableName() string {
	return "emi"
}

// TableName specifies the table name for the EMIPayment model
func (EMIPayment) TableName() string {
	return "emi_payment"
}

// CreateEMIRequest represents the data needed to track a new EMI
type CreateEMIRequest struct {
	Institution   string          `json:"institution" binding:"required,max=255"`
	Principal     decimal.Decimal `json:"principal" binding:"required"`
	InterestRate  float64         `json:"interest_rate" binding:"min=0"`
	EMIAmount     decimal.Decimal `json:"emi_amount" binding:"required"`
	DueDayOfMonth int             `json:"due_day_of_month" binding:"required,min=1,max=31"`
	StartDate     time.Time       `json:"start_date" binding:"required"`
	EndDate       time.Time       `json:"end_date" binding:"required"`
}
