package models

import (
	"time"
)

// Cadence represents the recurrence interval of a reminder
type Cadence string

const (
	CadenceDaily   Cadence = "daily"
	CadenceWeekly  Cadence = "weekly"
	CadenceMonthly Cadence = "monthly"
	CadenceYearly  Cadence = "yearly"
)

// EntityType identifies the kind of record a reminder optionally points at
type EntityType string

const (
	EntityExpense EntityType = "expense"
	EntityEMI     EntityType = "emi"
	EntityLoan    EntityType = "loan"
)

// Reminder represents a recurring reminder owned by a user.
// NextRunAt, LastRunAt and RunCount are mutated only by the dispatch
// pipeline; everything else only by the owning user.
type Reminder struct {
	ID         uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     string     `gorm:"size:36;not null;index" json:"user_id"`
	Title      string     `gorm:"size:255;not null" json:"title"`
	Message    string     `gorm:"type:text;not null" json:"message"`
	Cadence    Cadence    `gorm:"size:10;not null" json:"cadence"`
	NextRunAt  time.Time  `gorm:"not null;index:idx_reminder_due" json:"next_run_at"`
	EntityType EntityType `gorm:"size:10" json:"entity_type,omitempty"`
	EntityID   uint       `json:"entity_id,omitempty"`
	Email      bool       `gorm:"not null;default:false" json:"email"`
	InApp      bool       `gorm:"not null;default:true" json:"in_app"`
	WebPush    bool       `gorm:"not null;default:false" json:"web_push"`
	Active     bool       `gorm:"not null;default:true;index:idx_reminder_due" json:"active"`
	LastRunAt  *time.Time `json:"last_run_at"`
	RunCount   int        `gorm:"not null;default:0" json:"run_count"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null" json:"updated_at"`
}

// TableName specifies the table name for the Reminder model
func (Reminder) TableName() string {
	return "reminder"
}

// CreateReminderRequest represents the data needed to create a reminder
type CreateReminderRequest struct {
	Title      string     `json:"title" binding:"required,max=255"`
	Message    string     `json:"message" binding:"required,max=2000"`
	Cadence    Cadence    `json:"cadence" binding:"required,oneof=daily weekly monthly yearly"`
	NextRunAt  time.Time  `json:"next_run_at" binding:"required"`
	EntityType EntityType `json:"entity_type" binding:"omitempty,oneof=expense emi loan"`
	EntityID   uint       `json:"entity_id"`
	Email      bool       `json:"email"`
	InApp      bool       `json:"in_app"`
	WebPush    bool       `json:"web_push"`
}

// UpdateReminderRequest represents the user-editable fields of a reminder
type UpdateReminderRequest struct {
	Title     string     `json:"title" binding:"omitempty,max=255"`
	Message   string     `json:"message" binding:"omitempty,max=2000"`
	Cadence   Cadence    `json:"cadence" binding:"omitempty,oneof=daily weekly monthly yearly"`
	NextRunAt *time.Time `json:"next_run_at"`
	Email     *bool      `json:"email"`
	InApp     *bool      `json:"in_app"`
	WebPush   *bool      `json:"web_push"`
	Active    *bool      `json:"active"`
}
