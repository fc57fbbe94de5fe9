package models

import "time"

// NotificationType tags what produced an in-app notification
type NotificationType string

const (
	NotificationReminder NotificationType = "reminder"
	NotificationPayment  NotificationType = "payment"
	NotificationSystem   NotificationType = "system"
)

// Notification is an in-app notification shown in the user's notification panel
type Notification struct {
	ID        uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string           `gorm:"size:36;not null;index" json:"user_id"`
	Title     string           `gorm:"size:255;not null" json:"title"`
	Body      string           `gorm:"type:text;not null" json:"body"`
	Type      NotificationType `gorm:"size:10;not null;default:'reminder'" json:"type"`
	ReadAt    *time.Time       `json:"read_at"`
	CreatedAt time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time        `gorm:"not null" json:"updated_at"`
}

// PushSubscription is a browser web-push registration for a user.
// The push channel deletes a row itself when the remote endpoint reports
// the subscription as gone.
type PushSubscription struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"size:36;not null;index" json:"user_id"`
	Endpoint  string    `gorm:"size:512;uniqueIndex;not null" json:"endpoint"`
	P256dh    string    `gorm:"size:255;not null" json:"-"`
	Auth      string    `gorm:"size:255;not null" json:"-"`
	UserAgent string    `gorm:"size:512" json:"user_agent"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// EmailLogStatus is the delivery outcome recorded for a sent email
type EmailLogStatus string

const (
	EmailLogSent   EmailLogStatus = "sent"
	EmailLogFailed EmailLogStatus = "failed"
)

// EmailLog records every transactional email attempt for observability
type EmailLog struct {
	ID       uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   string         `gorm:"size:36;not null;index:idx_email_log_user_sent" json:"user_id"`
	To       string         `gorm:"size:255;not null" json:"to"`
	Subject  string         `gorm:"size:255;not null" json:"subject"`
	Status   EmailLogStatus `gorm:"size:10;not null" json:"status"`
	Provider string         `gorm:"size:30;not null" json:"provider"`
	Error    string         `gorm:"type:text" json:"error,omitempty"`
	SentAt   time.Time      `gorm:"not null;index:idx_email_log_user_sent" json:"sent_at"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notification"
}

// TableName specifies the table name for the PushSubscription model
func (PushSubscription) TableName() string {
	return "push_subscription"
}

// TableName specifies the table name for the EmailLog model
func (EmailLog) TableName() string {
	return "email_log"
}

// SubscriptionKeys carries the two client keys of a web-push subscription
type SubscriptionKeys struct {
	P256dh string `json:"p256dh" binding:"required"`
	Auth   string `json:"auth" binding:"required"`
}

// SavePushSubscriptionRequest represents a browser registering for push
type SavePushSubscriptionRequest struct {
	Endpoint  string           `json:"endpoint" binding:"required,url"`
	Keys      SubscriptionKeys `json:"keys" binding:"required"`
	UserAgent string           `json:"user_agent" binding:"max=512"`
}

// DeletePushSubscriptionRequest identifies a subscription by its endpoint
type DeletePushSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required,url"`
}
