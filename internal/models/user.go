package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User represents a registered user in the system
type User struct {
	ID                    string         `gorm:"primaryKey;size:36" json:"id"`
	GoogleID              string         `gorm:"uniqueIndex;size:128;not null" json:"-"`
	Email                 string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name                  string         `gorm:"size:255;not null" json:"name"`
	AvatarURL             string         `gorm:"size:512" json:"avatar_url"`
	EmailVerified         bool           `gorm:"not null;default:false" json:"email_verified"`
	EncryptedRefreshToken string         `gorm:"type:text" json:"-"`
	TokenExpiry           time.Time      `json:"-"`
	Preferences           datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"preferences"`
	LastLogin             time.Time      `gorm:"not null" json:"last_login"`
	CreatedAt             time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt             time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`
}

// UserPreferences is the shape of the Preferences JSON column
type UserPreferences struct {
	Currency     string `json:"currency"`
	EmailEnabled bool   `json:"email_enabled"`
	PushEnabled  bool   `json:"push_enabled"`
	InAppEnabled bool   `json:"in_app_enabled"`
}

// BeforeCreate hook is called before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}
	if u.LastLogin.IsZero() {
		u.LastLogin = now
	}
	return nil
}

// BeforeSave hook is called before saving the user
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "user"
}

// UpdateProfileRequest represents the data a user may change on their profile
type UpdateProfileRequest struct {
	Name        string           `json:"name" binding:"omitempty,max=255"`
	Preferences *UserPreferences `json:"preferences"`
}
