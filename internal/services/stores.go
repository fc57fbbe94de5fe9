package services

import (
	"context"
	"time"

	"fintrack/internal/models"

	"gorm.io/gorm"
)

// GormReminderStore implements ReminderStore on the application database
type GormReminderStore struct {
	db *gorm.DB
}

// NewGormReminderStore wraps the given database handle
func NewGormReminderStore(db *gorm.DB) *GormReminderStore {
	return &GormReminderStore{db: db}
}

// FindDue returns active reminders whose scheduled time has passed and that
// have not already run inside the debounce window
func (s *GormReminderStore) FindDue(ctx context.Context, now time.Time, debounce time.Duration) ([]models.Reminder, error) {
	var reminders []models.Reminder
	cutoff := now.Add(-debounce)
	err := s.db.WithContext(ctx).
		Where("active = ? AND next_run_at <= ? AND (last_run_at IS NULL OR last_run_at < ?)", true, now, cutoff).
		Find(&reminders).Error
	return reminders, err
}

// RecordRun persists the outcome of one dispatch pass over a reminder
func (s *GormReminderStore) RecordRun(ctx context.Context, reminderID uint, lastRunAt, nextRunAt time.Time) error {
	return s.db.WithContext(ctx).
		Model(&models.Reminder{}).
		Where("id = ?", reminderID).
		Updates(map[string]interface{}{
			"last_run_at": lastRunAt,
			"next_run_at": nextRunAt,
			"run_count":   gorm.Expr("run_count + 1"),
		}).Error
}

// GormNotificationStore implements NotificationStore on the application database
type GormNotificationStore struct {
	db *gorm.DB
}

// NewGormNotificationStore wraps the given database handle
func NewGormNotificationStore(db *gorm.DB) *GormNotificationStore {
	return &GormNotificationStore{db: db}
}

// Create inserts an in-app notification
func (s *GormNotificationStore) Create(ctx context.Context, n *models.Notification) error {
	return s.db.WithContext(ctx).Create(n).Error
}

// GormSubscriptionStore implements SubscriptionStore on the application database
type GormSubscriptionStore struct {
	db *gorm.DB
}

// NewGormSubscriptionStore wraps the given database handle
func NewGormSubscriptionStore(db *gorm.DB) *GormSubscriptionStore {
	return &GormSubscriptionStore{db: db}
}

// FindByUser returns all push subscriptions registered by a user
func (s *GormSubscriptionStore) FindByUser(ctx context.Context, userID string) ([]models.PushSubscription, error) {
	var subs []models.PushSubscription
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&subs).Error
	return subs, err
}

// Delete removes a push subscription by ID
func (s *GormSubscriptionStore) Delete(ctx context.Context, subscriptionID uint) error {
	return s.db.WithContext(ctx).Delete(&models.PushSubscription{}, subscriptionID).Error
}

// GormUserDirectory implements UserDirectory on the application database
type GormUserDirectory struct {
	db *gorm.DB
}

// NewGormUserDirectory wraps the given database handle
func NewGormUserDirectory(db *gorm.DB) *GormUserDirectory {
	return &GormUserDirectory{db: db}
}

// EmailFor resolves a user ID to an email address; an unknown user yields an
// empty address rather than an error
func (s *GormUserDirectory) EmailFor(ctx context.Context, userID string) (string, error) {
	var user models.User
	err := s.db.WithContext(ctx).Select("email").Where("id = ?", userID).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return user.Email, nil
}
