package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"fintrack/internal/models"

	"github.com/google/uuid"
)

// DebounceWindow is how recently a reminder may have run before the selector
// skips it. It guards against overlapping trigger invocations re-processing
// the same reminder; it is a heuristic, not a lock, so delivery is
// at-least-once.
const DebounceWindow = 5 * time.Minute

// ErrSubscriptionGone is returned by a PushSender when the remote endpoint
// reports the subscription as no longer valid (HTTP 404/410). The dispatcher
// reacts by deleting the subscription record.
var ErrSubscriptionGone = errors.New("push subscription gone")

// ChannelOutcome is the result of a single channel attempt
type ChannelOutcome int

const (
	// OutcomeSent means the channel delivered (or handed off) the notification
	OutcomeSent ChannelOutcome = iota
	// OutcomeSkipped means the channel was not attempted (unconfigured provider,
	// no recipient, no subscriptions)
	OutcomeSkipped
	// OutcomeFailed means the channel was attempted and failed
	OutcomeFailed
)

// ReminderStore provides the due-reminder query and the run-recording update
type ReminderStore interface {
	FindDue(ctx context.Context, now time.Time, debounce time.Duration) ([]models.Reminder, error)
	RecordRun(ctx context.Context, reminderID uint, lastRunAt, nextRunAt time.Time) error
}

// NotificationStore persists in-app notifications
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
}

// SubscriptionStore looks up and prunes web-push subscriptions
type SubscriptionStore interface {
	FindByUser(ctx context.Context, userID string) ([]models.PushSubscription, error)
	Delete(ctx context.Context, subscriptionID uint) error
}

// UserDirectory resolves a user ID to an email address.
// An empty address with a nil error means the user has no usable address.
type UserDirectory interface {
	EmailFor(ctx context.Context, userID string) (string, error)
}

// EmailSender delivers a transactional email. Implementations must report
// OutcomeSkipped instead of failing when the provider is unconfigured.
type EmailSender interface {
	Send(ctx context.Context, userID, to, subject, body string) (ChannelOutcome, error)
}

// PushSender delivers a payload to a single web-push subscription.
// A gone endpoint is reported as ErrSubscriptionGone.
type PushSender interface {
	Configured() bool
	Send(ctx context.Context, sub models.PushSubscription, payload []byte) error
}

// PushPayload is the JSON body handed to the service worker on the client
type PushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon"`
	Badge string `json:"badge"`
}

// ChannelCounts aggregates per-channel send counts for one invocation
type ChannelCounts struct {
	InApp   int `json:"in_app"`
	Email   int `json:"email"`
	WebPush int `json:"web_push"`
}

// Summary is the outcome of one dispatch invocation, returned to the trigger caller
type Summary struct {
	RunID         string        `json:"run_id"`
	Timestamp     time.Time     `json:"timestamp"`
	Processed     int           `json:"processed"`
	Errors        int           `json:"errors"`
	Notifications ChannelCounts `json:"notifications"`
}

// Dispatcher runs the reminder pipeline: select due reminders, fan out
// across the enabled channels, advance the schedule. One invocation is one
// sequential pass; it terminates when the due set is exhausted.
type Dispatcher struct {
	reminders     ReminderStore
	notifications NotificationStore
	subscriptions SubscriptionStore
	users         UserDirectory
	email         EmailSender
	push          PushSender
}

// NewDispatcher wires the dispatch pipeline from its collaborators
func NewDispatcher(
	reminders ReminderStore,
	notifications NotificationStore,
	subscriptions SubscriptionStore,
	users UserDirectory,
	email EmailSender,
	push PushSender,
) *Dispatcher {
	return &Dispatcher{
		reminders:     reminders,
		notifications: notifications,
		subscriptions: subscriptions,
		users:         users,
		email:         email,
		push:          push,
	}
}

// Run executes one dispatch pass at the given time. A failure to read the
// due set aborts the whole invocation; everything after that point is
// isolated per reminder and per channel.
func (d *Dispatcher) Run(ctx context.Context, now time.Time) (*Summary, error) {
	due, err := d.reminders.FindDue(ctx, now, DebounceWindow)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		RunID:     uuid.NewString(),
		Timestamp: now,
	}

	log.Printf("Dispatch run %s: %d due reminders", summary.RunID, len(due))

	for _, reminder := range due {
		d.processReminder(ctx, now, reminder, summary)
	}

	log.Printf("Dispatch run %s completed: processed=%d errors=%d in_app=%d email=%d web_push=%d",
		summary.RunID, summary.Processed, summary.Errors,
		summary.Notifications.InApp, summary.Notifications.Email, summary.Notifications.WebPush)

	return summary, nil
}

// processReminder fans out one reminder and records the run. Channel
// failures are counted and logged but never stop the remaining channels or
// the schedule advancement.
func (d *Dispatcher) processReminder(ctx context.Context, now time.Time, reminder models.Reminder, summary *Summary) {
	if reminder.InApp {
		if err := d.notifications.Create(ctx, &models.Notification{
			UserID: reminder.UserID,
			Title:  reminder.Title,
			Body:   reminder.Message,
			Type:   models.NotificationReminder,
		}); err != nil {
			log.Printf("Failed to create in-app notification for reminder %d: %v", reminder.ID, err)
		} else {
			summary.Notifications.InApp++
		}
	}

	if reminder.Email {
		switch outcome, err := d.sendEmail(ctx, reminder); outcome {
		case OutcomeSent:
			summary.Notifications.Email++
		case OutcomeSkipped:
			log.Printf("Email skipped for reminder %d", reminder.ID)
		case OutcomeFailed:
			log.Printf("Failed to send email for reminder %d: %v", reminder.ID, err)
		}
	}

	if reminder.WebPush {
		sent, outcome := d.sendWebPush(ctx, reminder)
		summary.Notifications.WebPush += sent
		if outcome == OutcomeSkipped {
			log.Printf("Web push skipped for reminder %d", reminder.ID)
		}
	}

	// Advance the schedule unconditionally: a reminder that never moves its
	// nextRunAt would fire on every invocation.
	nextRunAt := NextRun(reminder.Cadence, reminder.NextRunAt)
	if err := d.reminders.RecordRun(ctx, reminder.ID, now, nextRunAt); err != nil {
		summary.Errors++
		log.Printf("Failed to record run for reminder %d: %v", reminder.ID, err)
		return
	}

	summary.Processed++
}

// sendEmail resolves the recipient and delegates to the email sender
func (d *Dispatcher) sendEmail(ctx context.Context, reminder models.Reminder) (ChannelOutcome, error) {
	address, err := d.users.EmailFor(ctx, reminder.UserID)
	if err != nil {
		return OutcomeFailed, err
	}
	if address == "" {
		log.Printf("No email address for user %s", reminder.UserID)
		return OutcomeSkipped, nil
	}

	return d.email.Send(ctx, reminder.UserID, address, reminder.Title, reminder.Message)
}

// sendWebPush delivers to every subscription of the reminder's owner,
// deleting subscriptions whose endpoints are gone. It returns the number of
// successful deliveries; OutcomeSkipped means the channel never attempted
// anything (unconfigured or no subscriptions).
func (d *Dispatcher) sendWebPush(ctx context.Context, reminder models.Reminder) (int, ChannelOutcome) {
	if d.push == nil || !d.push.Configured() {
		return 0, OutcomeSkipped
	}

	subs, err := d.subscriptions.FindByUser(ctx, reminder.UserID)
	if err != nil {
		log.Printf("Failed to load push subscriptions for user %s: %v", reminder.UserID, err)
		return 0, OutcomeFailed
	}
	if len(subs) == 0 {
		return 0, OutcomeSkipped
	}

	payload, err := json.Marshal(PushPayload{
		Title: reminder.Title,
		Body:  reminder.Message,
		Icon:  "/icon.png",
		Badge: "/badge.png",
	})
	if err != nil {
		log.Printf("Failed to marshal push payload for reminder %d: %v", reminder.ID, err)
		return 0, OutcomeFailed
	}

	sent := 0
	for _, sub := range subs {
		if err := d.push.Send(ctx, sub, payload); err != nil {
			if errors.Is(err, ErrSubscriptionGone) {
				// Self-healing: the endpoint told us this registration is dead
				if delErr := d.subscriptions.Delete(ctx, sub.ID); delErr != nil {
					log.Printf("Failed to delete gone subscription %d: %v", sub.ID, delErr)
				} else {
					log.Printf("Deleted gone push subscription %d for user %s", sub.ID, sub.UserID)
				}
				continue
			}
			log.Printf("Failed to send push to subscription %d: %v", sub.ID, err)
			continue
		}
		sent++
	}

	return sent, OutcomeSent
}
