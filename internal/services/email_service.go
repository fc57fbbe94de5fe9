package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"fintrack/internal/models"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"gorm.io/gorm"
)

// EmailService sends transactional mail through SendGrid. When no API key is
// present it stays unconfigured and reports every send as skipped, so a
// partially configured deployment keeps working.
type EmailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	db        *gorm.DB
}

// NewEmailService builds the email sender from the environment
func NewEmailService(db *gorm.DB) *EmailService {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	fromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	fromName := os.Getenv("SENDGRID_FROM_NAME")

	svc := &EmailService{
		fromEmail: fromEmail,
		fromName:  fromName,
		db:        db,
	}

	if apiKey == "" {
		log.Println("SENDGRID_API_KEY not configured, email notifications disabled")
		return svc
	}

	svc.client = sendgrid.NewSendClient(apiKey)
	return svc
}

// Configured reports whether a SendGrid client is available
func (s *EmailService) Configured() bool {
	return s.client != nil
}

// Send delivers a reminder email to the given address. Unconfigured
// deployments get OutcomeSkipped, never an error. Every real attempt is
// recorded in the email log.
func (s *EmailService) Send(ctx context.Context, userID, to, subject, body string) (ChannelOutcome, error) {
	if !s.Configured() {
		return OutcomeSkipped, nil
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", to)

	plainContent := body
	htmlContent := fmt.Sprintf(
		`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`+
			`<h2 style="color: #333;">%s</h2>`+
			`<p style="color: #666; line-height: 1.6;">%s</p>`+
			`<hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">`+
			`<p style="color: #999; font-size: 12px;">This is an automated reminder from your expense tracker.</p>`+
			`</div>`,
		subject, body)

	message := mail.NewSingleEmail(from, subject, recipient, plainContent, htmlContent)

	response, err := s.client.Send(message)
	if err != nil {
		s.logAttempt(userID, to, subject, models.EmailLogFailed, err.Error())
		return OutcomeFailed, err
	}
	if response.StatusCode >= 400 {
		err := fmt.Errorf("failed to send email to %s: %d", to, response.StatusCode)
		s.logAttempt(userID, to, subject, models.EmailLogFailed, err.Error())
		return OutcomeFailed, err
	}

	s.logAttempt(userID, to, subject, models.EmailLogSent, "")
	return OutcomeSent, nil
}

// logAttempt records the attempt in the email log; a logging failure is not
// allowed to affect the channel outcome
func (s *EmailService) logAttempt(userID, to, subject string, status models.EmailLogStatus, errText string) {
	if s.db == nil {
		return
	}

	entry := models.EmailLog{
		UserID:   userID,
		To:       to,
		Subject:  subject,
		Status:   status,
		Provider: "sendgrid",
		Error:    errText,
		SentAt:   time.Now(),
	}
	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("Warning: Failed to write email log for %s: %v", to, err)
	}
}
