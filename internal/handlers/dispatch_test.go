package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/services"

	"github.com/gin-gonic/gin"
)

type emptyReminderStore struct{}

func (emptyReminderStore) FindDue(context.Context, time.Time, time.Duration) ([]models.Reminder, error) {
	return nil, nil
}

func (emptyReminderStore) RecordRun(context.Context, uint, time.Time, time.Time) error {
	return nil
}

type noopNotificationStore struct{}

func (noopNotificationStore) Create(context.Context, *models.Notification) error { return nil }

type emptySubscriptionStore struct{}

func (emptySubscriptionStore) FindByUser(context.Context, string) ([]models.PushSubscription, error) {
	return nil, nil
}

func (emptySubscriptionStore) Delete(context.Context, uint) error { return nil }

type emptyUserDirectory struct{}

func (emptyUserDirectory) EmailFor(context.Context, string) (string, error) { return "", nil }

func newDispatchRouter(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("SENDGRID_API_KEY", "")

	email := services.NewEmailService(nil)
	push := services.NewPushService(services.PushConfig{})
	dispatcher := services.NewDispatcher(
		emptyReminderStore{},
		noopNotificationStore{},
		emptySubscriptionStore{},
		emptyUserDirectory{},
		email,
		push,
	)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/reminders/run", DispatchReminders(dispatcher, email, push))
	return router
}

func TestDispatchRemindersRejectsBadSecret(t *testing.T) {
	t.Setenv("CRON_SECRET", "topsecret")
	router := newDispatchRouter(t)

	tests := []struct {
		name   string
		secret string
	}{
		{"missing header", ""},
		{"wrong secret", "nottherightone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/reminders/run", nil)
			if tt.secret != "" {
				req.Header.Set(CronSecretHeader, tt.secret)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestDispatchRemindersRejectsWhenSecretUnset(t *testing.T) {
	t.Setenv("CRON_SECRET", "")
	router := newDispatchRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/reminders/run", nil)
	req.Header.Set(CronSecretHeader, "")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestDispatchRemindersReturnsSummary(t *testing.T) {
	t.Setenv("CRON_SECRET", "topsecret")
	router := newDispatchRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/reminders/run", nil)
	req.Header.Set(CronSecretHeader, "topsecret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			RunID         string                 `json:"run_id"`
			Processed     int                    `json:"processed"`
			Errors        int                    `json:"errors"`
			Notifications map[string]int         `json:"notifications"`
			Config        map[string]interface{} `json:"config"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}

	if !resp.Success {
		t.Error("success = false")
	}
	if resp.Data.RunID == "" {
		t.Error("missing run_id")
	}
	if resp.Data.Processed != 0 || resp.Data.Errors != 0 {
		t.Errorf("processed %d errors %d, want 0 and 0", resp.Data.Processed, resp.Data.Errors)
	}
	if got := resp.Data.Config["email_configured"]; got != false {
		t.Errorf("email_configured = %v, want false", got)
	}
	if got := resp.Data.Config["web_push_configured"]; got != false {
		t.Errorf("web_push_configured = %v, want false", got)
	}
}
