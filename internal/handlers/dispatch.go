package handlers

import (
	"crypto/subtle"
	"log"
	"net/http"
	"os"
	"time"

	"fintrack/internal/services"
	"fintrack/internal/utils"

	"github.com/gin-gonic/gin"
)

// CronSecretHeader is the header the external scheduler authenticates with
const CronSecretHeader = "X-Cron-Secret"

// DispatchReminders is the trigger endpoint for the reminder-dispatch
// pipeline. It is meant to be called by an external cron on its own cadence;
// delivery is at-least-once, so an overlapping or retried trigger may
// duplicate a notification but never lose the schedule advancement.
func DispatchReminders(dispatcher *services.Dispatcher, email *services.EmailService, push *services.PushService) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := os.Getenv("CRON_SECRET")
		provided := c.GetHeader(CronSecretHeader)
		if secret == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			log.Printf("Warning: unauthorized dispatch trigger from %s", utils.GetRealClientIP(c))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		summary, err := dispatcher.Run(c.Request.Context(), time.Now())
		if err != nil {
			handleError(c, http.StatusInternalServerError, "Failed to run reminder dispatch", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"run_id":        summary.RunID,
				"timestamp":     summary.Timestamp,
				"processed":     summary.Processed,
				"errors":        summary.Errors,
				"notifications": summary.Notifications,
				"config": gin.H{
					"email_configured":    email.Configured(),
					"web_push_configured": push.Configured(),
				},
			},
		})
	}
}
