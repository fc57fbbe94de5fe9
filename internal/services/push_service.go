package services

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"fintrack/internal/models"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// PushConfig carries the VAPID credentials for web push. It is built once at
// process start and handed to the push service explicitly; an empty config
// disables the channel.
type PushConfig struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Subscriber      string // mailto: contact required by push services
}

// LoadPushConfig reads the VAPID credentials from the environment
func LoadPushConfig() PushConfig {
	cfg := PushConfig{
		VAPIDPublicKey:  os.Getenv("VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("VAPID_PRIVATE_KEY"),
		Subscriber:      os.Getenv("VAPID_SUBSCRIBER"),
	}
	if !cfg.Configured() {
		log.Println("VAPID keys not configured, web push notifications disabled")
	}
	return cfg
}

// Configured reports whether both VAPID keys are present
func (c PushConfig) Configured() bool {
	return c.VAPIDPublicKey != "" && c.VAPIDPrivateKey != ""
}

// PushService delivers web-push messages to individual browser subscriptions
type PushService struct {
	cfg PushConfig
}

// NewPushService builds the push sender from an explicit config value
func NewPushService(cfg PushConfig) *PushService {
	return &PushService{cfg: cfg}
}

// Configured implements PushSender
func (s *PushService) Configured() bool {
	return s.cfg.Configured()
}

// Send pushes the payload to one subscription. A 404 or 410 from the
// endpoint is reported as ErrSubscriptionGone so the caller can prune the
// registration.
func (s *PushService) Send(ctx context.Context, sub models.PushSubscription, payload []byte) error {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      s.cfg.Subscriber,
		VAPIDPublicKey:  s.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: s.cfg.VAPIDPrivateKey,
		TTL:             60,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound {
		return ErrSubscriptionGone
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("push endpoint returned %d", resp.StatusCode)
	}

	return nil
}
