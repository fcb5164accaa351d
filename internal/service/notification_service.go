package service

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/spec-kit/employee-admin/internal/config"
	"github.com/spec-kit/employee-admin/internal/events"
)

const webhookTimeout = 5 * time.Second

// NotificationService forwards employee events to the configured webhook.
type NotificationService struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		logger: logger.Named("notifications"),
		cfg:    cfg,
	}
}

// Enabled reports whether a webhook is configured.
func (n *NotificationService) Enabled() bool {
	return strings.TrimSpace(n.cfg.WebhookURL) != ""
}

// Deliver logs the event and posts it to the webhook, if any.
func (n *NotificationService) Deliver(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("actor", event.Actor.Subject),
		zap.Any("payload", event.Payload))
	if !n.Enabled() {
		return nil
	}
	return n.sendWebhook(ctx, event)
}

func (n *NotificationService) sendWebhook(ctx context.Context, event events.Event) error {
	timeout := webhookTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return errors.Wrap(context.DeadlineExceeded, "webhook")
	}

	agent := fiber.Post(n.cfg.WebhookURL).JSON(event).Timeout(timeout)
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return errors.Wrapf(err, "invalid webhook url %q", n.cfg.WebhookURL)
	}
	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return errors.Wrapf(errs[0], "webhook %s", event.ID)
	}
	if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
		return errors.Errorf("webhook %s: status %d: %s", event.ID, status, strings.TrimSpace(string(body)))
	}
	n.logger.Debug("webhook delivered",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Int("status", status))
	return nil
}
