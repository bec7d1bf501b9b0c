package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/park-booking/internal/config"
	"github.com/spec-kit/park-booking/internal/events"
)

// NotificationService turns booking events into visitor emails, partner webhooks and an
// audit log line.
type NotificationService struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{logger: logger, cfg: cfg}
}

// RegisterHandlers subscribes to every booking event on dispatcher.
func (n *NotificationService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	dispatcher.Subscribe(events.EventUserUpdated, n.handleAudit)
	dispatcher.Subscribe(events.EventUserDeleted, n.handleAudit)
	dispatcher.Subscribe(events.EventTicketPurchased, n.handleTicketPurchased)
	dispatcher.Subscribe(events.EventTicketPriceChanged, n.handleTicketPriceChanged)
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("UserRegistered", zap.String("username", event.Subject), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTicketPurchased(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketPurchased", zap.String("username", event.Subject), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTicketPriceChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketPriceChanged", zap.String("ticket", event.Subject), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleAudit(_ context.Context, event events.Event) error {
	n.logger.Info("AccountChanged",
		zap.String("event_type", string(event.Type)),
		zap.String("username", event.Subject),
		zap.String("actor", string(event.Actor.Type)),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("subject", event.Subject),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("subject", event.Subject),
		zap.String("event_type", string(event.Type)))
}
