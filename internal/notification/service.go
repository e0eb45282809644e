// Package notification relays Jellyseerr webhook events to frontends.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/homerelay/homerelay/internal/core"
)

// Service sends notifications to users when the request broker reports a
// media event.
type Service struct {
	frontend core.Frontend
	userIDs  []int64
	logger   *slog.Logger
}

// NewService creates a notification service. frontend is required.
func NewService(frontend core.Frontend, userIDs []int64, logger *slog.Logger) *Service {
	if frontend == nil {
		panic("notification.NewService: frontend must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		frontend: frontend,
		userIDs:  userIDs,
		logger:   logger,
	}
}

// Notify forwards a broker event to every configured recipient. Unknown
// notification types are ignored without error.
func (s *Service) Notify(ctx context.Context, payload *JellyseerrWebhookPayload) error {
	if payload == nil {
		return fmt.Errorf("nil Jellyseerr payload")
	}

	msg := buildMessage(payload)
	if msg == "" {
		s.logger.Debug("ignoring notification type",
			slog.String("type", payload.NotificationType),
		)
		return nil
	}

	s.logger.Info("sending notification",
		slog.String("type", payload.NotificationType),
		slog.String("title", payload.Title()),
		slog.Int("recipients", len(s.userIDs)),
	)

	if len(s.userIDs) == 0 {
		s.logger.Warn("no recipients configured, notification will not be sent",
			slog.String("title", payload.Title()),
		)
		return nil
	}

	var firstErr error
	for _, uid := range s.userIDs {
		userID := strconv.FormatInt(uid, 10)
		if err := s.frontend.SendMessage(ctx, userID, msg); err != nil {
			s.logger.Error("failed to send notification",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
			if firstErr == nil {
				firstErr = fmt.Errorf("send to %s: %w", userID, err)
			}
		}
	}
	return firstErr
}

// buildMessage creates the notification text for a broker event. An empty
// string means the event type is not user-facing.
func buildMessage(payload *JellyseerrWebhookPayload) string {
	title := payload.Title()

	var text string
	switch payload.NotificationType {
	case NotificationMediaAvailable:
		text = fmt.Sprintf("%s is now available to watch!", title)
	case NotificationMediaApproved:
		text = fmt.Sprintf("Request approved: %s", title)
	case NotificationMediaPending:
		text = fmt.Sprintf("New request pending approval: %s", title)
	case NotificationMediaDeclined:
		text = fmt.Sprintf("Request declined: %s", title)
	case NotificationMediaFailed:
		text = fmt.Sprintf("Request failed to process: %s", title)
	default:
		return ""
	}

	if requester := payload.Requester(); requester != "" {
		text = fmt.Sprintf("%s (requested by %s)", text, requester)
	}
	if payload.Message != "" {
		text = text + "\n" + payload.Message
	}
	return text
}
