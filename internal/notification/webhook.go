package notification

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
)

// maxBodySize limits the webhook request body to 1 MB.
const maxBodySize = 1 << 20

// WebhookHandler handles incoming Jellyseerr webhook requests.
type WebhookHandler struct {
	service *Service
	secret  string
	logger  *slog.Logger
}

// NewWebhookHandler creates an HTTP handler for Jellyseerr webhooks. secret
// is compared against the Authorization header; an empty secret disables
// the check.
func NewWebhookHandler(service *Service, secret string, logger *slog.Logger) *WebhookHandler {
	if service == nil {
		panic("notification.NewWebhookHandler: service must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookHandler{
		service: service,
		secret:  secret,
		logger:  logger,
	}
}

// ServeHTTP handles POST /webhooks/jellyseerr requests.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !h.validateSecret(r) {
		h.logger.Warn("webhook request with invalid secret")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var payload JellyseerrWebhookPayload
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.Error("failed to decode webhook payload", slog.String("error", err.Error()))
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	h.logger.Info("received jellyseerr webhook",
		slog.String("type", payload.NotificationType),
		slog.String("subject", payload.Subject),
	)

	if payload.NotificationType == NotificationTest {
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.service.Notify(r.Context(), &payload); err != nil {
		h.logger.Error("notification failed", slog.String("error", err.Error()))
	}

	w.WriteHeader(http.StatusOK)
}

// validateSecret checks the webhook secret if one is configured. Jellyseerr
// sends the configured value in the Authorization header.
func (h *WebhookHandler) validateSecret(r *http.Request) bool {
	if h.secret == "" {
		return true
	}
	provided := r.Header.Get("Authorization")
	return subtle.ConstantTimeCompare([]byte(h.secret), []byte(provided)) == 1
}
