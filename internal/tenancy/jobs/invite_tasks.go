// Package jobs defines the notification jobs and the asynq plumbing that
// enqueues and runs them.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/metrics"
	"github.com/aussiebroadwan/tenancy/pkg/cryptox"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
	"github.com/hibiken/asynq"
)

// QueueNotifications carries every user-facing notification.
const QueueNotifications = "notifications"

// Task types
const (
	TypeInviteEmail = "invite.email"
)

// InviteEmailPayload is the body of an invite.email task.
type InviteEmailPayload struct {
	InviteID      string    `json:"invite_id"`
	TenantID      string    `json:"tenant_id"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	Token         string    `json:"token"`
	ExpiresAt     time.Time `json:"expires_at"`
	InvitedBy     string    `json:"invited_by"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// Mailer delivers an invite. Returning an error makes the queue retry.
type Mailer interface {
	SendInvite(ctx context.Context, p InviteEmailPayload) error
}

// ErrProviderFailure is returned by LogMailer's simulated outages.
var ErrProviderFailure = errors.New("email provider failure")

// LogMailer logs the email instead of sending it. FailureRate in [0,1]
// makes that share of sends fail, to exercise retries.
type LogMailer struct {
	Logger      *slog.Logger
	FailureRate float64
}

func (m *LogMailer) SendInvite(ctx context.Context, p InviteEmailPayload) error {
	l := m.Logger
	if l == nil {
		l = slogx.FromContext(ctx)
	}

	if m.FailureRate > 0 && rand.Float64() < m.FailureRate {
		l.Warn("simulated email provider failure", slog.String("invite_id", p.InviteID))
		return ErrProviderFailure
	}

	l.Info("invite email sent (simulated)",
		slog.String("invite_id", p.InviteID),
		slog.String("tenant_id", p.TenantID),
		slog.String("to", p.Email),
		slog.String("role", p.Role),
		slog.String("token_preview", cryptox.Preview(p.Token)),
		slog.Time("expires_at", p.ExpiresAt),
	)
	return nil
}

// InviteEmailHandler processes invite.email tasks.
type InviteEmailHandler struct {
	mailer Mailer
	logger *slog.Logger
}

func NewInviteEmailHandler(mailer Mailer, logger *slog.Logger) *InviteEmailHandler {
	return &InviteEmailHandler{
		mailer: mailer,
		logger: logger.With("handler", "invite_tasks"),
	}
}

// RegisterHandlers wires the handler into mux.
func (h *InviteEmailHandler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeInviteEmail, h.HandleInviteEmail)
}

// HandleInviteEmail decodes the payload and hands it to the mailer. A
// malformed payload is never going to succeed, so it skips retries.
func (h *InviteEmailHandler) HandleInviteEmail(ctx context.Context, t *asynq.Task) error {
	var p InviteEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		metrics.JobsProcessedTotal.WithLabelValues(TypeInviteEmail, "malformed").Inc()
		return fmt.Errorf("unmarshal invite payload: %v: %w", err, asynq.SkipRetry)
	}

	l := h.logger
	if p.CorrelationID != "" {
		l = l.With(slog.String("req_id", p.CorrelationID))
	}
	ctx = slogx.WithContext(ctx, l)

	l.Debug("processing invite email", slog.String("invite_id", p.InviteID))

	if err := h.mailer.SendInvite(ctx, p); err != nil {
		metrics.JobsProcessedTotal.WithLabelValues(TypeInviteEmail, "failed").Inc()
		return fmt.Errorf("send invite %s: %w", p.InviteID, err)
	}

	metrics.JobsProcessedTotal.WithLabelValues(TypeInviteEmail, "sent").Inc()
	return nil
}
