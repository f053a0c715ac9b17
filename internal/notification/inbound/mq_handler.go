package inbound

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/bookhivelabs/bookhive/internal/notification/usecase"
	"github.com/bookhivelabs/bookhive/internal/pkg/config"
	"github.com/bookhivelabs/bookhive/internal/pkg/instrument"
	"github.com/bookhivelabs/bookhive/internal/pkg/messaging"
	"github.com/bookhivelabs/bookhive/internal/pkg/uid"
	"github.com/bookhivelabs/bookhive/internal/shared/event"
	"github.com/sethvargo/go-retry"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
	cfg  config.Config
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) context.Context {
	for i := range headers {
		if headers[i].Key == keyOfCorrelationID {
			return instrument.SetCorrelationID(ctx, string(headers[i].Value))
		}
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

// ProcessNotification runs one delivery attempt for the referenced record.
// Infrastructure errors from the store or queue are retried in place with a
// capped exponential backoff before the message is handed back to the broker.
func (h *MQHandler) ProcessNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "ProcessNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: notification delivery job", "msg_body", string(body))

	var payload event.NotificationProcessMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of delivery job", "msg_body", string(body), "error", err)
		return nil
	}

	base := h.cfg.GetSecond("modules.notification.process_backoff_base_seconds")
	if base <= 0 {
		base = 2 * time.Second
	}
	attempts := uint64(h.cfg.GetInt("modules.notification.process_backoff_attempts"))
	if attempts == 0 {
		attempts = 3
	}

	b := retry.WithMaxRetries(attempts, retry.NewExponential(base))
	if err := retry.Do(ctx, b, func(ctx context.Context) error {
		if err := h.uc.Process(ctx, usecase.ProcessInput{NotificationID: payload.NotificationID}); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	}); err != nil {
		slog.ErrorContext(ctx, "failed to process delivery job", "notification_id", payload.NotificationID, "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) UserRegisteredNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "UserRegisteredNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: user registered notification", "msg_body", string(body))

	var payload event.UserRegisteredMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of user registered notification", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeUserRegistered(ctx, usecase.ConsumeUserRegisteredInput{
		UserID:   payload.UserID,
		Email:    payload.Email,
		FullName: payload.FullName,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume user registered", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) UserForgotPasswordNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "UserForgotPasswordNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: user forgot password notification", "msg_body", string(body))

	var payload event.UserForgotPasswordMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of user forgot password notification", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeUserForgotPassword(ctx, usecase.ConsumeUserForgotPasswordInput{
		UserID:     payload.UserID,
		Email:      payload.Email,
		FullName:   payload.FullName,
		ResetToken: payload.ResetToken,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume user forgot password", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}
