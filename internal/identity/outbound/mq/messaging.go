package mq

import (
	"context"
	"encoding/json"

	"github.com/bookhivelabs/bookhive/internal/identity/usecase"
	"github.com/bookhivelabs/bookhive/internal/pkg/instrument"
	"github.com/bookhivelabs/bookhive/internal/pkg/messaging"
	"github.com/bookhivelabs/bookhive/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Messaging
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Messaging, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishUserRegistered(ctx context.Context, msg usecase.UserRegisteredEvent) error {
	ctx, span := m.ins.Tracer("identity.outbound.mq").Start(ctx, "PublishUserRegistered")
	defer span.End()

	body, err := json.Marshal(event.UserRegisteredMessage{
		UserID:   msg.UserID,
		Email:    msg.Email,
		FullName: msg.FullName,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, event.UserRegisteredDestination, messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (m *Messaging) PublishUserForgotPassword(ctx context.Context, msg usecase.UserForgotPasswordEvent) error {
	ctx, span := m.ins.Tracer("identity.outbound.mq").Start(ctx, "PublishUserForgotPassword")
	defer span.End()

	body, err := json.Marshal(event.UserForgotPasswordMessage{
		UserID:     msg.UserID,
		Email:      msg.Email,
		FullName:   msg.FullName,
		ResetToken: msg.ResetToken,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, event.UserForgotPasswordDestination, messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
