package mq

import (
	"context"
	"encoding/json"

	"github.com/bookhivelabs/bookhive/internal/notification/entity"
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

// PublishProcessJob puts a delivery job on the processing lane. The payload
// carries advisory hints only; consumers re-read the record by ID.
func (m *Messaging) PublishProcessJob(ctx context.Context, n *entity.Notification) error {
	ctx, span := m.ins.Tracer("notification.outbound.mq").Start(ctx, "PublishProcessJob")
	defer span.End()

	channels := make([]string, 0, len(n.Channels))
	for _, ch := range n.Channels {
		channels = append(channels, ch.String())
	}

	body, err := json.Marshal(event.NotificationProcessMessage{
		NotificationID: n.ID,
		UserID:         n.UserID,
		Type:           n.Type.String(),
		Channels:       channels,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, event.NotificationProcessDestination, messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
