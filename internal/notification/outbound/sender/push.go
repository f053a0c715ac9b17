package sender

import (
	"context"
	"fmt"
	"strconv"

	"firebase.google.com/go/v4/messaging"
	"github.com/bookhivelabs/bookhive/internal/notification/entity"
	"github.com/bookhivelabs/bookhive/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
)

// PushClient is the subset of the FCM messaging client used here.
type PushClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// Push delivers notifications to mobile devices through Firebase Cloud Messaging.
type Push struct {
	client PushClient
	ins    instrument.Instrumentation
}

func NewPush(client PushClient, ins instrument.Instrumentation) *Push {
	return &Push{client: client, ins: ins}
}

// Send pushes the notification to the device token carried in the payload.
func (p *Push) Send(ctx context.Context, n *entity.Notification) (err error) {
	ctx, span := p.ins.Tracer("notification.outbound.sender").Start(ctx, "Push.Send")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	token := n.Data.GetString("fcmToken")
	if token == "" {
		token = n.Data.GetString("pushToken")
	}
	if token == "" {
		return fmt.Errorf("%w: no device token for notification %d", ErrMissingRecipient, n.ID)
	}

	data := map[string]string{
		"notificationId": strconv.FormatInt(n.ID, 10),
		"type":           n.Type.String(),
	}
	switch n.Type {
	case entity.TypeOrder:
		data["orderId"] = n.Data.GetString("orderId")
		data["deepLink"] = "bookhive://orders/" + n.Data.GetString("orderId")
	case entity.TypePayment:
		data["transactionId"] = n.Data.GetString("transactionId")
	case entity.TypeShipping:
		data["orderId"] = n.Data.GetString("orderId")
		data["trackingNumber"] = n.Data.GetString("trackingNumber")
		data["deepLink"] = "bookhive://orders/" + n.Data.GetString("orderId") + "/tracking"
	case entity.TypePromotion:
		data["deepLink"] = "bookhive://promotions"
	}

	_, err = p.client.Send(ctx, &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Message,
		},
		Data: data,
	})

	return err
}
