package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/bookhivelabs/bookhive/internal/pkg/config"
	"github.com/bookhivelabs/bookhive/internal/pkg/goroutine"
	"github.com/bookhivelabs/bookhive/internal/pkg/instrument"
	"github.com/bookhivelabs/bookhive/internal/pkg/messaging"
	"github.com/bookhivelabs/bookhive/internal/pkg/uid"
	"github.com/bookhivelabs/bookhive/internal/shared/event"
)

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins, cfg: cfg}

	enableConsumerNames := cfg.GetArray("modules.notification.consumer_names")

	var consumers = []struct {
		name               string
		topic              string // destination where publisher sent message
		nsqConsumerName    string // for nsq
		natsConsumerName   string // for nats
		kafkaConsumerName  string // for kafka
		pubsubConsumerName string // for google pubsub
		concurrency        int
		handler            messaging.Handler
	}{
		{
			name:               event.NotificationProcessConsumerEngine,
			topic:              event.NotificationProcessDestination,
			nsqConsumerName:    event.NotificationProcessConsumerEngine,
			natsConsumerName:   event.NotificationProcessConsumerEngine,
			kafkaConsumerName:  event.NotificationProcessConsumerEngine,
			pubsubConsumerName: event.NotificationProcessConsumerEngine,
			concurrency:        20,
			handler:            mqHandler.ProcessNotification,
		},
		{
			name:               event.UserRegisteredConsumerNotification,
			topic:              event.UserRegisteredDestination,
			nsqConsumerName:    event.UserRegisteredConsumerNotification,
			natsConsumerName:   event.UserRegisteredConsumerNotification,
			kafkaConsumerName:  event.UserRegisteredConsumerNotification,
			pubsubConsumerName: event.UserRegisteredConsumerNotification,
			concurrency:        10,
			handler:            mqHandler.UserRegisteredNotification,
		},
		{
			name:               event.UserForgotPasswordConsumerNotification,
			topic:              event.UserForgotPasswordDestination,
			nsqConsumerName:    event.UserForgotPasswordConsumerNotification,
			natsConsumerName:   event.UserForgotPasswordConsumerNotification,
			kafkaConsumerName:  event.UserForgotPasswordConsumerNotification,
			pubsubConsumerName: event.UserForgotPasswordConsumerNotification,
			concurrency:        10,
			handler:            mqHandler.UserForgotPasswordNotification,
		},
	}

	for _, consumer := range consumers {
		if len(enableConsumerNames) > 0 && slices.Contains(enableConsumerNames, consumer.name) {
			routine.Go(ctx, func(pCtx context.Context) error {
				slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
				return messenger.Consume(pCtx,
					consumer.topic,
					consumer.handler,
					messaging.WithChannel(consumer.nsqConsumerName),
					messaging.WithQueueGroup(consumer.natsConsumerName),
					messaging.WithGroup(consumer.kafkaConsumerName),
					messaging.WithSubscription(consumer.pubsubConsumerName),
					messaging.WithAutoAck(true),
					messaging.WithConcurrency(consumer.concurrency),
					messaging.WithMaxInFlight(consumer.concurrency),
				)
			})
		}
	}
}
