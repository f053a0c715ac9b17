package sender

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookhivelabs/bookhive/internal/notification/entity"
)

// ErrMissingRecipient marks a channel attempt that had no recipient address or
// token in the notification data. It is a channel-level failure, not a system
// error.
var ErrMissingRecipient = errors.New("sender: missing recipient data")

// ChannelSender delivers one notification over one transport. Implementations
// must be safe for concurrent use across recipients.
type ChannelSender interface {
	Send(ctx context.Context, n *entity.Notification) error
}

// Dispatcher routes a notification to the sender registered for a channel.
//
// Registration is explicit per channel so adding a channel cannot silently
// fall through a default case.
type Dispatcher struct {
	senders map[entity.Channel]ChannelSender
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{senders: make(map[entity.Channel]ChannelSender)}
}

// Register binds a sender to a channel, replacing any previous binding.
func (d *Dispatcher) Register(ch entity.Channel, s ChannelSender) {
	d.senders[ch] = s
}

// Dispatch invokes the sender for the given channel.
func (d *Dispatcher) Dispatch(ctx context.Context, ch entity.Channel, n *entity.Notification) error {
	s, ok := d.senders[ch]
	if !ok {
		return fmt.Errorf("sender: no sender registered for channel %q", ch.String())
	}

	return s.Send(ctx, n)
}

func recipientName(n *entity.Notification) string {
	if name := n.Data.GetString("userName"); name != "" {
		return name
	}
	return "User"
}
