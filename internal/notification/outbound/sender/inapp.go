package sender

import (
	"context"

	"github.com/bookhivelabs/bookhive/internal/notification/entity"
)

// Feed receives notifications for live in-app delivery, typically a stream hub
// pushing to connected SSE clients.
type Feed interface {
	Notify(userID int64, n *entity.Notification)
}

// InApp marks in-app delivery as done. The record itself is already persisted
// and readable through the inbox API, so the only work left is waking up any
// live stream subscribers.
type InApp struct {
	feed Feed
}

func NewInApp(feed Feed) *InApp {
	return &InApp{feed: feed}
}

func (i *InApp) Send(ctx context.Context, n *entity.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if i.feed != nil {
		i.feed.Notify(n.UserID, n)
	}

	return nil
}
