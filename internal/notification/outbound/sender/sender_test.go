package sender

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bookhivelabs/bookhive/internal/notification/entity"
)

type fakeChannelSender struct {
	calls int
	err   error
}

func (f *fakeChannelSender) Send(context.Context, *entity.Notification) error {
	f.calls++
	return f.err
}

func TestDispatcher(t *testing.T) {
	t.Run("RoutesToRegisteredSender", func(t *testing.T) {
		// Arrange
		d := NewDispatcher()
		emailSender := &fakeChannelSender{}
		smsSender := &fakeChannelSender{}
		d.Register(entity.ChannelEmail, emailSender)
		d.Register(entity.ChannelSMS, smsSender)

		// Act
		err := d.Dispatch(context.Background(), entity.ChannelEmail, &entity.Notification{ID: 1})

		// Assert
		if err != nil {
			t.Fatalf("Dispatch() error = %v", err)
		}
		if emailSender.calls != 1 {
			t.Fatalf("email sender calls = %d, want 1", emailSender.calls)
		}
		if smsSender.calls != 0 {
			t.Fatalf("sms sender calls = %d, want 0", smsSender.calls)
		}
	})

	t.Run("UnregisteredChannelFails", func(t *testing.T) {
		// Arrange
		d := NewDispatcher()

		// Act
		err := d.Dispatch(context.Background(), entity.ChannelPush, &entity.Notification{ID: 2})

		// Assert
		if err == nil || !strings.Contains(err.Error(), "push") {
			t.Fatalf("Dispatch() error = %v, want unregistered channel failure", err)
		}
	})

	t.Run("SenderErrorPropagates", func(t *testing.T) {
		// Arrange
		d := NewDispatcher()
		wantErr := errors.New("delivery failed")
		d.Register(entity.ChannelSMS, &fakeChannelSender{err: wantErr})

		// Act
		err := d.Dispatch(context.Background(), entity.ChannelSMS, &entity.Notification{ID: 3})

		// Assert
		if !errors.Is(err, wantErr) {
			t.Fatalf("Dispatch() error = %v, want %v", err, wantErr)
		}
	})

	t.Run("RegisterReplacesPreviousBinding", func(t *testing.T) {
		// Arrange
		d := NewDispatcher()
		first := &fakeChannelSender{}
		second := &fakeChannelSender{}
		d.Register(entity.ChannelInApp, first)
		d.Register(entity.ChannelInApp, second)

		// Act
		err := d.Dispatch(context.Background(), entity.ChannelInApp, &entity.Notification{ID: 4})

		// Assert
		if err != nil {
			t.Fatalf("Dispatch() error = %v", err)
		}
		if first.calls != 0 || second.calls != 1 {
			t.Fatalf("calls = (%d, %d), want (0, 1)", first.calls, second.calls)
		}
	})
}

type fakeFeed struct {
	userIDs []int64
}

func (f *fakeFeed) Notify(userID int64, _ *entity.Notification) {
	f.userIDs = append(f.userIDs, userID)
}

func TestInAppSend(t *testing.T) {
	t.Run("NotifiesLiveFeed", func(t *testing.T) {
		// Arrange
		feed := &fakeFeed{}
		inapp := NewInApp(feed)

		// Act
		err := inapp.Send(context.Background(), &entity.Notification{ID: 1, UserID: 42})

		// Assert
		if err != nil {
			t.Fatalf("Send() error = %v", err)
		}
		if len(feed.userIDs) != 1 || feed.userIDs[0] != 42 {
			t.Fatalf("notified users = %v, want [42]", feed.userIDs)
		}
	})

	t.Run("NilFeedStillSucceeds", func(t *testing.T) {
		// Arrange
		inapp := NewInApp(nil)

		// Act
		err := inapp.Send(context.Background(), &entity.Notification{ID: 2, UserID: 7})

		// Assert
		if err != nil {
			t.Fatalf("Send() error = %v", err)
		}
	})

	t.Run("CancelledContextFails", func(t *testing.T) {
		// Arrange
		inapp := NewInApp(&fakeFeed{})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// Act
		err := inapp.Send(ctx, &entity.Notification{ID: 3, UserID: 7})

		// Assert
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Send() error = %v, want context.Canceled", err)
		}
	})
}
