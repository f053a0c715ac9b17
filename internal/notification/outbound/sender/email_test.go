package sender

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bookhivelabs/bookhive/internal/notification/entity"
	"github.com/bookhivelabs/bookhive/internal/pkg/instrument"
	"github.com/bookhivelabs/bookhive/internal/pkg/mail"
	"github.com/bookhivelabs/bookhive/internal/pkg/valueobject"
)

type fakeMail struct {
	sent []mail.Message
	err  error
}

func (f *fakeMail) Send(_ context.Context, msg mail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMail) Close() error { return nil }

func TestEmailSend(t *testing.T) {
	t.Run("RendersOrderTemplate", func(t *testing.T) {
		// Arrange
		client := &fakeMail{}
		email, err := NewEmail(client, "https://bookhive.dev", instrument.NewNoop())
		if err != nil {
			t.Fatalf("NewEmail() error = %v", err)
		}
		n := &entity.Notification{
			ID:      1,
			UserID:  42,
			Type:    entity.TypeOrder,
			Title:   "Order Confirmed",
			Message: "Your order has been confirmed",
			Data: valueobject.JSONMap{
				"userEmail":   "reader@example.com",
				"userName":    "Jane Reader",
				"orderId":     "ORD-1001",
				"totalAmount": "59.90",
			},
		}

		// Act
		err = email.Send(context.Background(), n)

		// Assert
		if err != nil {
			t.Fatalf("Send() error = %v", err)
		}
		if len(client.sent) != 1 {
			t.Fatalf("sent messages = %d, want 1", len(client.sent))
		}
		msg := client.sent[0]
		if len(msg.To) != 1 || msg.To[0] != "reader@example.com" {
			t.Fatalf("To = %v, want [reader@example.com]", msg.To)
		}
		if msg.Subject != "Order Confirmation - BookHive" {
			t.Fatalf("Subject = %q", msg.Subject)
		}
		for _, want := range []string{"Jane Reader", "ORD-1001", "https://bookhive.dev/orders/ORD-1001"} {
			if !strings.Contains(msg.HTMLBody, want) {
				t.Fatalf("HTMLBody missing %q:\n%s", want, msg.HTMLBody)
			}
		}
	})

	t.Run("FallsBackToEmailKey", func(t *testing.T) {
		// Arrange
		client := &fakeMail{}
		email, err := NewEmail(client, "https://bookhive.dev", instrument.NewNoop())
		if err != nil {
			t.Fatalf("NewEmail() error = %v", err)
		}
		n := &entity.Notification{
			ID:      2,
			Type:    entity.TypePromotion,
			Title:   "Summer Sale",
			Message: "Everything 20% off",
			Data:    valueobject.JSONMap{"email": "deals@example.com", "promoCode": "SUMMER20"},
		}

		// Act
		err = email.Send(context.Background(), n)

		// Assert
		if err != nil {
			t.Fatalf("Send() error = %v", err)
		}
		msg := client.sent[0]
		if msg.To[0] != "deals@example.com" {
			t.Fatalf("To = %v, want [deals@example.com]", msg.To)
		}
		if !strings.Contains(msg.HTMLBody, "SUMMER20") {
			t.Fatalf("HTMLBody missing promo code:\n%s", msg.HTMLBody)
		}
	})

	t.Run("MissingRecipientFailsTheChannel", func(t *testing.T) {
		// Arrange
		client := &fakeMail{}
		email, err := NewEmail(client, "https://bookhive.dev", instrument.NewNoop())
		if err != nil {
			t.Fatalf("NewEmail() error = %v", err)
		}
		n := &entity.Notification{ID: 3, Type: entity.TypeOrder, Data: valueobject.JSONMap{}}

		// Act
		err = email.Send(context.Background(), n)

		// Assert
		if !errors.Is(err, ErrMissingRecipient) {
			t.Fatalf("Send() error = %v, want ErrMissingRecipient", err)
		}
		if len(client.sent) != 0 {
			t.Fatalf("sent messages = %d, want 0", len(client.sent))
		}
	})

	t.Run("UnknownTypeUsesFallbackTemplate", func(t *testing.T) {
		// Arrange
		client := &fakeMail{}
		email, err := NewEmail(client, "https://bookhive.dev", instrument.NewNoop())
		if err != nil {
			t.Fatalf("NewEmail() error = %v", err)
		}
		n := &entity.Notification{
			ID:      4,
			Type:    entity.TypeSuccess,
			Title:   "Welcome to BookHive",
			Message: "Your account is ready.",
			Data:    valueobject.JSONMap{"userEmail": "new@example.com"},
		}

		// Act
		err = email.Send(context.Background(), n)

		// Assert
		if err != nil {
			t.Fatalf("Send() error = %v", err)
		}
		msg := client.sent[0]
		if msg.Subject != "Welcome to BookHive" {
			t.Fatalf("Subject = %q, want notification title", msg.Subject)
		}
		if !strings.Contains(msg.HTMLBody, "Your account is ready.") {
			t.Fatalf("HTMLBody missing message:\n%s", msg.HTMLBody)
		}
	})

	t.Run("ClientFailurePropagates", func(t *testing.T) {
		// Arrange
		client := &fakeMail{err: errors.New("smtp connect refused")}
		email, err := NewEmail(client, "https://bookhive.dev", instrument.NewNoop())
		if err != nil {
			t.Fatalf("NewEmail() error = %v", err)
		}
		n := &entity.Notification{
			ID:    5,
			Type:  entity.TypePayment,
			Title: "Payment Confirmed",
			Data:  valueobject.JSONMap{"userEmail": "reader@example.com"},
		}

		// Act
		err = email.Send(context.Background(), n)

		// Assert
		if err == nil || !strings.Contains(err.Error(), "smtp connect refused") {
			t.Fatalf("Send() error = %v, want transport failure", err)
		}
	})
}
