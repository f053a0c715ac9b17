package sender

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bookhivelabs/bookhive/internal/notification/entity"
	"github.com/bookhivelabs/bookhive/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
)

// SMSConfig configures the Twilio-backed SMS sender.
type SMSConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	BaseURL    string
	Timeout    time.Duration
}

// SMS delivers notifications as text messages through the Twilio REST API.
type SMS struct {
	cfg    SMSConfig
	client *http.Client
	ins    instrument.Instrumentation
}

func NewSMS(cfg SMSConfig, ins instrument.Instrumentation) *SMS {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.twilio.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &SMS{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		ins:    ins,
	}
}

// Send posts the rendered text to Twilio's Messages endpoint.
func (s *SMS) Send(ctx context.Context, n *entity.Notification) (err error) {
	ctx, span := s.ins.Tracer("notification.outbound.sender").Start(ctx, "SMS.Send")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	to := n.Data.GetString("userPhone")
	if to == "" {
		to = n.Data.GetString("phone")
	}
	if to == "" {
		return fmt.Errorf("%w: no phone number for notification %d", ErrMissingRecipient, n.ID)
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.cfg.FromNumber)
	form.Set("Body", smsBody(n))

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.cfg.BaseURL, s.cfg.AccountSID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("twilio returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return nil
}

// smsBody keeps messages short since SMS segments are billed per 160 chars.
func smsBody(n *entity.Notification) string {
	switch n.Type {
	case entity.TypeOrder:
		return fmt.Sprintf("BookHive: Your order %s has been confirmed. Total: $%s. Track at bookhive.com/orders",
			n.Data.GetString("orderId"), n.Data.GetString("totalAmount"))
	case entity.TypePayment:
		return fmt.Sprintf("BookHive: Payment of $%s confirmed. Transaction: %s",
			n.Data.GetString("amount"), n.Data.GetString("transactionId"))
	case entity.TypeShipping:
		return fmt.Sprintf("BookHive: Your order %s has shipped! Track with %s: %s",
			n.Data.GetString("orderId"), n.Data.GetString("carrier"), n.Data.GetString("trackingNumber"))
	case entity.TypePromotion:
		return fmt.Sprintf("BookHive: %s - %s", n.Title, n.Message)
	default:
		return fmt.Sprintf("%s: %s", n.Title, n.Message)
	}
}
