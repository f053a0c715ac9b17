package sender

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/bookhivelabs/bookhive/internal/notification/entity"
	"github.com/bookhivelabs/bookhive/internal/pkg/instrument"
	"github.com/bookhivelabs/bookhive/internal/pkg/mail"
	"go.opentelemetry.io/otel/codes"
)

// Email delivers notifications over SMTP with type-specific HTML bodies.
type Email struct {
	client    mail.Mail
	clientURL string
	ins       instrument.Instrumentation
	templates map[entity.Type]*emailTemplate
	fallback  *emailTemplate
}

type emailTemplate struct {
	subject string
	body    *template.Template
}

const emailOrderBody = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1>Order Confirmation</h1>
  <p>Hi {{.userName}},</p>
  <p>Thank you for your order! Your order has been confirmed and is being processed.</p>
  <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px;">
    <h3>Order Details</h3>
    <p><strong>Order ID:</strong> {{.orderId}}</p>
    <p><strong>Total Amount:</strong> ${{.totalAmount}}</p>
  </div>
  <p><a href="{{.clientUrl}}/orders/{{.orderId}}">View Order Details</a></p>
  <p>We'll send you another email when your order ships.</p>
</div>`

const emailPaymentBody = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1>Payment Confirmed</h1>
  <p>Hi {{.userName}},</p>
  <p>Your payment has been successfully processed.</p>
  <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px;">
    <h3>Payment Details</h3>
    <p><strong>Transaction ID:</strong> {{.transactionId}}</p>
    <p><strong>Amount:</strong> ${{.amount}}</p>
    <p><strong>Payment Method:</strong> {{.paymentMethod}}</p>
  </div>
  <p>Thank you for your purchase!</p>
</div>`

const emailShippingBody = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1>Your Order Has Shipped!</h1>
  <p>Hi {{.userName}},</p>
  <p>Great news! Your order has been shipped and is on its way to you.</p>
  <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px;">
    <h3>Shipping Details</h3>
    <p><strong>Order ID:</strong> {{.orderId}}</p>
    <p><strong>Tracking Number:</strong> {{.trackingNumber}}</p>
    <p><strong>Carrier:</strong> {{.carrier}}</p>
  </div>
  <p><a href="{{.trackingUrl}}">Track Your Package</a></p>
</div>`

const emailPromotionBody = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1>{{.title}}</h1>
  <p>Hi {{.userName}},</p>
  <p>{{.message}}</p>
  {{if .promoCode}}<p>Use code <strong>{{.promoCode}}</strong> at checkout.</p>{{end}}
  <p><a href="{{.clientUrl}}/books">Shop Now</a></p>
</div>`

const emailCustomBody = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1>{{.title}}</h1>
  <p>Hi {{.userName}},</p>
  <p>{{.message}}</p>
  {{if .resetUrl}}<p><a href="{{.resetUrl}}">Reset Password</a></p>{{end}}
</div>`

// NewEmail builds the email sender and parses all body templates.
func NewEmail(client mail.Mail, clientURL string, ins instrument.Instrumentation) (*Email, error) {
	bodies := map[entity.Type]struct {
		subject string
		body    string
	}{
		entity.TypeOrder:     {"Order Confirmation - BookHive", emailOrderBody},
		entity.TypePayment:   {"Payment Confirmation - BookHive", emailPaymentBody},
		entity.TypeShipping:  {"Your Order Has Shipped - BookHive", emailShippingBody},
		entity.TypePromotion: {"Special Offer - BookHive", emailPromotionBody},
	}

	templates := make(map[entity.Type]*emailTemplate, len(bodies))
	for typ, b := range bodies {
		tpl, err := template.New(typ.String()).Option("missingkey=zero").Parse(b.body)
		if err != nil {
			return nil, err
		}
		templates[typ] = &emailTemplate{subject: b.subject, body: tpl}
	}

	fallbackTpl, err := template.New("custom").Option("missingkey=zero").Parse(emailCustomBody)
	if err != nil {
		return nil, err
	}

	return &Email{
		client:    client,
		clientURL: clientURL,
		ins:       ins,
		templates: templates,
		fallback:  &emailTemplate{body: fallbackTpl},
	}, nil
}

// Send renders the type-specific body and delivers it over SMTP.
func (e *Email) Send(ctx context.Context, n *entity.Notification) (err error) {
	ctx, span := e.ins.Tracer("notification.outbound.sender").Start(ctx, "Email.Send")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	to := n.Data.GetString("userEmail")
	if to == "" {
		to = n.Data.GetString("email")
	}
	if to == "" {
		return fmt.Errorf("%w: no email address for notification %d", ErrMissingRecipient, n.ID)
	}

	tpl, ok := e.templates[n.Type]
	if !ok {
		tpl = e.fallback
	}

	subject := tpl.subject
	if subject == "" {
		subject = n.Title
	}

	data := make(map[string]any, len(n.Data)+4)
	for k, v := range n.Data {
		data[k] = v
	}
	data["userName"] = recipientName(n)
	data["title"] = n.Title
	data["message"] = n.Message
	data["clientUrl"] = e.clientURL

	var buf bytes.Buffer
	if err = tpl.body.Execute(&buf, data); err != nil {
		return err
	}

	return e.client.Send(ctx, mail.Message{
		To:       []string{to},
		Subject:  subject,
		HTMLBody: buf.String(),
	})
}
