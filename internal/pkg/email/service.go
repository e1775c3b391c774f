// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/sirupsen/logrus"
	"github.com/your-org/tireshop-backend/internal/config"
)

// EmailService sends transactional email for the order pipeline
type EmailService struct {
	config *config.Config
	logger *logrus.Logger
	tmpl   *template.Template
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.Config, logger *logrus.Logger) *EmailService {
	return &EmailService{
		config: cfg,
		logger: logger,
		tmpl:   template.Must(template.New("order_confirmation").Parse(orderConfirmationTemplate)),
	}
}

// SendEmail sends an email using the configured provider
func (s *EmailService) SendEmail(ctx context.Context, email *Email) error {
	switch s.config.External.Email.Provider {
	case "smtp":
		return s.sendSMTPEmail(email)
	default:
		return fmt.Errorf("unsupported email provider: %s", s.config.External.Email.Provider)
	}
}

// SendOrderConfirmation renders and sends the order confirmation mail.
// Callers treat this as best-effort; the order is already committed.
func (s *EmailService) SendOrderConfirmation(ctx context.Context, to string, data *OrderConfirmationData) error {
	data.StoreName = s.config.External.Email.FromName

	var body bytes.Buffer
	if err := s.tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render order confirmation template: %w", err)
	}

	email := &Email{
		To:          []string{to},
		Subject:     fmt.Sprintf("Order confirmation %s", data.OrderNumber),
		HTMLContent: body.String(),
	}

	if err := s.SendEmail(ctx, email); err != nil {
		return fmt.Errorf("failed to send order confirmation: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": data.OrderNumber,
		"recipient":    to,
	}).Info("Order confirmation sent")
	return nil
}

const orderConfirmationTemplate = `<html>
<body>
<h2>Thank you for your order, {{.CustomerName}}!</h2>
<p>Your order <strong>{{.OrderNumber}}</strong> has been received.</p>
<table>
{{range .Items}}<tr><td>{{.Name}}</td><td>x{{.Quantity}}</td><td>{{.Price}}</td></tr>
{{end}}</table>
<p>Subtotal: {{.Subtotal}}<br>
Discount: -{{.Discount}}<br>
Tax: {{.Tax}}<br>
Shipping: {{.Shipping}}<br>
<strong>Total: {{.Total}}</strong></p>
<p>{{.StoreName}}</p>
</body>
</html>`
