package utils

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"mobistore/config"
	"mobistore/models"
)

// EmailService sends transactional email through SendGrid.
type EmailService struct {
	client *sendgrid.Client
	sender string
}

// NewEmailService returns nil when no API key is configured; email is
// optional and the order flow works without it.
func NewEmailService(cfg config.EmailConfig) *EmailService {
	if cfg.SendgridKey == "" {
		return nil
	}
	return &EmailService{
		client: sendgrid.NewSendClient(cfg.SendgridKey),
		sender: cfg.Sender,
	}
}

// SendOrderConfirmation emails the customer after checkout.
func (es *EmailService) SendOrderConfirmation(toEmail string, order models.Order) error {
	from := sgmail.NewEmail("MobiStore", es.sender)
	to := sgmail.NewEmail("", toEmail)
	subject := "Order Confirmation - MobiStore"
	body := fmt.Sprintf(
		"Dear Customer,\n\nThank you for your purchase! Your order (ID: %s) has been placed successfully.\n\nTotal Amount: KSh %d\nPayment Method: %s\n\nThank you for shopping with us!\n",
		order.ID.Hex(),
		order.TotalAmount,
		order.PaymentMethod,
	)

	message := sgmail.NewSingleEmail(from, subject, to, body, body)
	resp, err := es.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}
