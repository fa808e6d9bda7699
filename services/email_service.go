package services

import (
	"fmt"
	"log"

	"gopkg.in/gomail.v2"

	"garagehub-api/config"
)

// EmailService sends outbound mail. Delivery is best-effort: a failed welcome
// email is logged, never bubbled up into the request that triggered it.
type EmailService struct {
	config *config.Config
	dialer *gomail.Dialer
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		config: cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
	}
}

// SendWelcomeEmail greets a newly registered user.
func (es *EmailService) SendWelcomeEmail(email, name string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", es.config.FromName, es.config.FromEmail))
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Welcome to GarageHub")

	htmlBody := fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
    <h2>Welcome, %s!</h2>
    <p>Your GarageHub account is ready. Set up your garage, add your first
    vehicle and start following other collections.</p>
    <p>See you in the garage,<br>The GarageHub Team</p>
</body>
</html>`, name)
	m.SetBody("text/html", htmlBody)

	if err := es.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email to %s: %w", email, err)
	}
	return nil
}

// SendWelcomeEmailAsync fires the welcome email without blocking the request.
func (es *EmailService) SendWelcomeEmailAsync(email, name string) {
	go func() {
		if err := es.SendWelcomeEmail(email, name); err != nil {
			log.Printf("Warning: %v", err)
		}
	}()
}
