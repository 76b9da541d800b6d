package services

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"inmocrm/internal/models"
)

type EmailService interface {
	SendWelcomeEmail(email, fullName, tempPassword string) error
	SendPaymentReceipt(email, fullName string, res *models.Reservation) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendWelcomeEmail(email, fullName, tempPassword string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Your InmoCRM account")

	body := fmt.Sprintf(`
		<h2>Welcome, %s!</h2>
		<p>An account has been created for you in InmoCRM.</p>
		<p>Your temporary password is: <strong>%s</strong></p>
		<p>Please change it after your first login.</p>
	`, fullName, tempPassword)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	return nil
}

func (s *emailService) SendPaymentReceipt(email, fullName string, res *models.Reservation) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("Payment received — reservation #%d", res.ID))

	body := fmt.Sprintf(`
		<h3>Payment received</h3>
		<p>Dear %s, we have registered your payment.</p>
		<p>Paid to date: <strong>%s %s</strong></p>
		<p>Remaining balance: <strong>%s %s</strong></p>
		<p>Thank you for your preference.</p>
	`, fullName,
		res.Currency, res.AmountPaid.StringFixed(2),
		res.Currency, res.RemainingAmount.StringFixed(2))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send payment receipt: %w", err)
	}

	return nil
}
