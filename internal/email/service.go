package email

import (
	"fmt"
	"net/smtp"
)

// Service handles email sending via SMTP
type Service struct {
	host string
	port string
	from string
}

// NewService creates a new email service
func NewService(host, port, from string) *Service {
	return &Service{
		host: host,
		port: port,
		from: from,
	}
}

// SendCheckoutConfirmation sends a checkout confirmation email
func (s *Service) SendCheckoutConfirmation(to, cartID string, subtotal int, currency string, lines []CheckoutLine) error {
	reference := cartID
	if len(cartID) > 13 {
		reference = cartID[:13]
	}
	subject := fmt.Sprintf("Your order is confirmed (ref: %s)", reference)
	body := BuildCheckoutConfirmationBody(cartID, subtotal, currency, lines)
	return s.send(to, subject, body)
}

func (s *Service) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, nil, s.from, []string{to}, []byte(msg))
}
