package notifier

import (
	"fmt"
	"time"

	gomail "gopkg.in/gomail.v2"

	"github.com/fastfood-vn/backend/internal/otp"
)

type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, user, pass, from string) *SMTPMailer {
	return &SMTPMailer{dialer: gomail.NewDialer(host, port, user, pass), from: from}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}

func otpSubject(purpose otp.Purpose) string {
	switch purpose {
	case otp.PurposeResetPassword:
		return "Your FastFood password reset code"
	default:
		return "Your FastFood registration code"
	}
}

func otpBody(code string, expiresAt time.Time) string {
	return fmt.Sprintf(
		"Hello,\n\nYour verification code is: %s\nIt expires at %s.\n\n"+
			"If you did not request this code, you can ignore this email.\n\nFastFood",
		code, expiresAt.Format(time.RFC1123))
}
