package smtp

import (
	"fmt"
	"net/smtp"

	"github.com/wemakecorder/api/internal/config"
)

// Mailer sends emails.
type Mailer interface {
	SendEmail(to, subject, body string) error
	SendOTPEmail(to, code string) error
}

type mailer struct {
	host     string
	port     string
	from     string
	username string
	password string
}

func NewMailer(cfg *config.Config) Mailer {
	return &mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.SMTPFrom,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
	}
}

func (m *mailer) SendEmail(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg))
}

// SendOTPEmail sends the registration verification code. The code goes out
// only through this path; it is never included in any API response.
func (m *mailer) SendOTPEmail(to, code string) error {
	body := fmt.Sprintf(
		"Your OTP for registration is: %s\r\n\r\n"+
			"This OTP will expire in 5 minutes.\r\n"+
			"If you didn't request this OTP, please ignore this email.",
		code,
	)
	return m.SendEmail(to, "We Make Corder - OTP Verification", body)
}
