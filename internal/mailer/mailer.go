package mailer

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer delivers one-time codes to users. Delivery is best-effort glue; the
// auth service treats failures as errors but never stores the raw code.
type Mailer interface {
	SendOTP(to, code string) error
	SendResetOTP(to, code string) error
}

// SMTP sends mail through a plain SMTP relay.
type SMTP struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTP(host string, port int, username, password string) *SMTP {
	return &SMTP{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   username,
	}
}

func (s *SMTP) SendOTP(to, code string) error {
	return s.send(to, "Verify your account",
		fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.", code))
}

func (s *SMTP) SendResetOTP(to, code string) error {
	return s.send(to, "Reset your password",
		fmt.Sprintf("Your password reset code is %s. It expires in 10 minutes.", code))
}

func (s *SMTP) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}

// Log writes codes to the application log instead of sending mail. Used when
// SMTP is not configured (local development) and in tests.
type Log struct {
	log *zap.Logger
}

func NewLog(log *zap.Logger) *Log {
	if log == nil {
		log = zap.NewNop()
	}
	return &Log{log: log}
}

func (l *Log) SendOTP(to, code string) error {
	l.log.Info("otp issued", zap.String("to", to), zap.String("code", code))
	return nil
}

func (l *Log) SendResetOTP(to, code string) error {
	l.log.Info("reset otp issued", zap.String("to", to), zap.String("code", code))
	return nil
}
