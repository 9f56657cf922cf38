// Package mailer delivers one-time passwords over SMTP. When SMTP is not
// configured the mailer logs the code instead, which keeps local
// development working without a mail server.
package mailer

import (
	"fmt"
	"log"
	"os"
	"strconv"

	gomail "github.com/wneessen/go-mail"
)

// Mailer sends OTP emails. The zero value is unusable; build one with New.
type Mailer struct {
	host string
	port int
	user string
	pass string
	from string
}

// New reads SMTP settings from the environment (SMTP_HOST, SMTP_PORT,
// SMTP_USER, SMTP_PASS, SMTP_FROM). A missing host yields a log-only
// mailer rather than an error.
func New() *Mailer {
	port := 587
	if raw := os.Getenv("SMTP_PORT"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			port = n
		}
	}
	return &Mailer{
		host: os.Getenv("SMTP_HOST"),
		port: port,
		user: os.Getenv("SMTP_USER"),
		pass: os.Getenv("SMTP_PASS"),
		from: os.Getenv("SMTP_FROM"),
	}
}

// Configured reports whether real SMTP delivery is possible.
func (m *Mailer) Configured() bool {
	return m.host != "" && m.from != ""
}

// SendOTP delivers a verification code to the address. The body mirrors
// the subject so the code survives plain-text-only clients.
func (m *Mailer) SendOTP(to, code string, purpose string) error {
	if !m.Configured() {
		log.Printf("mailer: SMTP not configured, OTP for %s (%s): %s", to, purpose, code)
		return nil
	}

	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	msg.Subject(fmt.Sprintf("Your Carbon Tracker %s code", purpose))
	msg.SetBodyString(gomail.TypeTextPlain, fmt.Sprintf(
		"Your %s code is %s.\n\nIt expires in 10 minutes. If you did not request this, ignore this email.\n", purpose, code))

	opts := []gomail.Option{
		gomail.WithPort(m.port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if m.user != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.user),
			gomail.WithPassword(m.pass),
		)
	}
	client, err := gomail.NewClient(m.host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
