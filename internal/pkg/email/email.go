package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendPasswordResetEmail(ctx context.Context, toEmail, toName, resetURL string) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
}

// Message is a rendered email ready to be sent
type Message struct {
	To      string
	Subject string
	Text    string
}

// EmailServiceImpl implements EmailService over SMTP
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) *EmailServiceImpl {
	return &EmailServiceImpl{
		config: config,
		logger: logger.With().Str("component", "email").Logger(),
		send:   smtp.SendMail,
	}
}

// Configured reports whether SMTP credentials are present
func (s *EmailServiceImpl) Configured() bool {
	return s.config.Host != "" && s.config.Username != "" && s.config.Password != ""
}

// PasswordResetMessage renders the reset email for resetURL
func PasswordResetMessage(toEmail, toName, resetURL string) Message {
	return Message{
		To:      toEmail,
		Subject: "Password reset token",
		Text: fmt.Sprintf("Hello %s,\n\n"+
			"You are receiving this email because you (or someone else) has requested the reset of a password. "+
			"Please make a PUT request to:\n\n%s\n\n"+
			"The link expires in 10 minutes. If you did not request this, ignore this email.\n", toName, resetURL),
	}
}

// SendPasswordResetEmail sends the reset link to the user
func (s *EmailServiceImpl) SendPasswordResetEmail(ctx context.Context, toEmail, toName, resetURL string) error {
	if !s.Configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("resetURL", resetURL).
			Msg("SMTP credentials not configured - reset email not sent. Use the URL above for testing.")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Send(PasswordResetMessage(toEmail, toName, resetURL))
}

// Render builds the raw RFC 822 message
func (s *EmailServiceImpl) Render(msg Message) []byte {
	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail),
		"To":           msg.To,
		"Subject":      msg.Subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/plain; charset=UTF-8",
	}

	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\r\n", k, headers[k])
	}
	b.WriteString("\r\n")
	b.WriteString(msg.Text)
	return []byte(b.String())
}

// Send delivers msg through the configured SMTP server
func (s *EmailServiceImpl) Send(msg Message) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)
	body := s.Render(msg)

	if !s.config.UseTLS {
		if err := s.send(serverAddress, auth, s.config.FromEmail, []string{msg.To}, body); err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", serverAddress, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		s.logger.Error().Err(err).Msg("SMTP authentication failed")
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(body); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return nil
}
