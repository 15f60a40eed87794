package email

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendPasswordResetEmailWithoutCredentials(t *testing.T) {
	svc := NewEmailService(SMTPConfig{}, zerolog.Nop())
	svc.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send must not be called without credentials")
		return nil
	}

	assert.False(t, svc.Configured())
	assert.NoError(t, svc.SendPasswordResetEmail(context.Background(), "a@b.io", "A", "http://x/reset/abc"))
}

func TestSendPasswordResetEmail(t *testing.T) {
	svc := NewEmailService(SMTPConfig{
		Host:      "smtp.mailtrap.io",
		Port:      2525,
		Username:  "user",
		Password:  "pass",
		FromName:  "DevCamper",
		FromEmail: "noreply@devcamper.io",
	}, zerolog.Nop())

	var gotAddr, gotFrom string
	var gotTo []string
	var gotBody []byte
	svc.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotBody = addr, from, to, msg
		return nil
	}

	err := svc.SendPasswordResetEmail(context.Background(), "john@gmail.com", "John", "http://localhost:5000/api/v1/auth/resetpassword/abc")
	require.NoError(t, err)

	assert.Equal(t, "smtp.mailtrap.io:2525", gotAddr)
	assert.Equal(t, "noreply@devcamper.io", gotFrom)
	assert.Equal(t, []string{"john@gmail.com"}, gotTo)
	body := string(gotBody)
	assert.Contains(t, body, "From: DevCamper <noreply@devcamper.io>\r\n")
	assert.Contains(t, body, "Subject: Password reset token\r\n")
	assert.Contains(t, body, "http://localhost:5000/api/v1/auth/resetpassword/abc")
}

func TestSendFailure(t *testing.T) {
	svc := NewEmailService(SMTPConfig{Host: "h", Port: 25, Username: "u", Password: "p"}, zerolog.Nop())
	svc.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("boom") }

	err := svc.SendPasswordResetEmail(context.Background(), "a@b.io", "A", "url")
	assert.ErrorContains(t, err, "failed to send email")
}
