package mail

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"greenhood/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewMailer_DisabledUsesLogMailer(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	mailer, err := NewMailer(MailerParams{Config: &config.Config{Mail: &config.MailConfig{}}, Logger: logger})
	require.NoError(t, err)
	require.IsType(t, &logMailer{}, mailer)

	require.NoError(t, mailer.Send(context.Background(), "a@b.com", "subject", "<p>body</p>"))
	assert.Contains(t, buf.String(), "a@b.com")
	assert.NotContains(t, buf.String(), "<p>body</p>")
}

func TestNewSMTPMailer_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MailConfig
	}{
		{name: "missing host", cfg: config.MailConfig{From: "noreply@greenhood.org"}},
		{name: "missing sender", cfg: config.MailConfig{Host: "localhost"}},
		{name: "unknown tls policy", cfg: config.MailConfig{Host: "localhost", From: "noreply@greenhood.org", TLS: "sometimes"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSMTPMailer(&tt.cfg, discardLogger())
			assert.Error(t, err)
		})
	}
}

func TestSMTPMailer_SendFailsOnBadAddresses(t *testing.T) {
	mailer, err := NewSMTPMailer(&config.MailConfig{
		Host: "localhost",
		Port: 2525,
		From: "not an address",
		TLS:  "none",
	}, discardLogger())
	require.NoError(t, err)

	err = mailer.Send(context.Background(), "a@b.com", "s", "b")
	assert.ErrorContains(t, err, "invalid sender address")
}

func TestSMTPMailer_SendFailsWhenRelayUnreachable(t *testing.T) {
	mailer, err := NewSMTPMailer(&config.MailConfig{
		Host:     "127.0.0.1",
		Port:     1,
		From:     "noreply@greenhood.org",
		Username: "user",
		Password: "secret",
		TLS:      "none",
	}, discardLogger())
	require.NoError(t, err)

	err = mailer.Send(context.Background(), "a@b.com", "s", "b")
	assert.ErrorContains(t, err, "failed to send mail")
}
