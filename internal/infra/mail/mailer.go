package mail

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"greenhood/config"
	"greenhood/internal/domain/service"

	"github.com/pkg/errors"
	gomail "github.com/wneessen/go-mail"
	"go.uber.org/fx"
)

const dialTimeout = 15 * time.Second

// MailerParams holds dependencies for Mailer, injected by Fx
type MailerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewMailer creates an SMTP mailer when mail is enabled, otherwise a mailer
// that only logs outgoing messages.
func NewMailer(params MailerParams) (service.Mailer, error) {
	cfg := params.Config.Mail
	if cfg == nil || !cfg.Enabled {
		params.Logger.Info("Mail delivery disabled, using log mailer")

		return &logMailer{logger: params.Logger}, nil
	}

	return NewSMTPMailer(cfg, params.Logger)
}

type smtpMailer struct {
	client *gomail.Client
	from   string
	logger *slog.Logger
}

// NewSMTPMailer creates a mailer that relays through the configured SMTP host.
func NewSMTPMailer(cfg *config.MailConfig, logger *slog.Logger) (service.Mailer, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New("mail host is required")
	}
	if strings.TrimSpace(cfg.From) == "" {
		return nil, errors.New("mail sender address is required")
	}

	policy, err := tlsPolicy(cfg.TLS)
	if err != nil {
		return nil, err
	}

	opts := []gomail.Option{
		gomail.WithTLSPolicy(policy),
		gomail.WithTimeout(dialTimeout),
	}
	if cfg.Port > 0 {
		opts = append(opts, gomail.WithPort(cfg.Port))
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create mail client")
	}

	return &smtpMailer{client: client, from: cfg.From, logger: logger}, nil
}

func tlsPolicy(name string) (gomail.TLSPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "mandatory":
		return gomail.TLSMandatory, nil
	case "opportunistic":
		return gomail.TLSOpportunistic, nil
	case "none":
		return gomail.NoTLS, nil
	default:
		return gomail.NoTLS, errors.Errorf("unknown mail tls policy: %s", name)
	}
}

// Send delivers one HTML message.
func (m *smtpMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return errors.Wrap(err, "invalid sender address")
	}
	if err := msg.To(to); err != nil {
		return errors.Wrap(err, "invalid recipient address")
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlBody)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return errors.Wrap(err, "failed to send mail")
	}

	m.logger.Info("Mail sent", slog.String("to", to), slog.String("subject", subject))

	return nil
}

type logMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a mailer that writes messages to the log instead of sending them.
func NewLogMailer(logger *slog.Logger) service.Mailer {
	return &logMailer{logger: logger}
}

func (m *logMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	m.logger.Info("[LogMailer] Mail not sent, delivery disabled",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.Int("body_length", len(htmlBody)),
	)

	return nil
}
