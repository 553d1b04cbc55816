// Package email доставляет письма протокола сессий через SMTP (gomail) или в лог.
package email

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	svc "walkydoggy/internal/auth/ports/services"
	"walkydoggy/internal/config"
	"walkydoggy/pkg/logger"
	"walkydoggy/pkg/metrics"
	"walkydoggy/pkg/resilience"
)

const (
	errParseTemplate   = "parse e-mail template failed"
	errExecTemplate    = "execute e-mail template failed"
	errUnknownTemplate = "unknown e-mail template"
	errSendMail        = "sending e-mail failed"

	msgEmailSent   = "email sent"
	msgEmailLogged = "email delivery disabled, logging message"

	serviceSMTP = "smtp"
)

// ErrSendFailed оборачивает ошибки SMTP.
var ErrSendFailed = errors.New(errSendMail)

// Dialer подмножество gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Option настраивает SMTPNotifier.
type Option func(*SMTPNotifier)

// WithResilience подменяет политику повторов и circuit breaker.
func WithResilience(r *resilience.ServiceResilience) Option {
	return func(n *SMTPNotifier) {
		n.resilience = r
	}
}

// WithMetrics включает учет неудачных отправок.
func WithMetrics(m *metrics.Metrics) Option {
	return func(n *SMTPNotifier) {
		n.metrics = m
	}
}

// SMTPNotifier отправляет письма через SMTP.
type SMTPNotifier struct {
	dialer     Dialer
	from       string
	timeout    time.Duration
	renderer   *renderer
	resilience *resilience.ServiceResilience
	metrics    *metrics.Metrics
}

// NewSMTPNotifier создает отправителя поверх dialer.
func NewSMTPNotifier(dialer Dialer, emailCfg config.EmailConfig, appCfg config.AppConfig, opts ...Option) (*SMTPNotifier, error) {
	r, err := newRenderer(appCfg.BrandName, appCfg.ClientURL)
	if err != nil {
		return nil, err
	}
	n := &SMTPNotifier{
		dialer:     dialer,
		from:       emailCfg.From,
		timeout:    emailCfg.Timeout,
		renderer:   r,
		resilience: resilience.NewServiceResilience(serviceSMTP),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// SendVerificationEmail отправляет ссылку подтверждения email.
func (n *SMTPNotifier) SendVerificationEmail(ctx context.Context, to, name, secret string) error {
	return n.send(ctx, kindVerify, to, name, secret)
}

// SendPasswordResetEmail отправляет ссылку сброса пароля.
func (n *SMTPNotifier) SendPasswordResetEmail(ctx context.Context, to, name, secret string) error {
	return n.send(ctx, kindReset, to, name, secret)
}

func (n *SMTPNotifier) send(ctx context.Context, kind, to, name, secret string) error {
	log := logger.Log(ctx).With(zap.String("template", kind))

	msg, err := n.renderer.render(kind, name, secret)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", n.from, n.renderer.brand)
	m.SetHeader("To", to)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	m.AddAlternative("text/html", msg.HTML)

	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	err = n.resilience.Execute(ctx, kind, func(context.Context) error {
		return n.dialer.DialAndSend(m)
	})
	if err != nil {
		n.metrics.ExternalFailure(serviceSMTP)
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	log.Info(ctx, msgEmailSent)
	return nil
}

// LogNotifier пишет ссылки в лог вместо отправки. Используется в разработке.
type LogNotifier struct {
	renderer *renderer
}

// NewLogNotifier создает отправителя в лог.
func NewLogNotifier(appCfg config.AppConfig) (*LogNotifier, error) {
	r, err := newRenderer(appCfg.BrandName, appCfg.ClientURL)
	if err != nil {
		return nil, err
	}
	return &LogNotifier{renderer: r}, nil
}

// SendVerificationEmail логирует ссылку подтверждения.
func (n *LogNotifier) SendVerificationEmail(ctx context.Context, to, _, secret string) error {
	logger.Log(ctx).Info(ctx, msgEmailLogged,
		zap.String("template", kindVerify),
		zap.String("to", to),
		zap.String("link", n.renderer.link("/verify-email", secret)))
	return nil
}

// SendPasswordResetEmail логирует ссылку сброса пароля.
func (n *LogNotifier) SendPasswordResetEmail(ctx context.Context, to, _, secret string) error {
	logger.Log(ctx).Info(ctx, msgEmailLogged,
		zap.String("template", kindReset),
		zap.String("to", to),
		zap.String("link", n.renderer.link("/reset-password", secret)))
	return nil
}

// New выбирает провайдера по EMAIL_SERVICE.
func New(emailCfg config.EmailConfig, appCfg config.AppConfig, opts ...Option) (svc.Notifier, error) {
	switch emailCfg.Provider {
	case config.EmailProviderSMTP:
		dialer := gomail.NewDialer(emailCfg.Host, emailCfg.Port, emailCfg.Username, emailCfg.Password)
		return NewSMTPNotifier(dialer, emailCfg, appCfg, opts...)
	case config.EmailProviderLog, "":
		return NewLogNotifier(appCfg)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownEmailProvider, emailCfg.Provider)
	}
}
