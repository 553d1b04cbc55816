package services

import "context"

// Notifier доставка писем протокола сессий.
type Notifier interface {
	SendVerificationEmail(ctx context.Context, to, name, secret string) error

	SendPasswordResetEmail(ctx context.Context, to, name, secret string) error
}
