package service

import "context"

// Mailer delivers outbound mail.
type Mailer interface {
	// Send fails on any transport error.
	Send(ctx context.Context, to, subject, htmlBody string) error
}
