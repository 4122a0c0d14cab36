package ports

import "context"

// MailMessage is a single outbound email.
type MailMessage struct {
	To       string
	Subject  string
	HTMLBody string
}

// Mailer delivers email via the configured SMTP relay.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}
