package model

import "context"

// Mail is an outgoing plain-text message.
type Mail struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers mail. Delivery is attempted once.
type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}
