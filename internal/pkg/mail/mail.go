package mail

import (
	"context"
	"errors"
)

// Message is an HTML email to one or more receivers.
type Message struct {
	Receivers []string
	Subject   string
	HTML      string
}

func (m Message) validate() error {
	if len(m.Receivers) == 0 {
		return errors.New("mail: no receivers")
	}
	if m.Subject == "" {
		return errors.New("mail: empty subject")
	}
	return nil
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
