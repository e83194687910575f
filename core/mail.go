package core

import "net/mail"

type (
	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Bcc     []mail.Address
		Subject string
		BodyStr string // text/plain content

		HTMLContent string // optional text/html alternative
	}

	// EmailService is any service that can send emails.
	EmailService interface {
		// SendMessages sends messages concurrently and never blocks the caller.
		SendMessages(messages ...*EmailMessage)
	}
)

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return (m.BodyStr != "") || (m.HTMLContent != "") }
