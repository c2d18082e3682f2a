package core

import (
	"bytes"
	"net/mail"
)

type (
	EmailService interface {
		SendMessages(messages ...*EmailMessage)
	}

	EmailMessage struct {
		To          []mail.Address
		Cc          []mail.Address
		Bcc         []mail.Address
		Subject     string
		TextContent string
		Attachments []Attachment
	}

	Attachment struct {
		Filename    string
		ContentType string
		Content     *bytes.Buffer
	}
)

func (m EmailMessage) HasRecipients() bool {
	return len(m.To) > 0 || len(m.Cc) > 0 || len(m.Bcc) > 0
}

func (m EmailMessage) HasContent() bool {
	return m.TextContent != ""
}

func (m EmailMessage) HasAttachments() bool {
	return len(m.Attachments) > 0
}
