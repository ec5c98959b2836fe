package template

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/klinehq/communication/pkg/notification"
)

// Template is a reusable message draft. Email templates may prefill
// cc/bcc/subject/body; SMS templates carry only a body.
type Template struct {
	ID        uuid.UUID
	Channel   notification.Channel
	Name      string
	CC        string
	BCC       string
	Subject   string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the template before it is stored.
func (t Template) Validate() error {
	if t.Channel != notification.ChannelEmail && t.Channel != notification.ChannelSMS {
		return ErrInvalidChannel
	}
	if strings.TrimSpace(t.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(t.Body) == "" {
		return ErrBodyRequired
	}
	return nil
}

// Apply prefills a form draft from the template, keeping whatever the
// user already typed in the recipient field.
func Apply(t Template, draft notification.RawInput) notification.RawInput {
	draft.Channel = t.Channel
	draft.Body = t.Body
	if t.Channel == notification.ChannelEmail {
		draft.CC = t.CC
		draft.BCC = t.BCC
		draft.Subject = t.Subject
	}
	return draft
}
