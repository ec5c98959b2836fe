package notification

import (
	"slices"

	"github.com/klinehq/communication/pkg/transaction"
)

// Channel identifies a notification transport.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// User is the acting user's identity. It is passed explicitly into the
// validator, composer and recorder; there is no ambient current-user
// lookup anywhere in this package.
type User struct {
	ID    string
	Name  string
	Email string
}

// RawInput is the unvalidated form payload as submitted by the user.
//
// SecondaryTo and FreeText exist in the legacy SMS form but carry no
// behavior: single-recipient SMS is the confirmed contract, and the
// free-text flag has no branching logic. Both are accepted and ignored.
type RawInput struct {
	Channel     Channel
	To          string
	CC          string
	BCC         string
	Subject     string
	Body        string
	Attachments []string

	SecondaryTo string
	FreeText    bool
}

// Request is a validated notification request. It is constructed once per
// send attempt by Validate and immutable afterwards.
type Request struct {
	channel     Channel
	to          string
	cc          string
	bcc         string
	subject     string
	body        string
	attachments []string
}

func (r Request) Channel() Channel { return r.channel }
func (r Request) To() string       { return r.to }
func (r Request) CC() string       { return r.cc }
func (r Request) BCC() string      { return r.bcc }
func (r Request) Subject() string  { return r.subject }
func (r Request) Body() string     { return r.body }

// Attachments returns a copy of the attachment reference list.
func (r Request) Attachments() []string {
	return slices.Clone(r.attachments)
}

// Snapshot captures the fields preserved in the audit trail.
func (r Request) Snapshot() transaction.Snapshot {
	return transaction.Snapshot{
		Channel:   string(r.channel),
		Recipient: r.to,
		CC:        r.cc,
		BCC:       r.bcc,
		Subject:   r.subject,
		Body:      r.body,
	}
}
