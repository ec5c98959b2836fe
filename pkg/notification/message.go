package notification

import (
	"context"
	"time"

	"github.com/klinehq/communication/pkg/transaction"
)

// Attachment is a fully resolved attachment part ready for transport.
// The byte payload is held only transiently while handing off to the
// gateway; durable storage of file content belongs to the attachment
// store.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is a transport-ready message composed from a validated request.
// For email the body is HTML text; for SMS it is a flat text string and
// the remaining fields stay empty.
type Message struct {
	Channel     Channel
	From        string
	To          string
	CC          string
	BCC         string
	Subject     string
	Body        string
	Attachments []Attachment
}

// DeliveryReceipt is the gateway's acknowledgment that the external
// channel accepted the message.
type DeliveryReceipt struct {
	MessageID  string
	Provider   string
	AcceptedAt time.Time
}

// TransportGateway delivers a composed message through an external
// channel (SMTP relay, SMS provider). Send blocks until the transport
// accepts or rejects the message, is never retried internally, and any
// error it returns is treated as a delivery failure.
type TransportGateway interface {
	Send(ctx context.Context, msg Message) (DeliveryReceipt, error)
}

// AttachmentStore resolves attachment references to transport-ready
// parts. The store owns the file bytes; this package only holds
// references until composition.
type AttachmentStore interface {
	Fetch(ctx context.Context, ref string) (Attachment, error)
}

// Recorder persists the audit trail of send attempts. Begin runs before
// any network I/O and must be durable even if the subsequent send fails;
// Complete moves the record to a terminal status and is a no-op for a
// nil record.
type Recorder interface {
	Begin(ctx context.Context, owner string, snap transaction.Snapshot) (*transaction.Record, error)
	Complete(ctx context.Context, rec *transaction.Record, status transaction.Status, detail string) error
}
