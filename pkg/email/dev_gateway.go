package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/klinehq/communication/pkg/notification"
)

// DevGateway implements the email transport gateway for local
// development. It saves each message as an HTML file plus a JSON
// metadata file instead of sending anything.
type DevGateway struct {
	dir string
}

// NewDevGateway creates a development gateway that writes messages to
// dir. The directory is created on first send.
func NewDevGateway(dir string) *DevGateway {
	return &DevGateway{dir: dir}
}

type devMetadata struct {
	Timestamp   string   `json:"timestamp"`
	From        string   `json:"from"`
	To          string   `json:"to"`
	CC          string   `json:"cc,omitempty"`
	BCC         string   `json:"bcc,omitempty"`
	Subject     string   `json:"subject"`
	Attachments []string `json:"attachments,omitempty"`
}

// Send writes the message body and metadata to the configured directory.
func (d *DevGateway) Send(ctx context.Context, msg notification.Message) (notification.DeliveryReceipt, error) {
	if msg.Channel != notification.ChannelEmail {
		return notification.DeliveryReceipt{}, ErrWrongChannel
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return notification.DeliveryReceipt{}, errors.Join(ErrSendFailed, err)
	}

	now := time.Now()
	base := fmt.Sprintf("%s_%s", now.Format("2006_01_02_150405"), sanitizeFilename(msg.Subject))

	htmlPath := filepath.Join(d.dir, base+".html")
	if err := os.WriteFile(htmlPath, []byte(msg.Body), 0o644); err != nil {
		return notification.DeliveryReceipt{}, errors.Join(ErrSendFailed, err)
	}

	meta := devMetadata{
		Timestamp: now.Format(time.RFC3339),
		From:      msg.From,
		To:        msg.To,
		CC:        msg.CC,
		BCC:       msg.BCC,
		Subject:   msg.Subject,
	}
	for _, att := range msg.Attachments {
		meta.Attachments = append(meta.Attachments, att.Filename)
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return notification.DeliveryReceipt{}, errors.Join(ErrSendFailed, err)
	}
	if err := os.WriteFile(filepath.Join(d.dir, base+".json"), data, 0o644); err != nil {
		return notification.DeliveryReceipt{}, errors.Join(ErrSendFailed, err)
	}

	return notification.DeliveryReceipt{
		MessageID:  uuid.New().String(),
		Provider:   "dev",
		AcceptedAt: now,
	}, nil
}

// sanitizeRegex matches characters that are not alphanumeric, dash,
// underscore, or dot.
var sanitizeRegex = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = sanitizeRegex.ReplaceAllString(s, "")

	const maxLength = 100
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	if s == "" {
		s = "email"
	}
	return strings.ToLower(s)
}
