package sms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/klinehq/communication/pkg/notification"
)

// DevGateway implements the SMS transport gateway for local development.
// Each message is written to a JSON file instead of being transmitted.
type DevGateway struct {
	dir string
}

// NewDevGateway creates a development gateway that writes messages to dir.
func NewDevGateway(dir string) *DevGateway {
	return &DevGateway{dir: dir}
}

type devMessage struct {
	Timestamp string `json:"timestamp"`
	To        string `json:"to"`
	Text      string `json:"text"`
}

// Send writes the message to the configured directory.
func (d *DevGateway) Send(ctx context.Context, msg notification.Message) (notification.DeliveryReceipt, error) {
	if msg.Channel != notification.ChannelSMS {
		return notification.DeliveryReceipt{}, ErrWrongChannel
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return notification.DeliveryReceipt{}, errors.Join(ErrSendFailed, err)
	}

	now := time.Now()
	id := uuid.New().String()

	data, err := json.MarshalIndent(devMessage{
		Timestamp: now.Format(time.RFC3339),
		To:        msg.To,
		Text:      msg.Body,
	}, "", "  ")
	if err != nil {
		return notification.DeliveryReceipt{}, errors.Join(ErrSendFailed, err)
	}

	name := fmt.Sprintf("%s_%s.json", now.Format("2006_01_02_150405"), id)
	if err := os.WriteFile(filepath.Join(d.dir, name), data, 0o644); err != nil {
		return notification.DeliveryReceipt{}, errors.Join(ErrSendFailed, err)
	}

	return notification.DeliveryReceipt{
		MessageID:  id,
		Provider:   "dev",
		AcceptedAt: now,
	}, nil
}
