package email

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/mrz1836/postmark"

	"github.com/klinehq/communication/pkg/notification"
)

type postmarkGateway struct {
	client *postmark.Client
}

// NewPostmarkGateway creates a Postmark-backed email transport gateway.
// Both tokens are required for runtime operation - this enforces explicit
// configuration rather than silent failures in production.
func NewPostmarkGateway(cfg Config) (notification.TransportGateway, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, fmt.Errorf("%w: PostmarkServerToken is required", ErrInvalidConfig)
	}
	if cfg.PostmarkAccountToken == "" {
		return nil, fmt.Errorf("%w: PostmarkAccountToken is required", ErrInvalidConfig)
	}

	return &postmarkGateway{
		client: postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
	}, nil
}

// MustNewPostmarkGateway creates a Postmark gateway that panics on
// invalid config, failing fast during initialization.
func MustNewPostmarkGateway(cfg Config) notification.TransportGateway {
	gw, err := NewPostmarkGateway(cfg)
	if err != nil {
		panic(err)
	}
	return gw
}

// Send delivers a composed email through Postmark's transactional API.
// The call blocks until Postmark accepts or rejects the message; any
// failure is returned as-is for the workflow to classify. No retries.
func (g *postmarkGateway) Send(ctx context.Context, msg notification.Message) (notification.DeliveryReceipt, error) {
	if msg.Channel != notification.ChannelEmail {
		return notification.DeliveryReceipt{}, ErrWrongChannel
	}

	out := postmark.Email{
		From:     msg.From,
		To:       msg.To,
		Cc:       msg.CC,
		Bcc:      msg.BCC,
		Subject:  msg.Subject,
		HTMLBody: msg.Body,
	}
	for _, att := range msg.Attachments {
		out.Attachments = append(out.Attachments, postmark.Attachment{
			Name:        att.Filename,
			Content:     base64.StdEncoding.EncodeToString(att.Data),
			ContentType: att.ContentType,
		})
	}

	resp, err := g.client.SendEmail(ctx, out)
	if err != nil {
		return notification.DeliveryReceipt{}, errors.Join(ErrSendFailed, err)
	}
	if resp.ErrorCode > 0 {
		return notification.DeliveryReceipt{}, errors.Join(
			ErrSendFailed,
			fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message),
		)
	}

	return notification.DeliveryReceipt{
		MessageID:  resp.MessageID,
		Provider:   "postmark",
		AcceptedAt: time.Now(),
	}, nil
}
