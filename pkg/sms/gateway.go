package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/klinehq/communication/pkg/notification"
)

// Config holds SMS gateway configuration. The provider exposes a plain
// REST endpoint; Sender is the registered originator shown to the
// recipient.
type Config struct {
	APIURL string `env:"SMS_API_URL"`
	APIKey string `env:"SMS_API_KEY"`
	Sender string `env:"SMS_SENDER"`
}

// HTTPGateway delivers SMS messages through a provider's REST API.
// It satisfies notification.TransportGateway for the SMS channel.
type HTTPGateway struct {
	cfg    Config
	client *http.Client
}

// Option configures the HTTP gateway.
type Option func(*HTTPGateway)

// WithHTTPClient sets a custom HTTP client, ignoring nil for safety.
func WithHTTPClient(client *http.Client) Option {
	return func(g *HTTPGateway) {
		if client != nil {
			g.client = client
		}
	}
}

// NewHTTPGateway creates a REST-backed SMS gateway.
func NewHTTPGateway(cfg Config, opts ...Option) (*HTTPGateway, error) {
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("%w: APIURL is required", ErrInvalidConfig)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: APIKey is required", ErrInvalidConfig)
	}

	g := &HTTPGateway{
		cfg:    cfg,
		client: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

type sendRequest struct {
	From string `json:"from,omitempty"`
	To   string `json:"to"`
	Text string `json:"text"`
}

type sendResponse struct {
	MessageID string `json:"message_id"`
	Error     string `json:"error,omitempty"`
}

// Send posts the message to the provider. The call blocks until the
// provider accepts or rejects it; the caller-supplied context carries
// the deadline. No retries.
func (g *HTTPGateway) Send(ctx context.Context, msg notification.Message) (notification.DeliveryReceipt, error) {
	if msg.Channel != notification.ChannelSMS {
		return notification.DeliveryReceipt{}, ErrWrongChannel
	}

	payload, err := json.Marshal(sendRequest{
		From: g.cfg.Sender,
		To:   msg.To,
		Text: msg.Body,
	})
	if err != nil {
		return notification.DeliveryReceipt{}, errors.Join(ErrSendFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.APIURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return notification.DeliveryReceipt{}, errors.Join(ErrSendFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return notification.DeliveryReceipt{}, errors.Join(ErrSendFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return notification.DeliveryReceipt{}, errors.Join(ErrSendFailed, err)
	}

	var out sendResponse
	// Some providers return plain text on errors; a decode failure is
	// only fatal for accepted messages.
	decodeErr := json.Unmarshal(body, &out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reason := out.Error
		if reason == "" {
			reason = string(body)
		}
		return notification.DeliveryReceipt{}, errors.Join(
			ErrSendFailed,
			fmt.Errorf("provider returned %d: %s", resp.StatusCode, reason),
		)
	}
	if decodeErr != nil {
		return notification.DeliveryReceipt{}, errors.Join(ErrSendFailed, decodeErr)
	}

	return notification.DeliveryReceipt{
		MessageID:  out.MessageID,
		Provider:   "http",
		AcceptedAt: time.Now(),
	}, nil
}
