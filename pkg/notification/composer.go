package notification

import (
	"context"
	"errors"
	"strings"
)

// Composer builds transport-ready messages from validated requests.
type Composer struct {
	attachments AttachmentStore
}

// NewComposer creates a composer. The attachment store may be nil when
// the deployment never sends attachments; composing a request that
// carries attachment references without a store fails.
func NewComposer(store AttachmentStore) *Composer {
	return &Composer{attachments: store}
}

// Compose turns a validated request into a transport-ready message. The
// sender identity comes from the acting user's profile; a missing or
// malformed address fails before any network call. Attachment references
// are resolved through the store; a single unresolved reference aborts
// composition so partial messages are never handed to a gateway.
func (c *Composer) Compose(ctx context.Context, user User, req Request) (Message, error) {
	msg := Message{
		Channel: req.Channel(),
		To:      req.To(),
		CC:      req.CC(),
		BCC:     req.BCC(),
		Subject: req.Subject(),
		Body:    req.Body(),
	}

	if req.Channel() == ChannelEmail {
		from := strings.TrimSpace(user.Email)
		if from == "" || !validAddress(from) {
			return Message{}, ErrMissingSenderIdentity
		}
		msg.From = from
	}

	for _, ref := range req.Attachments() {
		if c.attachments == nil {
			return Message{}, errors.Join(ErrAttachmentUnavailable, errors.New("no attachment store configured"))
		}
		att, err := c.attachments.Fetch(ctx, ref)
		if err != nil {
			return Message{}, errors.Join(ErrAttachmentUnavailable, err)
		}
		msg.Attachments = append(msg.Attachments, att)
	}

	return msg, nil
}
