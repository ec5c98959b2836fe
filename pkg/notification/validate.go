package notification

import (
	"net/mail"
	"regexp"
	"strings"
)

// inlineImageMarker recognizes embedded inline image payloads in an email
// body. Bodies carrying unauthenticated inline binary content are rejected.
const inlineImageMarker = "data:image"

// phoneRegex accepts international numbers with an optional country code.
var phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// Validate normalizes and validates a raw form payload into an immutable
// Request. Validation is all-or-nothing; the first failed check wins, in a
// fixed order: recipient presence, recipient format, cc/bcc format,
// subject, body presence, body content.
func Validate(raw RawInput) (Request, error) {
	switch raw.Channel {
	case ChannelEmail:
		return validateEmail(raw)
	case ChannelSMS:
		return validateSMS(raw)
	default:
		return Request{}, ErrUnknownChannel
	}
}

func validateEmail(raw RawInput) (Request, error) {
	to := strings.TrimSpace(raw.To)
	if to == "" {
		return Request{}, ErrRecipientRequired
	}
	if !validAddress(to) {
		return Request{}, ErrRecipientInvalid
	}

	cc := strings.TrimSpace(raw.CC)
	if cc != "" && !validAddress(cc) {
		return Request{}, ErrCCInvalid
	}
	bcc := strings.TrimSpace(raw.BCC)
	if bcc != "" && !validAddress(bcc) {
		return Request{}, ErrBCCInvalid
	}

	subject := strings.TrimSpace(raw.Subject)
	if subject == "" {
		return Request{}, ErrSubjectRequired
	}

	if strings.TrimSpace(raw.Body) == "" {
		return Request{}, ErrBodyRequired
	}
	if strings.Contains(raw.Body, inlineImageMarker) {
		return Request{}, ErrBodyContainsImage
	}

	return Request{
		channel:     ChannelEmail,
		to:          to,
		cc:          cc,
		bcc:         bcc,
		subject:     subject,
		body:        raw.Body,
		attachments: cleanRefs(raw.Attachments),
	}, nil
}

func validateSMS(raw RawInput) (Request, error) {
	to := strings.TrimSpace(raw.To)
	if to == "" {
		return Request{}, ErrRecipientRequired
	}
	if !phoneRegex.MatchString(cleanPhone(to)) {
		return Request{}, ErrPhoneInvalid
	}

	if strings.TrimSpace(raw.Body) == "" {
		return Request{}, ErrContentRequired
	}

	return Request{
		channel: ChannelSMS,
		to:      to,
		body:    raw.Body,
	}, nil
}

func validAddress(value string) bool {
	addr, err := mail.ParseAddress(value)
	if err != nil {
		return false
	}
	// Reject display-name forms like `Alice <a@example.com>`; the form
	// fields carry bare addresses only.
	return addr.Address == value
}

func cleanPhone(value string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, value)
}

func cleanRefs(refs []string) []string {
	var out []string
	for _, ref := range refs {
		if ref = strings.TrimSpace(ref); ref != "" {
			out = append(out, ref)
		}
	}
	return out
}
