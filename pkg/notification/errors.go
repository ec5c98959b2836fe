package notification

import (
	"errors"
	"fmt"
)

// ErrValidation is the base error for rejected input. Validation errors
// are shown to the caller verbatim and never create a transaction record.
var ErrValidation = errors.New("invalid request")

var (
	ErrRecipientRequired = fmt.Errorf("%w: recipient is required", ErrValidation)
	ErrRecipientInvalid  = fmt.Errorf("%w: recipient address is not valid", ErrValidation)
	ErrCCInvalid         = fmt.Errorf("%w: cc address is not valid", ErrValidation)
	ErrBCCInvalid        = fmt.Errorf("%w: bcc address is not valid", ErrValidation)
	ErrSubjectRequired   = fmt.Errorf("%w: subject is required", ErrValidation)
	ErrBodyRequired      = fmt.Errorf("%w: body is required", ErrValidation)
	ErrBodyContainsImage = fmt.Errorf("%w: body cannot contain embedded image data", ErrValidation)
	ErrPhoneInvalid      = fmt.Errorf("%w: phone number is not valid", ErrValidation)
	ErrContentRequired   = fmt.Errorf("%w: message content is required", ErrValidation)
	ErrUnknownChannel    = fmt.Errorf("%w: unknown channel", ErrValidation)
)

var (
	// ErrMissingSenderIdentity is returned when the acting user has no
	// usable sender address in their profile. Shown to the caller verbatim.
	ErrMissingSenderIdentity = errors.New("please set an email address in your profile")

	// ErrAttachmentUnavailable is returned when an attachment reference
	// cannot be resolved during composition.
	ErrAttachmentUnavailable = errors.New("attachment is not available")

	// ErrTransport classifies delivery failures raised by a gateway.
	ErrTransport = errors.New("transport rejected the message")

	// ErrPersistence is returned when the transaction recorder fails.
	// The audit trail never fails silently.
	ErrPersistence = errors.New("failed to persist transaction record")

	// ErrCannotSend is the single opaque message shown to the caller for
	// every failure after validation. The real cause is kept in the
	// record's status detail and in internal logs only.
	ErrCannotSend = errors.New("cannot send message, please contact administrator")
)
