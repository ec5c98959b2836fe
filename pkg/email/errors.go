package email

import "errors"

var (
	ErrSendFailed    = errors.New("email gateway failed to send message")
	ErrInvalidConfig = errors.New("invalid email gateway config")
	ErrWrongChannel  = errors.New("email gateway received a non-email message")
)
