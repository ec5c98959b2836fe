package sms

import "errors"

var (
	ErrSendFailed    = errors.New("sms gateway failed to send message")
	ErrInvalidConfig = errors.New("invalid sms gateway config")
	ErrWrongChannel  = errors.New("sms gateway received a non-sms message")
)
