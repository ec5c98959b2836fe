package template

import "errors"

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidChannel   = errors.New("template channel must be email or sms")
	ErrNameRequired     = errors.New("template name is required")
	ErrBodyRequired     = errors.New("template body is required")
)
