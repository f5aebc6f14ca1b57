package email

import "fmt"

// Codes match the domain error codes; email cannot import domain's HTTP
// mapping, so handler reads them through ErrorCode.
const (
	codeInternal = "internal"
	codeNotFound = "not_found"
	codeInvalid  = "invalid"
)

// EmailError is returned by everything in this package.
type EmailError struct {
	Code    string
	Message string
	Err     error
}

func (e *EmailError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *EmailError) Unwrap() error        { return e.Err }
func (e *EmailError) ErrorCode() string    { return e.Code }
func (e *EmailError) ErrorMessage() string { return e.Message }

var (
	ErrNoRecipient        = &EmailError{Code: codeInvalid, Message: "Email has no recipient"}
	ErrInvalidFromAddress = &EmailError{Code: codeInvalid, Message: "Invalid from email address"}
	ErrInvalidToAddress   = &EmailError{Code: codeInvalid, Message: "Invalid to email address"}
)

// ErrTemplateNotFound reports a template name missing from the embedded set.
func ErrTemplateNotFound(name string) error {
	return &EmailError{Code: codeNotFound, Message: "Email template " + name + " not found"}
}

func deliveryFailed(err error) error {
	return &EmailError{Code: codeInternal, Message: "Failed to send email", Err: err}
}
