package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// validation errors
	ErrMissingRequiredFields = errors.New("missing required fields")
	ErrInvalidNotifyDays     = errors.New("notify days must be greater than zero")

	// domain errors
	ErrDomainNotFound = errors.New("domain not found")
)

// SSLCheckError wraps a failed certificate probe with the hostname it targeted.
type SSLCheckError struct {
	Host string
	Err  error
}

func (e *SSLCheckError) Error() string {
	return fmt.Sprintf("failed to check SSL for %s: %v", e.Host, e.Err)
}

func (e *SSLCheckError) Unwrap() error {
	return e.Err
}

func NewSSLCheckError(host string, err error) *SSLCheckError {
	return &SSLCheckError{Host: host, Err: err}
}

// NotificationError wraps a failed alert delivery with the recipient address.
type NotificationError struct {
	Recipient string
	Err       error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("failed to notify %s: %v", e.Recipient, e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}

func NewNotificationError(recipient string, err error) *NotificationError {
	return &NotificationError{Recipient: recipient, Err: err}
}
