package carrier

import (
	"errors"
	"fmt"
)

// Kind classifies a carrier error by what the operator can do about it.
type Kind string

const (
	// KindConfiguration means credentials or settings are missing. Detected
	// before any network call; fix the carrier configuration.
	KindConfiguration Kind = "configuration"

	// KindMapping means an address could not be translated to the carrier's
	// location codes; fix the address data.
	KindMapping Kind = "mapping"

	// KindProvider means the carrier API returned a well-formed failure.
	// The code and message are the carrier's, verbatim.
	KindProvider Kind = "provider"

	// KindTransport means the request never produced a usable response:
	// network failure, timeout, non-2xx status, or a malformed body.
	KindTransport Kind = "transport"
)

// Error represents a failure from a delivery carrier.
type Error struct {
	Carrier string
	Kind    Kind
	Code    int // carrier status code, when Kind is KindProvider
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Code != 0:
		return fmt.Sprintf("%s %s error (code %d): %s", e.Carrier, e.Kind, e.Code, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("%s %s error: %s: %v", e.Carrier, e.Kind, e.Message, e.Cause)
	default:
		return fmt.Sprintf("%s %s error: %s", e.Carrier, e.Kind, e.Message)
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors of the same kind, and the same code when both carry one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Kind != t.Kind {
		return false
	}
	if e.Code != 0 && t.Code != 0 {
		return e.Code == t.Code
	}
	return true
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// NewConfigurationError reports missing credentials or settings.
func NewConfigurationError(carrier, message string) *Error {
	return &Error{Carrier: carrier, Kind: KindConfiguration, Message: message}
}

// NewMappingError reports an address that cannot be resolved.
func NewMappingError(carrier, message string) *Error {
	return &Error{Carrier: carrier, Kind: KindMapping, Message: message}
}

// NewProviderError reports a failure code returned by the carrier API.
func NewProviderError(carrier string, code int, message string) *Error {
	return &Error{Carrier: carrier, Kind: KindProvider, Code: code, Message: message}
}

// NewTransportError reports a network-level failure.
func NewTransportError(carrier, message string, cause error) *Error {
	return &Error{Carrier: carrier, Kind: KindTransport, Message: message, Cause: cause}
}

// Sentinel errors for common carrier scenarios.
var (
	// ErrProviderNotFound indicates the requested carrier is not registered.
	ErrProviderNotFound = errors.New("carrier not registered")

	// ErrDuplicateReference indicates the booking reference was already used
	// with the carrier. The host must supply a unique reference.
	ErrDuplicateReference = errors.New("shipment reference already used")

	// ErrMissingAddress indicates the sender or recipient address is absent.
	ErrMissingAddress = errors.New("address is missing")
)

// KindOf returns the Kind of a carrier error, or an empty Kind for other
// error values.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}
