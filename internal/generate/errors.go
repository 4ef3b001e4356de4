package generate

import (
	"errors"
	"fmt"
)

// Kind classifies a generation failure. The taxonomy is fixed so callers never
// see transport-specific vocabulary.
type Kind int

const (
	KindUnknown Kind = iota
	// KindInvalidLocator: the repository locator failed the shape check;
	// no network I/O was attempted.
	KindInvalidLocator
	// KindTransport: connection-level failure reaching the generator.
	KindTransport
	KindRateLimited
	KindServiceUnavailable
	// KindServer: classified non-success response carrying a message.
	KindServer
	// KindInvalidResponse: the response envelope could not be parsed as JSON
	// or lacked any recognizable shape.
	KindInvalidResponse
	// KindDecode: the body was JSON but did not decode into a valid document
	// even under the permissive policy.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindInvalidLocator:
		return "invalid_locator"
	case KindTransport:
		return "transport_failure"
	case KindRateLimited:
		return "rate_limited"
	case KindServiceUnavailable:
		return "service_unavailable"
	case KindServer:
		return "server_error"
	case KindInvalidResponse:
		return "invalid_response"
	case KindDecode:
		return "decode_error"
	default:
		return "unknown"
	}
}

// Error is a classified generation failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "generate: error"
	}
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = e.Kind.String()
	}
	return "generate: " + msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the classification from err, or KindUnknown.
func KindOf(err error) Kind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return KindUnknown
}

// MessageOf returns the human-readable message carried by a classified error,
// falling back to err.Error().
func MessageOf(err error) string {
	var ge *Error
	if errors.As(err, &ge) && ge.Message != "" {
		return ge.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

func invalidLocator(locator string) error {
	return &Error{Kind: KindInvalidLocator, Message: fmt.Sprintf("locator %q does not look like a repository URL", locator)}
}

func transportFailure(err error) error {
	return &Error{Kind: KindTransport, Message: "generator unreachable", Err: err}
}

func rateLimited() error {
	return &Error{Kind: KindRateLimited, Message: "generator is rate limiting requests"}
}

func serviceUnavailable() error {
	return &Error{Kind: KindServiceUnavailable, Message: "generator is unavailable"}
}

func serverError(message string) error {
	return &Error{Kind: KindServer, Message: message}
}

func invalidResponse() error {
	return &Error{Kind: KindInvalidResponse, Message: "generator returned an unrecognizable response"}
}

func decodeFailure(err error) error {
	return &Error{Kind: KindDecode, Message: "generator body did not decode into a document", Err: err}
}
