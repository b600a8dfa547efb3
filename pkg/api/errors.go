package api

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of an adapter error.
type ErrorType string

const (
	ErrorTypeTransport        ErrorType = "transport_error"
	ErrorTypeHTTPStatus       ErrorType = "http_status_error"
	ErrorTypeMalformedPayload ErrorType = "malformed_payload"
	ErrorTypeArgumentParse    ErrorType = "argument_parse_error"
	ErrorTypeEmptyResponse    ErrorType = "empty_response"
	ErrorTypeInvalidRequest   ErrorType = "invalid_request"
	ErrorTypeNotFound         ErrorType = "not_found"
)

// APIError is the classified failure surfaced by provider adapters.
// Every error produced while building, exchanging or decoding a request
// is an *APIError so callers can branch on Type with IsType.
type APIError struct {
	Type    ErrorType `json:"type"`
	Code    string    `json:"code,omitempty"`
	Param   string    `json:"param,omitempty"`
	Message string    `json:"message"`

	// Status is the HTTP status for http_status_error, 0 otherwise.
	Status int `json:"status,omitempty"`

	// Raw holds the offending document or payload, for diagnostics.
	Raw string `json:"-"`

	// Err is the underlying cause, if any.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("%s: %s (status: %d)", e.Type, e.Message, e.Status)
	case e.Param != "":
		return fmt.Sprintf("%s: %s (param: %s)", e.Type, e.Message, e.Param)
	default:
		return fmt.Sprintf("%s: %s", e.Type, e.Message)
	}
}

// Unwrap returns the underlying cause.
func (e *APIError) Unwrap() error {
	return e.Err
}

// IsType reports whether err is, or wraps, an *APIError of the given type.
func IsType(err error, t ErrorType) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Type == t
}

// NewTransportError wraps a connection-level failure.
func NewTransportError(err error) *APIError {
	return &APIError{
		Type:    ErrorTypeTransport,
		Message: fmt.Sprintf("backend connection error: %s", err.Error()),
		Err:     err,
	}
}

// NewHTTPStatusError creates an APIError for a non-success HTTP status.
func NewHTTPStatusError(status int, code, message string) *APIError {
	return &APIError{
		Type:    ErrorTypeHTTPStatus,
		Code:    code,
		Status:  status,
		Message: message,
	}
}

// NewMalformedPayloadError creates an APIError for JSON that does not have
// the expected structure.
func NewMalformedPayloadError(message, raw string, err error) *APIError {
	return &APIError{
		Type:    ErrorTypeMalformedPayload,
		Message: message,
		Raw:     raw,
		Err:     err,
	}
}

// NewArgumentParseError creates an APIError for tool call arguments that are
// not valid JSON.
func NewArgumentParseError(function, arguments string, err error) *APIError {
	return &APIError{
		Type:    ErrorTypeArgumentParse,
		Param:   function,
		Message: fmt.Sprintf("tool call '%s' has non-JSON arguments '%s'", function, arguments),
		Raw:     arguments,
		Err:     err,
	}
}

// NewEmptyResponseError creates an APIError for a completion that carries
// neither text nor tool calls.
func NewEmptyResponseError(raw string) *APIError {
	return &APIError{
		Type:    ErrorTypeEmptyResponse,
		Message: fmt.Sprintf("invalid response data: %s", raw),
		Raw:     raw,
	}
}

// NewInvalidRequestError creates an APIError for invalid request parameters.
func NewInvalidRequestError(param, message string) *APIError {
	return &APIError{
		Type:    ErrorTypeInvalidRequest,
		Param:   param,
		Message: message,
	}
}

// NewNotFoundError creates an APIError for unknown clients or models.
func NewNotFoundError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}
