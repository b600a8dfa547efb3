package openaicompat

import (
	"github.com/cogpy/aicogchat/pkg/api"
)

// MapNetworkError converts a network-level error (connection refused,
// timeout, DNS failure, body read failure) into a transport APIError.
// The cause stays reachable through errors.Is/As.
func MapNetworkError(err error) *api.APIError {
	return api.NewTransportError(err)
}
