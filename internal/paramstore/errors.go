// Package paramstore is a minimal, hand-signed client for AWS Systems Manager
// Parameter Store. It exists because the edge runtime this repository targets
// cannot carry an AWS SDK; requests are signed with internal/sigv4 and sent
// over plain net/http.
package paramstore

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoCredentials indicates the execution environment exposes no credential pair.
var ErrNoCredentials = errors.New("no AWS credentials available in environment")

// RequestError indicates the parameter service rejected the call or returned
// an unexpected response.
type RequestError struct {
	// Operation is the API operation that failed (e.g. "GetParameters").
	Operation string

	// StatusCode is the HTTP status of the response, 0 if the call never
	// completed.
	StatusCode int

	// Err is the underlying cause.
	Err error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Operation, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// InvalidParametersError indicates the service resolved the call but reported
// one or more of the requested names as invalid.
type InvalidParametersError struct {
	// Names are the parameter names the service could not resolve.
	Names []string
}

func (e *InvalidParametersError) Error() string {
	return "invalid parameters: " + strings.Join(e.Names, ", ")
}
