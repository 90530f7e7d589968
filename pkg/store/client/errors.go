package client

import (
	"fmt"
	"strings"
)

// TransportError means the bakehouse API never answered: connection refused,
// DNS failure, timeout. The message carries remediation hints instead of a
// raw stack trace because it is shown to operators as-is.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf(
		"bakehouse API at %s is unreachable: %v (check that the server is running and that the address, network, and firewall allow the connection)",
		e.URL, e.Err,
	)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ApplicationError means the bakehouse was reached and rejected the request.
// Message and details come from the server's error envelope verbatim.
type ApplicationError struct {
	StatusCode int
	Message    string
	Details    []string
}

func (e *ApplicationError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("bakehouse API error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("bakehouse API error (%d): %s: %s", e.StatusCode, e.Message, strings.Join(e.Details, "; "))
}
