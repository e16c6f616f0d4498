package nightscout

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport covers connectivity failures and timeouts.
	ErrTransport = errors.New("transport failure")
	// ErrProtocol is matched by every *StatusError.
	ErrProtocol = errors.New("unexpected response status")
	ErrDecode   = errors.New("decode failure")

	ErrMissingEndpoint = errors.New("missing endpoint")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d", ErrProtocol, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrProtocol
}
