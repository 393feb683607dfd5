package binance

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidMethod is returned before any I/O when Execute is asked for a
	// method other than GET, POST or DELETE.
	ErrInvalidMethod = errors.New("method not supported")

	// ErrClockSync indicates the server time could not be fetched, so no
	// signed request can be stamped.
	ErrClockSync = errors.New("failed to synchronize with server time")

	// ErrSymbolNotFound indicates a quote was requested for a symbol that has
	// never been fetched successfully.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrMissingCredentials indicates an empty API key or secret key.
	ErrMissingCredentials = errors.New("api key and secret key are required")
)

// RequestError represents a non-200 response from an endpoint.
type RequestError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s request to %s failed with status code %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// IsRequestError reports whether err is, or wraps, a *RequestError.
func IsRequestError(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr)
}

// StatusCode returns the HTTP status carried by err, or 0 if err does not wrap
// a *RequestError.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}
