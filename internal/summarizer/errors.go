package summarizer

import (
	"errors"
	"fmt"
)

var (
	// ErrNoProvider means no backend has a credential configured.
	ErrNoProvider = errors.New("no summarization provider configured")

	// ErrEmptyResponse means the backend accepted the request but its
	// response carried no usable text.
	ErrEmptyResponse = errors.New("provider returned no usable text")
)

// ProviderHTTPError is a backend rejection (auth, quota, malformed payload).
type ProviderHTTPError struct {
	Provider string
	Status   int
	Body     string
}

func (e *ProviderHTTPError) Error() string {
	return fmt.Sprintf("%s status %d: %s", e.Provider, e.Status, e.Body)
}
