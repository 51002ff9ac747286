package servers

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUnavailable covers network failures and non-2xx responses.
	ErrUnavailable = errors.New("server list unavailable")
	// ErrMalformedPayload covers bodies that are not a JSON array and
	// matching descriptors that lack required fields.
	ErrMalformedPayload = errors.New("malformed server list payload")
	// ErrServerNotFound is returned by Locate when no descriptor matches.
	ErrServerNotFound = errors.New("target server not found")
)

// FetchError describes why a directory could not be loaded.
type FetchError struct {
	URL       string
	Malformed bool
	Err       error
}

func (e *FetchError) Error() string {
	if e.Malformed {
		return fmt.Sprintf("failed to decode server list from %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("failed to load server list from %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool {
	if e.Malformed {
		return target == ErrMalformedPayload
	}
	return target == ErrUnavailable
}

// DescriptorError reports a matching descriptor that cannot be used.
type DescriptorError struct {
	Name string
	Err  error
}

func (e *DescriptorError) Error() string {
	return fmt.Sprintf("invalid descriptor for %q: %v", e.Name, e.Err)
}

func (e *DescriptorError) Unwrap() error { return e.Err }

func (e *DescriptorError) Is(target error) bool { return target == ErrMalformedPayload }
