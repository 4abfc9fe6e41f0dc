package listings

import (
	"errors"
	"fmt"
)

// NetworkError reports a failed round trip: the request could not be sent,
// the body could not be read, or the API answered with a non-2xx status.
type NetworkError struct {
	URL        string
	StatusCode int // zero when no response arrived
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("api %s returned status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("execute request %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError reports a payload that is not a well-formed listing array.
type DecodeError struct {
	Index int    // element position, -1 when the whole payload is rejected
	Field string // JSON key, empty when unknown
	Err   error
}

func (e *DecodeError) Error() string {
	switch {
	case e.Index < 0:
		return fmt.Sprintf("decode response: %v", e.Err)
	case e.Field != "":
		return fmt.Sprintf("decode response: element %d field %q: %v", e.Index, e.Field, e.Err)
	default:
		return fmt.Sprintf("decode response: element %d: %v", e.Index, e.Err)
	}
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Kind names the error category for logs and the UI.
func Kind(err error) string {
	var netErr *NetworkError
	var decErr *DecodeError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &netErr):
		return "network"
	case errors.As(err, &decErr):
		return "decode"
	default:
		return "unknown"
	}
}
