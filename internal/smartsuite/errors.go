package smartsuite

import "fmt"

// APIError is a failed call against the SmartSuite API: either a transport
// error (Err set) or a non-2xx response (StatusCode + Detail set). Detail is
// capped at 500 bytes of the remote response body.
type APIError struct {
	Op         string
	StatusCode int
	Detail     string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: remote returned %d: %s", e.Op, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Detail)
}

func (e *APIError) Unwrap() error {
	return e.Err
}
