package schaledb

import "fmt"

// FetchError reports a failed upstream fetch: a transport error, a non-2xx
// status, or an undecodable body. Fetch failures always propagate to the
// caller — there is no stale-data fallback and no internal retry.
type FetchError struct {
	// Endpoint is the cache key form of the request, e.g. "en/students".
	Endpoint string

	// StatusCode is the HTTP status when the response was received but not
	// usable; zero for transport and decode failures.
	StatusCode int

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("schaledb: fetch %s: unexpected status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("schaledb: fetch %s: %v", e.Endpoint, e.Err)
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *FetchError) Unwrap() error {
	return e.Err
}
