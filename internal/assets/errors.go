// Package assets fetches remote geographic assets with retries, caches
// decoded results for the process lifetime, and aggregates multi-source
// loads so one failed asset never sinks the whole batch.
package assets

import "fmt"

// TransientError is a fetch failure that was retried and still failed.
// It surfaces as a failed batch entry, never a crash.
type TransientError struct {
	URL string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// StatusError is a fetch failure that retrying cannot fix, such as a
// 4xx response for a missing asset.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
}
