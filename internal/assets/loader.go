package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// DefaultMaxAttempts bounds the retry schedule for one asset fetch.
const DefaultMaxAttempts = 3

// ProgressFunc is called with progress updates during asset loading.
// Optional: a nil ProgressFunc is never called.
type ProgressFunc func(progress int, status string)

// Loader fetches raw asset bytes over HTTP with exponential backoff.
type Loader struct {
	client      *http.Client
	maxAttempts int
	baseDelay   time.Duration
}

// Option configures a Loader.
type Option func(*Loader)

// WithClient overrides the HTTP client.
func WithClient(c *http.Client) Option {
	return func(l *Loader) { l.client = c }
}

// WithMaxAttempts overrides the retry budget.
func WithMaxAttempts(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxAttempts = n
		}
	}
}

// WithBaseDelay overrides the first backoff interval. Tests use this to
// avoid multi-second sleeps.
func WithBaseDelay(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.baseDelay = d
		}
	}
}

// NewLoader creates an asset loader with the default retry schedule:
// up to 3 attempts, 2^attempt seconds apart.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		client:      http.DefaultClient,
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   2 * time.Second,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Fetch retrieves url, retrying transient failures with exponential
// backoff until the attempt budget is exhausted. The last error is
// returned once attempts run out. A 4xx response is permanent and is
// not retried; corrupt payloads are a decode concern, not a fetch one.
func (l *Loader) Fetch(ctx context.Context, url string) ([]byte, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = l.baseDelay
	policy.Multiplier = 2
	policy.RandomizationFactor = 0

	body, err := backoff.Retry(ctx, func() ([]byte, error) {
		return l.fetchOnce(ctx, url)
	}, backoff.WithBackOff(policy), backoff.WithMaxTries(uint(l.maxAttempts)))
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			return nil, err
		}
		return nil, &TransientError{URL: url, Err: err}
	}
	return body, nil
}

func (l *Loader) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return io.ReadAll(resp.Body)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, backoff.Permanent(&StatusError{URL: url, Status: resp.StatusCode})
	default:
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
}

// Source is one independently-loadable asset in a batch.
type Source struct {
	Name string
	Load func(ctx context.Context) (any, error)
}

// Result is the per-source outcome of a batch load.
type Result struct {
	Name  string
	Value any
	Err   error
}

// Failed reports whether this source's load failed.
func (r Result) Failed() bool { return r.Err != nil }

// LoadAll runs every source concurrently and collects per-source
// results in input order. A failed source never fails the batch; the
// caller assembles a best-effort composite from whatever succeeded.
func LoadAll(ctx context.Context, sources []Source) []Result {
	results := make([]Result, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			value, err := src.Load(ctx)
			results[i] = Result{Name: src.Name, Value: value, Err: err}
		}(i, src)
	}
	wg.Wait()
	return results
}
