package driven

import (
	"context"
	"fmt"
)

// ResourceFetcher retrieves remote playlist and EPG resources. A single
// attempt is made per call: no retries, no fetcher-imposed timeout. Failures
// propagate to the caller as-is.
type ResourceFetcher interface {
	// FetchText retrieves a resource and returns its body as UTF-8 text.
	FetchText(ctx context.Context, url string) (string, error)

	// FetchBytes retrieves a resource as raw bytes, used for
	// gzip-compressed EPG files.
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// UpstreamError reports a non-success HTTP response from a remote resource.
// Handlers surface the upstream status to the client so upstream failures
// stay distinguishable from local ones.
type UpstreamError struct {
	StatusCode int
	Status     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned %s", e.Status)
}
