package driven

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"

	"github.com/m3uhub/iptvd/internal/port/driven"
)

// HTTPResourceFetcher implements the ResourceFetcher port over net/http.
// Redirects are followed per the default client policy. With insecureTLS
// set, certificate verification is disabled for outbound resource fetches.
// The relaxation never applies to the service's own listener.
type HTTPResourceFetcher struct {
	client *http.Client
}

// NewHTTPResourceFetcher creates a resource fetcher. No timeout is imposed:
// a hung upstream hangs the one request that hit it.
func NewHTTPResourceFetcher(insecureTLS bool) *HTTPResourceFetcher {
	client := &http.Client{}
	if insecureTLS {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		client.Transport = transport
	}
	return &HTTPResourceFetcher{client: client}
}

// FetchBytes retrieves a resource as raw bytes. Non-2xx responses are
// reported as *driven.UpstreamError carrying the upstream status.
func (f *HTTPResourceFetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &driven.UpstreamError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return body, nil
}

// FetchText retrieves a resource and returns its body as text.
func (f *HTTPResourceFetcher) FetchText(ctx context.Context, url string) (string, error) {
	body, err := f.FetchBytes(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
