package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vk/medallion/internal/errs"
)

// DefaultTimeout bounds every single HTTP round trip of an extraction.
const DefaultTimeout = "60s"

// newHTTPClient returns the client shared by all downloads of one Extractor.
func newHTTPClient(timeout string) (*http.Client, error) {
	d, err := time.ParseDuration(timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout %q: %w", timeout, err)
	}
	return &http.Client{
		Timeout: d,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}, nil
}

// get fetches url and returns the body. 404 maps to ErrNotFound, any other
// non-2xx status to ErrIO.
func (e *Extractor) get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.New(errs.ErrIO, "fetch", redact(url), fmt.Errorf("failed to create request: %w", err))
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, errs.New(errs.ErrIO, "fetch", redact(url), fmt.Errorf("failed to execute request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.New(errs.ErrIO, "fetch", redact(url), fmt.Errorf("failed to read response body: %w", err))
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errs.Newf(errs.ErrNotFound, "fetch", redact(url), "status %s", resp.Status)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, errs.Newf(errs.ErrIO, "fetch", redact(url), "status %s", resp.Status)
	}
	return body, nil
}
