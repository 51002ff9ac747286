package servers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const (
	DefaultTimeout = 10 * time.Second

	// maxBodySize bounds how much of a directory response is read.
	maxBodySize = 8 << 20
)

type FetcherOptions struct {
	URL       string
	Timeout   time.Duration
	UserAgent string
	Client    *http.Client
}

// Fetcher loads the server directory over HTTP. It never retries; the
// watcher's next tick is the retry.
type Fetcher struct {
	url       string
	userAgent string
	client    *http.Client
}

func NewFetcher(opts FetcherOptions) *Fetcher {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	return &Fetcher{
		url:       opts.URL,
		userAgent: opts.UserAgent,
		client:    client,
	}
}

// Fetch performs one GET against the directory. Failures come back as
// *FetchError matching ErrUnavailable or ErrMalformedPayload.
func (f *Fetcher) Fetch(ctx context.Context) (Directory, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, &FetchError{URL: f.url, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: f.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, &FetchError{URL: f.url, Err: errors.Errorf("unexpected status %s", resp.Status)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &FetchError{URL: f.url, Err: errors.Wrap(err, "read body")}
	}

	return ParseDirectory(body, f.url)
}

// ParseDirectory decodes a JSON array of descriptors. Entries are kept raw
// and only decoded on lookup, so one odd entry cannot spoil the list.
func ParseDirectory(body []byte, source string) (Directory, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, &FetchError{URL: source, Malformed: true, Err: err}
	}
	if entries == nil {
		// a literal null is not a list
		return nil, &FetchError{URL: source, Malformed: true, Err: errors.New("expected a JSON array, got null")}
	}
	return Directory(entries), nil
}
