package feed

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/pders01/qlaunch/internal/config"
	"github.com/pders01/qlaunch/internal/storage"
)

const (
	defaultUserAgent = "qlaunch/1.0 (launcher meme search; github.com/pders01/qlaunch)"
	defaultTimeout   = 10 * time.Second
)

type Fetcher struct {
	client      *http.Client
	userAgent   string
	ignoreCache bool
}

func NewFetcher(cfg *config.Config) *Fetcher {
	timeout := cfg.Memes.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ua := cfg.Memes.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: ua,
	}
}

// SetIgnoreCache makes Fetch skip the conditional request headers.
func (f *Fetcher) SetIgnoreCache(ignore bool) {
	f.ignoreCache = ignore
}

// Fetch requests the feed described by state. It reports false with a nil
// response when the server answers 304 Not Modified.
func (f *Fetcher) Fetch(ctx context.Context, state *storage.FeedState) (*http.Response, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, state.URL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	if !f.ignoreCache {
		if state.ETag != "" {
			req.Header.Set("If-None-Match", state.ETag)
		}
		if state.LastModified != "" {
			req.Header.Set("If-Modified-Since", state.LastModified)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("fetching feed: %w", err)
	}

	if resp.StatusCode == http.StatusNotModified {
		resp.Body.Close()
		return nil, false, nil
	}

	if resp.StatusCode >= 400 {
		retry := f.RetryAfter(resp)
		resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, false, fmt.Errorf("rate limited, retry after %s", retry)
		}
		return nil, false, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	return resp, true, nil
}

// UpdateState records the caching headers of resp in state.
func (f *Fetcher) UpdateState(state *storage.FeedState, resp *http.Response) {
	if etag := resp.Header.Get("ETag"); etag != "" {
		state.ETag = etag
	}
	if lastMod := resp.Header.Get("Last-Modified"); lastMod != "" {
		state.LastModified = lastMod
	}
	state.LastFetched = time.Now()
}

func (f *Fetcher) RetryAfter(resp *http.Response) time.Duration {
	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds >= 0 {
			return time.Duration(seconds) * time.Second
		}
		if at, err := http.ParseTime(retryAfter); err == nil {
			if d := time.Until(at); d > 0 {
				return d
			}
		}
	}
	return 15 * time.Minute
}
