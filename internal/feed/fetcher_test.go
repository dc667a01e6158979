package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/qlaunch/internal/config"
	"github.com/pders01/qlaunch/internal/storage"
)

func TestFetcher_Fetch(t *testing.T) {
	tests := []struct {
		name           string
		state          storage.FeedState
		ignoreCache    bool
		serverResponse func(t *testing.T, w http.ResponseWriter, r *http.Request)
		expectUpdated  bool
		expectError    string
	}{
		{
			name: "new content",
			serverResponse: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "qlaunch-test/1.0", r.Header.Get("User-Agent"))
				w.Header().Set("ETag", `"123"`)
				_, _ = w.Write([]byte("<rss></rss>"))
			},
			expectUpdated: true,
		},
		{
			name:  "not modified with ETag",
			state: storage.FeedState{ETag: `"123"`},
			serverResponse: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, `"123"`, r.Header.Get("If-None-Match"))
				w.WriteHeader(http.StatusNotModified)
			},
		},
		{
			name:  "not modified with Last-Modified",
			state: storage.FeedState{LastModified: "Wed, 01 Jan 2025 00:00:00 GMT"},
			serverResponse: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Wed, 01 Jan 2025 00:00:00 GMT", r.Header.Get("If-Modified-Since"))
				w.WriteHeader(http.StatusNotModified)
			},
		},
		{
			name:        "ignore cache drops conditional headers",
			state:       storage.FeedState{ETag: `"123"`},
			ignoreCache: true,
			serverResponse: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				assert.Empty(t, r.Header.Get("If-None-Match"))
				_, _ = w.Write([]byte("<rss></rss>"))
			},
			expectUpdated: true,
		},
		{
			name: "server error",
			serverResponse: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			expectError: "HTTP error: 500",
		},
		{
			name: "rate limited",
			serverResponse: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Retry-After", "120")
				w.WriteHeader(http.StatusTooManyRequests)
			},
			expectError: "rate limited, retry after 2m0s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				tt.serverResponse(t, w, r)
			}))
			defer server.Close()

			f := NewFetcher(config.TestConfig())
			f.SetIgnoreCache(tt.ignoreCache)
			state := tt.state
			state.URL = server.URL

			resp, updated, err := f.Fetch(context.Background(), &state)
			if tt.expectError != "" {
				assert.EqualError(t, err, tt.expectError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectUpdated, updated)
			if updated {
				require.NotNil(t, resp)
				resp.Body.Close()
			} else {
				assert.Nil(t, resp)
			}
		})
	}
}

func TestFetcher_FetchHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, err := NewFetcher(config.TestConfig()).Fetch(ctx, &storage.FeedState{URL: server.URL})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFetcher_UpdateState(t *testing.T) {
	f := NewFetcher(config.TestConfig())
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set("ETag", `"abc"`)
	resp.Header.Set("Last-Modified", "Thu, 02 Jan 2025 00:00:00 GMT")

	state := &storage.FeedState{URL: "https://feeds.test/rss"}
	before := time.Now()
	f.UpdateState(state, resp)

	assert.Equal(t, `"abc"`, state.ETag)
	assert.Equal(t, "Thu, 02 Jan 2025 00:00:00 GMT", state.LastModified)
	assert.False(t, state.LastFetched.Before(before))
}

func TestFetcher_RetryAfter(t *testing.T) {
	f := NewFetcher(config.TestConfig())

	tests := []struct {
		header   string
		expected time.Duration
	}{
		{"30", 30 * time.Second},
		{"", 15 * time.Minute},
		{"soon", 15 * time.Minute},
		{"-5", 15 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			resp := &http.Response{Header: http.Header{}}
			if tt.header != "" {
				resp.Header.Set("Retry-After", tt.header)
			}
			assert.Equal(t, tt.expected, f.RetryAfter(resp))
		})
	}
}
