package user

import (
	"context"
	"net/http"
	"strings"

	"github.com/pders01/qlaunch/internal/plugins"
)

// RedditPlugin maps subreddits to their RSS feeds. It accepts subreddit
// URLs, "r/name" and bare names such as "ProgrammerHumor".
type RedditPlugin struct{}

func NewRedditPlugin() *RedditPlugin {
	return &RedditPlugin{}
}

func (p *RedditPlugin) Name() string {
	return "reddit"
}

func (p *RedditPlugin) CanHandle(source string) bool {
	return subreddit(source) != ""
}

func (p *RedditPlugin) Priority() int {
	return 50
}

func (p *RedditPlugin) Resolve(_ context.Context, source string, _ *http.Client) (*plugins.SourceInfo, error) {
	name := subreddit(source)
	return &plugins.SourceInfo{
		Source:  source,
		FeedURL: "https://www.reddit.com/r/" + name + "/.rss",
		Title:   "r/" + name,
		Metadata: map[string]string{
			"plugin":    "reddit",
			"subreddit": name,
		},
	}, nil
}

// subreddit extracts the subreddit name from source, or returns "".
func subreddit(source string) string {
	s := strings.TrimSpace(source)
	for _, prefix := range []string{"https://", "http://"} {
		s = strings.TrimPrefix(s, prefix)
	}
	for _, host := range []string{"www.reddit.com/", "old.reddit.com/", "reddit.com/"} {
		if strings.HasPrefix(s, host) {
			s = strings.TrimPrefix(s, host)
			if !strings.HasPrefix(s, "r/") {
				return ""
			}
			break
		}
	}
	s = strings.TrimPrefix(s, "/")
	s = strings.TrimPrefix(s, "r/")
	s = strings.TrimSuffix(s, "/")
	s = strings.TrimSuffix(s, "/.rss")
	s = strings.TrimSuffix(s, ".rss")

	if s == "" || len(s) > 21 {
		return ""
	}
	for _, c := range s {
		if !(c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return ""
		}
	}
	return s
}
