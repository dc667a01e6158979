package plugins

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SourceInfo describes where a meme source's feed lives.
type SourceInfo struct {
	// Source is the value as written in the configuration, e.g. "memes"
	// or "https://www.reddit.com/r/memes".
	Source  string
	FeedURL string
	Title   string
	// Metadata carries plugin specific details.
	Metadata map[string]string
}

// Plugin turns a configured meme source into a fetchable feed.
type Plugin interface {
	Name() string

	CanHandle(source string) bool

	// Resolve may perform HTTP requests with client, e.g. to follow redirects.
	Resolve(ctx context.Context, source string, client *http.Client) (*SourceInfo, error)

	// Priority orders plugins that handle the same source; higher wins.
	Priority() int
}

// Registry manages all registered plugins
type Registry struct {
	plugins []Plugin
	client  *http.Client
}

func NewRegistry(timeout time.Duration) *Registry {
	return &Registry{
		plugins: make([]Plugin, 0),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (r *Registry) Register(plugin Plugin) {
	r.plugins = append(r.plugins, plugin)
}

// FindPlugin returns the highest priority plugin that can handle source.
func (r *Registry) FindPlugin(source string) Plugin {
	var bestPlugin Plugin
	highestPriority := -1

	for _, plugin := range r.plugins {
		if plugin.CanHandle(source) && plugin.Priority() > highestPriority {
			bestPlugin = plugin
			highestPriority = plugin.Priority()
		}
	}

	return bestPlugin
}

// Resolve maps source to its feed. Without a matching plugin the source is
// taken to be a feed URL already.
func (r *Registry) Resolve(ctx context.Context, source string) (*SourceInfo, error) {
	source = strings.TrimSpace(source)
	plugin := r.FindPlugin(source)
	if plugin == nil {
		return &SourceInfo{
			Source:   source,
			FeedURL:  source,
			Title:    source,
			Metadata: make(map[string]string),
		}, nil
	}
	return plugin.Resolve(ctx, source, r.client)
}

func (r *Registry) ListPlugins() []Plugin {
	return append([]Plugin(nil), r.plugins...)
}
