package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/qlaunch/internal/plugins"
)

func TestRedditPlugin_CanHandle(t *testing.T) {
	p := NewRedditPlugin()

	tests := []struct {
		source   string
		expected bool
	}{
		{"memes", true},
		{"ProgrammerHumor", true},
		{"r/golang", true},
		{"https://www.reddit.com/r/memes", true},
		{"https://reddit.com/r/memes/", true},
		{"https://old.reddit.com/r/memes/.rss", true},
		{"https://www.reddit.com/user/someone", false},
		{"https://xkcd.com/rss.xml", false},
		{"xkcd.com", false},
		{"", false},
		{"this_name_is_far_too_long_for_reddit", false},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.CanHandle(tt.source))
		})
	}
}

func TestRedditPlugin_Resolve(t *testing.T) {
	p := NewRedditPlugin()

	info, err := p.Resolve(context.Background(), "https://www.reddit.com/r/ProgrammerHumor/", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://www.reddit.com/r/ProgrammerHumor/.rss", info.FeedURL)
	assert.Equal(t, "r/ProgrammerHumor", info.Title)
	assert.Equal(t, "https://www.reddit.com/r/ProgrammerHumor/", info.Source)
	assert.Equal(t, "ProgrammerHumor", info.Metadata["subreddit"])
	assert.Equal(t, "reddit", p.Name())
	assert.Equal(t, 50, p.Priority())
}

func TestRedditPlugin_Registry(t *testing.T) {
	registry := plugins.NewRegistry(time.Second)
	registry.Register(NewRedditPlugin())

	info, err := registry.Resolve(context.Background(), "memes")
	require.NoError(t, err)
	assert.Equal(t, "https://www.reddit.com/r/memes/.rss", info.FeedURL)

	info, err = registry.Resolve(context.Background(), "https://xkcd.com/atom.xml")
	require.NoError(t, err)
	assert.Equal(t, "https://xkcd.com/atom.xml", info.FeedURL)
}
