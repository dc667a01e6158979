package search

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/qlaunch/internal/storage"
)

type memSource struct {
	entries []*storage.Entry
	err     error
}

func (m memSource) GetAllEntries() ([]*storage.Entry, error) { return m.entries, m.err }

func catalog() memSource {
	return memSource{entries: []*storage.Entry{
		{ID: "app:determine", Kind: "app", Title: "Determine"},
		{ID: "app:terminal", Kind: "app", Title: "Terminal", Keywords: []string{"shell", "console"}},
		{ID: "util:ip", Kind: "utility", Title: "IP", Subtitle: "Show local and public addresses"},
		{ID: "file:notes", Kind: "file", Title: "notes.md", Target: "/home/me/notes.md"},
	}}
}

func TestEngine_EmptyQuery(t *testing.T) {
	e := NewEngine(catalog())
	for _, q := range []string{"", "   ", "--"} {
		res, err := e.Search(q, 10)
		require.NoError(t, err)
		assert.NotNil(t, res)
		assert.Empty(t, res)
	}
}

func TestEngine_WordPrefixBeatsInnerMatch(t *testing.T) {
	e := NewEngine(catalog())
	res, err := e.Search("term", 10)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "app:terminal", res[0].Entry.ID)
	assert.Equal(t, "app:determine", res[1].Entry.ID)
}

func TestEngine_MatchesKeywordsAndSubtitle(t *testing.T) {
	e := NewEngine(catalog())

	res, err := e.Search("console", 10)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "app:terminal", res[0].Entry.ID)
	assert.Equal(t, "keywords", res[0].Matches[0].Field)

	res, err = e.Search("ip", 10)
	require.NoError(t, err)
	require.NotEmpty(t, res)
	assert.Equal(t, "util:ip", res[0].Entry.ID)
}

func TestEngine_Limit(t *testing.T) {
	e := NewEngine(catalog())
	res, err := e.Search("e", 1)
	require.NoError(t, err)
	assert.Len(t, res, 1)
}

func TestEngine_StoreError(t *testing.T) {
	e := NewEngine(memSource{err: errors.New("disk gone")})
	_, err := e.Search("x", 10)
	assert.Error(t, err)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"open", "notes", "md"}, tokenize("Open notes.md"))
	assert.Empty(t, tokenize("  "))
}

func TestScoreField(t *testing.T) {
	assert.Zero(t, scoreField("", []string{"a"}, 1))
	assert.Zero(t, scoreField("Terminal", []string{"zzz"}, 1))
	assert.Greater(t, scoreField("Terminal", []string{"terminal"}, 1), scoreField("Terminal", []string{"term"}, 1))
}
