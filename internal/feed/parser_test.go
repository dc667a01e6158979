package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rssWithImages = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
	<channel>
		<title>Memes</title>
		<item>
			<title>Cat &amp; keyboard</title>
			<link>https://memes.test/1</link>
			<guid>meme-1</guid>
			<pubDate>Wed, 01 Jan 2025 12:00:00 GMT</pubDate>
			<enclosure url="https://memes.test/cat.jpg" type="image/jpeg"/>
		</item>
		<item>
			<title>Text only</title>
			<link>https://memes.test/2</link>
			<guid>meme-2</guid>
			<description>no picture here</description>
		</item>
		<item>
			<title>Inline</title>
			<link>https://memes.test/3</link>
			<description><![CDATA[<p><img src="https://memes.test/dog.png?w=640&amp;s=1"/></p>]]></description>
			<pubDate>Thu, 02 Jan 2025 12:00:00 GMT</pubDate>
		</item>
	</channel>
</rss>`

const redditAtom = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:media="http://search.yahoo.com/mrss/">
	<title>memes</title>
	<entry>
		<id>t3_abc</id>
		<title>When the build is green</title>
		<link href="https://www.reddit.com/r/memes/comments/abc/green/"/>
		<updated>2025-01-03T10:00:00+00:00</updated>
		<media:thumbnail url="https://b.thumbs.redditmedia.com/small.jpg"/>
		<content type="html">&lt;a href="https://www.reddit.com/r/memes/comments/abc/green/"&gt;&lt;img src="https://b.thumbs.redditmedia.com/small.jpg"/&gt;&lt;/a&gt; &lt;a href="https://i.redd.it/full.jpeg"&gt;[link]&lt;/a&gt;</content>
	</entry>
</feed>`

func TestParser_ParseRSS(t *testing.T) {
	memes, err := NewParser().Parse(strings.NewReader(rssWithImages), "memes")
	require.NoError(t, err)
	require.Len(t, memes, 2, "items without an image are skipped")

	assert.Equal(t, "Cat & keyboard", memes[0].Title)
	assert.Equal(t, "https://memes.test/cat.jpg", memes[0].ImageURL)
	assert.Equal(t, "https://memes.test/1", memes[0].PageURL)
	assert.Equal(t, "memes", memes[0].Source)
	assert.Equal(t, time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC), memes[0].Published.UTC())

	assert.Equal(t, "https://memes.test/dog.png?w=640&s=1", memes[1].ImageURL)
	assert.NotEqual(t, memes[0].ID, memes[1].ID)
}

func TestParser_ParseRedditAtom(t *testing.T) {
	memes, err := NewParser().Parse(strings.NewReader(redditAtom), "memes")
	require.NoError(t, err)
	require.Len(t, memes, 1)

	assert.Equal(t, "https://i.redd.it/full.jpeg", memes[0].ImageURL, "full size link wins over the thumbnail")
	assert.Equal(t, "https://www.reddit.com/r/memes/comments/abc/green/", memes[0].PageURL)
	assert.Equal(t, 2025, memes[0].Published.Year())
}

func TestParser_ParseInvalid(t *testing.T) {
	_, err := NewParser().Parse(strings.NewReader("not a feed"), "memes")
	assert.Error(t, err)
}

func TestExtractMediaURLs(t *testing.T) {
	item := &gofeed.Item{
		Enclosures: []*gofeed.Enclosure{
			{URL: "https://memes.test/a.jpg", Type: "image/jpeg"},
			{URL: "https://memes.test/a.mp3", Type: "audio/mpeg"},
		},
		Image:       &gofeed.Image{URL: "https://memes.test/a.jpg"},
		Description: `<img src="https://memes.test/b.gif">`,
	}
	assert.Equal(t, []string{"https://memes.test/a.jpg", "https://memes.test/b.gif"}, extractMediaURLs(item))
}

func TestGenerateID(t *testing.T) {
	a := generateID("memes", "guid-1", "https://memes.test/1")
	b := generateID("memes", "", "https://memes.test/1")
	c := generateID("memes", "guid-1")

	assert.Equal(t, a, c, "stable for the same identifier")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "memes:"))
	assert.Len(t, a, len("memes:")+16)
	assert.Equal(t, "memes:unknown", generateID("memes", "", ""))
}
