package feed

import (
	"crypto/sha256"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/pders01/qlaunch/internal/media"
	"github.com/pders01/qlaunch/internal/storage"
)

var (
	imgRegex  = regexp.MustCompile(`<img[^>]+src=["']([^"']+)["']`)
	hrefRegex = regexp.MustCompile(`<a[^>]+href=["']([^"']+)["']`)
)

type Parser struct {
	parser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		parser: gofeed.NewParser(),
	}
}

// Parse turns feed items that carry an image into memes of source. Items
// without an image are skipped.
func (p *Parser) Parse(reader io.Reader, source string) ([]*storage.Meme, error) {
	feed, err := p.parser.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	memes := make([]*storage.Meme, 0, len(feed.Items))
	for _, item := range feed.Items {
		image := firstImage(linkedImages(item))
		if image == "" {
			image = firstImage(extractMediaURLs(item))
		}
		if image == "" {
			continue
		}
		meme := &storage.Meme{
			ID:       generateID(source, item.GUID, item.Link, image),
			Source:   source,
			Title:    strings.TrimSpace(html.UnescapeString(item.Title)),
			ImageURL: image,
			PageURL:  item.Link,
		}
		switch {
		case item.PublishedParsed != nil:
			meme.Published = *item.PublishedParsed
		case item.UpdatedParsed != nil:
			meme.Published = *item.UpdatedParsed
		}
		memes = append(memes, meme)
	}

	return memes, nil
}

func extractMediaURLs(item *gofeed.Item) []string {
	var urls []string

	for _, enclosure := range item.Enclosures {
		if enclosure.URL != "" && (enclosure.Type == "" || strings.HasPrefix(enclosure.Type, "image/")) {
			urls = append(urls, enclosure.URL)
		}
	}

	if item.Image != nil && item.Image.URL != "" {
		urls = append(urls, item.Image.URL)
	}

	content := item.Content + " " + item.Description
	urls = append(urls, findMediaInHTML(content)...)

	if ext, ok := item.Extensions["media"]; ok {
		for _, kind := range []string{"content", "thumbnail"} {
			for _, e := range ext[kind] {
				if u := e.Attrs["url"]; u != "" {
					urls = append(urls, u)
				}
			}
		}
	}

	return uniqueStrings(urls)
}

// linkedImages returns image links of the item body. They point at the full
// size picture where inline images are often thumbnails.
func linkedImages(item *gofeed.Item) []string {
	return submatches(hrefRegex, item.Content+" "+item.Description)
}

func findMediaInHTML(body string) []string {
	return submatches(imgRegex, body)
}

func submatches(re *regexp.Regexp, body string) []string {
	var urls []string
	for _, match := range re.FindAllStringSubmatch(body, -1) {
		if len(match) > 1 {
			urls = append(urls, html.UnescapeString(match[1]))
		}
	}
	return urls
}

func firstImage(urls []string) string {
	for _, u := range urls {
		if media.IsImage(u) {
			return u
		}
	}
	return ""
}

// generateID derives a stable key from the first non-empty identifier.
func generateID(source string, candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return fmt.Sprintf("%s:%x", source, sha256.Sum256([]byte(c)))[:len(source)+17]
		}
	}
	return source + ":unknown"
}

func uniqueStrings(strs []string) []string {
	seen := make(map[string]bool)
	result := []string{}
	for _, s := range strs {
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	return result
}
