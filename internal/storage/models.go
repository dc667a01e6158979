package storage

import (
	"time"
)

// Entry is a catalog row searchable from normal mode: an application, a
// file or folder, a web link, a utility or a system command.
type Entry struct {
	ID         string    `json:"id" yaml:"id"`
	Kind       string    `json:"kind" yaml:"kind"`
	Title      string    `json:"title" yaml:"title"`
	Subtitle   string    `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Target     string    `json:"target,omitempty" yaml:"target,omitempty"`
	With       string    `json:"with,omitempty" yaml:"with,omitempty"`
	AliasBadge string    `json:"alias_badge,omitempty" yaml:"alias,omitempty"`
	Keywords   []string  `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	IDEType    string    `json:"ide_type,omitempty" yaml:"ide_type,omitempty"`
	UpdatedAt  time.Time `json:"updated_at" yaml:"-"`
}

type Bookmark struct {
	ID        string    `json:"id" yaml:"id,omitempty"`
	Title     string    `json:"title" yaml:"title"`
	URL       string    `json:"url" yaml:"url"`
	Tags      []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"-"`
}

// Account is a TOTP two-factor account. Secret is base32 encoded.
type Account struct {
	ID        string    `json:"id"`
	Issuer    string    `json:"issuer"`
	Name      string    `json:"name"`
	Secret    string    `json:"secret"`
	Digits    int       `json:"digits"`
	Period    int       `json:"period"`
	CreatedAt time.Time `json:"created_at"`
}

// Meme is an image post pulled from a meme feed.
type Meme struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"image_url"`
	PageURL   string    `json:"page_url"`
	Published time.Time `json:"published"`
}

// Favorite is a meme saved by the user.
type Favorite struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	ImageURL string    `json:"image_url"`
	PageURL  string    `json:"page_url"`
	Source   string    `json:"source"`
	SavedAt  time.Time `json:"saved_at"`
}

// FeedState carries the conditional-request headers of a meme feed.
type FeedState struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"last_modified"`
	LastFetched  time.Time `json:"last_fetched"`
}
