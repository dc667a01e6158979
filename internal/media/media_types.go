package media

import (
	_ "embed"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed media_types.toml
var mediaTypesTOML []byte

type Type int

const (
	TypeVideo Type = iota
	TypeImage
	TypeAudio
	TypePDF
	TypeUnknown
)

func (t Type) String() string {
	switch t {
	case TypeVideo:
		return "video"
	case TypeImage:
		return "image"
	case TypeAudio:
		return "audio"
	case TypePDF:
		return "pdf"
	}
	return "unknown"
}

type TypeConfig struct {
	Extensions  []string `toml:"extensions"`
	URLPatterns []string `toml:"url_patterns"`
}

type TypesConfig struct {
	Video     TypeConfig                `toml:"video"`
	Audio     TypeConfig                `toml:"audio"`
	Image     TypeConfig                `toml:"image"`
	PDF       TypeConfig                `toml:"pdf"`
	Platforms map[string]PlatformConfig `toml:"platforms"`
}

type PlatformConfig struct {
	DefaultOpener string `toml:"default_opener"`
}

type TypeDetector struct {
	config *TypesConfig
}

func NewTypeDetector() (*TypeDetector, error) {
	var config TypesConfig
	if err := toml.Unmarshal(mediaTypesTOML, &config); err != nil {
		return nil, err
	}
	return &TypeDetector{config: &config}, nil
}

var defaultDetector = func() *TypeDetector {
	d, err := NewTypeDetector()
	if err != nil {
		return &TypeDetector{config: &TypesConfig{}}
	}
	return d
}()

// DetectType classifies target using the embedded type table.
func DetectType(target string) Type {
	return defaultDetector.DetectType(target)
}

// IsImage reports whether target looks like an image.
func IsImage(target string) bool {
	return DetectType(target) == TypeImage
}

func (d *TypeDetector) DetectType(target string) Type {
	lower := strings.ToLower(target)
	isURL := strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")

	if ext := extension(lower); ext != "" {
		switch {
		case contains(d.config.Video.Extensions, ext):
			return TypeVideo
		case contains(d.config.Audio.Extensions, ext):
			return TypeAudio
		case contains(d.config.Image.Extensions, ext):
			return TypeImage
		case contains(d.config.PDF.Extensions, ext):
			return TypePDF
		}
	}

	if isURL {
		switch {
		case matchesPattern(lower, d.config.Video.URLPatterns):
			return TypeVideo
		case matchesPattern(lower, d.config.Audio.URLPatterns):
			return TypeAudio
		case matchesPattern(lower, d.config.Image.URLPatterns):
			return TypeImage
		case matchesPattern(lower, d.config.PDF.URLPatterns):
			return TypePDF
		}
	}

	return TypeUnknown
}

// extension returns the lowercase extension of the last path segment,
// ignoring query strings and fragments.
func extension(lower string) string {
	if i := strings.IndexAny(lower, "?#"); i != -1 {
		lower = lower[:i]
	}
	if i := strings.LastIndex(lower, "/"); i != -1 {
		lower = lower[i+1:]
	}
	if i := strings.LastIndex(lower, "."); i != -1 {
		return lower[i+1:]
	}
	return ""
}

func (d *TypeDetector) GetDefaultOpener() string {
	if platformConfig, ok := d.config.Platforms[runtime.GOOS]; ok {
		return platformConfig.DefaultOpener
	}
	if fallback, ok := d.config.Platforms["fallback"]; ok {
		return fallback.DefaultOpener
	}
	return "open"
}

func contains(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}

func matchesPattern(url string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(url, pattern) {
			return true
		}
	}
	return false
}
