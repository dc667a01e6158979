package validation

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// QueryPlaceholder marks where the escaped query goes in a search template.
const QueryPlaceholder = "{query}"

// LinkValidator validates links the launcher opens or fetches: bookmark
// URLs, meme feed sources and search templates.
type LinkValidator struct {
	// AllowLocalhost determines if localhost URLs are permitted
	AllowLocalhost bool
	// AllowPrivateIPs determines if private IP addresses are permitted
	AllowPrivateIPs bool
	MaxLength       int
}

func NewLinkValidator() *LinkValidator {
	return &LinkValidator{
		MaxLength: 2048,
	}
}

// NewPermissiveLinkValidator allows loopback and private hosts, which
// local services and tests need.
func NewPermissiveLinkValidator() *LinkValidator {
	return &LinkValidator{
		AllowLocalhost:  true,
		AllowPrivateIPs: true,
		MaxLength:       2048,
	}
}

// ValidateAndNormalize validates a link and returns the normalized version.
// Links without a scheme get https.
func (v *LinkValidator) ValidateAndNormalize(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}
	if len(input) > v.MaxLength {
		return "", fmt.Errorf("URL too long (max %d characters)", v.MaxLength)
	}
	if strings.ContainsAny(input, "<>\"'` ") {
		return "", fmt.Errorf("URL contains invalid characters")
	}

	if !strings.Contains(input, "://") {
		input = "https://" + input
	}

	parsedURL, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return "", fmt.Errorf("URL must use http or https protocol")
	}
	if parsedURL.Host == "" {
		return "", fmt.Errorf("URL must have a valid hostname")
	}
	if err := v.validateHost(parsedURL.Host); err != nil {
		return "", err
	}
	if strings.Contains(parsedURL.RawQuery, "<script") || strings.Contains(parsedURL.RawQuery, "javascript:") {
		return "", fmt.Errorf("suspicious query parameters detected")
	}

	return parsedURL.String(), nil
}

func (v *LinkValidator) validateHost(host string) error {
	hostname := host
	if strings.Contains(host, ":") && !strings.HasSuffix(host, "]") {
		var err error
		hostname, _, err = net.SplitHostPort(host)
		if err != nil {
			return fmt.Errorf("invalid host format: %w", err)
		}
	}
	hostname = strings.Trim(hostname, "[]")

	if !v.AllowLocalhost && isLocalhost(hostname) {
		return fmt.Errorf("localhost URLs are not permitted")
	}
	if !v.AllowPrivateIPs {
		if ip := net.ParseIP(hostname); ip != nil && isPrivateIP(ip) {
			return fmt.Errorf("private IP addresses are not permitted")
		}
	}
	if hostname == "0.0.0.0" || hostname == "255.255.255.255" {
		return fmt.Errorf("unroutable host %s", hostname)
	}
	return nil
}

// ValidateTemplate checks that a search template carries the query
// placeholder and yields a valid link once filled.
func (v *LinkValidator) ValidateTemplate(template string) error {
	if !strings.Contains(template, QueryPlaceholder) {
		return fmt.Errorf("template %q has no %s placeholder", template, QueryPlaceholder)
	}
	_, err := v.ValidateAndNormalize(strings.ReplaceAll(template, QueryPlaceholder, "q"))
	return err
}

// Expand fills template with the URL-escaped query.
func Expand(template, query string) string {
	return strings.ReplaceAll(template, QueryPlaceholder, url.QueryEscape(strings.TrimSpace(query)))
}

func isLocalhost(hostname string) bool {
	return hostname == "localhost" ||
		hostname == "::1" ||
		strings.HasPrefix(hostname, "127.") ||
		strings.HasSuffix(hostname, ".localhost")
}

var privateBlocks = func() []*net.IPNet {
	var blocks []*net.IPNet
	for _, cidr := range []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"169.254.0.0/16",
		"127.0.0.0/8",
		"fc00::/7",
		"fe80::/10",
	} {
		_, block, err := net.ParseCIDR(cidr)
		if err == nil {
			blocks = append(blocks, block)
		}
	}
	return blocks
}()

func isPrivateIP(ip net.IP) bool {
	for _, block := range privateBlocks {
		if block.Contains(ip) {
			return true
		}
	}
	return false
}
