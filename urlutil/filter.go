package urlutil

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Scope is the host and path-prefix boundary of one crawl.
type Scope struct {
	Host       string // host[:port], compared exactly
	PathPrefix string // seed path without trailing "/", "/" for the site root
}

// NewScope derives the crawl boundary from a normalized seed URL.
func NewScope(seed string) (Scope, error) {
	parsed, err := url.Parse(seed)
	if err != nil {
		return Scope{}, fmt.Errorf("parse seed %q: %w", seed, err)
	}
	if parsed.Host == "" {
		return Scope{}, errors.New("seed URL must have a host")
	}

	prefix := strings.TrimRight(parsed.EscapedPath(), "/")
	if prefix == "" {
		prefix = "/"
	}

	return Scope{Host: parsed.Host, PathPrefix: prefix}, nil
}

// Contains reports whether u lies inside the scope.
func (s Scope) Contains(u *url.URL) bool {
	if u == nil || u.Host != s.Host {
		return false
	}
	return strings.HasPrefix(u.EscapedPath(), s.PathPrefix)
}

// ContainsString is Contains for a raw URL string. Unparseable input is out of scope.
func (s Scope) ContainsString(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return s.Contains(parsed)
}

// IsHTTPScheme returns true if the URL has an http or https scheme.
// Returns false for empty strings, non-HTTP schemes, or unparseable URLs.
func IsHTTPScheme(rawURL string) bool {
	if rawURL == "" {
		return false
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	scheme := strings.ToLower(parsed.Scheme)
	return scheme == "http" || scheme == "https"
}

// IsPDF reports whether the URL path ends in ".pdf", ignoring case.
// The query string is not considered.
func IsPDF(u *url.URL) bool {
	return u != nil && strings.HasSuffix(strings.ToLower(u.Path), ".pdf")
}

var unsafeHostChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// SanitizeHost replaces every character outside [a-zA-Z0-9.-] with "_" so the
// host can be used as a file or directory name.
func SanitizeHost(host string) string {
	return unsafeHostChars.ReplaceAllString(host, "_")
}
