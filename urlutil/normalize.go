// Package urlutil canonicalizes crawl addresses and decides crawl scope.
package urlutil

import (
	"net/url"
	"strings"
)

// NormalizeSeed turns a user-typed address into the canonical seed form.
// Normalization includes:
// - Trimming surrounding whitespace
// - Prepending "https://" when no http(s) scheme is present
// - Appending a trailing "/" so bare domains compare as path prefixes
//
// An empty (or whitespace-only) input returns "", meaning there is no target.
func NormalizeSeed(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}

	return raw
}

// Resolve turns an href found on the page at base into an absolute URL.
// The fragment is stripped first; a fragment-only href resolves to nothing.
// Returns false when the href is empty, unparseable, or resolves to a
// scheme other than http or https.
func Resolve(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if i := strings.IndexByte(href, '#'); i >= 0 {
		href = href[:i]
	}
	if href == "" {
		return "", false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	resolved.RawFragment = ""

	abs := resolved.String()
	if !IsHTTPScheme(abs) {
		return "", false
	}
	return abs, true
}
