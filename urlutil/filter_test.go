package urlutil

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScope(t *testing.T) {
	tests := []struct {
		name       string
		seed       string
		wantHost   string
		wantPrefix string
		wantErr    bool
	}{
		{
			name:       "site root",
			seed:       "https://example.com/",
			wantHost:   "example.com",
			wantPrefix: "/",
		},
		{
			name:       "sub path loses trailing slash",
			seed:       "https://example.com/docs/",
			wantHost:   "example.com",
			wantPrefix: "/docs",
		},
		{
			name:       "port is part of host",
			seed:       "http://127.0.0.1:8080/",
			wantHost:   "127.0.0.1:8080",
			wantPrefix: "/",
		},
		{
			name:    "missing host",
			seed:    "https:///path/",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope, err := NewScope(tt.seed)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, scope.Host)
			assert.Equal(t, tt.wantPrefix, scope.PathPrefix)
		})
	}
}

func TestScopeContains(t *testing.T) {
	scope, err := NewScope("https://ex.com/docs/")
	require.NoError(t, err)

	tests := []struct {
		name     string
		target   string
		expected bool
	}{
		{name: "seed itself", target: "https://ex.com/docs/", expected: true},
		{name: "seed without slash", target: "https://ex.com/docs", expected: true},
		{name: "document below seed", target: "https://ex.com/docs/x.pdf", expected: true},
		{name: "scheme does not matter", target: "http://ex.com/docs/a.html", expected: true},
		{name: "disjoint path", target: "https://ex.com/other/x.pdf", expected: false},
		{name: "shorter path", target: "https://ex.com/", expected: false},
		{name: "different host", target: "https://other.com/docs/x.pdf", expected: false},
		{name: "subdomain is a different host", target: "https://www.ex.com/docs/x.pdf", expected: false},
		{name: "unparseable", target: "http://[::1", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, scope.ContainsString(tt.target))
		})
	}
}

func TestIsHTTPScheme(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "https scheme", input: "https://example.com", expected: true},
		{name: "http scheme", input: "http://example.com", expected: true},
		{name: "uppercase scheme", input: "HTTP://example.com", expected: true},
		{name: "mailto scheme", input: "mailto:user@example.com", expected: false},
		{name: "tel scheme", input: "tel:+1234567890", expected: false},
		{name: "ftp scheme", input: "ftp://files.example.com", expected: false},
		{name: "empty string", input: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsHTTPScheme(tt.input))
		})
	}
}

func TestIsPDF(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"https://ex.com/a.pdf", true},
		{"https://ex.com/A.PDF", true},
		{"https://ex.com/a.pdf?download=1", true},
		{"https://ex.com/a.pdf.html", false},
		{"https://ex.com/pdf", false},
		{"https://ex.com/", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			parsed, err := url.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, IsPDF(parsed))
		})
	}
}

func TestSanitizeHost(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"example.com", "example.com"},
		{"127.0.0.1:8080", "127.0.0.1_8080"},
		{"my-site.example.org", "my-site.example.org"},
		{"[::1]:80", "___1__80"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeHost(tt.input))
		})
	}
}
