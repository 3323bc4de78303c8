package result

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

type timeoutErr struct{}

func (timeoutErr) Error() string { return "i/o timeout" }
func (timeoutErr) Timeout() bool { return true }

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		statusCode int
		want       ErrorCategory
	}{
		{
			name:       "4xx status",
			statusCode: 404,
			want:       Category4xx,
		},
		{
			name:       "5xx status",
			statusCode: 503,
			want:       Category5xx,
		},
		{
			name:       "status wins over error",
			err:        context.DeadlineExceeded,
			statusCode: 500,
			want:       Category5xx,
		},
		{
			name: "deadline exceeded",
			err:  fmt.Errorf("fetch: %w", context.DeadlineExceeded),
			want: CategoryTimeout,
		},
		{
			name: "url error timeout",
			err:  &url.Error{Op: "Get", URL: "https://example.com", Err: timeoutErr{}},
			want: CategoryTimeout,
		},
		{
			name: "redirect loop",
			err:  &url.Error{Op: "Get", URL: "https://example.com", Err: errors.New("stopped after 10 redirects")},
			want: CategoryRedirectLoop,
		},
		{
			name: "dns failure",
			err:  &url.Error{Op: "Get", URL: "https://example.invalid", Err: &net.DNSError{Err: "no such host", Name: "example.invalid"}},
			want: CategoryDNSFailure,
		},
		{
			name: "connection refused",
			err: &url.Error{Op: "Get", URL: "http://127.0.0.1:1", Err: &net.OpError{
				Op:  "dial",
				Net: "tcp",
				Err: os.NewSyscallError("connect", syscall.ECONNREFUSED),
			}},
			want: CategoryConnectionRefused,
		},
		{
			name: "no error no status",
			want: CategoryUnknown,
		},
		{
			name:       "3xx status is unknown",
			statusCode: 301,
			want:       CategoryUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err, tt.statusCode))
		})
	}
}

func TestFormatCategoryCoversAllCategories(t *testing.T) {
	seen := make(map[string]bool)
	for _, cat := range Categories {
		label := FormatCategory(cat)
		assert.NotEmpty(t, label, "category %v", cat)
		assert.False(t, seen[label], "label %q used twice", label)
		seen[label] = true
	}
	assert.Equal(t, "Other Errors", FormatCategory(CategoryUnknown))
}
