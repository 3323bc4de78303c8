package result

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"
)

// ErrorCategory classifies why a page fetch counted as an error page.
type ErrorCategory string

const (
	CategoryTimeout           ErrorCategory = "timeout"
	CategoryDNSFailure        ErrorCategory = "dns_failure"
	CategoryConnectionRefused ErrorCategory = "connection_refused"
	Category4xx               ErrorCategory = "4xx"
	Category5xx               ErrorCategory = "5xx"
	CategoryRedirectLoop      ErrorCategory = "redirect_loop"
	CategoryUnknown           ErrorCategory = "unknown"
)

// Categories lists every category from most to least actionable.
var Categories = []ErrorCategory{
	Category4xx,
	Category5xx,
	CategoryTimeout,
	CategoryDNSFailure,
	CategoryConnectionRefused,
	CategoryRedirectLoop,
	CategoryUnknown,
}

// ClassifyError determines the error category of a failed page fetch from the
// transport error (if any) and the HTTP status code (0 if none was received).
func ClassifyError(err error, statusCode int) ErrorCategory {
	switch {
	case statusCode >= 500:
		return Category5xx
	case statusCode >= 400:
		return Category4xx
	}

	if err == nil {
		return CategoryUnknown
	}

	// net/http reports redirect exhaustion as a plain error from CheckRedirect.
	if strings.Contains(err.Error(), "stopped after") && strings.Contains(err.Error(), "redirects") {
		return CategoryRedirectLoop
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTimeout
	}
	var timeout interface{ Timeout() bool }
	if errors.As(err, &timeout) && timeout.Timeout() {
		return CategoryTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return CategoryDNSFailure
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return CategoryConnectionRefused
	}

	return CategoryUnknown
}

// FormatCategory returns a human-readable label for an error category.
func FormatCategory(cat ErrorCategory) string {
	switch cat {
	case CategoryTimeout:
		return "Timeouts"
	case CategoryDNSFailure:
		return "DNS Failures"
	case CategoryConnectionRefused:
		return "Connection Refused"
	case Category4xx:
		return "Client Errors (4xx)"
	case Category5xx:
		return "Server Errors (5xx)"
	case CategoryRedirectLoop:
		return "Redirect Loops"
	default:
		return "Other Errors"
	}
}
