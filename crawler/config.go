package crawler

import (
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Defaults applied by New to zero-valued Config fields.
const (
	DefaultMaxDepth       = 50
	DefaultMaxPages       = 20000
	DefaultRequestTimeout = 15 * time.Second
	DefaultRequestDelay   = 100 * time.Millisecond
	DefaultUserAgent      = "PDFScanner/TagAlt-UI"
	DefaultMaxPDFBytes    = 100 << 20
	DefaultMaxPageBytes   = 10 << 20
)

// Config holds scanner configuration.
type Config struct {
	MaxDepth       int           // Deepest link distance from the seed that is crawled; negative crawls the seed only (default 50)
	MaxPages       int           // Pages crawled before the run stops (default 20000)
	RequestTimeout time.Duration // Per-request timeout for pages and PDFs (default 15s)
	RequestDelay   time.Duration // Minimum spacing between page fetches; negative disables (default 100ms)
	UserAgent      string
	MaxPDFBytes    int64 // Larger PDFs are skipped (default 100 MiB)
	MaxPageBytes   int64 // HTML beyond this is not parsed (default 10 MiB)

	Client *http.Client       // Defaults to a client that follows up to 10 redirects
	Logger logrus.FieldLogger // Defaults to a discarding logger
}

// DefaultConfig returns a Config with every default filled in.
func DefaultConfig() Config {
	return withDefaults(Config{})
}

func withDefaults(cfg Config) Config {
	switch {
	case cfg.MaxDepth == 0:
		cfg.MaxDepth = DefaultMaxDepth
	case cfg.MaxDepth < 0:
		cfg.MaxDepth = 0
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.RequestDelay == 0 {
		cfg.RequestDelay = DefaultRequestDelay
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxPDFBytes <= 0 {
		cfg.MaxPDFBytes = DefaultMaxPDFBytes
	}
	if cfg.MaxPageBytes <= 0 {
		cfg.MaxPageBytes = DefaultMaxPageBytes
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{}
	}
	if cfg.Logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		cfg.Logger = logger
	}
	return cfg
}
