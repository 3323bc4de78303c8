// Package config loads pdfsweep settings from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/lukemcguire/pdfsweep/crawler"
)

// Config is the root of the settings file.
type Config struct {
	Crawl  Crawl  `yaml:"crawl"`
	Server Server `yaml:"server"`
	Log    Log    `yaml:"log"`
}

// Crawl bounds and paces each site scan.
type Crawl struct {
	MaxDepth       int           `yaml:"max_depth"` // 0 crawls the seed page only
	MaxPages       int           `yaml:"max_pages"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	RequestDelay   time.Duration `yaml:"request_delay"` // 0 disables pacing
	UserAgent      string        `yaml:"user_agent"`
	MaxPDFBytes    int64         `yaml:"max_pdf_bytes"`
	MaxPageBytes   int64         `yaml:"max_page_bytes"` // HTML past this many bytes is not parsed for links
}

// Server configures the HTTP job service.
type Server struct {
	Addr               string        `yaml:"addr"`
	OutputRoot         string        `yaml:"output_root"`
	MaxConcurrentSites int           `yaml:"max_concurrent_sites"`
	JobTTL             time.Duration `yaml:"job_ttl"`
}

// Log selects log verbosity and encoding.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Crawl: Crawl{
			MaxDepth:       crawler.DefaultMaxDepth,
			MaxPages:       crawler.DefaultMaxPages,
			RequestTimeout: crawler.DefaultRequestTimeout,
			RequestDelay:   crawler.DefaultRequestDelay,
			UserAgent:      crawler.DefaultUserAgent,
			MaxPDFBytes:    crawler.DefaultMaxPDFBytes,
			MaxPageBytes:   crawler.DefaultMaxPageBytes,
		},
		Server: Server{
			Addr:               ":8080",
			OutputRoot:         "scan_results",
			MaxConcurrentSites: 2,
			JobTTL:             time.Hour,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the file at path over the defaults. An empty path yields the
// defaults unchanged.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML from r over the defaults and validates the result.
// Keys that do not map to a setting are rejected.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	check := func(bad bool, format string, args ...any) {
		if bad {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Crawl.MaxDepth < 0, "crawl.max_depth must not be negative, got %d", c.Crawl.MaxDepth)
	check(c.Crawl.MaxPages <= 0, "crawl.max_pages must be positive, got %d", c.Crawl.MaxPages)
	check(c.Crawl.RequestTimeout <= 0, "crawl.request_timeout must be positive, got %s", c.Crawl.RequestTimeout)
	check(c.Crawl.RequestDelay < 0, "crawl.request_delay must not be negative, got %s", c.Crawl.RequestDelay)
	check(c.Crawl.MaxPDFBytes <= 0, "crawl.max_pdf_bytes must be positive, got %d", c.Crawl.MaxPDFBytes)
	check(c.Crawl.MaxPageBytes <= 0, "crawl.max_page_bytes must be positive, got %d", c.Crawl.MaxPageBytes)
	check(c.Server.MaxConcurrentSites < 0, "server.max_concurrent_sites must not be negative, got %d", c.Server.MaxConcurrentSites)
	check(c.Server.JobTTL < 0, "server.job_ttl must not be negative, got %s", c.Server.JobTTL)

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	check(c.Log.Format != "text" && c.Log.Format != "json", "log.format must be text or json, got %q", c.Log.Format)

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// ScannerConfig maps the crawl section onto a scanner configuration.
// client and logger may be nil.
func (c Crawl) ScannerConfig(client *http.Client, logger logrus.FieldLogger) crawler.Config {
	// The scanner reads zero as "use the default"; here zero is a real value.
	depth := c.MaxDepth
	if depth == 0 {
		depth = -1
	}
	delay := c.RequestDelay
	if delay == 0 {
		delay = -1
	}
	return crawler.Config{
		MaxDepth:       depth,
		MaxPages:       c.MaxPages,
		RequestTimeout: c.RequestTimeout,
		RequestDelay:   delay,
		UserAgent:      c.UserAgent,
		MaxPDFBytes:    c.MaxPDFBytes,
		MaxPageBytes:   c.MaxPageBytes,
		Client:         client,
		Logger:         logger,
	}
}

// NewLogger builds a logger writing to w at the configured level and format.
func (l Log) NewLogger(w io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(l.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(level)
	switch l.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("log format %q", l.Format)
	}
	return logger, nil
}
