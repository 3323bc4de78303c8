// Package main provides the pdfsweep CLI entrypoint.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/lukemcguire/pdfsweep/config"
)

// errInaccessible makes the process exit non-zero when any site has an
// inaccessible PDF.
var errInaccessible = errors.New("inaccessible PDFs found")

// Globals are flags shared by every command.
type Globals struct {
	Config   string `short:"c" help:"YAML config file." type:"existingfile"`
	LogLevel string `help:"Override the configured log level."`
	LogFile  string `help:"Write logs to this file instead of stderr." type:"path"`
}

// CLI is the command tree.
type CLI struct {
	Globals

	Scan  ScanCmd  `cmd:"" help:"Scan sites for PDFs and classify their accessibility."`
	Serve ServeCmd `cmd:"" help:"Run the HTTP scan service."`
}

// app carries loaded settings into command Run methods.
type app struct {
	cfg     config.Config
	log     *logrus.Logger
	logFile bool
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("pdfsweep"),
		kong.Description("Crawl websites, find linked PDFs, and report which ones are likely inaccessible."),
		kong.UsageOnError(),
	)

	a, closeLog, err := newApp(cli.Globals)
	kctx.FatalIfErrorf(err)
	defer closeLog()

	err = kctx.Run(a)
	if errors.Is(err, errInaccessible) {
		closeLog()
		os.Exit(1)
	}
	kctx.FatalIfErrorf(err)
}

func newApp(g Globals) (*app, func(), error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, nil, err
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}

	var out io.Writer = os.Stderr
	closeLog := func() {}
	if g.LogFile != "" {
		f, err := os.OpenFile(g.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeLog = func() { _ = f.Close() }
	}

	logger, err := cfg.Log.NewLogger(out)
	if err != nil {
		closeLog()
		return nil, nil, err
	}
	return &app{cfg: cfg, log: logger, logFile: g.LogFile != ""}, closeLog, nil
}
