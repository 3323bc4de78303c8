package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lukemcguire/pdfsweep/crawler"
	"github.com/lukemcguire/pdfsweep/jobs"
	"github.com/lukemcguire/pdfsweep/server"
)

// ServeCmd runs the HTTP scan service.
type ServeCmd struct {
	Addr       string `help:"Listen address (default from config)."`
	OutputRoot string `help:"Directory for reports and archives (default from config)." type:"path"`
}

// Run serves until interrupted.
func (c *ServeCmd) Run(a *app) error {
	if c.Addr != "" {
		a.cfg.Server.Addr = c.Addr
	}
	if c.OutputRoot != "" {
		a.cfg.Server.OutputRoot = c.OutputRoot
	}
	if a.log.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	scanner := crawler.New(a.cfg.Crawl.ScannerConfig(nil, a.log))
	reg := jobs.NewRegistry(scanner, jobs.Options{
		OutputRoot:         a.cfg.Server.OutputRoot,
		MaxConcurrentSites: a.cfg.Server.MaxConcurrentSites,
		Logger:             a.log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := server.New(reg, a.log).Run(ctx, a.cfg.Server.Addr, a.cfg.Server.JobTTL)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
