// Package server exposes scan jobs over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lukemcguire/pdfsweep/jobs"
)

const sweepInterval = time.Minute

// Server routes HTTP requests to a job registry.
type Server struct {
	router *gin.Engine
	jobs   *jobs.Registry
	log    logrus.FieldLogger
}

// ScanRequest is the body of POST /scan. Each entry may itself hold several
// addresses separated by whitespace or commas.
type ScanRequest struct {
	URLs []string `json:"urls"`
}

// New creates a Server over reg.
func New(reg *jobs.Registry, log logrus.FieldLogger) *Server {
	r := gin.New()
	r.Use(requestLogger(log))
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.WithField("panic", recovered).Error("handler panic")
		c.AbortWithStatus(http.StatusInternalServerError)
	}))

	s := &Server{router: r, jobs: reg, log: log}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/healthz", s.health)
	s.router.POST("/scan", s.submit)
	s.router.GET("/scan", s.list)
	s.router.GET("/scan/:id", s.status)
	s.router.POST("/scan/:id/stop", s.stop)
	s.router.POST("/stop", s.stopAll)
	s.router.GET("/download/:id", s.download)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, sweeping finished jobs older
// than ttl. On shutdown every running job is stopped and awaited.
func (s *Server) Run(ctx context.Context, addr string, ttl time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweep(ctx, ttl)

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	if n := s.jobs.StopAll(); n > 0 {
		s.log.WithField("jobs", n).Info("stopping running jobs")
	}
	s.jobs.Wait()
	return err
}

func (s *Server) sweep(ctx context.Context, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.jobs.Sweep(ttl); n > 0 {
				s.log.WithField("jobs", n).Debug("swept expired jobs")
			}
		}
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) submit(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	seeds := jobs.ParseSeeds(strings.Join(req.URLs, "\n"))
	if len(seeds) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no URLs provided"})
		return
	}

	job, err := s.jobs.Submit(seeds)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.log.WithFields(logrus.Fields{"job_id": job.ID, "seeds": len(seeds)}).Info("scan submitted")
	c.JSON(http.StatusAccepted, gin.H{"id": job.ID, "run_id": job.RunID, "state": job.State})
}

func (s *Server) list(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"jobs": s.jobs.List()})
}

func (s *Server) status(c *gin.Context) {
	job, err := s.jobs.Get(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (s *Server) stop(c *gin.Context) {
	if err := s.jobs.Stop(c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "stopping"})
}

func (s *Server) stopAll(c *gin.Context) {
	n := s.jobs.StopAll()
	c.JSON(http.StatusOK, gin.H{"status": "stopping", "jobs": n})
}

// download streams a finished job's archive once, then deletes it.
func (s *Server) download(c *gin.Context) {
	id := c.Param("id")
	path, err := s.jobs.Consume(id)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.FileAttachment(path, filepath.Base(path))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.log.WithFields(logrus.Fields{"job_id": id, "path": path}).WithError(err).Warn("remove archive")
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, jobs.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, jobs.ErrNotFinished):
		code = http.StatusConflict
	case errors.Is(err, jobs.ErrNoArchive):
		code = http.StatusGone
	case errors.Is(err, jobs.ErrNoSeeds):
		code = http.StatusBadRequest
	}
	c.JSON(code, gin.H{"error": err.Error()})
}

func requestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		}).Info("request")
	}
}
