// Package status serves a small read-only API over the monitor's state:
// last stored snapshot and recent run history. It only runs in watch
// mode; single-shot cron runs have nothing long-lived to expose.
package status

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"poswatch/internal/logger"
	"poswatch/internal/runlog"
	"poswatch/internal/state"
)

type Server struct {
	addr   string
	router *gin.Engine
}

// NewServer builds the status server. runs may be nil when no runlog is
// configured; the endpoint then reports 404.
func NewServer(addr string, store state.Store, runs *runlog.Store) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/api/snapshot", func(c *gin.Context) {
		c.JSON(http.StatusOK, store.Load())
	})
	router.GET("/api/runs", func(c *gin.Context) {
		if runs == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "runlog not configured"})
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		entries, err := runs.Recent(limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, entries)
	})

	return &Server{addr: addr, router: router}
}

// Start serves until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	srv := &http.Server{Addr: s.addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	logger.Infof("status: listening on %s", s.addr)

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		return nil
	case err := <-errCh:
		return err
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debugf("HTTP %s %s status=%d ip=%s dur=%s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), c.ClientIP(), time.Since(start))
	}
}
