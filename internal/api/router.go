// Package api exposes replay building and stored replays over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"

	"demoreplay/internal/logging"
)

// NewRouter wires the replay routes. mode is a gin mode (debug, release or test).
func NewRouter(h *ReplayHandler, mode string) *gin.Engine {
	gin.SetMode(mode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.logger))

	pprof.Register(r)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/replays", h.Upload)
	r.GET("/replays", h.List)
	r.GET("/replays/:id", h.Get)
	r.HEAD("/replays/:id", h.Head)
	return r
}

func requestLogger(logger logging.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debugf("%s %s -> %d in %v", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
