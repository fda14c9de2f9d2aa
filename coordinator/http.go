package coordinator

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatusServer exposes the ceremony's live progress over HTTP, separate
// from the ceremony's own TCP port: /status reports how many players are
// connected and how far the driver has progressed, /metrics hands off to
// Prometheus's handler.
type StatusServer struct {
	srv *http.Server
}

// NewStatusServer builds a gin router bound to addr. c is read
// concurrently with the ceremony driver goroutine; only its peer table
// (already mutex-guarded) and order slice are touched, and order is only
// ever appended to, so reading len(c.order) here is safe without extra
// locking beyond what Go guarantees for a slice header read.
func NewStatusServer(addr string, c *Coordinator) *StatusServer {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/status", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"players_expected":  c.cfg.Players,
			"players_connected": c.table.connectedCount(),
			"players_arrived":   len(c.order),
			"uptime_seconds":    time.Since(c.started).Seconds(),
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &StatusServer{srv: &http.Server{Addr: addr, Handler: r}}
}

// Start serves until the listener is closed by Stop; ListenAndServe's
// own http.ErrServerClosed is swallowed since that's the expected
// shutdown path, not a failure.
func (s *StatusServer) Start() error {
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop closes the status server immediately, including any active
// connections; in-flight requests are not drained.
func (s *StatusServer) Stop() error {
	return s.srv.Close()
}
