// Package httpapi exposes the message envelope over HTTP for the browser
// companion and scripts, next to health and metrics endpoints.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/orgball2608/squirrel-collector/internal/message"
	"github.com/orgball2608/squirrel-collector/internal/metrics"
	"github.com/orgball2608/squirrel-collector/pkg/config"
	"github.com/orgball2608/squirrel-collector/pkg/logger"
	"go.uber.org/fx"
)

// maxBodyBytes bounds posted page snapshots.
const maxBodyBytes = 16 << 20

type Opts struct {
	fx.In

	LC         fx.Lifecycle `optional:"true"`
	Config     *config.Config
	Logger     logger.Logger
	Dispatcher *message.Dispatcher
	Metrics    *metrics.Metrics `optional:"true"`
}

type Server struct {
	engine     *gin.Engine
	dispatcher *message.Dispatcher
	logger     logger.Logger
	srv        *http.Server
}

func New(opts Opts) *Server {
	if opts.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine:     gin.New(),
		dispatcher: opts.Dispatcher,
		logger:     opts.Logger.WithComponent("HTTP"),
	}

	s.engine.Use(gin.Recovery())
	if opts.Metrics != nil {
		s.engine.Use(collectMetrics(opts.Metrics))
	}
	s.engine.Use(requestLogger(s.logger))

	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
	})
	if opts.Metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	s.engine.POST("/api/messages", s.handleMessage)

	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Config.App.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if opts.LC != nil {
		opts.LC.Append(fx.Hook{OnStart: s.Start, OnStop: s.Stop})
	}
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) handleMessage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var env message.Envelope
	if err := c.ShouldBindJSON(&env); err != nil {
		c.JSON(http.StatusBadRequest, message.Response{Error: fmt.Sprintf("invalid envelope: %v", err), Notify: true})
		return
	}

	msg, err := message.Decode(env)
	if err != nil {
		c.JSON(http.StatusBadRequest, message.Response{Error: err.Error(), Notify: true})
		return
	}

	// failures of a well-formed request are still a 200; the envelope says so
	c.JSON(http.StatusOK, s.dispatcher.Dispatch(c.Request.Context(), msg))
}

func (s *Server) Start(context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.srv.Addr, err)
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server stopped", "error", err)
		}
	}()
	s.logger.Info("HTTP server listening", "addr", s.srv.Addr)
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.srv.Shutdown(ctx)
}

var Module = fx.Module("httpapi",
	fx.Provide(New),
	fx.Invoke(func(*Server) {}),
)
