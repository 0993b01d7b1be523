// Package server is the gateway's HTTP surface: the landing payload, the
// intake session endpoints, and the decision view.
package server

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"credx-gateway/internal/common/config"
	"credx-gateway/internal/common/logger"
	"credx-gateway/internal/intake"
	"credx-gateway/internal/session"
)

type Server struct {
	echo     *echo.Echo
	cfg      *config.Config
	ctrl     *intake.Controller
	sessions *session.Store
	logger   logger.Logger
}

func New(cfg *config.Config, ctrl *intake.Controller, sessions *session.Store, log logger.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	s := &Server{
		echo:     e,
		cfg:      cfg,
		ctrl:     ctrl,
		sessions: sessions,
		logger:   log.WithFields(map[string]interface{}{"component": "server"}),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.echo

	e.GET("/", s.Landing)
	e.GET("/healthz", s.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/sessions", s.CreateSession)
	e.GET("/sessions/:id", s.GetForm)
	e.POST("/sessions/:id/revise", s.Revise)
	e.PATCH("/sessions/:id/fields", s.UpdateField)
	e.POST("/sessions/:id/submit", s.Submit)
	e.POST("/sessions/:id/cancel", s.Cancel)
	e.GET("/sessions/:id/decision", s.GetDecision)
}

// Echo exposes the router for handler tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.logger.Info("listening", map[string]interface{}{"addr": addr})
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
