package web

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gathr-app/gathr-rankings/gathr"
	"github.com/gathr-app/gathr-rankings/gathr/database"
	"github.com/gathr-app/gathr-rankings/gathr/leaderboard"
	"github.com/gathr-app/gathr-rankings/gathr/ranking"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Server is the HTTP surface: the leaderboard read API, the administrative
// recompute trigger, health, and Prometheus metrics.
type Server struct {
	echo         *echo.Echo
	cfg          gathr.ServerConfig
	leaderboards *leaderboard.Service
	orchestrator *ranking.Orchestrator
	db           *database.DB
}

func NewServer(cfg gathr.ServerConfig, leaderboards *leaderboard.Service, orchestrator *ranking.Orchestrator, db *database.DB) *Server {
	s := &Server{
		cfg:          cfg,
		leaderboards: leaderboards,
		orchestrator: orchestrator,
		db:           db,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestLogger)

	e.GET("/health", s.health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	api.GET("/leaderboard", s.getLeaderboard)

	// Recomputation is heavy; throttle the trigger.
	perMinute := cfg.RecomputeRatePerMinute
	if perMinute <= 0 {
		perMinute = 2
	}
	limiter := middleware.RateLimiter(
		middleware.NewRateLimiterMemoryStore(rate.Limit(float64(perMinute) / 60.0)),
	)
	api.POST("/admin/rankings/recompute", s.recompute, limiter)

	s.echo = e
	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	slog.Info("HTTP server listening",
		slog.String("type", "http"),
		slog.String("addr", addr))
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		attrs := []any{
			slog.String("type", "http"),
			slog.String("method", c.Request().Method),
			slog.String("path", c.Request().URL.Path),
			slog.Int("status", c.Response().Status),
			slog.Duration("took", time.Since(start)),
		}
		if err != nil {
			slog.Warn("Request failed", append(attrs, slog.Any("error", err))...)
		} else {
			slog.Debug("Request handled", attrs...)
		}
		return err
	}
}
