package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gathr-app/gathr-rankings/gathr"
	"github.com/gathr-app/gathr-rankings/gathr/database"
	"github.com/gathr-app/gathr-rankings/gathr/database/repositories"
	"github.com/gathr-app/gathr-rankings/gathr/leaderboard"
	"github.com/gathr-app/gathr-rankings/gathr/logger"
	"github.com/gathr-app/gathr-rankings/gathr/ranking"
	"github.com/gathr-app/gathr-rankings/gathr/web"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	recomputeOnStart := flag.Bool("recompute-on-start", false, "Run a full ranking recomputation on startup")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := gathr.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}

	slog.SetDefault(slog.New(logger.NewHandler(cfg.Log.Level)))
	slog.Info("Starting Gathr rankings service",
		slog.String("version", version),
		slog.String("commit", commit))

	slog.Info("Initializing database connection...")
	dbStartTime := time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connectCtx, connectCancel := context.WithTimeout(ctx, 2*time.Minute)
	db, err := database.New(connectCtx, database.DBConfig(cfg.DB))
	connectCancel()
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()

	slog.Info("Database connected successfully",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema",
			slog.String("error", err.Error()))
		os.Exit(-1)
	}

	activityRepo := repositories.NewActivityRepository(db.BunDB())
	rankingRepo := repositories.NewRankingRepository(db.BunDB())

	leaderboards := leaderboard.NewService(rankingRepo,
		cfg.Rankings.CacheSize,
		cfg.Rankings.PageSizeOrDefault())

	orchestrator := ranking.NewOrchestrator(
		ranking.NewStatsAggregator(activityRepo),
		ranking.NewCalculator(ranking.DefaultWeights()),
		rankingRepo,
		ranking.OrchestratorConfig{
			Parallelism: cfg.Rankings.ParallelismOrDefault(),
			RunTimeout:  time.Duration(cfg.Rankings.RunTimeoutSeconds) * time.Second,
			OnReplaced:  leaderboards.Invalidate,
		},
	)

	if *recomputeOnStart {
		logger.LogSystem("Running startup ranking recomputation")
		orchestrator.Run(ctx, nil, nil)
	}

	scheduler := ranking.NewScheduler(orchestrator,
		time.Duration(cfg.Rankings.IntervalMinutes)*time.Minute)
	scheduler.Start(ctx)

	server := web.NewServer(cfg.Server, leaderboards, orchestrator, db)
	go func() {
		if err := server.Start(); err != nil {
			slog.Error("HTTP server stopped", slog.Any("error", err))
			cancel()
		}
	}()

	logger.LogSystem("Gathr rankings service is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-s:
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.LogError("HTTP server shutdown failed", err)
	}

	slog.Info("Shutting down Gathr rankings service...")
}
