package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gridjump/internal/config"
	"gridjump/internal/db"
	httpServer "gridjump/internal/http"
	"gridjump/internal/http/middleware"
	"gridjump/internal/logger"
	"gridjump/internal/metrics"
	"gridjump/internal/repository"
	"gridjump/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

type serveOptions struct {
	port string
}

func NewServeCommand(version string) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and websocket game server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if opts.port != "" {
				cfg.AppPort = opts.port
			}
			return runServe(cmd.Context(), cfg, version)
		},
	}

	cmd.Flags().StringVarP(&opts.port, "port", "p", "", "listen port (overrides APP_PORT)")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, version string) error {
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	log := logger.Get()

	storeOpts, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	m := metrics.New(prometheus.DefaultRegisterer)
	matches := service.NewMatchService(cfg.Game, append(storeOpts, service.WithMetrics(m))...)

	limiter := middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RateLimit)
	defer limiter.Close()

	r := gin.Default()
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	httpServer.RegisterRoutes(r, matches, httpServer.RouteConfig{
		Version:       version,
		AllowedOrigin: cfg.AllowedOrigin,
		Limiter:       limiter,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", "port", cfg.AppPort, "version", version,
			"board", fmt.Sprintf("%dx%d", cfg.Game.Width, cfg.Game.Height),
			"turn_delay", cfg.Game.TurnDelay)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	// дописываем итоги матчей, завершившихся перед остановкой
	matches.Close()

	log.Info("server exited")
	return nil
}

// openStores выбирает хранилище итогов: postgres, sqlite или ничего
func openStores(ctx context.Context, cfg *config.Config) ([]service.Option, func(), error) {
	switch {
	case cfg.DatabaseURL != "":
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("storage: postgres")
		return []service.Option{
			service.WithResultStore(repository.NewResultRepository(pool)),
			service.WithAuditStore(repository.NewAuditRepository(pool)),
		}, pool.Close, nil

	case cfg.SQLitePath != "":
		sqlDB, err := repository.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("storage: sqlite", "path", cfg.SQLitePath)
		return []service.Option{
			service.WithResultStore(repository.NewSQLiteResultRepository(sqlDB)),
			service.WithAuditStore(repository.NewSQLiteAuditRepository(sqlDB)),
		}, func() { _ = sqlDB.Close() }, nil
	}

	logger.Warn("storage: none configured, results and leaderboard are disabled")
	return nil, func() {}, nil
}
