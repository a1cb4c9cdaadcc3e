package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"projecthub/internal/activity"
	"projecthub/internal/api"
	"projecthub/internal/assistant"
	"projecthub/internal/auth"
	"projecthub/internal/httpserver"
	"projecthub/internal/repository"
	"projecthub/internal/service"
	"projecthub/pkg/circuitbreaker"
	"projecthub/pkg/config"
	"projecthub/pkg/db"
	"projecthub/pkg/mq"
	redisclient "projecthub/pkg/redis"
	"projecthub/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}
}

// backends holds the optional infrastructure the API process talks to.
type backends struct {
	sinks  []activity.Sink
	checks []httpserver.ReadinessCheck
	// throttle stays nil without Redis, which disables login throttling.
	throttle *auth.LoginThrottle
	closers  []func()
}

func (b *backends) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func connectBackends(ctx context.Context, cfg *config.Config, log *zap.Logger) (*backends, error) {
	b := &backends{}

	if cfg.Redis.Enabled {
		rdb, err := redisclient.NewRedisClient(cfg.Redis, log)
		if err != nil {
			b.close()
			return nil, err
		}
		b.closers = append(b.closers, func() { _ = rdb.Close() })
		b.checks = append(b.checks, httpserver.ReadinessCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
		counter := util.NewRetryCounter(rdb, cfg.Auth.LoginWindow)
		b.throttle = auth.NewLoginThrottle(counter, cfg.Auth.LoginMaxFailures, log)
	}

	if cfg.MQ.Enabled {
		publisher, err := mq.NewPublisher(cfg.MQ.URL)
		if err != nil {
			b.close()
			return nil, fmt.Errorf("failed to init publisher: %w", err)
		}
		log.Info("RabbitMQ publisher connected")
		b.closers = append(b.closers, publisher.Close)
		b.checks = append(b.checks, httpserver.ReadinessCheck{
			Name: "mq",
			Check: func(context.Context) error {
				if !publisher.IsConnected() {
					return errors.New("connection closed")
				}
				return nil
			},
		})
		b.sinks = append(b.sinks, activity.NewBreakerSink(activity.NewMQSink(publisher), circuitbreaker.DefaultConfig()))
	}

	if cfg.DB.Enabled {
		pool, err := db.NewConnection(ctx, cfg.DB, log)
		if err != nil {
			b.close()
			return nil, err
		}
		b.closers = append(b.closers, pool.Close)
		b.checks = append(b.checks, httpserver.ReadinessCheck{
			Name:  "db",
			Check: pool.Ping,
		})

		repo := activity.NewAuditRepository(pool, log)
		if err := repo.EnsureSchema(ctx); err != nil {
			b.close()
			return nil, fmt.Errorf("failed to prepare audit schema: %w", err)
		}
		b.sinks = append(b.sinks, activity.NewBreakerSink(activity.NewPGSink(repo), circuitbreaker.DefaultConfig()))
	}

	return b, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b, err := connectBackends(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.close()

	dispatcher := activity.NewDispatcher(log, b.sinks...)
	dispatcher.Start()

	store, err := repository.NewStore(repository.Options{
		Hasher:        auth.NewPasswordHasher(cfg.Auth.BcryptCost),
		AdminPassword: cfg.Auth.AdminPassword,
		Publisher:     dispatcher,
		Logger:        log,
	})
	if err != nil {
		return fmt.Errorf("failed to init store: %w", err)
	}

	tokens := auth.NewTokenManager(auth.TokenConfig{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
	})
	authService := service.NewAuthService(store.Users, tokens, b.throttle, log)

	handlers := httpserver.Handlers{
		Auth:      api.NewAuthHandler(authService, log),
		Users:     api.NewUserHandler(store.Users, log),
		Projects:  api.NewProjectHandler(store.Projects, log),
		Tasks:     api.NewTaskHandler(store.Tasks, log),
		Comments:  api.NewCommentHandler(store.Comments, log),
		Dashboard: api.NewDashboardHandler(store.Dashboard, store.Notifications, log),
		Assistant: api.NewAssistantHandler(assistant.New(), log),
	}

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpserver.NewRouter(handlers, tokens, store.Users, b.checks, log)
	srv := httpserver.NewServer(cfg.Server.Port, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	log.Info("projecthub is running",
		zap.String("addr", cfg.Server.Port),
		zap.String("instance_id", dispatcher.InstanceID()),
		zap.Int("activity_sinks", len(b.sinks)),
		zap.Bool("login_throttle", b.throttle != nil),
	)

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	case runErr = <-errCh:
		log.Error("HTTP server failed", zap.Error(runErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		log.Warn("Activity dispatcher did not drain in time",
			zap.Int("pending", dispatcher.Pending()),
			zap.Error(err),
		)
	}

	log.Info("projecthub shutdown complete")
	return runErr
}
