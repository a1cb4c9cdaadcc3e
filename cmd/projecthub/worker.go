package main

import (
	"fmt"
	"os/signal"
	"syscall"

	mqcontracts "projecthub/contracts/mq"
	"projecthub/internal/activity"
	"projecthub/pkg/db"
	"projecthub/pkg/mq"
	redisclient "projecthub/pkg/redis"
	"projecthub/pkg/util"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Consume activity events into the Postgres audit log",
		Long: `Consumes activity.logged events published by "projecthub serve" and writes
them to the notifications_log table. Requires RabbitMQ and Postgres; Redis is
used for deduplication and retry counting when enabled.`,
		RunE: runWorker,
	}
}

func runWorker(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Starting audit worker...")

	pool, err := db.NewConnection(ctx, cfg.DB, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := activity.NewAuditRepository(pool, log)
	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to prepare audit schema: %w", err)
	}

	dlq, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		return fmt.Errorf("failed to init dlq publisher: %w", err)
	}
	defer dlq.Close()

	var handler *activity.AuditHandler
	if cfg.Redis.Enabled {
		rdb, err := redisclient.NewRedisClient(cfg.Redis, log)
		if err != nil {
			return err
		}
		defer rdb.Close()

		handler = activity.NewAuditHandler(
			repo,
			util.NewDeduper(rdb, cfg.Worker.DedupTTL, log),
			util.NewRetryCounter(rdb, cfg.Worker.DedupTTL),
			dlq,
			cfg.Worker.MaxRetries,
			log,
		)
	} else {
		// Without Redis the unique (instance_id, seq) key still keeps inserts
		// idempotent, and retries are counted in process.
		log.Warn("Redis disabled, running without deduplication")
		handler = activity.NewAuditHandler(repo, nil, nil, dlq, cfg.Worker.MaxRetries, log)
	}

	log.Info("Initializing audit consumer", zap.String("queue", cfg.Worker.Queue))
	consumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.Worker.Queue, mqcontracts.RoutingKeyActivityLogged, log)
	if err != nil {
		return fmt.Errorf("failed to init consumer: %w", err)
	}
	defer consumer.Close()
	consumer.SetHandler(handler.HandleActivityLogged)

	if err := consumer.StartConsuming(ctx); err != nil {
		return fmt.Errorf("audit consumer failed: %w", err)
	}

	log.Info("Audit worker shutdown complete")
	return nil
}
