package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/postlens/post-analyzer-api/internal/config"
	"github.com/postlens/post-analyzer-api/internal/domain/usage"
	"github.com/postlens/post-analyzer-api/internal/tasks"
	"go.uber.org/zap"
)

// RunWorkers starts the asynq server and scheduler and blocks until ctx is
// canceled. The scheduler periodically enqueues the usage-prune task; the
// server processes both pruning and telemetry export.
func RunWorkers(ctx context.Context, cfg *config.Config, usageRepo usage.Repository, logger *zap.Logger) error {
	redisConnOpts := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	srv := asynq.NewServer(
		redisConnOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Named("AsynqServerErrorHandler").Error("Asynq task processing failed",
					zap.String("task_type", task.Type()),
					zap.ByteString("payload", task.Payload()),
					zap.Error(err),
				)
			}),
			Logger: NewAsynqLoggerAdapter(logger.Named("AsynqServer")),
		},
	)

	mux := asynq.NewServeMux()

	pruneHandler := tasks.NewUsagePruneHandler(usageRepo, cfg.Usage.Retention, logger)
	mux.HandleFunc(tasks.TypeUsagePrune, pruneHandler.ProcessTask)

	exportHandler := tasks.NewAnalysisExportHandler(&cfg.Telemetry, logger)
	mux.HandleFunc(tasks.TypeAnalysisExport, exportHandler.ProcessTask)

	scheduler := asynq.NewScheduler(
		redisConnOpts,
		&asynq.SchedulerOpts{
			Logger: NewAsynqLoggerAdapter(logger.Named("AsynqScheduler")),
		},
	)

	pruneTask, err := tasks.NewUsagePruneTask()
	if err != nil {
		return fmt.Errorf("failed to create usage prune task: %w", err)
	}
	entryID, err := scheduler.Register(cfg.Usage.PruneSchedule, pruneTask)
	if err != nil {
		return fmt.Errorf("failed to register usage prune schedule: %w", err)
	}
	logger.Info("Registered periodic usage prune",
		zap.String("entry_id", entryID),
		zap.String("schedule", cfg.Usage.PruneSchedule),
	)

	errChan := make(chan error, 2)

	go func() {
		logger.Info("Starting Asynq Server...")
		if err := srv.Run(mux); err != nil {
			errChan <- fmt.Errorf("asynq server error: %w", err)
			return
		}
		errChan <- nil
	}()

	go func() {
		logger.Info("Starting Asynq Scheduler...")
		if err := scheduler.Run(); err != nil {
			errChan <- fmt.Errorf("asynq scheduler error: %w", err)
			return
		}
		errChan <- nil
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down Asynq Scheduler...")
		scheduler.Shutdown()
		logger.Info("Shutting down Asynq Server...")
		srv.Shutdown()
		return nil
	case err := <-errChan:
		scheduler.Shutdown()
		srv.Shutdown()
		return err
	}
}

type asynqLoggerAdapter struct {
	logger *zap.Logger
}

func NewAsynqLoggerAdapter(logger *zap.Logger) *asynqLoggerAdapter {
	return &asynqLoggerAdapter{logger: logger.WithOptions(zap.AddCallerSkip(1))}
}

func (l *asynqLoggerAdapter) Debug(args ...interface{}) {
	l.logger.Debug(fmt.Sprint(args...))
}
func (l *asynqLoggerAdapter) Info(args ...interface{}) {
	l.logger.Info(fmt.Sprint(args...))
}
func (l *asynqLoggerAdapter) Warn(args ...interface{}) {
	l.logger.Warn(fmt.Sprint(args...))
}
func (l *asynqLoggerAdapter) Error(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
}
func (l *asynqLoggerAdapter) Fatal(args ...interface{}) {
	l.logger.Fatal(fmt.Sprint(args...))
}
