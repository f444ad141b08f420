package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"psibooking/config"
	"psibooking/services/events"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// EventQueueRedisOpt is the Redis connection used for the session event queue.
func EventQueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisEventQueueDB,
	}
}

// NewEventMux routes every session event tag to handle. Payloads that do not
// decode are archived by asynq instead of being retried.
func NewEventMux(handle events.Handler, logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	for _, tag := range events.Tags {
		mux.HandleFunc(tag, handleEventTask(handle, logger))
	}
	return mux
}

func handleEventTask(handle events.Handler, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		ev, err := events.Decode(task.Type(), task.Payload())
		if err != nil {
			logger.Error("archiving malformed event", zap.String("type", task.Type()), zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return handle(ctx, ev)
	}
}

// RunEventWorker consumes session events until ctx is cancelled, using the
// transport selected by EVENT_TRANSPORT.
func RunEventWorker(ctx context.Context, handle events.Handler, logger *zap.Logger) error {
	switch config.AppConfig.EventTransport {
	case "amqp":
		consumer := &events.AMQPConsumer{
			URL:            config.AppConfig.AMQPURL,
			Exchange:       config.AppConfig.AMQPExchange,
			DeadLetter:     config.AppConfig.AMQPDeadLetter,
			Queue:          config.AppConfig.EventQueue,
			Logger:         logger,
			ProcessTimeout: config.StoreTimeout() * 2,
		}
		return runWithRestart(ctx, logger, "amqp", consumer.Run, handle)
	case "", "asynq":
		return runAsynqWorker(ctx, handle, logger)
	default:
		return fmt.Errorf("unknown event transport %q", config.AppConfig.EventTransport)
	}
}

// eventWorkerConfig applies one event at a time per instance, matching the
// AMQP consumer's prefetch of one. Throughput scales by adding instances.
func eventWorkerConfig(queue string, logger *zap.Logger) asynq.Config {
	return asynq.Config{
		Concurrency: 1,
		Queues: map[string]int{
			queue: 1,
		},
		Logger: logger.Sugar(),
	}
}

func runAsynqWorker(ctx context.Context, handle events.Handler, logger *zap.Logger) error {
	queue := config.AppConfig.EventQueue
	srv := asynq.NewServer(EventQueueRedisOpt(), eventWorkerConfig(queue, logger))

	logger.Info("starting event worker", zap.String("queue", queue))
	const maxAttempts = 5
	for attempt := 1; ; attempt++ {
		err := srv.Start(NewEventMux(handle, logger))
		if err == nil {
			break
		}
		if attempt == maxAttempts || errors.Is(err, asynq.ErrServerClosed) {
			return fmt.Errorf("event worker: %w", err)
		}
		logger.Warn("event worker failed to start", zap.Int("attempt", attempt), zap.Error(err))
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(attempt*2) * time.Second):
		}
	}

	<-ctx.Done()
	logger.Info("stopping event worker")
	srv.Shutdown()
	return nil
}

// runWithRestart keeps a consumer loop alive across dropped connections.
func runWithRestart(ctx context.Context, logger *zap.Logger, name string, run func(context.Context, events.Handler) error, handle events.Handler) error {
	backoff := time.Second
	for {
		err := run(ctx, handle)
		if ctx.Err() != nil {
			return nil
		}
		logger.Warn("event consumer stopped, reconnecting", zap.String("transport", name), zap.Error(err), zap.Duration("backoff", backoff))
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}
