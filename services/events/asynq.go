package events

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
)

// AsynqPublisher enqueues events on a Redis-backed asynq queue. Retries and
// archival of exhausted tasks are handled by asynq.
type AsynqPublisher struct {
	client   *asynq.Client
	queue    string
	maxRetry int
}

func NewAsynqPublisher(opt asynq.RedisConnOpt, queue string, maxRetry int) *AsynqPublisher {
	return &AsynqPublisher{
		client:   asynq.NewClient(opt),
		queue:    queue,
		maxRetry: maxRetry,
	}
}

// task builds the queued form of an encoded event. The task type is the
// event tag, which is what the worker mux routes on.
func (p *AsynqPublisher) task(tag string, payload []byte) *asynq.Task {
	return asynq.NewTask(tag, payload, asynq.Queue(p.queue), asynq.MaxRetry(p.maxRetry))
}

func (p *AsynqPublisher) Publish(ctx context.Context, tag string, payload []byte) error {
	if _, err := p.client.EnqueueContext(ctx, p.task(tag, payload)); err != nil {
		return fmt.Errorf("enqueue %s: %w", tag, err)
	}
	return nil
}

func (p *AsynqPublisher) Close() error {
	return p.client.Close()
}
