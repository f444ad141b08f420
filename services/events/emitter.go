package events

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Publisher is an event sink. Implementations deliver at least once.
type Publisher interface {
	Publish(ctx context.Context, tag string, payload []byte) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, tag string, payload []byte) error

func (f PublisherFunc) Publish(ctx context.Context, tag string, payload []byte) error {
	return f(ctx, tag, payload)
}

// Stats is a snapshot of emitter counters.
type Stats struct {
	Published      int64 `json:"published"`
	PublishFailure int64 `json:"publishFailures"`
}

// Emitter publishes events on a best-effort basis. A failed publish is
// logged and counted and never reaches the caller.
type Emitter struct {
	pub     Publisher
	timeout time.Duration
	logger  *zap.Logger

	published atomic.Int64
	failures  atomic.Int64
}

func NewEmitter(pub Publisher, timeout time.Duration, logger *zap.Logger) *Emitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Emitter{pub: pub, timeout: timeout, logger: logger}
}

// Emit publishes ev with a bounded timeout. It detaches from ctx's
// cancellation so an aborted request does not drop an already committed fact.
func (e *Emitter) Emit(ctx context.Context, ev Event) {
	tag, payload, err := Encode(ev)
	if err != nil {
		e.fail(ev, err)
		return
	}

	pubCtx := context.WithoutCancel(ctx)
	if e.timeout > 0 {
		var cancel context.CancelFunc
		pubCtx, cancel = context.WithTimeout(pubCtx, e.timeout)
		defer cancel()
	}

	if err := e.pub.Publish(pubCtx, tag, payload); err != nil {
		e.fail(ev, err)
		return
	}
	e.published.Add(1)
	e.logger.Debug("event published", zap.String("tag", tag))
}

func (e *Emitter) fail(ev Event, err error) {
	n := e.failures.Add(1)
	e.logger.Error("event publish failed",
		zap.String("tag", ev.Tag()),
		zap.Int64("publishFailures", n),
		zap.Error(err),
	)
}

// Stats returns the current counters.
func (e *Emitter) Stats() Stats {
	return Stats{Published: e.published.Load(), PublishFailure: e.failures.Load()}
}
