package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Handler consumes one decoded event. A returned error asks the transport
// to redeliver.
type Handler func(ctx context.Context, ev Event) error

// AMQPPublisher publishes events to a fanout exchange. The message type
// carries the event tag.
type AMQPPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	mu       sync.Mutex
}

// NewAMQPPublisher connects to RabbitMQ and declares the exchange.
func NewAMQPPublisher(amqpURL, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &AMQPPublisher{conn: conn, channel: ch, exchange: exchange}, nil
}

// Publish sends one persistent message. streadway/amqp has no context
// support, so ctx is only checked before the write.
func (p *AMQPPublisher) Publish(ctx context.Context, tag string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.channel.Publish(
		p.exchange,
		"",
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    time.Now().UTC(),
			Type:         tag,
			Body:         payload,
		},
	)
}

// Close closes the RabbitMQ connection and channel.
func (p *AMQPPublisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// AMQPConsumer drains a durable queue bound to the events exchange. Malformed
// messages are rejected to the dead-letter exchange; handler failures are
// requeued.
type AMQPConsumer struct {
	URL            string
	Exchange       string
	DeadLetter     string
	Queue          string
	Logger         *zap.Logger
	ProcessTimeout time.Duration
}

// Run consumes until ctx is cancelled or the connection drops.
func (c *AMQPConsumer) Run(ctx context.Context, handle Handler) error {
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	conn, err := amqp.Dial(c.URL)
	if err != nil {
		return err
	}
	defer conn.Close()
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := c.declare(ch); err != nil {
		return err
	}
	// One unacknowledged message at a time per consumer.
	if err := ch.Qos(1, 0, false); err != nil {
		return err
	}
	deliveries, err := ch.Consume(c.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.Queue, err)
	}

	logger.Info("AMQP consumer started", zap.String("queue", c.Queue), zap.String("exchange", c.Exchange))
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("amqp delivery channel closed")
			}
			c.process(ctx, logger, d, handle)
		}
	}
}

func (c *AMQPConsumer) declare(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(c.Exchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", c.Exchange, err)
	}
	args := amqp.Table{}
	if c.DeadLetter != "" {
		if err := ch.ExchangeDeclare(c.DeadLetter, "fanout", true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare dead-letter exchange %s: %w", c.DeadLetter, err)
		}
		dlq := c.Queue + ".dead"
		if _, err := ch.QueueDeclare(dlq, true, false, false, false, nil); err != nil {
			return err
		}
		if err := ch.QueueBind(dlq, "", c.DeadLetter, false, nil); err != nil {
			return err
		}
		args["x-dead-letter-exchange"] = c.DeadLetter
	}
	if _, err := ch.QueueDeclare(c.Queue, true, false, false, false, args); err != nil {
		return fmt.Errorf("declare queue %s: %w", c.Queue, err)
	}
	return ch.QueueBind(c.Queue, "", c.Exchange, false, nil)
}

func (c *AMQPConsumer) process(ctx context.Context, logger *zap.Logger, d amqp.Delivery, handle Handler) {
	ev, err := Decode(d.Type, d.Body)
	if err != nil {
		logger.Error("dead-lettering malformed event", zap.String("type", d.Type), zap.String("messageId", d.MessageId), zap.Error(err))
		_ = d.Reject(false)
		return
	}

	hctx := ctx
	if c.ProcessTimeout > 0 {
		var cancel context.CancelFunc
		hctx, cancel = context.WithTimeout(ctx, c.ProcessTimeout)
		defer cancel()
	}
	if err := handle(hctx, ev); err != nil {
		logger.Warn("event handling failed, requeueing", zap.String("type", d.Type), zap.String("messageId", d.MessageId), zap.Error(err))
		_ = d.Nack(false, true)
		return
	}
	_ = d.Ack(false)
}
