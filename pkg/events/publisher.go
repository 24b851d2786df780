package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// RunCompletedEvent notifies downstream consumers that a timetable run has
// finished and its result is available for pickup.
type RunCompletedEvent struct {
	RunID       string    `json:"runId"`
	Status      string    `json:"status"`
	Requested   int       `json:"requested"`
	Placed      int       `json:"placed"`
	Unscheduled int       `json:"unscheduled"`
	CompletedAt time.Time `json:"completedAt"`
}

// Publisher emits run lifecycle events to RabbitMQ. Publishing is best
// effort: failures are logged and returned but must never abort a run.
type Publisher struct {
	url    string
	queue  string
	logger *zap.Logger
}

// NewPublisher constructs a publisher. A nil logger falls back to a no-op.
func NewPublisher(url, queue string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{url: url, queue: queue, logger: logger}
}

// PublishRunCompleted declares the queue (idempotent, durable) and publishes
// the event as a persistent JSON message.
func (p *Publisher) PublishRunCompleted(ctx context.Context, event RunCompletedEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.logger.Warn("amqp dial failed", zap.Error(err))
		return fmt.Errorf("amqp dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.Warn("amqp channel open failed", zap.Error(err))
		return fmt.Errorf("amqp channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		p.logger.Warn("amqp queue declare failed", zap.String("queue", p.queue), zap.Error(err))
		return fmt.Errorf("amqp queue declare: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal run event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		p.logger.Warn("amqp publish failed", zap.String("queue", p.queue), zap.Error(err))
		return fmt.Errorf("amqp publish: %w", err)
	}
	return nil
}
