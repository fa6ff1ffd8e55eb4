package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"

	"inspirehub/pkg/logger"
)

var ErrConsumerClosed = errors.New("event consumer is closed")

type Handler func(ctx context.Context, event ReservationEvent) error

type Consumer struct {
	reader     *kafka.Reader
	maxRetries int
	handler    Handler
	log        *logger.Logger
}

func NewConsumer(cfg *Config, groupID string, handler Handler, log *logger.Logger) (*Consumer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if groupID == "" {
		return nil, fmt.Errorf("group ID cannot be empty")
	}
	if handler == nil {
		return nil, fmt.Errorf("handler cannot be nil")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          TopicReservations,
		GroupID:        groupID,
		CommitInterval: cfg.CommitInterval,
		Logger:         kafka.LoggerFunc(func(msg string, args ...any) {}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.Error(fmt.Sprintf(msg, args...))
		}),
	})

	return &Consumer{
		reader:     reader,
		maxRetries: cfg.MaxRetries,
		handler:    handler,
		log:        log,
	}, nil
}

// Run consumes until the context is cancelled. A message that keeps failing
// past maxRetries is logged and committed anyway; blocking the partition on
// one poisoned message would stall every notification behind it.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return ctx.Err()
			}
			return fmt.Errorf("failed to fetch message: %w", err)
		}

		var event ReservationEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.log.Error("Discarding undecodable event",
				"topic", msg.Topic,
				"offset", msg.Offset,
				"error", err,
			)
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				return fmt.Errorf("failed to commit message: %w", err)
			}
			continue
		}

		c.handleWithRetry(ctx, event)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("failed to commit message: %w", err)
		}
	}
}

func (c *Consumer) handleWithRetry(ctx context.Context, event ReservationEvent) {
	var err error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err = c.handler(ctx, event); err == nil {
			return
		}
		c.log.Warn("Event handler failed",
			"event_id", event.ID,
			"event_type", event.Type,
			"attempt", attempt+1,
			"error", err,
		)
	}

	c.log.Error("Giving up on event after retries",
		"event_id", event.ID,
		"event_type", event.Type,
		"max_retries", c.maxRetries,
		"error", err,
	)
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
