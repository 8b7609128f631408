package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RefreshHandler runs a catalog import when a refresh request arrives.
type RefreshHandler func(ctx context.Context) error

// Consumer consumes catalog refresh requests from the queue.
type Consumer struct {
	conn       *Connection
	handler    RefreshHandler
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewConsumer creates a new queue consumer
func NewConsumer(conn *Connection, handler RefreshHandler) *Consumer {
	return &Consumer{
		conn:    conn,
		handler: handler,
	}
}

// Start begins consuming messages
func (c *Consumer) Start(ctx context.Context) error {
	ctx, c.cancelFunc = context.WithCancel(ctx)

	ch := c.conn.Channel()

	// One refresh at a time; overlapping imports only contend on the
	// external_source_id index.
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := ch.Consume(
		RefreshQueueName,
		"",    // consumer tag (auto-generated)
		false, // auto-ack (manual ack for reliability)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	slog.Info("starting catalog refresh consumer")

	c.wg.Add(1)
	go c.worker(ctx, msgs)

	return nil
}

// worker processes messages from the queue
func (c *Consumer) worker(ctx context.Context, msgs <-chan amqp.Delivery) {
	defer c.wg.Done()

	for {
		select {
		case <-ctx.Done():
			slog.Info("refresh consumer stopping")
			return

		case msg, ok := <-msgs:
			if !ok {
				slog.Info("refresh message channel closed")
				return
			}

			c.processMessage(ctx, msg)
		}
	}
}

// processMessage handles a single refresh request
func (c *Consumer) processMessage(ctx context.Context, msg amqp.Delivery) {
	start := time.Now()

	var req RefreshRequest
	if err := json.Unmarshal(msg.Body, &req); err != nil {
		slog.Error("failed to unmarshal refresh request", "error", err)
		// Reject without requeue for malformed messages
		_ = msg.Reject(false)
		return
	}

	slog.Info("processing catalog refresh request", "requested_at", req.RequestedAt)

	if err := c.handler(ctx); err != nil {
		slog.Error("catalog refresh failed",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		// The import is idempotent, so a retry on the next trigger is safe;
		// do not requeue.
		_ = msg.Reject(false)
		return
	}

	if err := msg.Ack(false); err != nil {
		slog.Error("failed to ack refresh request", "error", err)
	}
}

// Stop cancels consumption and waits for the in-flight handler to finish.
func (c *Consumer) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()
}
