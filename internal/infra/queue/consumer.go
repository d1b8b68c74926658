package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// EventHandler обрабатывает одно событие из очереди
// Возвращенная ошибка приводит к requeue сообщения (at-least-once)
type EventHandler interface {
	HandleBookingCreated(ctx context.Context, event *BookingCreatedEvent) error
	HandleBookingCancelled(ctx context.Context, event *BookingCancelledEvent) error
	HandlePackageExhausted(ctx context.Context, event *PackageExhaustedEvent) error
}

// Consumer читает события уведомлений из очереди и передает их обработчику
type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	handler EventHandler
	log     Logger
}

// NewConsumer подключается к RabbitMQ, объявляет очередь и привязывает
// ее ко всем событиям диспетчера
func NewConsumer(url, exchange, queueName string, handler EventHandler, log Logger) (*Consumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("queue: consumer failed to connect: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("queue: consumer failed to open channel: %w", err)
	}

	q, err := channel.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("queue: failed to declare queue: %w", err)
	}

	for _, key := range []string{RoutingKeyBookingCreated, RoutingKeyBookingCancelled, RoutingKeyPackageExhausted} {
		if err := channel.QueueBind(q.Name, key, exchange, false, nil); err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("queue: failed to bind %s: %w", key, err)
		}
	}

	return &Consumer{
		conn:    conn,
		channel: channel,
		queue:   q.Name,
		handler: handler,
		log:     log,
	}, nil
}

// Run блокирующе читает сообщения до отмены контекста
// Ошибки обработчика возвращают сообщение в очередь
func (c *Consumer) Run(ctx context.Context) error {
	deliveries, err := c.channel.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue: failed to start consuming: %w", err)
	}

	c.log.Info("Notification consumer started (queue=%s)", c.queue)

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			c.handleDelivery(ctx, d)
		}
	}
}

func (c *Consumer) handleDelivery(ctx context.Context, d amqp.Delivery) {
	var err error

	switch d.RoutingKey {
	case RoutingKeyBookingCreated:
		var event BookingCreatedEvent
		if err = json.Unmarshal(d.Body, &event); err == nil {
			err = c.handler.HandleBookingCreated(ctx, &event)
		}
	case RoutingKeyBookingCancelled:
		var event BookingCancelledEvent
		if err = json.Unmarshal(d.Body, &event); err == nil {
			err = c.handler.HandleBookingCancelled(ctx, &event)
		}
	case RoutingKeyPackageExhausted:
		var event PackageExhaustedEvent
		if err = json.Unmarshal(d.Body, &event); err == nil {
			err = c.handler.HandlePackageExhausted(ctx, &event)
		}
	default:
		c.log.Warn("Unknown routing key %s, dropping message", d.RoutingKey)
		_ = d.Ack(false)
		return
	}

	if err != nil {
		c.log.Error("Failed to handle %s: %v", d.RoutingKey, err)
		// requeue только один раз, чтобы не зациклить ядовитое сообщение
		_ = d.Nack(false, !d.Redelivered)
		return
	}

	_ = d.Ack(false)
}

// Close закрывает канал и соединение
func (c *Consumer) Close() error {
	if err := c.channel.Close(); err != nil {
		c.conn.Close()
		return err
	}
	return c.conn.Close()
}
