package queue

import "context"

// NoopPublisher заглушка диспетчера для окружений без RabbitMQ
// (amqp.enabled = false в конфиге). События только логируются.
type NoopPublisher struct {
	log Logger
}

// NewNoopPublisher создает заглушку диспетчера
func NewNoopPublisher(log Logger) *NoopPublisher {
	return &NoopPublisher{log: log}
}

// Publish логирует событие и ничего не отправляет
func (p *NoopPublisher) Publish(_ context.Context, routingKey string, _ interface{}) error {
	p.log.Info("AMQP disabled, dropping event %s", routingKey)
	return nil
}
