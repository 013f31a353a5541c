package ports

import (
	"context"

	"github.com/rabbitmq/amqp091-go"

	"sheet-insights-api/internal/infrastructure/mq"
)

// EventPublisher is what services use to announce completed operations.
type EventPublisher interface {
	Enqueue(e mq.Event)
}

type RabbitMQ interface {
	EventPublisher
	Connect(ctx context.Context, dsn string) error
	Init() error
	PublisherWorker(ctx context.Context)
	GetConn() *amqp091.Connection
}
