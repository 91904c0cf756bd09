package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher доставляет событие в очередь queue.
type Publisher interface {
	Publish(ctx context.Context, queue string, event any) error
}

// NopPublisher ничего не отправляет; используется, когда брокер не настроен.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }

// AMQPPublisher публикует события в RabbitMQ. Соединение открывается на каждую публикацию.
type AMQPPublisher struct {
	url    string
	logger *zap.SugaredLogger
	dial   func(url string) (*amqp.Connection, error)
}

// NewAMQPPublisher создаёт публикатор для брокера по адресу url.
func NewAMQPPublisher(url string, logger *zap.SugaredLogger) *AMQPPublisher {
	return &AMQPPublisher{url: url, logger: logger, dial: amqp.Dial}
}

// New возвращает AMQPPublisher, если url задан, иначе NopPublisher.
func New(url string, logger *zap.SugaredLogger) Publisher {
	if url == "" {
		return NopPublisher{}
	}
	return NewAMQPPublisher(url, logger)
}

// Publish объявляет durable-очередь и отправляет в неё событие в JSON (persistent).
func (p *AMQPPublisher) Publish(ctx context.Context, queue string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := p.dial(p.url)
	if err != nil {
		p.logger.Warnw("amqp dial failed", "queue", queue, "error", err)
		return fmt.Errorf("amqp dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.Warnw("amqp channel open failed", "queue", queue, "error", err)
		return fmt.Errorf("amqp channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	); err != nil {
		p.logger.Warnw("amqp queue declare failed", "queue", queue, "error", err)
		return fmt.Errorf("amqp queue declare: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		p.logger.Warnw("amqp publish failed", "queue", queue, "error", err)
		return fmt.Errorf("amqp publish: %w", err)
	}
	return nil
}
