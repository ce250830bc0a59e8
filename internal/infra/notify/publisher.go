package notify

import (
	"context"
	"encoding/json"

	"confbook/internal/pkg/config"
	"confbook/internal/pkg/errs"
	"confbook/internal/usecase/shared"

	amqp "github.com/rabbitmq/amqp091-go"
)

// routing keys by event type, consumed by the email worker.
var routingKeys = map[shared.EventType]string{
	shared.EventBookingCreated:   "booking.created",
	shared.EventBookingCancelled: "booking.cancelled",
	shared.EventUserRegistered:   "user.registered",
	shared.EventAccountDeleted:   "user.deleted",
}

// Publisher pushes notification events onto a RabbitMQ topic exchange.
type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewPublisher(cfg config.AMQPConfig) (*Publisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, errs.Wrap(err, "failed to connect to rabbitmq")
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errs.Wrap(err, "failed to open rabbitmq channel")
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, errs.Wrap(err, "failed to declare notification exchange")
	}

	return &Publisher{conn: conn, ch: ch, exchange: cfg.Exchange}, nil
}

func (p *Publisher) Publish(ctx context.Context, event shared.NotificationEvent) error {
	key, ok := routingKeys[event.EventType]
	if !ok {
		return errs.New("unknown notification event type: " + string(event.EventType))
	}

	body, err := json.Marshal(event)
	if err != nil {
		return errs.Wrap(err, "failed to marshal notification event")
	}

	err = p.ch.PublishWithContext(ctx,
		p.exchange,
		key,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return errs.Wrap(err, "failed to publish notification event")
	}
	return nil
}

func (p *Publisher) Close() error {
	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return errs.Wrap(err, "failed to close rabbitmq channel")
	}
	return p.conn.Close()
}
