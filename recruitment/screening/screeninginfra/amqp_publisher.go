package screeninginfra

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Abraxas-365/resumescan/recruitment/screening"
	"github.com/streadway/amqp"
)

// amqpChannel is the part of *amqp.Channel the publisher needs
type amqpChannel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher sends analysis events to a topic exchange with routing key analysis.<status>
type AMQPPublisher struct {
	exchange string
	open     func() (amqpChannel, error)

	mu sync.Mutex
	ch amqpChannel
}

// NewAMQPPublisher declares the exchange and returns a publisher bound to it
func NewAMQPPublisher(conn *amqp.Connection, exchange string) (*AMQPPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &AMQPPublisher{
		exchange: exchange,
		ch:       ch,
		open: func() (amqpChannel, error) {
			return conn.Channel()
		},
	}, nil
}

var _ screening.EventPublisher = (*AMQPPublisher)(nil)

func RoutingKey(status screening.AnalysisStatus) string {
	return "analysis." + string(status)
}

func (p *AMQPPublisher) PublishAnalysisFinished(ctx context.Context, event screening.AnalysisEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal analysis event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.AnalysisID.String(),
		Timestamp:    event.OccurredAt,
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil {
		if p.ch, err = p.open(); err != nil {
			return fmt.Errorf("reopen channel: %w", err)
		}
	}

	if err := p.ch.Publish(p.exchange, RoutingKey(event.Status), false, false, msg); err != nil {
		// a failed publish closes the channel server side
		p.ch.Close()
		p.ch = nil
		return fmt.Errorf("publish analysis event %s: %w", event.AnalysisID, err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil {
		return nil
	}
	err := p.ch.Close()
	p.ch = nil
	return err
}

// NoopPublisher drops events when no broker is configured
type NoopPublisher struct{}

func (NoopPublisher) PublishAnalysisFinished(context.Context, screening.AnalysisEvent) error {
	return nil
}
