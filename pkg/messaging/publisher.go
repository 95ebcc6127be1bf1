// Package messaging fans catalog changes out over RabbitMQ so other parts
// of the shop (feeds, exports, watchers) can react to a reload without
// polling. Publishing is fire and forget and entirely optional: without a
// broker URL the storefront runs standalone.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

type ChangeTopic string

const (
	CatalogLoadedTopic ChangeTopic = "catalog_loaded"
)

// CatalogLoaded announces a (re)loaded product feed.
type CatalogLoaded struct {
	Products   int      `json:"products"`
	Categories []string `json:"categories"`
}

type Publisher struct {
	conn   *amqp.Connection
	prefix string
}

// Connect dials the broker and declares the exchange and queue for every
// topic this publisher emits. The connection does not outlive a failed
// declaration.
func Connect(url, vhost, prefix string) (*Publisher, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{Vhost: vhost})
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()
	if err := defineTopic(ch, topicName(prefix, CatalogLoadedTopic)); err != nil {
		conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, prefix: prefix}, nil
}

// defineTopic declares a durable topic exchange with a queue of the same
// name bound to nothing yet, consumers bind themselves.
func defineTopic(ch *amqp.Channel, name string) error {
	if err := ch.ExchangeDeclare(name, "topic", true, false, false, false, nil); err != nil {
		return err
	}
	_, err := ch.QueueDeclare(name, true, false, false, false, nil)
	return err
}

func topicName(prefix string, topic ChangeTopic) string {
	return fmt.Sprintf("%s_%s", prefix, topic)
}

func (p *Publisher) send(ctx context.Context, topic ChangeTopic, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	name := topicName(p.prefix, topic)
	return ch.PublishWithContext(ctx, name, name, true, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

// PublishCatalogLoaded sends the reload announcement.
func (p *Publisher) PublishCatalogLoaded(ctx context.Context, event CatalogLoaded) error {
	return p.send(ctx, CatalogLoadedTopic, event)
}

func (p *Publisher) Close() error {
	return p.conn.Close()
}
