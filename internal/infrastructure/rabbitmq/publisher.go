package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/tienda-pos/internal/application/ports"
)

var _ ports.EventPublisher = (*Publisher)(nil)

// Publisher implementa ports.EventPublisher. Un amqp.Channel no es seguro entre goroutines,
// por eso las publicaciones se serializan.
type Publisher struct {
	mu       sync.Mutex
	ch       *amqp.Channel
	exchange string
	source   string
}

// NewPublisher crea el publicador. source se envía como AppId de cada mensaje.
func NewPublisher(ch *amqp.Channel, exchange, source string) *Publisher {
	return &Publisher{ch: ch, exchange: exchange, source: source}
}

// Publish serializa payload como JSON y lo publica con la clave de enrutamiento dada.
func (p *Publisher) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("serializar evento %s: %w", routingKey, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx,
		p.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Type:         routingKey,
			AppId:        p.source,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publicar evento %s: %w", routingKey, err)
	}
	return nil
}
