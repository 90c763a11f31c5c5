package ports

import "context"

// Claves de enrutamiento de los eventos de dominio publicados.
const (
	EventSaleCompleted = "sale.completed"
	EventAlertRaised   = "alert.raised"
)

// EventPublisher define el puerto de salida para publicar eventos de dominio
// (RabbitMQ en producción). Publicar es un efecto secundario: quien llama registra
// el error y continúa.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// NopPublisher descarta los eventos. Se usa cuando no hay broker configurado.
type NopPublisher struct{}

// Publish no hace nada.
func (NopPublisher) Publish(context.Context, string, any) error { return nil }
