package dto

import "time"

// AlertResponse salida de una alerta persistida.
type AlertResponse struct {
	ID         string     `json:"id"`
	Kind       string     `json:"kind"`
	Message    string     `json:"message"`
	ProductID  string     `json:"product_id"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// LiveAlertResponse condición de alerta derivada en vivo (no persistida).
type LiveAlertResponse struct {
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	ProductID string `json:"product_id"`
}

// AlertCountResponse contador de alertas sin leer (badge del menú).
type AlertCountResponse struct {
	Unread int `json:"unread"`
}
