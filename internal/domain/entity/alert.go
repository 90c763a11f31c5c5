package entity

import "time"

// Tipos de alerta sobre el estado de un producto.
const (
	AlertKindExpired      = "Expired"
	AlertKindOutOfStock   = "Out of Stock"
	AlertKindLowStock     = "Low Stock"
	AlertKindExpiringSoon = "Expiring Soon"
)

// Estados de una alerta: unread → read → resolved.
const (
	AlertStatusUnread   = "unread"
	AlertStatusRead     = "read"
	AlertStatusResolved = "resolved"
)

// Alert notificación persistida sobre el estado de un producto.
// Solo puede existir una alerta abierta (unread/read) por par (Kind, Message).
type Alert struct {
	ID         string
	Kind       string
	Message    string
	ProductID  string
	Status     string
	CreatedAt  time.Time
	ResolvedAt *time.Time
}

// IsOpen indica si la alerta sigue abierta (no resuelta).
func (a *Alert) IsOpen() bool {
	return a.Status != AlertStatusResolved
}
