package entity

import "time"

// Supplier representa un proveedor de la tienda.
type Supplier struct {
	ID          string
	Name        string
	ContactName string
	Phone       string
	Email       string
	Address     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
