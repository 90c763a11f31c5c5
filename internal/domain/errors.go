package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrEmptyCart          = errors.New("el carrito está vacío")
	ErrStorage            = errors.New("error de almacenamiento")
	ErrStorageTimeout     = errors.New("tiempo de espera agotado en almacenamiento")
)

// EmptyCartError se devuelve cuando una venta llega sin líneas.
type EmptyCartError struct{}

func (EmptyCartError) Error() string { return ErrEmptyCart.Error() }

func (EmptyCartError) Unwrap() error { return ErrEmptyCart }

// InvalidLineError línea de carrito mal formada (cantidad no positiva, precio negativo, sin producto).
type InvalidLineError struct {
	Index  int
	Reason string
}

func (e *InvalidLineError) Error() string {
	return fmt.Sprintf("línea %d inválida: %s", e.Index+1, e.Reason)
}

func (e *InvalidLineError) Unwrap() error { return ErrInvalidInput }

// ProductNotFoundError referencia a un producto que no existe.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("producto %s no encontrado", e.ProductID)
}

func (e *ProductNotFoundError) Unwrap() error { return ErrNotFound }

// InsufficientStockError la cantidad pedida supera el stock disponible.
// Available es lo que quedaba para esa línea (descontando líneas previas del mismo producto).
type InsufficientStockError struct {
	ProductID string
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	label := e.ProductID
	if e.Name != "" {
		label = e.Name
	}
	return fmt.Sprintf("stock insuficiente para %s: solicitado %d, disponible %d (faltan %d)",
		label, e.Requested, e.Available, e.Requested-e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// StorageError fallo de la capa de persistencia. El detalle no se expone al cliente HTTP.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error { return []error{ErrStorage, e.Err} }

// StorageTimeoutError la operación de persistencia superó el timeout configurado.
type StorageTimeoutError struct {
	Op string
}

func (e *StorageTimeoutError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, ErrStorageTimeout.Error())
}

func (e *StorageTimeoutError) Unwrap() []error { return []error{ErrStorageTimeout, ErrStorage} }
