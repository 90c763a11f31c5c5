// Package alerting deriva las condiciones de alerta (vencimiento y stock) de un producto.
// Es lógica pura de dominio: no persiste nada.
package alerting

import (
	"fmt"
	"math"
	"time"

	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

const (
	DefaultLowStockThreshold = 10
	DefaultExpiringSoonDays  = 7
	expiryDateLayout         = "2006-01-02"
)

// Condition es una condición de alerta detectada para un producto.
type Condition struct {
	Kind      string
	Message   string
	ProductID string
}

// Policy política canónica de alertas.
// El umbral de stock bajo es MinStockLevel del producto si es > 0, si no LowStockThreshold.
type Policy struct {
	LowStockThreshold int
	ExpiringSoonDays  int
}

// DefaultPolicy devuelve la política con los umbrales por defecto (10 unidades, 7 días).
func DefaultPolicy() Policy {
	return Policy{LowStockThreshold: DefaultLowStockThreshold, ExpiringSoonDays: DefaultExpiringSoonDays}
}

// Threshold devuelve el umbral de stock bajo aplicable al producto.
func (p Policy) Threshold(product *entity.Product) int {
	if product.MinStockLevel > 0 {
		return product.MinStockLevel
	}
	if p.LowStockThreshold > 0 {
		return p.LowStockThreshold
	}
	return DefaultLowStockThreshold
}

func (p Policy) soonDays() int {
	if p.ExpiringSoonDays > 0 {
		return p.ExpiringSoonDays
	}
	return DefaultExpiringSoonDays
}

// Evaluate aplica la cadena de prioridad y devuelve la primera condición que se cumple:
// Expired > Out of Stock > Low Stock > Expiring Soon.
func (p Policy) Evaluate(product *entity.Product, now time.Time) (Condition, bool) {
	if c, ok := p.expired(product, now); ok {
		return c, true
	}
	if c, ok := p.outOfStock(product); ok {
		return c, true
	}
	if c, ok := p.lowStock(product); ok {
		return c, true
	}
	if c, ok := p.expiringSoon(product, now); ok {
		return c, true
	}
	return Condition{}, false
}

// Conditions devuelve todas las condiciones vigentes del producto (no excluyentes),
// para el listado en vivo de alertas.
func (p Policy) Conditions(product *entity.Product, now time.Time) []Condition {
	var out []Condition
	if c, ok := p.expired(product, now); ok {
		out = append(out, c)
	}
	if c, ok := p.expiringSoon(product, now); ok {
		out = append(out, c)
	}
	if c, ok := p.outOfStock(product); ok {
		out = append(out, c)
	}
	if c, ok := p.lowStock(product); ok {
		out = append(out, c)
	}
	return out
}

func (p Policy) expired(product *entity.Product, now time.Time) (Condition, bool) {
	if !product.HasExpiry() || !product.ExpiryDate.Before(now) {
		return Condition{}, false
	}
	return Condition{
		Kind:      entity.AlertKindExpired,
		Message:   fmt.Sprintf("%s venció el %s", product.Name, product.ExpiryDate.Format(expiryDateLayout)),
		ProductID: product.ID,
	}, true
}

func (p Policy) outOfStock(product *entity.Product) (Condition, bool) {
	if product.Quantity != 0 {
		return Condition{}, false
	}
	return Condition{
		Kind:      entity.AlertKindOutOfStock,
		Message:   fmt.Sprintf("%s está agotado", product.Name),
		ProductID: product.ID,
	}, true
}

func (p Policy) lowStock(product *entity.Product) (Condition, bool) {
	if product.Quantity <= 0 || product.Quantity > p.Threshold(product) {
		return Condition{}, false
	}
	return Condition{
		Kind:      entity.AlertKindLowStock,
		Message:   fmt.Sprintf("%s tiene stock bajo: quedan %d unidades", product.Name, product.Quantity),
		ProductID: product.ID,
	}, true
}

func (p Policy) expiringSoon(product *entity.Product, now time.Time) (Condition, bool) {
	if !product.HasExpiry() || product.ExpiryDate.Before(now) {
		return Condition{}, false
	}
	days := DaysUntil(now, *product.ExpiryDate)
	if days < 0 || days > p.soonDays() {
		return Condition{}, false
	}
	return Condition{
		Kind:      entity.AlertKindExpiringSoon,
		Message:   fmt.Sprintf("%s vence pronto (%s)", product.Name, product.ExpiryDate.Format(expiryDateLayout)),
		ProductID: product.ID,
	}, true
}

// DaysUntil días completos (redondeo hacia arriba) entre now y t.
func DaysUntil(now, t time.Time) int {
	return int(math.Ceil(t.Sub(now).Hours() / 24))
}
