package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense representa un gasto operativo de la tienda (arriendo, servicios, nómina...).
type Expense struct {
	ID          string
	Description string
	Category    string
	Amount      decimal.Decimal
	Date        time.Time
	CreatedBy   string
	CreatedAt   time.Time
}
