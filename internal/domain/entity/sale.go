package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment methods aceptados por la caja.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
)

// Sale es una transacción de venta. CustomerID vacío = cliente de paso (walk-in).
type Sale struct {
	ID            string
	SaleNumber    string
	CustomerID    string
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod string
	CreatedAt     time.Time
	Items         []SaleItem
}

// IsWalkIn indica si la venta no está asociada a un cliente registrado.
func (s *Sale) IsWalkIn() bool {
	return s.CustomerID == ""
}

// SaleItem línea de una venta. Product es el join de solo lectura con el catálogo
// y puede venir nil si el producto ya no existe.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Product   *Product
	Quantity  int
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
}
