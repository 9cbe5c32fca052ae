package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente registrado del punto de venta.
// TotalSpent, VisitCount y LastVisit solo cambian al registrar una venta.
type Customer struct {
	ID         string
	Name       string
	Email      string
	Phone      string
	Address    string
	TotalSpent decimal.Decimal
	VisitCount int
	LastVisit  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
