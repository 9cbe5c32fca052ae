package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo del catálogo del punto de venta.
// Stock se descuenta con cada venta; MinStock marca el punto de alerta de stock bajo.
type Product struct {
	ID          string
	Name        string // el nombre suele empezar por la marca ("Samsung 18650 Battery")
	Description string
	SKU         string
	Category    string
	Price       decimal.Decimal
	Cost        decimal.NullDecimal // opcional
	Stock       int
	MinStock    int
	Active      bool
	Unit        string
	Image       string // URL, vacío si no tiene
	Barcode     string // EAN, vacío si no tiene
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Available indica si el producto puede ofrecerse: activo y con existencias.
func (p *Product) Available() bool {
	return p.Active && p.Stock > 0
}

// IsLowStock indica si el stock está en o por debajo del mínimo configurado del producto.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}
