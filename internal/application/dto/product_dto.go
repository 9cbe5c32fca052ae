package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-insights-api/internal/domain/entity"
)

// CreateProductRequest entrada para crear producto.
type CreateProductRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	SKU         string           `json:"sku"`
	Category    string           `json:"category"`
	Price       decimal.Decimal  `json:"price"`
	Cost        *decimal.Decimal `json:"cost,omitempty"`
	Stock       int              `json:"stock"`
	MinStock    int              `json:"min_stock"`
	Unit        string           `json:"unit"`
	Image       string           `json:"image,omitempty"`
	Barcode     string           `json:"barcode,omitempty"`
}

// ProductListRequest query params de GET /api/products.
type ProductListRequest struct {
	Query       string `query:"q"`
	Category    string `query:"category"`
	IncludeAll  bool   `query:"include_inactive"`
	InStockOnly bool   `query:"in_stock"`
}

// ProductDTO salida de producto.
type ProductDTO struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	SKU         string           `json:"sku"`
	Category    string           `json:"category"`
	Price       decimal.Decimal  `json:"price"`
	Cost        *decimal.Decimal `json:"cost,omitempty"`
	Stock       int              `json:"stock"`
	MinStock    int              `json:"min_stock"`
	Active      bool             `json:"active"`
	Unit        string           `json:"unit"`
	Image       string           `json:"image,omitempty"`
	Barcode     string           `json:"barcode,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// LowStockItemDTO producto en o bajo su stock mínimo con su nivel de alerta.
type LowStockItemDTO struct {
	ProductDTO
	Level   string `json:"level"`   // out | critical | low | medium | ok
	Deficit int    `json:"deficit"` // min_stock - stock (>= 0)
}

// LowStockResponse salida de GET /api/products/low-stock.
type LowStockResponse struct {
	Items []LowStockItemDTO `json:"items"`
	Count int               `json:"count"`
}

// NewProductDTO mapea la entidad a su representación JSON.
func NewProductDTO(p *entity.Product) ProductDTO {
	out := ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		SKU:         p.SKU,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		Active:      p.Active,
		Unit:        p.Unit,
		Image:       p.Image,
		Barcode:     p.Barcode,
		CreatedAt:   p.CreatedAt,
	}
	if p.Cost.Valid {
		cost := p.Cost.Decimal
		out.Cost = &cost
	}
	return out
}

// NewProductDTOs mapea una lista; nunca devuelve nil.
func NewProductDTOs(list []*entity.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(list))
	for _, p := range list {
		out = append(out, NewProductDTO(p))
	}
	return out
}

// ProductListResponse respuesta de GET /api/products.
type ProductListResponse struct {
	Items []ProductDTO `json:"items"`
	Count int          `json:"count"`
}
