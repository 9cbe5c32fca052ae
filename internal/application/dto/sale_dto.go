package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-insights-api/internal/domain/entity"
)

// CreateSaleRequest entrada de POST /api/sales.
type CreateSaleRequest struct {
	CustomerID    string                  `json:"customer_id"` // vacío = cliente de paso
	PaymentMethod string                  `json:"payment_method"`
	Discount      decimal.Decimal         `json:"discount"`
	Items         []CreateSaleItemRequest `json:"items"`
}

// CreateSaleItemRequest línea de venta. UnitPrice nil usa el precio del catálogo;
// Tax nil aplica la tasa de impuesto configurada.
type CreateSaleItemRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Discount  decimal.Decimal  `json:"discount"`
	Tax       *decimal.Decimal `json:"tax,omitempty"`
}

// SaleDTO salida de venta.
type SaleDTO struct {
	ID            string          `json:"id"`
	SaleNumber    string          `json:"sale_number"`
	CustomerID    *string         `json:"customer_id"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	CreatedAt     time.Time       `json:"created_at"`
	Items         []SaleItemDTO   `json:"items"`
}

// SaleItemDTO línea de venta con el producto unido (si existe).
type SaleItemDTO struct {
	ProductID string          `json:"product_id"`
	Product   *ProductDTO     `json:"product,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
}

// NewSaleDTO mapea la entidad.
func NewSaleDTO(s *entity.Sale) SaleDTO {
	out := SaleDTO{
		ID:            s.ID,
		SaleNumber:    s.SaleNumber,
		Subtotal:      s.Subtotal,
		Tax:           s.Tax,
		Discount:      s.Discount,
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
		CreatedAt:     s.CreatedAt,
		Items:         make([]SaleItemDTO, 0, len(s.Items)),
	}
	if !s.IsWalkIn() {
		id := s.CustomerID
		out.CustomerID = &id
	}
	for i := range s.Items {
		it := &s.Items[i]
		item := SaleItemDTO{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Discount:  it.Discount,
			Tax:       it.Tax,
			Total:     it.Total,
		}
		if it.Product != nil {
			p := NewProductDTO(it.Product)
			item.Product = &p
		}
		out.Items = append(out.Items, item)
	}
	return out
}

// NewSaleDTOs mapea una lista; nunca devuelve nil.
func NewSaleDTOs(list []*entity.Sale) []SaleDTO {
	out := make([]SaleDTO, 0, len(list))
	for _, s := range list {
		out = append(out, NewSaleDTO(s))
	}
	return out
}

// SaleListResponse respuesta paginada de GET /api/sales.
type SaleListResponse struct {
	Items []SaleDTO    `json:"items"`
	Page  PageResponse `json:"page"`
}
