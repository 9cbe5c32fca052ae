package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-insights-api/internal/domain/entity"
)

// CreateCustomerRequest entrada para crear cliente.
type CreateCustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// CustomerDTO salida de cliente.
type CustomerDTO struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email,omitempty"`
	Phone      string          `json:"phone,omitempty"`
	Address    string          `json:"address,omitempty"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	VisitCount int             `json:"visit_count"`
	LastVisit  *time.Time      `json:"last_visit"`
	CreatedAt  time.Time       `json:"created_at"`
}

// CustomerDetailDTO cliente con sus ventas más recientes.
type CustomerDetailDTO struct {
	CustomerDTO
	Sales []SaleDTO `json:"sales"`
}

// CustomerSummaryDTO resumen usado en la respuesta de recomendaciones.
type CustomerSummaryDTO struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email,omitempty"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	VisitCount int             `json:"visit_count"`
}

// NewCustomerDTO mapea la entidad.
func NewCustomerDTO(c *entity.Customer) CustomerDTO {
	return CustomerDTO{
		ID:         c.ID,
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		Address:    c.Address,
		TotalSpent: c.TotalSpent,
		VisitCount: c.VisitCount,
		LastVisit:  c.LastVisit,
		CreatedAt:  c.CreatedAt,
	}
}

// NewCustomerSummaryDTO mapea la entidad al resumen.
func NewCustomerSummaryDTO(c *entity.Customer) CustomerSummaryDTO {
	return CustomerSummaryDTO{
		ID:         c.ID,
		Name:       c.Name,
		Email:      c.Email,
		TotalSpent: c.TotalSpent,
		VisitCount: c.VisitCount,
	}
}

// CustomerListResponse respuesta paginada de GET /api/customers.
type CustomerListResponse struct {
	Items []CustomerDTO `json:"items"`
	Page  PageResponse  `json:"page"`
}
