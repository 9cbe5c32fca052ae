package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-insights-api/internal/application/dto"
	"github.com/jhoicas/pos-insights-api/internal/domain"
	"github.com/jhoicas/pos-insights-api/internal/domain/entity"
	"github.com/jhoicas/pos-insights-api/internal/domain/repository"
)

// recentSalesInDetail ventas que acompañan al detalle del cliente.
const recentSalesInDetail = 10

// CustomerUseCase casos de uso para clientes.
type CustomerUseCase struct {
	repo  repository.CustomerRepository
	sales repository.SaleRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, sales repository.SaleRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, sales: sales}
}

// Create crea un nuevo cliente con totales en cero.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CreateCustomerRequest) (*dto.CustomerDTO, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name es obligatorio", domain.ErrInvalidInput)
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:         uuid.New().String(),
		Name:       in.Name,
		Email:      strings.TrimSpace(in.Email),
		Phone:      strings.TrimSpace(in.Phone),
		Address:    strings.TrimSpace(in.Address),
		TotalSpent: decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("crear cliente: %w", err)
	}
	out := dto.NewCustomerDTO(customer)
	return &out, nil
}

// List lista clientes ordenados por nombre; query filtra por nombre, email o teléfono.
func (uc *CustomerUseCase) List(ctx context.Context, query string, page dto.PageRequest) ([]dto.CustomerDTO, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, strings.TrimSpace(query), page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar clientes: %w: %w", domain.ErrUpstreamUnavailable, err)
	}
	out := make([]dto.CustomerDTO, 0, len(list))
	for _, c := range list {
		out = append(out, dto.NewCustomerDTO(c))
	}
	return out, nil
}

// Get devuelve el cliente con sus ventas más recientes.
func (uc *CustomerUseCase) Get(ctx context.Context, id string) (*dto.CustomerDetailDTO, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener cliente: %w: %w", domain.ErrUpstreamUnavailable, err)
	}
	if c == nil {
		return nil, fmt.Errorf("cliente %s: %w", id, domain.ErrNotFound)
	}
	sales, err := uc.sales.ListByCustomer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listar ventas del cliente: %w: %w", domain.ErrUpstreamUnavailable, err)
	}
	if len(sales) > recentSalesInDetail {
		sales = sales[:recentSalesInDetail]
	}
	return &dto.CustomerDetailDTO{CustomerDTO: dto.NewCustomerDTO(c), Sales: dto.NewSaleDTOs(sales)}, nil
}
