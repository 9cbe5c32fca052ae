package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-insights-api/internal/application/dto"
	"github.com/jhoicas/pos-insights-api/internal/domain"
	"github.com/jhoicas/pos-insights-api/internal/domain/entity"
	"github.com/jhoicas/pos-insights-api/internal/domain/inventory"
	"github.com/jhoicas/pos-insights-api/internal/domain/repository"
)

// ProductUseCase listado, alta y alertas de stock del catálogo.
type ProductUseCase struct {
	repo       repository.ProductRepository
	thresholds inventory.Thresholds
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, thresholds inventory.Thresholds) *ProductUseCase {
	return &ProductUseCase{repo: repo, thresholds: thresholds}
}

// List devuelve el catálogo ordenado por nombre. Por defecto solo productos activos.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductListRequest) ([]dto.ProductDTO, error) {
	filter := repository.ProductFilter{
		Query:       strings.TrimSpace(in.Query),
		ActiveOnly:  !in.IncludeAll,
		InStockOnly: in.InStockOnly,
	}
	if in.Category != "" {
		filter.Categories = []string{in.Category}
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w: %w", domain.ErrUpstreamUnavailable, err)
	}
	return dto.NewProductDTOs(list), nil
}

// Create da de alta un producto activo. SKU vacío genera SKU-<unix millis>.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductDTO, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name es obligatorio", domain.ErrInvalidInput)
	}
	if in.Price.IsNegative() || in.Stock < 0 || in.MinStock < 0 {
		return nil, fmt.Errorf("%w: price, stock y min_stock no pueden ser negativos", domain.ErrInvalidInput)
	}
	now := time.Now()
	if in.SKU == "" {
		in.SKU = fmt.Sprintf("SKU-%d", now.UnixMilli())
	}
	if in.Category == "" {
		in.Category = "General"
	}
	if in.Unit == "" {
		in.Unit = "unit"
	}

	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		SKU:         in.SKU,
		Category:    in.Category,
		Price:       in.Price,
		Stock:       in.Stock,
		MinStock:    in.MinStock,
		Active:      true,
		Unit:        in.Unit,
		Image:       in.Image,
		Barcode:     in.Barcode,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Cost != nil {
		product.Cost = decimal.NewNullDecimal(*in.Cost)
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("crear producto: %w", err)
	}
	out := dto.NewProductDTO(product)
	return &out, nil
}

// LowStock productos activos en o bajo su stock mínimo, los más urgentes primero.
func (uc *ProductUseCase) LowStock(ctx context.Context) (*dto.LowStockResponse, error) {
	list, err := uc.repo.List(ctx, repository.ProductFilter{ActiveOnly: true, LowStockOnly: true})
	if err != nil {
		return nil, fmt.Errorf("listar stock bajo: %w: %w", domain.ErrUpstreamUnavailable, err)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Stock < list[j].Stock })

	items := make([]dto.LowStockItemDTO, 0, len(list))
	for _, p := range list {
		items = append(items, dto.LowStockItemDTO{
			ProductDTO: dto.NewProductDTO(p),
			Level:      string(inventory.Classify(p.Stock, uc.thresholds)),
			Deficit:    max(p.MinStock-p.Stock, 0),
		})
	}
	return &dto.LowStockResponse{Items: items, Count: len(items)}, nil
}
