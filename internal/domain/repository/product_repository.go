package repository

import (
	"context"

	"github.com/jhoicas/pos-insights-api/internal/domain/entity"
)

// ProductFilter criterios de listado de productos. Los campos vacíos no filtran.
type ProductFilter struct {
	Categories   []string // category ∈ Categories
	ExcludeIDs   []string
	Query        string // coincidencia parcial sin distinguir mayúsculas en nombre, SKU, categoría o código de barras
	ActiveOnly   bool
	InStockOnly  bool
	LowStockOnly bool // stock <= min_stock
	NewestFirst  bool // si es false se ordena por nombre
	Limit        int  // 0 = sin límite
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	ListByIDs(ctx context.Context, ids []string) ([]*entity.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	// DecrementStock resta qty del stock; domain.ErrInsufficientStock si quedaría negativo.
	DecrementStock(ctx context.Context, productID string, qty int) error
}
