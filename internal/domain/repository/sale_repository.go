package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-insights-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para Sale.
// Todas las lecturas devuelven las ventas con sus líneas y el producto unido, más recientes primero.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	List(ctx context.Context, limit, offset int) ([]*entity.Sale, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*entity.Sale, error)
	// ListExcludingCustomer incluye ventas de otros clientes y de clientes de paso.
	ListExcludingCustomer(ctx context.Context, customerID string) ([]*entity.Sale, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*entity.Sale, error)
}
