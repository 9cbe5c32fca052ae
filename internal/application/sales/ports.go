package sales

import (
	"context"

	"github.com/jhoicas/pos-insights-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción del catálogo, pasando repositorios atados a ella.
// Si fn devuelve error se hace rollback de todo: venta, stock y totales del cliente.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		products repository.ProductRepository,
		customers repository.CustomerRepository,
		sales repository.SaleRepository,
	) error) error
}
