package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-insights-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	// List ordena por nombre; query filtra por nombre, email o teléfono.
	List(ctx context.Context, query string, limit, offset int) ([]*entity.Customer, error)
	// RecordVisit suma amount a total_spent, incrementa visit_count y fija last_visit = at.
	RecordVisit(ctx context.Context, customerID string, amount decimal.Decimal, at time.Time) error
}
