package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-insights-api/internal/domain"
	"github.com/jhoicas/pos-insights-api/internal/domain/entity"
	"github.com/jhoicas/pos-insights-api/internal/domain/repository"
)

func TestDemoStore_VentasConJoinYOrden(t *testing.T) {
	ctx := context.Background()
	s := NewDemoStore(time.Now())

	sales, err := s.Sales().ListByCustomer(ctx, "cust-001")
	require.NoError(t, err)
	require.Len(t, sales, 3)
	for i := 1; i < len(sales); i++ {
		assert.False(t, sales[i].CreatedAt.After(sales[i-1].CreatedAt), "más recientes primero")
	}
	for _, sale := range sales {
		for _, it := range sale.Items {
			require.NotNil(t, it.Product)
			assert.Equal(t, it.ProductID, it.Product.ID)
		}
	}
}

func TestDemoStore_ListExcludingCustomerIncluyeWalkIns(t *testing.T) {
	s := NewDemoStore(time.Now())

	others, err := s.Sales().ListExcludingCustomer(context.Background(), "cust-001")
	require.NoError(t, err)

	walkIns := 0
	for _, sale := range others {
		assert.NotEqual(t, "cust-001", sale.CustomerID)
		if sale.IsWalkIn() {
			walkIns++
		}
	}
	assert.Equal(t, 2, walkIns)
}

func TestStore_ListFiltro(t *testing.T) {
	s := NewDemoStore(time.Now())

	list, err := s.List(context.Background(), repository.ProductFilter{
		Categories:  []string{"Batteries"},
		ExcludeIDs:  []string{"prod-001"},
		ActiveOnly:  true,
		InStockOnly: true,
		NewestFirst: true,
		Limit:       6,
	})
	require.NoError(t, err)

	ids := make([]string, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.ID)
	}
	// prod-004 no tiene stock; prod-003 es más nuevo que prod-002.
	assert.Equal(t, []string{"prod-003", "prod-002"}, ids)
}

func TestStore_RunSaleRollback(t *testing.T) {
	ctx := context.Background()
	s := NewDemoStore(time.Now())
	boom := errors.New("boom")

	err := s.RunSale(ctx, func(products repository.ProductRepository, customers repository.CustomerRepository, sales repository.SaleRepository) error {
		require.NoError(t, products.DecrementStock(ctx, "prod-001", 5))
		require.NoError(t, customers.RecordVisit(ctx, "cust-002", decimal.NewFromInt(10), time.Now()))
		require.NoError(t, sales.Create(ctx, &entity.Sale{ID: "tmp"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, _ := s.GetByID(ctx, "prod-001")
	assert.Equal(t, 40, p.Stock, "el stock se restaura")
	all, _ := s.Sales().List(ctx, 0, 0)
	assert.Len(t, all, len(demoSales))
}

func TestStore_RunSaleRollbackConservaEscriturasConcurrentes(t *testing.T) {
	ctx := context.Background()
	s := NewDemoStore(time.Now())
	before, _ := s.Customers().GetByID(ctx, "cust-002")
	boom := errors.New("boom")

	err := s.RunSale(ctx, func(products repository.ProductRepository, customers repository.CustomerRepository, sales repository.SaleRepository) error {
		require.NoError(t, products.DecrementStock(ctx, "prod-001", 5))
		require.NoError(t, customers.RecordVisit(ctx, "cust-002", decimal.NewFromInt(10), time.Now()))
		require.NoError(t, sales.Create(ctx, &entity.Sale{ID: "tmp"}))

		// Otra petición escribe mientras la venta sigue abierta.
		done := make(chan struct{})
		go func() {
			defer close(done)
			assert.NoError(t, s.Customers().Create(ctx, &entity.Customer{ID: "c-concurrent", Name: "Walk Later"}))
			assert.NoError(t, s.DecrementStock(ctx, "prod-001", 1))
			assert.NoError(t, s.Sales().Create(ctx, &entity.Sale{ID: "other"}))
		}()
		<-done
		return boom
	})
	require.ErrorIs(t, err, boom)

	c, err := s.Customers().GetByID(ctx, "c-concurrent")
	require.NoError(t, err)
	require.NotNil(t, c, "el cliente creado fuera de la venta se conserva")

	p, _ := s.GetByID(ctx, "prod-001")
	assert.Equal(t, 39, p.Stock, "se devuelve solo lo descontado por la venta")

	after, _ := s.Customers().GetByID(ctx, "cust-002")
	assert.True(t, before.TotalSpent.Equal(after.TotalSpent))
	assert.Equal(t, before.VisitCount, after.VisitCount)
	assert.Equal(t, before.LastVisit, after.LastVisit)

	all, _ := s.Sales().List(ctx, 0, 0)
	require.Len(t, all, len(demoSales)+1)
	for _, sale := range all {
		assert.NotEqual(t, "tmp", sale.ID)
	}
}

func TestStore_RunSaleRollbackCreaciones(t *testing.T) {
	ctx := context.Background()
	s := NewDemoStore(time.Now())

	err := s.RunSale(ctx, func(products repository.ProductRepository, customers repository.CustomerRepository, _ repository.SaleRepository) error {
		require.NoError(t, products.Create(ctx, &entity.Product{ID: "p-new", SKU: "NEW-1"}))
		require.NoError(t, customers.Create(ctx, &entity.Customer{ID: "c-new"}))
		return errors.New("boom")
	})
	require.Error(t, err)

	p, _ := s.GetByID(ctx, "p-new")
	assert.Nil(t, p)
	c, _ := s.Customers().GetByID(ctx, "c-new")
	assert.Nil(t, c)
}

func TestStore_DecrementStockInsuficiente(t *testing.T) {
	s := NewDemoStore(time.Now())
	err := s.DecrementStock(context.Background(), "prod-004", 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}
