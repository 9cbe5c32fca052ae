package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-insights-api/internal/application/dto"
	"github.com/jhoicas/pos-insights-api/internal/application/sales"
	"github.com/jhoicas/pos-insights-api/internal/domain"
	"github.com/jhoicas/pos-insights-api/internal/infrastructure/memory"
)

var now = time.Date(2026, 6, 1, 10, 30, 0, 0, time.UTC)

func newUseCase() (*sales.SaleUseCase, *memory.Store) {
	store := memory.NewDemoStore(now.AddDate(0, 0, -1))
	uc := sales.NewSaleUseCase(store, store.Sales(), decimal.NewFromInt(10), nil).
		WithClock(func() time.Time { return now })
	return uc, store
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCreateSale_ClienteRegistrado(t *testing.T) {
	uc, store := newUseCase()
	ctx := context.Background()
	before, err := store.Customers().GetByID(ctx, "cust-002")
	require.NoError(t, err)

	sale, err := uc.CreateSale(ctx, dto.CreateSaleRequest{
		CustomerID:    "cust-002",
		PaymentMethod: "card",
		Items:         []dto.CreateSaleItemRequest{{ProductID: "prod-001", Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, "SALE-1780309800000", sale.SaleNumber)
	assert.True(t, sale.Subtotal.Equal(dec("25.98")), sale.Subtotal.String())
	assert.True(t, sale.Tax.Equal(dec("2.6")), sale.Tax.String())
	assert.True(t, sale.Total.Equal(dec("28.58")), sale.Total.String())
	require.Len(t, sale.Items, 1)
	require.NotNil(t, sale.Items[0].Product)

	p, _ := store.GetByID(ctx, "prod-001")
	assert.Equal(t, 38, p.Stock)

	after, _ := store.Customers().GetByID(ctx, "cust-002")
	assert.Equal(t, before.VisitCount+1, after.VisitCount)
	assert.True(t, after.TotalSpent.Equal(before.TotalSpent.Add(dec("28.58"))))
	require.NotNil(t, after.LastVisit)
	assert.Equal(t, now, *after.LastVisit)

	history, _ := store.Sales().ListByCustomer(ctx, "cust-002")
	assert.Equal(t, sale.ID, history[0].ID, "la venta nueva es la más reciente")
}

func TestCreateSale_PrecioImpuestoYDescuentoExplicitos(t *testing.T) {
	uc, _ := newUseCase()
	price, tax := dec("10"), dec("0")

	sale, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		Discount: dec("1"),
		Items: []dto.CreateSaleItemRequest{
			{ProductID: "prod-005", Quantity: 3, UnitPrice: &price, Discount: dec("5"), Tax: &tax},
		},
	})
	require.NoError(t, err)

	assert.Nil(t, sale.CustomerID, "venta de paso")
	assert.Equal(t, "cash", sale.PaymentMethod)
	assert.True(t, sale.Subtotal.Equal(dec("25")))
	assert.True(t, sale.Total.Equal(dec("24")))
}

func TestCreateSale_StockInsuficienteHaceRollback(t *testing.T) {
	uc, store := newUseCase()
	ctx := context.Background()

	_, err := uc.CreateSale(ctx, dto.CreateSaleRequest{
		CustomerID: "cust-001",
		Items: []dto.CreateSaleItemRequest{
			{ProductID: "prod-001", Quantity: 1},
			{ProductID: "prod-004", Quantity: 1},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	p, _ := store.GetByID(ctx, "prod-001")
	assert.Equal(t, 40, p.Stock)
	all, _ := store.Sales().List(ctx, 0, 0)
	assert.Len(t, all, 10)
}

func TestCreateSale_Errores(t *testing.T) {
	cases := []struct {
		name string
		in   dto.CreateSaleRequest
		want error
	}{
		{"sin ítems", dto.CreateSaleRequest{}, domain.ErrInvalidInput},
		{"cantidad cero", dto.CreateSaleRequest{Items: []dto.CreateSaleItemRequest{{ProductID: "prod-001"}}}, domain.ErrInvalidInput},
		{"pago desconocido", dto.CreateSaleRequest{PaymentMethod: "bitcoin", Items: []dto.CreateSaleItemRequest{{ProductID: "prod-001", Quantity: 1}}}, domain.ErrInvalidInput},
		{"producto inexistente", dto.CreateSaleRequest{Items: []dto.CreateSaleItemRequest{{ProductID: "nope", Quantity: 1}}}, domain.ErrNotFound},
		{"cliente inexistente", dto.CreateSaleRequest{CustomerID: "ghost", Items: []dto.CreateSaleItemRequest{{ProductID: "prod-001", Quantity: 1}}}, domain.ErrNotFound},
		{"descuento excesivo", dto.CreateSaleRequest{Discount: dec("1000"), Items: []dto.CreateSaleItemRequest{{ProductID: "prod-001", Quantity: 1}}}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc, _ := newUseCase()
			_, err := uc.CreateSale(context.Background(), tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestListSales(t *testing.T) {
	uc, _ := newUseCase()

	list, err := uc.ListSales(context.Background(), dto.PageRequest{Limit: 3})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.False(t, list[0].CreatedAt.Before(list[1].CreatedAt))
}
