package insights_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-insights-api/internal/domain/entity"
	"github.com/jhoicas/pos-insights-api/internal/domain/insights"
)

var (
	battery = entity.Product{ID: "p1", Name: "Samsung 18650 Battery", Category: "Batteries", Active: true, Stock: 10}
	coil    = entity.Product{ID: "p2", Name: "Aspire Nautilus Coil", Category: "Coils", Active: true, Stock: 5}
	thread  = entity.Product{ID: "p3", Name: "510 Thread Battery", Category: "Batteries", Active: true, Stock: 3}
	juice   = entity.Product{ID: "p4", Name: "Naked Lava Flow", Category: "E-Liquids", Active: true, Stock: 8}
)

func line(p entity.Product, qty int, total int64) entity.SaleItem {
	prod := p
	return entity.SaleItem{ProductID: p.ID, Product: &prod, Quantity: qty, Total: decimal.NewFromInt(total)}
}

func sale(at time.Time, items ...entity.SaleItem) *entity.Sale {
	return &entity.Sale{CreatedAt: at, Items: items}
}

func TestExtractBrand(t *testing.T) {
	cases := []struct {
		name  string
		brand string
		ok    bool
	}{
		{"Samsung 18650 Battery", "Samsung", true},
		{"510 Thread Battery", "", false},
		{"Aspire Nautilus Coil", "Aspire Nautilus Coil", true},
		{"  ", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			brand, ok := insights.ExtractBrand(tc.name)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.brand, brand)
		})
	}
}

func TestAggregate_SinVentas(t *testing.T) {
	st := insights.Aggregate(nil)

	assert.Empty(t, st.TopProducts(5))
	assert.Empty(t, st.TopCategories(5))
	assert.Empty(t, st.TopBrands(3))
	assert.Empty(t, st.FavoriteProductIDs())
	assert.Zero(t, st.SaleCount)
}

func TestAggregate_ProductStats(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sales := []*entity.Sale{
		sale(now, line(battery, 2, 20), line(battery, 1, 10), line(coil, 1, 5)),
		sale(now.AddDate(0, 0, -10), line(battery, 1, 10)),
	}

	st := insights.Aggregate(sales)

	ps, ok := st.Product("p1")
	require.True(t, ok)
	assert.Equal(t, 2, ps.PurchaseCount, "dos líneas en la misma venta cuentan una vez")
	assert.Equal(t, 4, ps.TotalQuantity)
	assert.True(t, ps.TotalSpent.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, now, ps.LastPurchasedAt)

	assert.Equal(t, []string{"p1", "p2"}, st.FavoriteProductIDs())
	assert.Equal(t, 2, st.SaleCount)
}

func TestAggregate_CategoriasOrdenEstable(t *testing.T) {
	now := time.Now()
	sales := []*entity.Sale{
		sale(now, line(coil, 1, 5), line(juice, 1, 20)),
		sale(now, line(battery, 1, 10), line(thread, 1, 10)),
		sale(now, line(juice, 1, 20), line(coil, 1, 5)),
	}

	st := insights.Aggregate(sales)
	top := st.TopCategories(5)

	require.Len(t, top, 3)
	// Coils y E-Liquids empatan con Batteries (2 líneas cada una): se respeta el orden de aparición.
	assert.Equal(t, []insights.CategoryCount{
		{Category: "Coils", Count: 2},
		{Category: "E-Liquids", Count: 2},
		{Category: "Batteries", Count: 2},
	}, top)
	assert.Equal(t, []string{"Coils"}, st.CategoryNames(1))
}

func TestAggregate_CategoriasDescendentes(t *testing.T) {
	now := time.Now()
	sales := []*entity.Sale{
		sale(now, line(coil, 1, 5)),
		sale(now, line(battery, 1, 10), line(thread, 1, 10), line(juice, 1, 20)),
		sale(now, line(battery, 1, 10)),
	}

	top := insights.Aggregate(sales).TopCategories(5)

	require.NotEmpty(t, top)
	assert.Equal(t, "Batteries", top[0].Category)
	assert.Equal(t, 3, top[0].Count)
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].Count, top[i].Count)
	}
}

func TestAggregate_MarcasSinLetrasIniciales(t *testing.T) {
	st := insights.Aggregate([]*entity.Sale{
		sale(time.Now(), line(battery, 1, 10), line(thread, 1, 10), line(battery, 1, 10)),
	})

	assert.Equal(t, []insights.BrandCount{{Brand: "Samsung", Count: 2}}, st.TopBrands(3))
}

func TestAggregate_LineaSinProductoSeSalta(t *testing.T) {
	broken := entity.SaleItem{ProductID: "ghost", Quantity: 1, Total: decimal.NewFromInt(99)}
	st := insights.Aggregate([]*entity.Sale{
		sale(time.Now(), broken, line(coil, 1, 5)),
	})

	assert.Equal(t, 1, st.SkippedLines)
	assert.Equal(t, []string{"p2"}, st.FavoriteProductIDs())
}

func TestAggregate_TopProductsLimit(t *testing.T) {
	now := time.Now()
	st := insights.Aggregate([]*entity.Sale{
		sale(now, line(coil, 1, 5), line(battery, 1, 10)),
		sale(now, line(battery, 1, 10)),
		sale(now, line(juice, 1, 20)),
	})

	top := st.TopProducts(2)
	require.Len(t, top, 2)
	assert.Equal(t, "p1", top[0].Product.ID)
	assert.Equal(t, "p2", top[1].Product.ID, "empate coil/juice: gana el primero visto")
}

func TestAvgPurchaseGapDays(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, ok := insights.AvgPurchaseGapDays([]*entity.Sale{sale(base)})
	assert.False(t, ok)

	avg, ok := insights.AvgPurchaseGapDays([]*entity.Sale{
		sale(base.AddDate(0, 0, 10)),
		sale(base),
		sale(base.AddDate(0, 0, 4)),
	})
	require.True(t, ok)
	assert.InDelta(t, 5.0, avg, 0.0001)
}

func TestDaysBetween(t *testing.T) {
	from := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, 13, insights.DaysBetween(from, from.Add(14*24*time.Hour-time.Minute)))
	assert.Equal(t, 14, insights.DaysBetween(from, from.Add(14*24*time.Hour)))
}
