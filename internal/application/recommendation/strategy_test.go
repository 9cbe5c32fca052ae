package recommendation_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-insights-api/internal/application/recommendation"
	"github.com/jhoicas/pos-insights-api/internal/domain/entity"
	"github.com/jhoicas/pos-insights-api/internal/domain/insights"
)

type bought struct {
	p  entity.Product
	at time.Time
}

func statsFor(lines ...bought) *insights.PurchaseStats {
	sales := make([]*entity.Sale, 0, len(lines))
	for _, l := range lines {
		p := l.p
		sales = append(sales, &entity.Sale{
			CreatedAt: l.at,
			Items:     []entity.SaleItem{{ProductID: p.ID, Product: &p, Quantity: 1, Total: decimal.NewFromInt(1)}},
		})
	}
	return insights.Aggregate(sales)
}

func TestReplenishment_NuncaMenosDelUmbral(t *testing.T) {
	fresh := entity.Product{ID: "fresh", Name: "Fresh", Active: true, Stock: 5}
	due := entity.Product{ID: "due", Name: "Due", Active: true, Stock: 5}
	once := entity.Product{ID: "once", Name: "Once", Active: true, Stock: 5}
	inactive := entity.Product{ID: "inactive", Name: "Inactive", Active: false, Stock: 5}

	stats := statsFor(
		bought{fresh, daysAgo(13)}, bought{fresh, daysAgo(40)},
		bought{due, daysAgo(14)}, bought{due, daysAgo(30)}, bought{due, daysAgo(50)},
		bought{once, daysAgo(60)},
		bought{inactive, daysAgo(20)}, bought{inactive, daysAgo(25)},
	)
	strategy := recommendation.Replenishment{After: 14 * 24 * time.Hour, MinCount: 2, Limit: 4}

	got, err := strategy.Candidates(context.Background(), recommendation.Input{Stats: stats, Now: now})
	require.NoError(t, err)

	assert.Equal(t, []string{"due"}, productIDs(got))
}

func TestReplenishment_OrdenPorFrecuenciaYLimite(t *testing.T) {
	a := entity.Product{ID: "a", Active: true, Stock: 1}
	b := entity.Product{ID: "b", Active: true, Stock: 1}
	c := entity.Product{ID: "c", Active: true, Stock: 1}
	stats := statsFor(
		bought{a, daysAgo(20)}, bought{a, daysAgo(21)},
		bought{b, daysAgo(20)}, bought{b, daysAgo(21)}, bought{b, daysAgo(22)},
		bought{c, daysAgo(20)}, bought{c, daysAgo(21)},
	)
	strategy := recommendation.Replenishment{After: 14 * 24 * time.Hour, MinCount: 2, Limit: 2}

	got, err := strategy.Candidates(context.Background(), recommendation.Input{Stats: stats, Now: now})
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a"}, productIDs(got))
}

func TestCategoryAffinity_SinCategoriasNoConsulta(t *testing.T) {
	strategy := recommendation.CategoryAffinity{Limit: 6} // Products nil: no debe usarse

	got, err := strategy.Candidates(context.Background(), recommendation.Input{Stats: insights.Aggregate(nil)})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCollaborative_ExcluyeCompradosYAgotados(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sales, err := f.store.Sales().ListByCustomer(ctx, "c1")
	require.NoError(t, err)

	strategy := recommendation.Collaborative{Sales: f.store.Sales(), Products: f.store, Limit: 6}
	got, err := strategy.Candidates(ctx, recommendation.Input{
		CustomerID:    "c1",
		Stats:         insights.Aggregate(sales),
		TopCategories: []string{"Coils"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"coil2"}, productIDs(got))
}
