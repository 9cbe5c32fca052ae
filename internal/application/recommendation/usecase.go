package recommendation

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/pos-insights-api/internal/application/dto"
	"github.com/jhoicas/pos-insights-api/internal/domain"
	"github.com/jhoicas/pos-insights-api/internal/domain/entity"
	"github.com/jhoicas/pos-insights-api/internal/domain/insights"
	"github.com/jhoicas/pos-insights-api/internal/domain/repository"
	"github.com/jhoicas/pos-insights-api/pkg/logger"
)

// RecommendationUseCase arma las recomendaciones e indicadores de un cliente.
// No guarda estado entre peticiones: todo se recalcula desde el catálogo.
type RecommendationUseCase struct {
	customers repository.CustomerRepository
	sales     repository.SaleRepository
	products  repository.ProductRepository
	tuning    Tuning
	log       *logger.Logger
	now       func() time.Time
}

// NewRecommendationUseCase construye el caso de uso. Los campos de tuning en cero toman el valor por defecto.
func NewRecommendationUseCase(
	customers repository.CustomerRepository,
	sales repository.SaleRepository,
	products repository.ProductRepository,
	tuning Tuning,
	log *logger.Logger,
) *RecommendationUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &RecommendationUseCase{
		customers: customers,
		sales:     sales,
		products:  products,
		tuning:    tuning.withDefaults(),
		log:       log.Component("recommendation"),
		now:       time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *RecommendationUseCase) WithClock(now func() time.Time) *RecommendationUseCase {
	uc.now = now
	return uc
}

// customerHistory cliente con sus ventas y el agregado de esas ventas.
type customerHistory struct {
	customer *entity.Customer
	sales    []*entity.Sale
	stats    *insights.PurchaseStats
}

func (uc *RecommendationUseCase) loadHistory(ctx context.Context, customerID string) (*customerHistory, error) {
	customer, err := uc.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, upstream("obtener cliente", err)
	}
	if customer == nil {
		return nil, fmt.Errorf("cliente %s: %w", customerID, domain.ErrNotFound)
	}
	sales, err := uc.sales.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, upstream("listar ventas del cliente", err)
	}
	stats := insights.Aggregate(sales)
	if stats.SkippedLines > 0 {
		uc.log.Warn().Str("customer_id", customerID).Int("skipped_lines", stats.SkippedLines).
			Msg("líneas de venta sin producto ignoradas")
	}
	return &customerHistory{customer: customer, sales: sales, stats: stats}, nil
}

// GetRecommendations hasta MergeLimit productos para el cliente, con los indicadores
// que los explican y cuántos candidatos aportó cada estrategia antes de deduplicar.
func (uc *RecommendationUseCase) GetRecommendations(ctx context.Context, customerID string) (*dto.CustomerRecommendationsDTO, error) {
	h, err := uc.loadHistory(ctx, customerID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	t := uc.tuning

	in := Input{
		CustomerID:    customerID,
		Stats:         h.stats,
		TopCategories: h.stats.CategoryNames(t.TopCategories),
		Now:           now,
	}
	strategies := []Strategy{
		Replenishment{After: t.ReplenishAfter, MinCount: t.MinRepeatPurchases, Limit: t.ReplenishmentLimit},
		CategoryAffinity{Products: uc.products, Limit: t.CategoryLimit},
		Collaborative{Sales: uc.sales, Products: uc.products, Limit: t.CollaborativeLimit},
	}

	// Las estrategias son independientes; cada una escribe en su propia posición.
	results := make([][]*entity.Product, len(strategies))
	g, gctx := errgroup.WithContext(ctx)
	for i, s := range strategies {
		g.Go(func() error {
			list, err := s.Candidates(gctx, in)
			if err != nil {
				return fmt.Errorf("estrategia %s: %w", s.Name(), err)
			}
			results[i] = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := Merge(t.MergeLimit, results...)

	return &dto.CustomerRecommendationsDTO{
		Customer: dto.NewCustomerSummaryDTO(h.customer),
		Insights: dto.RecommendationInsightsDTO{
			AvgOrderValue:      averageOf(h.customer.TotalSpent, len(h.sales)),
			DaysSinceLastVisit: daysSince(h.customer.LastVisit, now),
			TopProducts:        topProductDTOs(h.stats.TopProducts(t.TopProducts)),
			FavoriteCategories: categoryDTOs(h.stats.TopCategories(t.TopCategories)),
			FavoriteBrands:     brandDTOs(h.stats.TopBrands(t.TopBrands)),
		},
		Recommendations: dto.NewProductDTOs(merged),
		RecommendationReasons: dto.RecommendationReasonsDTO{
			Replenishment:    len(results[0]),
			NewInFavorites:   len(results[1]),
			SimilarCustomers: len(results[2]),
		},
	}, nil
}

// GetCustomerInsights historial completo del cliente con métricas agregadas y
// novedades de sus categorías principales.
func (uc *RecommendationUseCase) GetCustomerInsights(ctx context.Context, customerID string) (*dto.CustomerInsightsDTO, error) {
	h, err := uc.loadHistory(ctx, customerID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	t := uc.tuning

	sum := decimal.Zero
	for _, s := range h.sales {
		sum = sum.Add(s.Total)
	}

	var freq *float64
	if avg, ok := insights.AvgPurchaseGapDays(h.sales); ok {
		freq = &avg
	}

	recs, err := CategoryAffinity{Products: uc.products, Limit: t.MergeLimit}.Candidates(ctx, Input{
		CustomerID:    customerID,
		Stats:         h.stats,
		TopCategories: h.stats.CategoryNames(t.InsightsCategories),
		Now:           now,
	})
	if err != nil {
		return nil, err
	}

	return &dto.CustomerInsightsDTO{
		Customer:        dto.NewCustomerDTO(h.customer),
		PurchaseHistory: dto.NewSaleDTOs(h.sales),
		Insights: dto.PurchaseInsightsDTO{
			TotalPurchases:           len(h.sales),
			TotalSpent:               h.customer.TotalSpent,
			AvgOrderValue:            averageOf(sum, len(h.sales)),
			DaysSinceLastVisit:       daysSince(h.customer.LastVisit, now),
			AvgPurchaseFrequencyDays: freq,
			TopProducts:              topProductDTOs(h.stats.TopProducts(t.InsightsTopProducts)),
			FavoriteCategories:       categoryDTOs(h.stats.TopCategories(0)),
		},
		Recommendations: dto.NewProductDTOs(recs),
	}, nil
}

// RecommendAll recomendaciones para todos los clientes, en el orden del listado.
// Procesa hasta FanOut clientes en paralelo; el primer error cancela el resto.
func (uc *RecommendationUseCase) RecommendAll(ctx context.Context) ([]dto.CustomerRecommendationsDTO, error) {
	customers, err := uc.customers.List(ctx, "", 0, 0)
	if err != nil {
		return nil, upstream("listar clientes", err)
	}

	out := make([]dto.CustomerRecommendationsDTO, len(customers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.tuning.FanOut)
	for i, c := range customers {
		g.Go(func() error {
			rec, err := uc.GetRecommendations(gctx, c.ID)
			if err != nil {
				return err
			}
			out[i] = *rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	uc.log.Debug().Int("customers", len(out)).Msg("recomendaciones generadas para todos los clientes")
	return out, nil
}

func averageOf(total decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(n))).Round(2)
}

func daysSince(last *time.Time, now time.Time) *int {
	if last == nil {
		return nil
	}
	d := insights.DaysBetween(*last, now)
	return &d
}

func topProductDTOs(stats []insights.ProductStat) []dto.TopProductDTO {
	out := make([]dto.TopProductDTO, 0, len(stats))
	for _, ps := range stats {
		p := ps.Product
		out = append(out, dto.TopProductDTO{
			ProductDTO:    dto.NewProductDTO(&p),
			PurchaseCount: ps.PurchaseCount,
			TotalQuantity: ps.TotalQuantity,
			TotalSpent:    ps.TotalSpent,
			LastPurchased: ps.LastPurchasedAt,
		})
	}
	return out
}

func categoryDTOs(cats []insights.CategoryCount) []dto.CategoryCountDTO {
	out := make([]dto.CategoryCountDTO, 0, len(cats))
	for _, c := range cats {
		out = append(out, dto.CategoryCountDTO{Category: c.Category, Count: c.Count})
	}
	return out
}

func brandDTOs(brands []insights.BrandCount) []dto.BrandCountDTO {
	out := make([]dto.BrandCountDTO, 0, len(brands))
	for _, b := range brands {
		out = append(out, dto.BrandCountDTO{Brand: b.Brand, Count: b.Count})
	}
	return out
}
