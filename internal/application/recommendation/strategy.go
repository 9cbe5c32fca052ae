package recommendation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/pos-insights-api/internal/domain"
	"github.com/jhoicas/pos-insights-api/internal/domain/entity"
	"github.com/jhoicas/pos-insights-api/internal/domain/insights"
	"github.com/jhoicas/pos-insights-api/internal/domain/repository"
)

// Input datos del cliente compartidos por las estrategias.
type Input struct {
	CustomerID    string
	Stats         *insights.PurchaseStats
	TopCategories []string
	Now           time.Time
}

// Strategy produce candidatos ordenados para un cliente.
type Strategy interface {
	Name() string
	Candidates(ctx context.Context, in Input) ([]*entity.Product, error)
}

// ── Reposición ────────────────────────────────────────────────────────────────

// Replenishment productos comprados de forma repetida cuya última compra
// tiene al menos ReplenishAfter de antigüedad.
type Replenishment struct {
	After    time.Duration
	MinCount int
	Limit    int
}

func (Replenishment) Name() string { return "replenishment" }

func (r Replenishment) Candidates(_ context.Context, in Input) ([]*entity.Product, error) {
	stats := in.Stats.Products()
	due := make([]insights.ProductStat, 0, len(stats))
	for _, ps := range stats {
		if in.Now.Sub(ps.LastPurchasedAt) < r.After {
			continue
		}
		if ps.PurchaseCount < r.MinCount || !ps.Product.Available() {
			continue
		}
		due = append(due, ps)
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].PurchaseCount > due[j].PurchaseCount })

	out := make([]*entity.Product, 0, r.Limit)
	for _, ps := range due {
		if len(out) == r.Limit {
			break
		}
		p := ps.Product
		out = append(out, &p)
	}
	return out, nil
}

// ── Categorías favoritas ──────────────────────────────────────────────────────

// CategoryAffinity productos más recientes de las categorías favoritas que el
// cliente aún no ha comprado.
type CategoryAffinity struct {
	Products repository.ProductRepository
	Limit    int
}

func (CategoryAffinity) Name() string { return "new_in_favorites" }

func (c CategoryAffinity) Candidates(ctx context.Context, in Input) ([]*entity.Product, error) {
	if len(in.TopCategories) == 0 {
		return []*entity.Product{}, nil
	}
	list, err := c.Products.List(ctx, repository.ProductFilter{
		Categories:  in.TopCategories,
		ExcludeIDs:  in.Stats.FavoriteProductIDs(),
		ActiveOnly:  true,
		InStockOnly: true,
		NewestFirst: true,
		Limit:       c.Limit,
	})
	if err != nil {
		return nil, upstream("listar productos por categoría", err)
	}
	return list, nil
}

// ── Clientes similares ────────────────────────────────────────────────────────

// Collaborative puntúa los productos de las categorías favoritas según cuántas
// líneas de venta de otros clientes (incluidas ventas de paso) los contienen.
type Collaborative struct {
	Sales    repository.SaleRepository
	Products repository.ProductRepository
	Limit    int
}

func (Collaborative) Name() string { return "similar_customers" }

func (c Collaborative) Candidates(ctx context.Context, in Input) ([]*entity.Product, error) {
	if len(in.TopCategories) == 0 {
		return []*entity.Product{}, nil
	}
	others, err := c.Sales.ListExcludingCustomer(ctx, in.CustomerID)
	if err != nil {
		return nil, upstream("listar ventas de otros clientes", err)
	}

	cats := make(map[string]bool, len(in.TopCategories))
	for _, cat := range in.TopCategories {
		cats[cat] = true
	}
	owned := make(map[string]bool)
	for _, id := range in.Stats.FavoriteProductIDs() {
		owned[id] = true
	}

	scores := make(map[string]int)
	order := make([]string, 0)
	for _, sale := range others {
		for i := range sale.Items {
			item := &sale.Items[i]
			if item.Product == nil || owned[item.ProductID] || !cats[item.Product.Category] {
				continue
			}
			if _, ok := scores[item.ProductID]; !ok {
				order = append(order, item.ProductID)
			}
			scores[item.ProductID]++
		}
	}
	if len(order) == 0 {
		return []*entity.Product{}, nil
	}

	// El join de la venta puede estar desactualizado; se vuelve a leer el catálogo.
	current, err := c.Products.ListByIDs(ctx, order)
	if err != nil {
		return nil, upstream("releer productos puntuados", err)
	}
	out := make([]*entity.Product, 0, len(current))
	for _, p := range current {
		if p.Available() {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return scores[out[i].ID] > scores[out[j].ID] })
	if c.Limit > 0 && len(out) > c.Limit {
		out = out[:c.Limit]
	}
	return out, nil
}

func upstream(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrUpstreamUnavailable, err)
}
