// Package recommendation combina tres estrategias de candidatos (reposición,
// novedades en categorías favoritas y clientes similares) en una sola lista
// deduplicada por cliente.
package recommendation

import "time"

// Tuning constantes de ajuste del motor. main.go lo construye desde config.
type Tuning struct {
	ReplenishAfter     time.Duration
	MinRepeatPurchases int
	ReplenishmentLimit int
	CategoryLimit      int
	CollaborativeLimit int
	MergeLimit         int
	TopProducts        int
	TopCategories      int
	TopBrands          int
	FanOut             int
	// InsightsCategories categorías usadas por las recomendaciones de GET /insights.
	InsightsCategories int
	// InsightsTopProducts tamaño de topProducts en GET /insights.
	InsightsTopProducts int
}

// DefaultTuning valores observados en la tienda de referencia.
func DefaultTuning() Tuning {
	return Tuning{
		ReplenishAfter:      14 * 24 * time.Hour,
		MinRepeatPurchases:  2,
		ReplenishmentLimit:  4,
		CategoryLimit:       6,
		CollaborativeLimit:  6,
		MergeLimit:          12,
		TopProducts:         5,
		TopCategories:       5,
		TopBrands:           3,
		FanOut:              8,
		InsightsCategories:  3,
		InsightsTopProducts: 10,
	}
}

func (t Tuning) withDefaults() Tuning {
	d := DefaultTuning()
	if t.ReplenishAfter <= 0 {
		t.ReplenishAfter = d.ReplenishAfter
	}
	if t.MinRepeatPurchases <= 0 {
		t.MinRepeatPurchases = d.MinRepeatPurchases
	}
	if t.ReplenishmentLimit <= 0 {
		t.ReplenishmentLimit = d.ReplenishmentLimit
	}
	if t.CategoryLimit <= 0 {
		t.CategoryLimit = d.CategoryLimit
	}
	if t.CollaborativeLimit <= 0 {
		t.CollaborativeLimit = d.CollaborativeLimit
	}
	if t.MergeLimit <= 0 {
		t.MergeLimit = d.MergeLimit
	}
	if t.TopProducts <= 0 {
		t.TopProducts = d.TopProducts
	}
	if t.TopCategories <= 0 {
		t.TopCategories = d.TopCategories
	}
	if t.TopBrands <= 0 {
		t.TopBrands = d.TopBrands
	}
	if t.FanOut <= 0 {
		t.FanOut = d.FanOut
	}
	if t.InsightsCategories <= 0 {
		t.InsightsCategories = d.InsightsCategories
	}
	if t.InsightsTopProducts <= 0 {
		t.InsightsTopProducts = d.InsightsTopProducts
	}
	return t
}
