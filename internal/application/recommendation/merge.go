package recommendation

import "github.com/jhoicas/pos-insights-api/internal/domain/entity"

// Merge concatena las listas en orden, descarta IDs repetidos (gana la primera
// aparición) y corta en limit.
func Merge(limit int, lists ...[]*entity.Product) []*entity.Product {
	seen := make(map[string]bool)
	out := make([]*entity.Product, 0, limit)
	for _, list := range lists {
		for _, p := range list {
			if len(out) == limit {
				return out
			}
			if p == nil || seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			out = append(out, p)
		}
	}
	return out
}
