// Package insights agrega el historial de compras de un cliente en estadísticas
// por producto, categoría y marca. Es un fold puro en memoria: no hace I/O y se
// reconstruye en cada petición.
package insights

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-insights-api/internal/domain/entity"
)

// ProductStat frecuencia de compra de un producto.
// PurchaseCount cuenta ventas distintas que contienen el producto, no líneas:
// dos líneas del mismo producto en una venta suman una sola vez.
type ProductStat struct {
	Product         entity.Product
	PurchaseCount   int
	TotalQuantity   int
	TotalSpent      decimal.Decimal
	LastPurchasedAt time.Time
}

// CategoryCount número de líneas de venta de una categoría.
type CategoryCount struct {
	Category string
	Count    int
}

// BrandCount número de líneas de venta cuyo producto lleva la marca.
type BrandCount struct {
	Brand string
	Count int
}

// PurchaseStats resultado de Aggregate. Los órdenes de inserción se guardan aparte
// para que los empates en los rankings respeten el orden de recorrido de las ventas.
type PurchaseStats struct {
	products      map[string]*ProductStat
	productOrder  []string
	categories    map[string]int
	categoryOrder []string
	brands        map[string]int
	brandOrder    []string

	SaleCount    int
	SkippedLines int // líneas sin producto unido, ignoradas
}

var brandRe = regexp.MustCompile(`^[A-Za-z\s]+`)

// ExtractBrand toma el tramo inicial de letras y espacios del nombre como marca.
// "Samsung 18650 Battery" → "Samsung"; "510 Thread Battery" → ("", false).
func ExtractBrand(name string) (string, bool) {
	brand := strings.TrimSpace(brandRe.FindString(name))
	if brand == "" {
		return "", false
	}
	return brand, true
}

// Aggregate recorre las ventas (se esperan más recientes primero) y acumula las estadísticas.
// Una línea defectuosa se salta sin abortar el resto.
func Aggregate(sales []*entity.Sale) *PurchaseStats {
	st := &PurchaseStats{
		products:   make(map[string]*ProductStat),
		categories: make(map[string]int),
		brands:     make(map[string]int),
	}

	for _, sale := range sales {
		if sale == nil {
			continue
		}
		st.SaleCount++
		seen := make(map[string]bool, len(sale.Items))

		for i := range sale.Items {
			item := &sale.Items[i]
			if item.Product == nil || item.ProductID == "" {
				st.SkippedLines++
				continue
			}

			ps, ok := st.products[item.ProductID]
			if !ok {
				ps = &ProductStat{Product: *item.Product, TotalSpent: decimal.Zero}
				st.products[item.ProductID] = ps
				st.productOrder = append(st.productOrder, item.ProductID)
			}
			if !seen[item.ProductID] {
				seen[item.ProductID] = true
				ps.PurchaseCount++
			}
			ps.TotalQuantity += item.Quantity
			ps.TotalSpent = ps.TotalSpent.Add(item.Total)
			if sale.CreatedAt.After(ps.LastPurchasedAt) {
				ps.LastPurchasedAt = sale.CreatedAt
			}

			if cat := item.Product.Category; cat != "" {
				if _, ok := st.categories[cat]; !ok {
					st.categoryOrder = append(st.categoryOrder, cat)
				}
				st.categories[cat]++
			}

			if brand, ok := ExtractBrand(item.Product.Name); ok {
				if _, seenBrand := st.brands[brand]; !seenBrand {
					st.brandOrder = append(st.brandOrder, brand)
				}
				st.brands[brand]++
			}
		}
	}
	return st
}

// Product devuelve la estadística de un producto comprado.
func (s *PurchaseStats) Product(id string) (ProductStat, bool) {
	ps, ok := s.products[id]
	if !ok {
		return ProductStat{}, false
	}
	return *ps, true
}

// Products todas las estadísticas por producto en orden de primera aparición.
func (s *PurchaseStats) Products() []ProductStat {
	out := make([]ProductStat, 0, len(s.productOrder))
	for _, id := range s.productOrder {
		out = append(out, *s.products[id])
	}
	return out
}

// FavoriteProductIDs IDs de todos los productos que el cliente ya compró.
func (s *PurchaseStats) FavoriteProductIDs() []string {
	return append([]string(nil), s.productOrder...)
}

// TopProducts ranking descendente por PurchaseCount. n <= 0 devuelve todos.
func (s *PurchaseStats) TopProducts(n int) []ProductStat {
	out := s.Products()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PurchaseCount > out[j].PurchaseCount
	})
	return truncate(out, n)
}

// TopCategories ranking descendente por número de líneas. n <= 0 devuelve todas.
func (s *PurchaseStats) TopCategories(n int) []CategoryCount {
	out := make([]CategoryCount, 0, len(s.categoryOrder))
	for _, c := range s.categoryOrder {
		out = append(out, CategoryCount{Category: c, Count: s.categories[c]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return truncate(out, n)
}

// TopBrands ranking descendente por número de líneas. n <= 0 devuelve todas.
func (s *PurchaseStats) TopBrands(n int) []BrandCount {
	out := make([]BrandCount, 0, len(s.brandOrder))
	for _, b := range s.brandOrder {
		out = append(out, BrandCount{Brand: b, Count: s.brands[b]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return truncate(out, n)
}

// CategoryNames nombres de las n categorías principales.
func (s *PurchaseStats) CategoryNames(n int) []string {
	top := s.TopCategories(n)
	names := make([]string, len(top))
	for i, c := range top {
		names[i] = c.Category
	}
	return names
}

func truncate[T any](in []T, n int) []T {
	if n > 0 && len(in) > n {
		return in[:n]
	}
	return in
}
