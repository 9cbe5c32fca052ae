// Package memory implementa los puertos de persistencia del catálogo en memoria.
// Se usa cuando no hay PostgreSQL configurado (modo demostración) y en los tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-insights-api/internal/domain"
	"github.com/jhoicas/pos-insights-api/internal/domain/entity"
	"github.com/jhoicas/pos-insights-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository  = (*Store)(nil)
	_ repository.CustomerRepository = customerView{}
	_ repository.SaleRepository     = saleView{}
)

// Store catálogo en memoria seguro para uso concurrente.
// Todas las lecturas devuelven copias; nada de lo que devuelve comparte memoria con el store.
type Store struct {
	mu        sync.RWMutex
	txMu      sync.Mutex
	products  map[string]entity.Product
	customers map[string]entity.Customer
	sales     []entity.Sale
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		products:  make(map[string]entity.Product),
		customers: make(map[string]entity.Customer),
	}
}

// ── Productos ─────────────────────────────────────────────────────────────────

// Create persiste un nuevo producto.
func (s *Store) Create(_ context.Context, p *entity.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, existing := range s.products {
		if p.SKU != "" && existing.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	s.products[p.ID] = *p
	return nil
}

// GetByID obtiene un producto por ID; (nil, nil) si no existe.
func (s *Store) GetByID(_ context.Context, id string) (*entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// ListByIDs devuelve los productos existentes entre ids, en el orden pedido.
func (s *Store) ListByIDs(_ context.Context, ids []string) ([]*entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out = append(out, &p)
		}
	}
	return out, nil
}

// List aplica el filtro sobre el catálogo.
func (s *Store) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cats := toSet(f.Categories)
	excluded := toSet(f.ExcludeIDs)
	q := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]*entity.Product, 0)
	for _, p := range s.products {
		if f.ActiveOnly && !p.Active {
			continue
		}
		if f.InStockOnly && p.Stock <= 0 {
			continue
		}
		if f.LowStockOnly && !p.IsLowStock() {
			continue
		}
		if len(cats) > 0 && !cats[p.Category] {
			continue
		}
		if excluded[p.ID] {
			continue
		}
		if q != "" && !matchesProduct(p, q) {
			continue
		}
		p := p
		out = append(out, &p)
	}

	if f.NewestFirst {
		sort.Slice(out, func(i, j int) bool {
			if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].ID < out[j].ID
		})
	} else {
		sort.Slice(out, func(i, j int) bool {
			if out[i].Name != out[j].Name {
				return out[i].Name < out[j].Name
			}
			return out[i].ID < out[j].ID
		})
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// DecrementStock resta qty del stock del producto.
func (s *Store) DecrementStock(_ context.Context, productID string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	if p.Stock < qty {
		return domain.ErrInsufficientStock
	}
	p.Stock -= qty
	p.UpdatedAt = time.Now()
	s.products[productID] = p
	return nil
}

func matchesProduct(p entity.Product, q string) bool {
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.SKU), q) ||
		strings.Contains(strings.ToLower(p.Category), q) ||
		(p.Barcode != "" && strings.Contains(strings.ToLower(p.Barcode), q))
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// ── Transacciones ─────────────────────────────────────────────────────────────

// RunSale ejecuta fn de forma serializada entre transacciones. Si fn falla se deshacen
// solo las escrituras hechas por fn (registro de deshacer); las escrituras concurrentes
// fuera de RunSale se conservan. Las lecturas de otras peticiones ven la venta en curso.
func (s *Store) RunSale(_ context.Context, fn func(
	products repository.ProductRepository,
	customers repository.CustomerRepository,
	sales repository.SaleRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := &saleTx{s: s}
	if err := fn(txProducts{Store: s, tx: tx}, txCustomers{customerView: customerView{s}, tx: tx},
		txSales{saleView: saleView{s}, tx: tx}); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

// saleTx registro de deshacer de una venta en curso.
type saleTx struct {
	s    *Store
	undo []func(s *Store) // se ejecutan con mu tomado, en orden inverso
}

func (tx *saleTx) record(fn func(s *Store)) { tx.undo = append(tx.undo, fn) }

func (tx *saleTx) rollback() {
	tx.s.mu.Lock()
	defer tx.s.mu.Unlock()
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i](tx.s)
	}
	tx.undo = nil
}

type txProducts struct {
	*Store
	tx *saleTx
}

func (p txProducts) Create(ctx context.Context, prod *entity.Product) error {
	if err := p.Store.Create(ctx, prod); err != nil {
		return err
	}
	id := prod.ID
	p.tx.record(func(s *Store) { delete(s.products, id) })
	return nil
}

// DecrementStock se deshace sumando qty, así no pisa descuentos concurrentes.
func (p txProducts) DecrementStock(ctx context.Context, productID string, qty int) error {
	if err := p.Store.DecrementStock(ctx, productID, qty); err != nil {
		return err
	}
	p.tx.record(func(s *Store) {
		if prod, ok := s.products[productID]; ok {
			prod.Stock += qty
			s.products[productID] = prod
		}
	})
	return nil
}

type txCustomers struct {
	customerView
	tx *saleTx
}

func (c txCustomers) Create(ctx context.Context, cust *entity.Customer) error {
	if err := c.customerView.Create(ctx, cust); err != nil {
		return err
	}
	id := cust.ID
	c.tx.record(func(s *Store) { delete(s.customers, id) })
	return nil
}

func (c txCustomers) RecordVisit(_ context.Context, id string, amount decimal.Decimal, at time.Time) error {
	prev, err := c.s.recordVisit(id, amount, at)
	if err != nil {
		return err
	}
	c.tx.record(func(s *Store) {
		cur, ok := s.customers[id]
		if !ok {
			return
		}
		cur.TotalSpent = cur.TotalSpent.Sub(amount)
		cur.VisitCount--
		if cur.LastVisit != nil && cur.LastVisit.Equal(at) {
			cur.LastVisit = prev.LastVisit
			cur.UpdatedAt = prev.UpdatedAt
		}
		s.customers[id] = cur
	})
	return nil
}

type txSales struct {
	saleView
	tx *saleTx
}

func (v txSales) Create(ctx context.Context, sale *entity.Sale) error {
	if err := v.saleView.Create(ctx, sale); err != nil {
		return err
	}
	id := sale.ID
	v.tx.record(func(s *Store) {
		for i := range s.sales {
			if s.sales[i].ID == id {
				s.sales = append(s.sales[:i], s.sales[i+1:]...)
				return
			}
		}
	})
	return nil
}

// Customers expone el store como CustomerRepository.
func (s *Store) Customers() repository.CustomerRepository { return customerView{s} }

// Sales expone el store como SaleRepository.
func (s *Store) Sales() repository.SaleRepository { return saleView{s} }

// Products expone el store como ProductRepository.
func (s *Store) Products() repository.ProductRepository { return s }

// ── Clientes ──────────────────────────────────────────────────────────────────

// customerView separa los métodos de clientes, que colisionan en nombre con los de productos.
type customerView struct{ s *Store }

func (v customerView) Create(_ context.Context, c *entity.Customer) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if _, ok := v.s.customers[c.ID]; ok {
		return domain.ErrDuplicate
	}
	v.s.customers[c.ID] = *c
	return nil
}

func (v customerView) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	c, ok := v.s.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (v customerView) List(_ context.Context, query string, limit, offset int) ([]*entity.Customer, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]*entity.Customer, 0, len(v.s.customers))
	for _, c := range v.s.customers {
		if q != "" && !strings.Contains(strings.ToLower(c.Name), q) &&
			!strings.Contains(strings.ToLower(c.Email), q) &&
			!strings.Contains(c.Phone, q) {
			continue
		}
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return page(out, limit, offset), nil
}

func (v customerView) RecordVisit(_ context.Context, id string, amount decimal.Decimal, at time.Time) error {
	_, err := v.s.recordVisit(id, amount, at)
	return err
}

// recordVisit suma la visita y devuelve el cliente tal como estaba antes.
func (s *Store) recordVisit(id string, amount decimal.Decimal, at time.Time) (entity.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[id]
	if !ok {
		return entity.Customer{}, domain.ErrNotFound
	}
	prev := c
	c.TotalSpent = c.TotalSpent.Add(amount)
	c.VisitCount++
	visit := at
	c.LastVisit = &visit
	c.UpdatedAt = at
	s.customers[id] = c
	return prev, nil
}

// ── Ventas ────────────────────────────────────────────────────────────────────

type saleView struct{ s *Store }

func (v saleView) Create(_ context.Context, sale *entity.Sale) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	stored := *sale
	stored.Items = make([]entity.SaleItem, len(sale.Items))
	for i, it := range sale.Items {
		it.Product = nil // el join se resuelve en lectura
		stored.Items[i] = it
	}
	v.s.sales = append(v.s.sales, stored)
	return nil
}

func (v saleView) List(_ context.Context, limit, offset int) ([]*entity.Sale, error) {
	return page(v.filter(func(*entity.Sale) bool { return true }), limit, offset), nil
}

func (v saleView) ListByCustomer(_ context.Context, customerID string) ([]*entity.Sale, error) {
	return v.filter(func(s *entity.Sale) bool { return s.CustomerID == customerID }), nil
}

func (v saleView) ListExcludingCustomer(_ context.Context, customerID string) ([]*entity.Sale, error) {
	return v.filter(func(s *entity.Sale) bool { return s.CustomerID != customerID }), nil
}

func (v saleView) ListBetween(_ context.Context, from, to time.Time) ([]*entity.Sale, error) {
	return v.filter(func(s *entity.Sale) bool {
		return !s.CreatedAt.Before(from) && !s.CreatedAt.After(to)
	}), nil
}

// filter devuelve copias con el producto unido, más recientes primero.
func (v saleView) filter(keep func(*entity.Sale) bool) []*entity.Sale {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	out := make([]*entity.Sale, 0)
	for i := range v.s.sales {
		src := &v.s.sales[i]
		if !keep(src) {
			continue
		}
		cp := *src
		cp.Items = make([]entity.SaleItem, len(src.Items))
		for j, it := range src.Items {
			if p, ok := v.s.products[it.ProductID]; ok {
				p := p
				it.Product = &p
			}
			cp.Items[j] = it
		}
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func page[T any](in []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(in) {
			return in[:0]
		}
		in = in[offset:]
	}
	if limit > 0 && len(in) > limit {
		in = in[:limit]
	}
	return in
}
