package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-insights-api/internal/domain/entity"
	"github.com/jhoicas/pos-insights-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, sale_number, customer_id, subtotal, tax, discount, total, payment_method, created_at`

// SaleRepo implementación de SaleRepository (usable con pool o tx).
// Las lecturas cargan cabeceras, líneas y productos en tres consultas.
type SaleRepo struct {
	q        Querier
	products *ProductRepo
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q, products: NewProductRepository(q)}
}

// Create inserta la cabecera y las líneas en un mismo batch.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO sales (`+saleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.SaleNumber, nullIfEmpty(s.CustomerID), s.Subtotal, s.Tax, s.Discount, s.Total,
		s.PaymentMethod, s.CreatedAt,
	)
	// position conserva el orden de las líneas (1..n).
	for i, it := range s.Items {
		batch.Queue(`
			INSERT INTO sale_items (id, sale_id, position, product_id, quantity, unit_price, discount, tax, total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			it.ID, s.ID, i+1, it.ProductID, it.Quantity, it.UnitPrice, it.Discount, it.Tax, it.Total,
		)
	}

	br := r.q.SendBatch(ctx, batch)
	for range batch.Len() {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("insert sale: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// List ventas más recientes primero. limit 0 = sin límite.
func (r *SaleRepo) List(ctx context.Context, limit, offset int) ([]*entity.Sale, error) {
	return r.load(ctx, `ORDER BY created_at DESC, id LIMIT NULLIF($1::int, 0) OFFSET $2`, limit, max(offset, 0))
}

// ListByCustomer historial completo del cliente.
func (r *SaleRepo) ListByCustomer(ctx context.Context, customerID string) ([]*entity.Sale, error) {
	return r.load(ctx, `WHERE customer_id = $1 ORDER BY created_at DESC, id`, customerID)
}

// ListExcludingCustomer ventas de otros clientes y de clientes de paso.
func (r *SaleRepo) ListExcludingCustomer(ctx context.Context, customerID string) ([]*entity.Sale, error) {
	return r.load(ctx, `WHERE customer_id IS DISTINCT FROM $1 ORDER BY created_at DESC, id`, customerID)
}

// ListBetween ventas con created_at en [from, to].
func (r *SaleRepo) ListBetween(ctx context.Context, from, to time.Time) ([]*entity.Sale, error) {
	return r.load(ctx, `WHERE created_at BETWEEN $1 AND $2 ORDER BY created_at DESC, id`, from, to)
}

func (r *SaleRepo) load(ctx context.Context, tail string, args ...any) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx, `SELECT `+saleColumns+` FROM sales `+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	sales := make([]*entity.Sale, 0)
	byID := make(map[string]*entity.Sale)
	for rows.Next() {
		var (
			s          entity.Sale
			customerID *string
		)
		if err := rows.Scan(&s.ID, &s.SaleNumber, &customerID, &s.Subtotal, &s.Tax, &s.Discount,
			&s.Total, &s.PaymentMethod, &s.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		if customerID != nil {
			s.CustomerID = *customerID
		}
		sales = append(sales, &s)
		byID[s.ID] = &s
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	if len(sales) == 0 {
		return sales, nil
	}

	if err := r.attachItems(ctx, byID); err != nil {
		return nil, err
	}
	return sales, nil
}

// attachItems carga las líneas de las ventas y une el producto de cada una.
func (r *SaleRepo) attachItems(ctx context.Context, byID map[string]*entity.Sale) error {
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, quantity, unit_price, discount, tax, total
		FROM sale_items WHERE sale_id = ANY($1) ORDER BY sale_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list sale items: %w", err)
	}

	var productIDs []string
	seen := make(map[string]bool)
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice,
			&it.Discount, &it.Tax, &it.Total); err != nil {
			rows.Close()
			return fmt.Errorf("scan sale item: %w", err)
		}
		s := byID[it.SaleID]
		s.Items = append(s.Items, it)
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			productIDs = append(productIDs, it.ProductID)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list sale items: %w", err)
	}

	products, err := r.products.ListByIDs(ctx, productIDs)
	if err != nil {
		return err
	}
	catalog := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		catalog[p.ID] = p
	}
	for _, s := range byID {
		for i := range s.Items {
			if p, ok := catalog[s.Items[i].ProductID]; ok {
				cp := *p
				s.Items[i].Product = &cp
			}
		}
	}
	return nil
}
