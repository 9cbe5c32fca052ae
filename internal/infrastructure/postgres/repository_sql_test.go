package postgres

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-insights-api/internal/domain/entity"
	"github.com/jhoicas/pos-insights-api/internal/domain/repository"
)

type recordedQuery struct {
	sql  string
	args []any
}

// recordingQuerier registra el SQL y responde Query con los result sets encolados.
type recordingQuerier struct {
	queries []recordedQuery
	results [][][]any
}

func (q *recordingQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.queries = append(q.queries, recordedQuery{sql, args})
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (q *recordingQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.queries = append(q.queries, recordedQuery{sql, args})
	var rows [][]any
	if len(q.results) > 0 {
		rows, q.results = q.results[0], q.results[1:]
	}
	return &fakeRows{rows: rows, pos: -1}, nil
}

func (q *recordingQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	rows, _ := q.Query(context.Background(), sql, args...)
	return rows.(*fakeRows)
}

func (q *recordingQuerier) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	for _, qq := range b.QueuedQueries {
		q.queries = append(q.queries, recordedQuery{qq.SQL, qq.Arguments})
	}
	return fakeBatch{}
}

type fakeBatch struct{}

func (fakeBatch) Exec() (pgconn.CommandTag, error) { return pgconn.NewCommandTag("INSERT 0 1"), nil }
func (fakeBatch) Query() (pgx.Rows, error)         { return &fakeRows{pos: -1}, nil }
func (fakeBatch) QueryRow() pgx.Row                { return &fakeRows{pos: -1} }
func (fakeBatch) Close() error                     { return nil }

type fakeRows struct {
	rows [][]any
	pos  int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return r.rows[r.pos], nil }

func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos < len(r.rows)
}

// Scan copia cada valor en su destino; nil deja el valor cero.
func (r *fakeRows) Scan(dest ...any) error {
	if r.pos < 0 {
		r.pos = 0
	}
	if r.pos >= len(r.rows) {
		return pgx.ErrNoRows
	}
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		if v := r.rows[r.pos][i]; v != nil {
			target.Set(reflect.ValueOf(v))
		} else {
			target.Set(reflect.Zero(target.Type()))
		}
	}
	return nil
}

func productRow(id, name, category string) []any {
	at := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	return []any{id, name, "", "SKU-" + id, category, decimal.RequireFromString("3.99"),
		decimal.NullDecimal{}, 10, 2, true, "unit", "", "", at, at}
}

func TestProductRepo_ListSQL(t *testing.T) {
	t.Run("categorías, exclusiones y recientes primero", func(t *testing.T) {
		q := &recordingQuerier{}
		_, err := NewProductRepository(q).List(context.Background(), repository.ProductFilter{
			Categories:  []string{"Coils", "E-Liquids"},
			ExcludeIDs:  []string{"prod-001"},
			ActiveOnly:  true,
			InStockOnly: true,
			NewestFirst: true,
			Limit:       6,
		})
		require.NoError(t, err)
		require.Len(t, q.queries, 1)

		assert.Equal(t, `SELECT `+productColumns+` FROM products`+
			` WHERE active AND stock > 0 AND category = ANY($1) AND NOT (id = ANY($2))`+
			` ORDER BY created_at DESC, id LIMIT $3`, q.queries[0].sql)
		assert.Equal(t, []any{[]string{"Coils", "E-Liquids"}, []string{"prod-001"}, 6}, q.queries[0].args)
	})

	t.Run("búsqueda por texto", func(t *testing.T) {
		q := &recordingQuerier{}
		_, err := NewProductRepository(q).List(context.Background(), repository.ProductFilter{Query: " coil "})
		require.NoError(t, err)

		assert.Equal(t, `SELECT `+productColumns+` FROM products`+
			` WHERE (name ILIKE $1 OR sku ILIKE $1 OR category ILIKE $1 OR barcode ILIKE $1)`+
			` ORDER BY name, id`, q.queries[0].sql)
		assert.Equal(t, []any{"%coil%"}, q.queries[0].args)
	})

	t.Run("stock bajo sin filtros de texto", func(t *testing.T) {
		q := &recordingQuerier{results: [][][]any{{productRow("prod-002", "Sony VTC6", "Batteries")}}}
		list, err := NewProductRepository(q).List(context.Background(), repository.ProductFilter{
			ActiveOnly: true, LowStockOnly: true,
		})
		require.NoError(t, err)
		assert.Equal(t, `SELECT `+productColumns+` FROM products WHERE active AND stock <= min_stock ORDER BY name, id`,
			q.queries[0].sql)
		assert.Empty(t, q.queries[0].args)
		require.Len(t, list, 1)
		assert.Equal(t, "prod-002", list[0].ID)
	})
}

func TestSaleRepo_CreateGuardaPosicionDeLineas(t *testing.T) {
	q := &recordingQuerier{}
	sale := &entity.Sale{
		ID: "sale-1", SaleNumber: "SALE-1", PaymentMethod: entity.PaymentCash,
		Items: []entity.SaleItem{
			{ID: "f3a1", ProductID: "prod-005", Quantity: 1},
			{ID: "0b2c", ProductID: "prod-008", Quantity: 2},
		},
	}
	require.NoError(t, NewSaleRepository(q).Create(context.Background(), sale))
	require.Len(t, q.queries, 3)

	assert.Nil(t, q.queries[0].args[2], "cliente de paso se guarda como NULL")
	for i, line := range q.queries[1:] {
		assert.Contains(t, line.sql, "INSERT INTO sale_items (id, sale_id, position,")
		assert.Equal(t, sale.Items[i].ID, line.args[0])
		assert.Equal(t, i+1, line.args[2])
		assert.Equal(t, sale.Items[i].ProductID, line.args[3])
	}
}

func TestSaleRepo_ListByCustomerOrdenDeLineas(t *testing.T) {
	at := time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC)
	zero := decimal.Zero
	customer := "cust-001"
	q := &recordingQuerier{results: [][][]any{
		{{"sale-1", "SALE-1", &customer, zero, zero, zero, zero, "card", at}},
		// El id de las líneas no sigue el orden de venta: manda position.
		{
			{"f3a1", "sale-1", "prod-005", 1, zero, zero, zero, zero},
			{"0b2c", "sale-1", "prod-008", 1, zero, zero, zero, zero},
		},
		{productRow("prod-005", "Aspire Nautilus Coil", "Coils"), productRow("prod-008", "Naked Lava Flow", "E-Liquids")},
	}}

	sales, err := NewSaleRepository(q).ListByCustomer(context.Background(), customer)
	require.NoError(t, err)
	require.Len(t, q.queries, 3)

	assert.True(t, strings.HasSuffix(q.queries[0].sql, `WHERE customer_id = $1 ORDER BY created_at DESC, id`))
	assert.Contains(t, q.queries[1].sql, "ORDER BY sale_id, position")
	assert.Equal(t, []any{[]string{"prod-005", "prod-008"}}, q.queries[2].args)

	require.Len(t, sales, 1)
	assert.Equal(t, customer, sales[0].CustomerID)
	require.Len(t, sales[0].Items, 2)
	assert.Equal(t, "f3a1", sales[0].Items[0].ID)
	assert.Equal(t, "0b2c", sales[0].Items[1].ID)
	require.NotNil(t, sales[0].Items[0].Product)
	assert.Equal(t, "Coils", sales[0].Items[0].Product.Category)
}
