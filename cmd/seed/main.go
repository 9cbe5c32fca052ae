// seed genera el script SQL que carga el catálogo inicial de productos
// a partir de un CSV exportado del POS (UTF-8 o ISO-8859-1).
//
// Uso: go run ./cmd/seed [ruta/productos.csv]
// Por defecto busca productos.csv en el directorio actual.
// Columnas: name, sku, category, price, cost, stock, min_stock, barcode (con cabecera, en cualquier orden).
// Escribe: internal/infrastructure/postgres/migrations/002_seed_products.sql
package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type seedProduct struct {
	id, name, sku, category, barcode string
	price                            decimal.Decimal
	cost                             decimal.NullDecimal
	stock, minStock                  int
}

func main() {
	csvPath := "productos.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	raw, err := os.ReadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}

	products, err := readProducts(decodeCharset(raw))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "002_seed_products.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, filepath.Base(csvPath), products); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d productos\n", outPath, len(products))
}

// decodeCharset los exportes de caja antiguos vienen en Latin-1.
func decodeCharset(raw []byte) io.Reader {
	if utf8.Valid(raw) {
		return bytes.NewReader(bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf")))
	}
	return transform.NewReader(bytes.NewReader(raw), charmap.ISO8859_1.NewDecoder())
}

func readProducts(r io.Reader) ([]seedProduct, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cabecera: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"name", "sku", "price"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("falta la columna %q", required)
		}
	}
	get := func(rec []string, name string) string {
		if i, ok := col[name]; ok && i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	var out []seedProduct
	seen := make(map[string]bool)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		sku := get(rec, "sku")
		if sku == "" || get(rec, "name") == "" {
			continue
		}
		if seen[sku] {
			return nil, fmt.Errorf("línea %d: sku %s repetido", line, sku)
		}
		seen[sku] = true

		p := seedProduct{
			id:       uuid.NewSHA1(uuid.NameSpaceOID, []byte("product:"+sku)).String(),
			name:     get(rec, "name"),
			sku:      sku,
			category: get(rec, "category"),
			barcode:  get(rec, "barcode"),
		}
		if p.category == "" {
			p.category = "General"
		}
		if p.price, err = decimal.NewFromString(get(rec, "price")); err != nil || p.price.IsNegative() {
			return nil, fmt.Errorf("línea %d: price inválido %q", line, get(rec, "price"))
		}
		if c := get(rec, "cost"); c != "" {
			cost, err := decimal.NewFromString(c)
			if err != nil {
				return nil, fmt.Errorf("línea %d: cost inválido %q", line, c)
			}
			p.cost = decimal.NewNullDecimal(cost)
		}
		if p.stock, err = atoiOrZero(get(rec, "stock")); err != nil {
			return nil, fmt.Errorf("línea %d: stock: %w", line, err)
		}
		if p.minStock, err = atoiOrZero(get(rec, "min_stock")); err != nil {
			return nil, fmt.Errorf("línea %d: min_stock: %w", line, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func writeSQL(w io.Writer, source string, products []seedProduct) error {
	var b strings.Builder
	b.WriteString("-- Catálogo inicial de productos\n")
	fmt.Fprintf(&b, "-- Generado desde %s\n\n", source)
	if len(products) == 0 {
		b.WriteString("-- (sin productos)\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	b.WriteString("INSERT INTO products (id, name, sku, category, price, cost, stock, min_stock, barcode) VALUES\n")
	for i, p := range products {
		cost := "NULL"
		if p.cost.Valid {
			cost = p.cost.Decimal.StringFixed(2)
		}
		fmt.Fprintf(&b, "  ('%s', '%s', '%s', '%s', %s, %s, %d, %d, '%s')",
			p.id, escapeSQL(p.name), escapeSQL(p.sku), escapeSQL(p.category),
			p.price.StringFixed(2), cost, p.stock, p.minStock, escapeSQL(p.barcode))
		if i < len(products)-1 {
			b.WriteString(",\n")
		} else {
			b.WriteString("\n")
		}
	}
	b.WriteString("ON CONFLICT (sku) DO UPDATE SET\n")
	b.WriteString("  name = EXCLUDED.name, category = EXCLUDED.category, price = EXCLUDED.price,\n")
	b.WriteString("  cost = EXCLUDED.cost, min_stock = EXCLUDED.min_stock, barcode = EXCLUDED.barcode,\n")
	b.WriteString("  updated_at = now();\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func atoiOrZero(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("valor inválido %q", s)
	}
	return n, nil
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
