package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadProducts(t *testing.T) {
	in := "SKU,Name,Category,Price,Cost,Stock,min_stock\n" +
		"B-1,Samsung 18650 Battery,Batteries,12.99,7.80,40,10\n" +
		"C-1,Kanthal A1 Wire,,3.5,,,\n" +
		",sin sku,Coils,1,,,\n"

	got, err := readProducts(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Samsung 18650 Battery", got[0].name)
	assert.Equal(t, "12.99", got[0].price.StringFixed(2))
	assert.True(t, got[0].cost.Valid)
	assert.Equal(t, 40, got[0].stock)
	assert.Equal(t, 10, got[0].minStock)

	assert.Equal(t, "General", got[1].category)
	assert.False(t, got[1].cost.Valid)
	assert.Zero(t, got[1].stock)

	again, err := readProducts(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, got[0].id, again[0].id, "id estable por sku")
	assert.NotEqual(t, got[0].id, got[1].id)
}

func TestReadProducts_Errors(t *testing.T) {
	cases := map[string]string{
		"sin columna price": "name,sku\nx,y\n",
		"price inválido":    "name,sku,price\nx,y,abc\n",
		"stock negativo":    "name,sku,price,stock\nx,y,1,-2\n",
		"sku repetido":      "name,sku,price\nx,y,1\nz,y,2\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := readProducts(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestDecodeCharset_Latin1(t *testing.T) {
	// "Líquido" en ISO-8859-1
	raw := []byte("name,sku,price\nL\xedquido,E-1,9.99\n")
	b, err := io.ReadAll(decodeCharset(raw))
	require.NoError(t, err)
	assert.Contains(t, string(b), "Líquido")

	bom := append([]byte("\xef\xbb\xbf"), []byte("name,sku,price\n")...)
	b, err = io.ReadAll(decodeCharset(bom))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "name"))
}

func TestWriteSQL(t *testing.T) {
	products, err := readProducts(strings.NewReader("name,sku,price,cost\nO'Brien Mod,M-1,69.9,\nTank,T-1,34.99,20\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeSQL(&buf, "productos.csv", products))
	sql := buf.String()

	assert.Contains(t, sql, "-- Generado desde productos.csv")
	assert.Contains(t, sql, "'O''Brien Mod', 'M-1', 'General', 69.90, NULL, 0, 0, ''),\n")
	assert.Contains(t, sql, "'Tank', 'T-1', 'General', 34.99, 20.00, 0, 0, '')\nON CONFLICT (sku)")
	assert.True(t, strings.HasSuffix(sql, "updated_at = now();\n"))
}
