package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestParseCatalog_Latin1ConPuntoYComa(t *testing.T) {
	src := "nombre;codigo_barras;categoria;precio;costo;cantidad;stock_minimo;vencimiento\n" +
		"Café molido 500g;7701234;BEBIDAS CALIENTES;12.500,00;8.000;20;5;31/12/2026\n" +
		"Pan tajado;;panadería;4500;3000;10;;\n"
	encoded, err := charmap.ISO8859_1.NewEncoder().String(src)
	require.NoError(t, err)

	r, err := decodeReader(strings.NewReader(encoded), "latin1")
	require.NoError(t, err)
	rows, skipped, err := parseCatalog(r, ';')
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, rows, 2)

	cafe := rows[0]
	assert.Equal(t, "Café molido 500g", cafe.Name)
	assert.Equal(t, "7701234", cafe.Barcode)
	assert.Equal(t, "Bebidas Calientes", cafe.Category)
	assert.True(t, cafe.Price.Equal(decimal.RequireFromString("12500")), cafe.Price.String())
	assert.True(t, cafe.CostPrice.Equal(decimal.RequireFromString("8")), "8.000 sin coma es decimal con punto")
	assert.Equal(t, 20, cafe.Quantity)
	assert.Equal(t, 5, cafe.MinStockLevel)
	require.NotNil(t, cafe.ExpiryDate)
	assert.Equal(t, "2026-12-31", cafe.ExpiryDate.Format("2006-01-02"))

	assert.Equal(t, "Panadería", rows[1].Category)
	assert.Nil(t, rows[1].ExpiryDate)
}

func TestParseCatalog_FilasInvalidasSeOmiten(t *testing.T) {
	src := "name,price,quantity\n" +
		"Leche,2.50,10\n" +
		",1.00,1\n" +
		"Arroz,abc,1\n" +
		"Azúcar,1.20,-3\n"
	rows, skipped, err := parseCatalog(strings.NewReader(src), ',')
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Leche", rows[0].Name)
	assert.Len(t, skipped, 3)
	assert.Contains(t, skipped[0], "línea 3")
}

func TestParseCatalog_SinColumnaNombre(t *testing.T) {
	_, _, err := parseCatalog(strings.NewReader("precio,cantidad\n1,2\n"), ',')
	assert.Error(t, err)
}

func TestParseCatalog_IDsDeterministas(t *testing.T) {
	src := "name,barcode\nLeche,123\nPan,\n"
	a, _, err := parseCatalog(strings.NewReader(src), ',')
	require.NoError(t, err)
	b, _, err := parseCatalog(strings.NewReader(src), ',')
	require.NoError(t, err)
	assert.Equal(t, a[0].ID, b[0].ID)
	assert.Equal(t, a[1].ID, b[1].ID)
	assert.NotEqual(t, a[0].ID, a[1].ID)
}

func TestParseMoney(t *testing.T) {
	cases := map[string]string{
		"":          "0",
		"1234.50":   "1234.5",
		"1234,50":   "1234.5",
		"1.234,50":  "1234.5",
		"1,234.50":  "1234.5",
		"$ 2.000,5": "2000.5",
	}
	for in, want := range cases {
		got, err := parseMoney(in)
		require.NoError(t, err, in)
		assert.True(t, got.Equal(decimal.RequireFromString(want)), "%q → %s", in, got)
	}
	_, err := parseMoney("-1")
	assert.Error(t, err)
}

func TestWriteSQL(t *testing.T) {
	rows, _, err := parseCatalog(strings.NewReader("name,barcode,category,price\nO'Hara Té,77,bebidas,3.5\nSal,,,1\n"), ',')
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeSQL(&buf, rows, "catalogo.csv"))
	sql := buf.String()

	assert.Contains(t, sql, "INSERT INTO categories")
	assert.Contains(t, sql, "'Bebidas'")
	assert.Contains(t, sql, "'O''Hara Té'")
	assert.Contains(t, sql, "ON CONFLICT (barcode)")
	assert.Contains(t, sql, "ON CONFLICT (id)")
	assert.Contains(t, sql, "3.50")
	assert.Equal(t, 1, strings.Count(sql, "INSERT INTO categories"))
}

func TestDecodeReader_CodificacionDesconocida(t *testing.T) {
	_, err := decodeReader(io.MultiReader(), "ebcdic")
	assert.Error(t, err)
}
