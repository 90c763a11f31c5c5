package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"
)

// row producto leído del CSV.
type row struct {
	ID            string
	Name          string
	Barcode       string
	Category      string
	Price         decimal.Decimal
	CostPrice     decimal.Decimal
	Quantity      int
	MinStockLevel int
	ExpiryDate    *time.Time
}

// Alias aceptados por columna (exportaciones de Excel en español o inglés).
var columnAliases = map[string][]string{
	"name":            {"name", "nombre", "producto"},
	"barcode":         {"barcode", "codigo_barras", "codigo", "ean"},
	"category":        {"category", "categoria"},
	"price":           {"price", "precio", "precio_venta"},
	"cost_price":      {"cost_price", "costo", "precio_costo"},
	"quantity":        {"quantity", "cantidad", "stock"},
	"min_stock_level": {"min_stock_level", "stock_minimo", "minimo"},
	"expiry_date":     {"expiry_date", "vencimiento", "fecha_vencimiento"},
}

// productNamespace base de los UUID deterministas: volver a correr el seed actualiza en lugar de duplicar.
var productNamespace = uuid.MustParse("6f1c2f1e-8a5e-4c1b-9a40-3f4f3b0e9c21")

// decodeReader envuelve r según la codificación del archivo. Excel en Windows exporta CSV en Windows-1252.
func decodeReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", "utf8", "utf-8":
		return r, nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("codificación no soportada: %s", encoding)
	}
}

// parseCatalog lee el CSV (separador , o ;) y devuelve los productos válidos.
// Las filas inválidas se reportan en skipped con su número de línea.
func parseCatalog(r io.Reader, sep rune) (rows []row, skipped []string, err error) {
	cr := csv.NewReader(r)
	cr.Comma = sep
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("leer encabezado: %w", err)
	}
	idx := mapColumns(header)
	if _, ok := idx["name"]; !ok {
		return nil, nil, fmt.Errorf("el CSV debe tener una columna name/nombre")
	}

	titler := cases.Title(language.Spanish)
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, nil, fmt.Errorf("línea %d: %w", line, err)
		}
		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		p := row{Name: get("name"), Barcode: get("barcode")}
		if p.Name == "" {
			skipped = append(skipped, fmt.Sprintf("línea %d: sin nombre", line))
			continue
		}
		if c := get("category"); c != "" {
			p.Category = titler.String(strings.ToLower(c))
		}
		if p.Price, err = parseMoney(get("price")); err != nil {
			skipped = append(skipped, fmt.Sprintf("línea %d: precio: %v", line, err))
			continue
		}
		if p.CostPrice, err = parseMoney(get("cost_price")); err != nil {
			skipped = append(skipped, fmt.Sprintf("línea %d: costo: %v", line, err))
			continue
		}
		if p.Quantity, err = parseCount(get("quantity")); err != nil {
			skipped = append(skipped, fmt.Sprintf("línea %d: cantidad: %v", line, err))
			continue
		}
		if p.MinStockLevel, err = parseCount(get("min_stock_level")); err != nil {
			skipped = append(skipped, fmt.Sprintf("línea %d: stock mínimo: %v", line, err))
			continue
		}
		if v := get("expiry_date"); v != "" {
			t, err := parseDate(v)
			if err != nil {
				skipped = append(skipped, fmt.Sprintf("línea %d: vencimiento: %v", line, err))
				continue
			}
			p.ExpiryDate = &t
		}
		key := "name:" + strings.ToLower(p.Name)
		if p.Barcode != "" {
			key = "barcode:" + p.Barcode
		}
		p.ID = uuid.NewSHA1(productNamespace, []byte(key)).String()
		rows = append(rows, p)
	}
	return rows, skipped, nil
}

func mapColumns(header []string) map[string]int {
	idx := make(map[string]int)
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		h = strings.ReplaceAll(h, " ", "_")
		for col, aliases := range columnAliases {
			for _, a := range aliases {
				if h == a {
					if _, seen := idx[col]; !seen {
						idx[col] = i
					}
				}
			}
		}
	}
	return idx
}

// parseMoney acepta separador decimal punto o coma, con o sin miles. Vacío es cero.
func parseMoney(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	s = strings.TrimPrefix(strings.ReplaceAll(s, " ", ""), "$")
	switch {
	case strings.Contains(s, ",") && strings.LastIndex(s, ".") > strings.LastIndex(s, ","):
		s = strings.ReplaceAll(s, ",", "") // 1,234.50
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "") // 1.234,50
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negativo")
	}
	return d.Round(2), nil
}

func parseCount(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negativo")
	}
	return n, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.DateOnly, "02/01/2006", "2/1/2006"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("formato de fecha no reconocido: %s", s)
}

// writeSQL escribe el script de carga: categorías primero, luego productos (upsert).
func writeSQL(w io.Writer, rows []row, source string) error {
	var b strings.Builder
	b.WriteString("-- Catálogo inicial de productos\n")
	fmt.Fprintf(&b, "-- Generado desde %s\n\n", source)

	seen := make(map[string]struct{})
	var categories []string
	for _, r := range rows {
		if r.Category == "" {
			continue
		}
		k := strings.ToLower(r.Category)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		categories = append(categories, r.Category)
	}
	if len(categories) > 0 {
		b.WriteString("-- 1. Categorías\n")
		for _, c := range categories {
			id := uuid.NewSHA1(productNamespace, []byte("category:"+strings.ToLower(c)))
			fmt.Fprintf(&b, "INSERT INTO categories (id, name) VALUES ('%s', '%s')\nON CONFLICT ((lower(name))) DO NOTHING;\n", id, escapeSQL(c))
		}
		b.WriteString("\n")
	}

	b.WriteString("-- 2. Productos\n")
	for _, r := range rows {
		barcode := "NULL"
		conflict := "(id)"
		if r.Barcode != "" {
			barcode = "'" + escapeSQL(r.Barcode) + "'"
			conflict = "(barcode)"
		}
		expiry := "NULL"
		if r.ExpiryDate != nil {
			expiry = "'" + r.ExpiryDate.Format(time.DateOnly) + "'"
		}
		fmt.Fprintf(&b, "INSERT INTO products (id, name, barcode, category, price, cost_price, quantity, min_stock_level, expiry_date)\n")
		fmt.Fprintf(&b, "VALUES ('%s', '%s', %s, '%s', %s, %s, %d, %d, %s)\n",
			r.ID, escapeSQL(r.Name), barcode, escapeSQL(r.Category),
			r.Price.StringFixed(2), r.CostPrice.StringFixed(2), r.Quantity, r.MinStockLevel, expiry)
		fmt.Fprintf(&b, "ON CONFLICT %s DO UPDATE SET name = EXCLUDED.name, category = EXCLUDED.category, price = EXCLUDED.price,\n", conflict)
		b.WriteString("  cost_price = EXCLUDED.cost_price, quantity = EXCLUDED.quantity, min_stock_level = EXCLUDED.min_stock_level,\n")
		b.WriteString("  expiry_date = EXCLUDED.expiry_date, updated_at = now();\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
