// seed_catalog genera un script SQL para cargar el catálogo de productos desde un CSV
// exportado de Excel u hoja de cálculo.
//
// Uso: go run ./cmd/seed_catalog [-encoding latin1|utf8|cp1252] [-sep ';'] [-out archivo.sql] catalogo.csv
// Por defecto escribe internal/infrastructure/postgres/seeds/catalog.sql. El script es idempotente.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"
)

func main() {
	encoding := flag.String("encoding", "latin1", "codificación del CSV: latin1, cp1252 o utf8")
	sep := flag.String("sep", "", "separador de columnas (por defecto se detecta , o ;)")
	outPath := flag.String("out", "", "archivo SQL de salida")
	flag.Parse()

	csvPath := "catalogo.csv"
	if flag.NArg() > 0 {
		csvPath = flag.Arg(0)
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	r, err := decodeReader(f, *encoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	br := bufio.NewReader(r)

	comma := ','
	if *sep != "" {
		comma, _ = utf8.DecodeRuneInString(*sep)
	} else if detectSemicolon(br) {
		comma = ';'
	}

	rows, skipped, err := parseCatalog(br, comma)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}
	for _, s := range skipped {
		fmt.Fprintf(os.Stderr, "omitida %s\n", s)
	}

	if *outPath == "" {
		*outPath = filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "seeds", "catalog.sql")
	}
	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Crear directorio: %v\n", err)
		os.Exit(1)
	}
	out, err := os.Create(*outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, rows, filepath.Base(csvPath)); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d productos, %d filas omitidas\n", *outPath, len(rows), len(skipped))
}

// detectSemicolon mira la primera línea sin consumirla.
func detectSemicolon(br *bufio.Reader) bool {
	head, _ := br.Peek(4096)
	semis, commas := 0, 0
	for _, b := range head {
		if b == '\n' {
			break
		}
		switch b {
		case ';':
			semis++
		case ',':
			commas++
		}
	}
	return semis > commas
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
