package postgres

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isBadReference texto no convertible al tipo de la columna (22P02) o FK inexistente (23503).
func isBadReference(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "22P02" || pgErr.Code == "23503"
	}
	return false
}

// validID indica si id puede compararse contra una columna UUID.
// Un id mal formado no existe: se responde como no encontrado sin consultar la base.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// nullIfEmpty guarda NULL en columnas opcionales (barcode, supplier_id) para no chocar con índices únicos.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// escapeLike escapa comodines de LIKE en términos de búsqueda.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
