package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos SQLSTATE que las repos traducen a errores de dominio.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation: constraint único violado (invoice_number por organización,
// slug de organización, email de perfil).
func isUniqueViolation(err error) bool {
	return sqlState(err) == codeUniqueViolation
}

// isForeignKeyViolation: la fila referencia un id inexistente (cliente o
// proyecto eliminado entre la validación y el insert).
func isForeignKeyViolation(err error) bool {
	return sqlState(err) == codeForeignKeyViolation
}
