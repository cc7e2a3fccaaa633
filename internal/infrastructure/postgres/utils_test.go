package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestSQLState_TraduceCodigosDePostgres(t *testing.T) {
	unique := &pgconn.PgError{Code: codeUniqueViolation}
	fk := &pgconn.PgError{Code: codeForeignKeyViolation}

	assert.True(t, isUniqueViolation(unique))
	assert.False(t, isForeignKeyViolation(unique))

	assert.True(t, isForeignKeyViolation(fk))
	assert.False(t, isUniqueViolation(fk))

	// Los errores envueltos conservan el código.
	wrapped := fmt.Errorf("insert invoice: %w", unique)
	assert.True(t, isUniqueViolation(wrapped))
}

func TestSQLState_ErroresAjenosNoMapean(t *testing.T) {
	assert.False(t, isUniqueViolation(errors.New("connection refused")))
	assert.False(t, isForeignKeyViolation(nil))
}
