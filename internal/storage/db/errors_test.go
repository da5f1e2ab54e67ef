package db_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/bizdesk/internal/storage/db"
)

func TestErrorClassification(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "products_sku_key"})
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, db.IsUniqueViolation(unique))
	assert.Equal(t, "products_sku_key", db.ConstraintName(unique))
	assert.False(t, db.IsUniqueViolation(fk))
	assert.True(t, db.IsForeignKeyViolation(fk))
	assert.False(t, db.IsCheckViolation(errors.New("boom")))
	assert.Equal(t, "", db.ConstraintName(errors.New("boom")))
	assert.True(t, db.IsNoRows(fmt.Errorf("get: %w", pgx.ErrNoRows)))
}
