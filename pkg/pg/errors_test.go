package pg_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/servicebond/pkg/pg"
)

func TestErrorClassifiers(t *testing.T) {
	t.Parallel()

	dup := fmt.Errorf("insert shop: %w", &pgconn.PgError{Code: "23505"})
	fk := fmt.Errorf("insert customer: %w", &pgconn.PgError{Code: "23503"})
	noRows := fmt.Errorf("get shop: %w", pgx.ErrNoRows)
	other := errors.New("boom")

	assert.True(t, pg.IsDuplicateKeyError(dup))
	assert.False(t, pg.IsDuplicateKeyError(fk))
	assert.True(t, pg.IsForeignKeyViolationError(fk))
	assert.False(t, pg.IsForeignKeyViolationError(dup))
	assert.True(t, pg.IsNotFoundError(noRows))

	for _, classify := range []func(error) bool{pg.IsNotFoundError, pg.IsDuplicateKeyError, pg.IsForeignKeyViolationError} {
		assert.False(t, classify(nil))
		assert.False(t, classify(other))
	}
}
