package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPgErrorCodes(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	fk := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"})

	assert.True(t, isUniqueViolation(unique))
	assert.False(t, isUniqueViolation(fk))
	assert.True(t, isForeignKeyViolation(fk))
	assert.False(t, isForeignKeyViolation(errors.New("boom")))
}

func TestNullableRoundTrip(t *testing.T) {
	assert.Nil(t, nullable(""))
	assert.Equal(t, "abc", deref(nullable("abc")))
	assert.Equal(t, "", deref(nil))
}

func TestPageArgs(t *testing.T) {
	limit, offset := pageArgs(0, 5)
	assert.Nil(t, limit)
	assert.Equal(t, 5, offset)

	limit, offset = pageArgs(20, -1)
	if assert.NotNil(t, limit) {
		assert.Equal(t, 20, *limit)
	}
	assert.Equal(t, 0, offset)
}
