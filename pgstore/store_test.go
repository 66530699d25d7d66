package pgstore

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/authgate/authgate"
)

func TestMapError(t *testing.T) {
	t.Run("no rows", func(t *testing.T) {
		assert.ErrorIs(t, mapError(pgx.ErrNoRows), authgate.ErrStoreNotFound)
	})

	t.Run("unique violation", func(t *testing.T) {
		err := mapError(&pgconn.PgError{Code: "23505", ConstraintName: "auth_accounts_email_key"})
		assert.ErrorIs(t, err, authgate.ErrStoreConstraintViolation)
		assert.Contains(t, err.Error(), "auth_accounts_email_key")
	})

	t.Run("other pg error", func(t *testing.T) {
		err := mapError(&pgconn.PgError{Code: "57P01"})
		assert.NotErrorIs(t, err, authgate.ErrStoreNotFound)
		assert.NotErrorIs(t, err, authgate.ErrStoreConstraintViolation)
	})

	t.Run("plain error is wrapped", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := mapError(cause)
		assert.ErrorIs(t, err, cause)
	})
}
