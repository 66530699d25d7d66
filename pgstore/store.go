// Package pgstore implements authgate.AccountStore on PostgreSQL via pgx.
package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/authgate/authgate"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

const accountColumns = `id, external_id, name, email, password_hash,
	COALESCE(current_token, ''), COALESCE(token_expiry, 0),
	COALESCE(otp_code, ''), COALESCE(otp_expiry, 0), is_verified`

// Store is a PostgreSQL-backed account store. One row per account; absent
// token/OTP values are stored as NULL and surfaced to the engine as zero
// values.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*authgate.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM auth_accounts WHERE email = $1`
	return s.queryOne(ctx, query, email)
}

func (s *Store) FindByExternalID(ctx context.Context, externalID string) (*authgate.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM auth_accounts WHERE external_id = $1`
	return s.queryOne(ctx, query, externalID)
}

func (s *Store) FindByExternalIDAndToken(ctx context.Context, externalID, token string) (*authgate.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM auth_accounts
		 WHERE external_id = $1 AND current_token = $2`
	return s.queryOne(ctx, query, externalID, token)
}

func (s *Store) Insert(ctx context.Context, account *authgate.Account) error {
	query := `INSERT INTO auth_accounts (external_id, name, email, password_hash, is_verified)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`

	err := s.pool.QueryRow(ctx, query,
		account.ExternalID, account.Name, account.Email,
		account.PasswordHash, account.IsVerified,
	).Scan(&account.ID)
	if err != nil {
		return mapError(err)
	}

	return nil
}

func (s *Store) Update(ctx context.Context, account *authgate.Account) error {
	query := `UPDATE auth_accounts
		 SET name = $2,
		     email = $3,
		     password_hash = $4,
		     current_token = NULLIF($5, ''),
		     token_expiry = NULLIF($6, 0),
		     otp_code = NULLIF($7, ''),
		     otp_expiry = NULLIF($8, 0),
		     is_verified = $9
		 WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query,
		account.ID, account.Name, account.Email, account.PasswordHash,
		account.CurrentToken, account.TokenExpiry,
		account.OTPCode, account.OTPExpiry, account.IsVerified,
	)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return authgate.ErrStoreNotFound
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM auth_accounts WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return authgate.ErrStoreNotFound
	}

	return nil
}

func (s *Store) queryOne(ctx context.Context, query string, args ...any) (*authgate.Account, error) {
	account := &authgate.Account{}
	err := s.pool.QueryRow(ctx, query, args...).Scan(
		&account.ID, &account.ExternalID, &account.Name, &account.Email,
		&account.PasswordHash, &account.CurrentToken, &account.TokenExpiry,
		&account.OTPCode, &account.OTPExpiry, &account.IsVerified,
	)
	if err != nil {
		return nil, mapError(err)
	}

	return account, nil
}

// mapError translates pgx failures into the engine's store sentinels.
func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return authgate.ErrStoreNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return fmt.Errorf("%w: %s", authgate.ErrStoreConstraintViolation, pgErr.ConstraintName)
	}

	return fmt.Errorf("db error: %w", err)
}
