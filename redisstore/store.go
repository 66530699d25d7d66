// Package redisstore implements authgate.AccountStore on Redis. It exists for
// deployments that already run Redis and do not want a relational store for a
// single-table workload; pgstore is the default backend.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/authgate/authgate"
	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "authgate:"

// Store keeps one hash per account plus two index keys (email and internal
// id, both resolving to the external id). Index writes go through a
// transactional pipeline so a crash cannot leave a hash without its indexes.
type Store struct {
	rdb    *redis.Client
	prefix string
}

func New(rdb *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Store{rdb: rdb, prefix: prefix}
}

func (s *Store) accountKey(externalID string) string {
	return s.prefix + "acct:" + externalID
}

func (s *Store) emailKey(email string) string {
	return s.prefix + "email:" + email
}

func (s *Store) idKey(id int64) string {
	return s.prefix + "id:" + strconv.FormatInt(id, 10)
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*authgate.Account, error) {
	externalID, err := s.rdb.Get(ctx, s.emailKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, authgate.ErrStoreNotFound
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	return s.FindByExternalID(ctx, externalID)
}

func (s *Store) FindByExternalID(ctx context.Context, externalID string) (*authgate.Account, error) {
	fields, err := s.rdb.HGetAll(ctx, s.accountKey(externalID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}
	if len(fields) == 0 {
		return nil, authgate.ErrStoreNotFound
	}

	return decodeAccount(externalID, fields)
}

func (s *Store) FindByExternalIDAndToken(ctx context.Context, externalID, token string) (*authgate.Account, error) {
	account, err := s.FindByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if token == "" || account.CurrentToken != token {
		return nil, authgate.ErrStoreNotFound
	}

	return account, nil
}

func (s *Store) Insert(ctx context.Context, account *authgate.Account) error {
	// SETNX on the email index is the uniqueness authority.
	reserved, err := s.rdb.SetNX(ctx, s.emailKey(account.Email), account.ExternalID, 0).Result()
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	if !reserved {
		return authgate.ErrStoreConstraintViolation
	}

	id, err := s.rdb.Incr(ctx, s.prefix+"seq").Result()
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	account.ID = id

	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, s.accountKey(account.ExternalID), encodeAccount(account))
	pipe.Set(ctx, s.idKey(account.ID), account.ExternalID, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}

	return nil
}

func (s *Store) Update(ctx context.Context, account *authgate.Account) error {
	exists, err := s.rdb.Exists(ctx, s.accountKey(account.ExternalID)).Result()
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	if exists == 0 {
		return authgate.ErrStoreNotFound
	}

	if err := s.rdb.HSet(ctx, s.accountKey(account.ExternalID), encodeAccount(account)).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	externalID, err := s.rdb.Get(ctx, s.idKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return authgate.ErrStoreNotFound
		}
		return fmt.Errorf("redis error: %w", err)
	}

	account, err := s.FindByExternalID(ctx, externalID)
	if err != nil {
		return err
	}

	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, s.accountKey(externalID))
	pipe.Del(ctx, s.emailKey(account.Email))
	pipe.Del(ctx, s.idKey(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}

	return nil
}

func encodeAccount(a *authgate.Account) map[string]any {
	return map[string]any{
		"id":            a.ID,
		"name":          a.Name,
		"email":         a.Email,
		"password_hash": a.PasswordHash,
		"current_token": a.CurrentToken,
		"token_expiry":  a.TokenExpiry,
		"otp_code":      a.OTPCode,
		"otp_expiry":    a.OTPExpiry,
		"is_verified":   strconv.FormatBool(a.IsVerified),
	}
}

func decodeAccount(externalID string, fields map[string]string) (*authgate.Account, error) {
	id, err := strconv.ParseInt(fields["id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt account record %q: %w", externalID, err)
	}

	account := &authgate.Account{
		ID:           id,
		ExternalID:   externalID,
		Name:         fields["name"],
		Email:        fields["email"],
		PasswordHash: fields["password_hash"],
		CurrentToken: fields["current_token"],
		OTPCode:      fields["otp_code"],
		IsVerified:   fields["is_verified"] == "true",
	}

	if v := fields["token_expiry"]; v != "" {
		if account.TokenExpiry, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, fmt.Errorf("corrupt account record %q: %w", externalID, err)
		}
	}
	if v := fields["otp_expiry"]; v != "" {
		if account.OTPExpiry, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, fmt.Errorf("corrupt account record %q: %w", externalID, err)
		}
	}

	return account, nil
}
