package authgate

import (
	"context"
	"errors"
	"testing"
)

func TestChangePasswordSuccess(t *testing.T) {
	engine, store, _ := newTestEngine(t, testConfig())
	ctx := context.Background()

	token := loginToken(t, engine, store, "ann@example.com")
	account, err := engine.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	view, err := engine.ChangePassword(ctx, account, "pw", "longer-password")
	if err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}
	if !view.IsVerified || view.Email != "ann@example.com" {
		t.Fatalf("unexpected view %+v", view)
	}

	if _, err := engine.Login(ctx, "ann@example.com", "pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := engine.Login(ctx, "ann@example.com", "longer-password"); err != nil {
		t.Fatalf("new password login failed: %v", err)
	}
}

func TestChangePasswordClearsToken(t *testing.T) {
	engine, store, _ := newTestEngine(t, testConfig())
	ctx := context.Background()

	token := loginToken(t, engine, store, "ann@example.com")
	account, err := engine.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if _, err := engine.ChangePassword(ctx, account, "pw", "longer-password"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	stored, _ := store.FindByEmail(ctx, "ann@example.com")
	if stored.CurrentToken != "" || stored.TokenExpiry != 0 {
		t.Fatal("password change must clear the stored token")
	}
	if _, err := engine.Resolve(ctx, token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("stale token: got %v, want ErrUnauthorized", err)
	}
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	engine, store, _ := newTestEngine(t, testConfig())
	ctx := context.Background()

	token := loginToken(t, engine, store, "ann@example.com")
	account, err := engine.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if _, err := engine.ChangePassword(ctx, account, "nope", "longer-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("got %v, want ErrInvalidCredentials", err)
	}

	// The token survives a refused change.
	if _, err := engine.Resolve(ctx, token); err != nil {
		t.Fatalf("token must remain valid after refusal: %v", err)
	}
}

func TestChangePasswordMinimumLength(t *testing.T) {
	engine, store, _ := newTestEngine(t, testConfig())
	ctx := context.Background()

	token := loginToken(t, engine, store, "ann@example.com")
	account, err := engine.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if _, err := engine.ChangePassword(ctx, account, "pw", "five5"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("5 chars: got %v, want ErrWeakPassword", err)
	}

	account, err = engine.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("token must survive a weak-password refusal: %v", err)
	}
	if _, err := engine.ChangePassword(ctx, account, "pw", "sixsix"); err != nil {
		t.Fatalf("6 chars must pass: %v", err)
	}
}

func TestChangePasswordNilAccount(t *testing.T) {
	engine, _, _ := newTestEngine(t, testConfig())

	if _, err := engine.ChangePassword(context.Background(), nil, "pw", "longer-password"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("got %v, want ErrAccountNotFound", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	engine, store, _ := newTestEngine(t, testConfig())
	ctx := context.Background()

	token := loginToken(t, engine, store, "ann@example.com")
	account, err := engine.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if err := engine.DeleteAccount(ctx, account); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}
	if _, err := store.FindByEmail(ctx, "ann@example.com"); !errors.Is(err, ErrStoreNotFound) {
		t.Fatal("record must be gone")
	}
	if err := engine.DeleteAccount(ctx, account); !errors.Is(err, ErrStoreNotFound) {
		t.Fatalf("second delete: got %v, want ErrStoreNotFound", err)
	}
	if err := engine.DeleteAccount(ctx, nil); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("nil account: got %v, want ErrAccountNotFound", err)
	}
}
