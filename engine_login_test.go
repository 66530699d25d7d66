package authgate

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLoginIssuesToken(t *testing.T) {
	engine, store, _ := newTestEngine(t, testConfig())
	ctx := context.Background()

	registerVerified(t, engine, store, "ann@example.com", "pw")

	result, err := engine.Login(ctx, "ann@example.com", "pw")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.AccessToken == "" {
		t.Fatal("expected a token")
	}
	if result.TokenType != "bearer" {
		t.Fatalf("token type %q", result.TokenType)
	}

	stored, _ := store.FindByEmail(ctx, "ann@example.com")
	if stored.CurrentToken != result.AccessToken {
		t.Fatal("issued token must be persisted on the account")
	}
	if stored.TokenExpiry != result.ExpiresAt {
		t.Fatal("persisted expiry must match the issued one")
	}

	wantExpiry := time.Now().Add(60 * time.Minute).Unix()
	if diff := result.ExpiresAt - wantExpiry; diff < -5 || diff > 5 {
		t.Fatalf("expiry %d not ~60m out (want ~%d)", result.ExpiresAt, wantExpiry)
	}
}

// Unknown email and wrong password are indistinguishable to the caller.
func TestLoginFailuresAreUniform(t *testing.T) {
	engine, store, _ := newTestEngine(t, testConfig())
	ctx := context.Background()

	registerVerified(t, engine, store, "ann@example.com", "pw")

	_, unknownErr := engine.Login(ctx, "ghost@example.com", "pw")
	_, wrongErr := engine.Login(ctx, "ann@example.com", "nope")

	if !errors.Is(unknownErr, ErrInvalidCredentials) {
		t.Fatalf("unknown email: got %v", unknownErr)
	}
	if !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatalf("errors must be identical: %q vs %q", unknownErr, wrongErr)
	}
}

func TestLoginUnverifiedAccount(t *testing.T) {
	engine, _, _ := newTestEngine(t, testConfig())
	ctx := context.Background()

	registerOnly(t, engine, "ann@example.com")

	// Correct password, unverified email: the one distinguishable failure.
	if _, err := engine.Login(ctx, "ann@example.com", "pw"); !errors.Is(err, ErrEmailNotVerified) {
		t.Fatalf("got %v, want ErrEmailNotVerified", err)
	}
	// Wrong password stays uniform even when unverified.
	if _, err := engine.Login(ctx, "ann@example.com", "nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("got %v, want ErrInvalidCredentials", err)
	}
}

func TestSecondLoginSupersedesFirstToken(t *testing.T) {
	engine, store, _ := newTestEngine(t, testConfig())
	ctx := context.Background()

	registerVerified(t, engine, store, "ann@example.com", "pw")

	first, err := engine.Login(ctx, "ann@example.com", "pw")
	if err != nil {
		t.Fatalf("first login failed: %v", err)
	}
	second, err := engine.Login(ctx, "ann@example.com", "pw")
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}

	if _, err := engine.Resolve(ctx, second.AccessToken); err != nil {
		t.Fatalf("current token must resolve: %v", err)
	}
	if first.AccessToken != second.AccessToken {
		if _, err := engine.Resolve(ctx, first.AccessToken); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("superseded token: got %v, want ErrUnauthorized", err)
		}
	}
}
