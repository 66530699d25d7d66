package authgate

import (
	"testing"
)

func TestBuildRequiresCollaborators(t *testing.T) {
	cfg := testConfig()

	if _, err := New().WithConfig(cfg).WithMailer(&mockMailer{}).Build(); err == nil {
		t.Fatal("Build must fail without a store")
	}
	if _, err := New().WithConfig(cfg).WithStore(newMockStore()).Build(); err == nil {
		t.Fatal("Build must fail without a mailer")
	}

	noSecret := cfg
	noSecret.JWT.Secret = nil
	if _, err := New().WithConfig(noSecret).WithStore(newMockStore()).WithMailer(&mockMailer{}).Build(); err == nil {
		t.Fatal("Build must fail without a signing secret")
	}
}

func TestBuilderSingleUse(t *testing.T) {
	b := New().WithConfig(testConfig()).WithStore(newMockStore()).WithMailer(&mockMailer{})

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("second Build must fail")
	}
}

func TestWithSecretKeepsDefaults(t *testing.T) {
	secret := []byte("another-secret")
	b := New().WithSecret(secret).WithStore(newMockStore()).WithMailer(&mockMailer{})

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	// The builder holds a clone; mutating the caller's slice after the fact
	// must not affect the engine.
	secret[0] = 'X'
	if engine.config.JWT.Secret[0] == 'X' {
		t.Fatal("engine secret aliases the caller's slice")
	}
	if engine.config.OTP.Digits != 6 {
		t.Fatalf("defaults lost: digits = %d", engine.config.OTP.Digits)
	}
}
