package authgate

import (
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	base := testConfig()
	if err := base.Validate(); err != nil {
		t.Fatalf("test config must validate: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing secret", func(c *Config) { c.JWT.Secret = nil }},
		{"zero access ttl", func(c *Config) { c.JWT.AccessTTL = 0 }},
		{"negative leeway", func(c *Config) { c.JWT.Leeway = -time.Second }},
		{"excessive leeway", func(c *Config) { c.JWT.Leeway = 3 * time.Minute }},
		{"too few otp digits", func(c *Config) { c.OTP.Digits = 5 }},
		{"too many otp digits", func(c *Config) { c.OTP.Digits = 11 }},
		{"zero otp ttl", func(c *Config) { c.OTP.TTL = 0 }},
		{"zero min length", func(c *Config) { c.Password.MinLength = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCloneConfigIsolatesSecret(t *testing.T) {
	cfg := testConfig()
	clone := cloneConfig(cfg)

	cfg.JWT.Secret[0] = 'X'
	if clone.JWT.Secret[0] == 'X' {
		t.Fatal("clone shares the secret slice")
	}
}
