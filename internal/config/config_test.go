package config

import (
	"strings"
	"testing"
)

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	cfg := Config{StripeKey: "sk_test_123", JWTSecret: "secret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateReportsAllMissingSecrets(t *testing.T) {
	err := Config{}.Validate()
	if err == nil {
		t.Fatal("expected an error for missing secrets")
	}
	for _, name := range []string{"STRIPE_SECRET_KEY", "JWT_SECRET"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("expected %s in error, got %q", name, err)
		}
	}
}
