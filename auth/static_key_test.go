package auth

import (
	"context"
	"net/http"
	"testing"

	"github.com/goliatone/go-hookgate/core"
)

func TestStaticKeyStrategyRequiresKey(t *testing.T) {
	if _, err := NewStaticKeyStrategy("  "); err == nil {
		t.Fatalf("expected error for empty key")
	}
}

func TestStaticKeyStrategyAcceptsMatchingKey(t *testing.T) {
	strategy, err := NewStaticKeyStrategy("demo-key")
	if err != nil {
		t.Fatalf("new strategy: %v", err)
	}
	if err := strategy.Authenticate(context.Background(), "demo-key"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
}

func TestStaticKeyStrategyRejectsMismatch(t *testing.T) {
	strategy, err := NewStaticKeyStrategy("demo-key")
	if err != nil {
		t.Fatalf("new strategy: %v", err)
	}

	for _, presented := range []string{"", "wrong", "demo-key-extra"} {
		authErr := strategy.Authenticate(context.Background(), presented)
		if authErr == nil {
			t.Fatalf("expected rejection for %q", presented)
		}
		if core.HTTPStatus(authErr) != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %q, got %d", presented, core.HTTPStatus(authErr))
		}
	}
}
