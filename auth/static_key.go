// Package auth holds the authentication strategies guarding the
// webhook boundary. The static shared-secret strategy is the reference
// variant; stronger schemes plug in behind core.Authenticator without
// touching the processor.
package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/goliatone/go-hookgate/core"
)

// HeaderAPIKey is the request header carrying the shared secret.
const HeaderAPIKey = "X-API-Key"

type StaticKeyStrategy struct {
	key string
}

func NewStaticKeyStrategy(key string) (*StaticKeyStrategy, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("auth: shared secret key is required")
	}
	return &StaticKeyStrategy{key: key}, nil
}

// Authenticate compares in constant time. A mismatch rejects the
// request before any state is touched.
func (s *StaticKeyStrategy) Authenticate(_ context.Context, presentedKey string) error {
	if s == nil || s.key == "" {
		return core.InternalError("auth: strategy is not configured")
	}
	presented := strings.TrimSpace(presentedKey)
	if presented == "" {
		return core.AuthenticationError("auth: missing API key")
	}
	if subtle.ConstantTimeCompare([]byte(presented), []byte(s.key)) != 1 {
		return core.AuthenticationError("auth: invalid API key")
	}
	return nil
}

var _ core.Authenticator = (*StaticKeyStrategy)(nil)
