package pipeline

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/kurochkinivan/attachment_analyzer/internal/domain"
)

// AuthGuard admits webhook calls carrying the configured shared secret as a bearer
// token. Without a configured secret every call is admitted.
type AuthGuard struct {
	secret []byte
}

func NewAuthGuard(secret string) *AuthGuard {
	if secret == "" {
		return &AuthGuard{}
	}

	sum := sha256.Sum256([]byte(secret))
	return &AuthGuard{secret: sum[:]}
}

func (g *AuthGuard) Open() bool {
	return g.secret == nil
}

// Admit checks the raw Authorization header value.
func (g *AuthGuard) Admit(authorization string) error {
	if g.Open() {
		return nil
	}

	token, err := bearerToken(authorization)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrAuth, err)
	}

	// digests keep the comparison constant-time regardless of token length
	sum := sha256.Sum256([]byte(token))
	if subtle.ConstantTimeCompare(sum[:], g.secret) != 1 {
		return fmt.Errorf("%w: token mismatch", domain.ErrAuth)
	}

	return nil
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", fmt.Errorf("missing Authorization header")
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok {
		return "", fmt.Errorf("invalid Authorization header format")
	}

	if !strings.EqualFold(scheme, "bearer") {
		return "", fmt.Errorf("unsupported authorization scheme %q", scheme)
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("empty bearer token")
	}

	return token, nil
}
