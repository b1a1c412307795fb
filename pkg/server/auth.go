package server

import (
	"crypto/subtle"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthGate enforces spec §4.4's authentication rule: if the agent card
// lists any securitySchemes, every endpoint except the well-known card
// requires a matching bearer token. Verification only — issuance and
// refresh of credentials is the external OAuth/credential-acquisition
// collaborator named in spec §1, out of scope here.
//
// Grounded on the teacher's pkg/auth/service.go (AuthenticateRequest,
// jwt.Parse/getSigningKey) scoped down to verification, plus
// pkg/auth/rate_limiter.go for the token-bucket limiter (spec §12
// supplement).
type AuthGate struct {
	// Tokens are opaque shared secrets accepted via constant-time compare.
	Tokens map[string]bool
	// JWTSigningKey, if set, additionally accepts any bearer value that
	// parses and validates as an HS256 JWT signed with this key.
	JWTSigningKey []byte

	limiter *rateLimiter
}

// NewAuthGate builds a gate from a list of accepted opaque tokens.
func NewAuthGate(tokens []string, jwtSigningKey []byte) *AuthGate {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return &AuthGate{
		Tokens:        set,
		JWTSigningKey: jwtSigningKey,
		limiter:       newRateLimiter(100, time.Minute),
	}
}

// Required reports whether this gate actually has any credentials
// configured; an AuthGate with none configured never rejects.
func (g *AuthGate) Required() bool {
	return g != nil && (len(g.Tokens) > 0 || len(g.JWTSigningKey) > 0)
}

// Authenticate extracts the bearer token from authHeader and checks it
// against the configured opaque tokens or, failing that, as a signed JWT.
func (g *AuthGate) Authenticate(authHeader string) bool {
	if !g.Required() {
		return true
	}
	if !g.limiter.Allow() {
		return false
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == authHeader && !strings.HasPrefix(authHeader, "Bearer ") {
		return false
	}
	if token == "" {
		return false
	}

	for known := range g.Tokens {
		if subtle.ConstantTimeCompare([]byte(token), []byte(known)) == 1 {
			return true
		}
	}

	if len(g.JWTSigningKey) == 0 {
		return false
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return g.JWTSigningKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	return err == nil && parsed.Valid
}

// rateLimiter is a simple token-bucket limiter, grounded on the teacher's
// pkg/auth/rate_limiter.go.
type rateLimiter struct {
	mu         sync.Mutex
	tokens     float64
	max        float64
	refillRate float64 // tokens per second
	last       time.Time
}

func newRateLimiter(maxRequests int, per time.Duration) *rateLimiter {
	return &rateLimiter{
		tokens:     float64(maxRequests),
		max:        float64(maxRequests),
		refillRate: float64(maxRequests) / per.Seconds(),
		last:       time.Now(),
	}
}

func (r *rateLimiter) Allow() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(r.last).Seconds()
	r.last = now

	r.tokens += elapsed * r.refillRate
	if r.tokens > r.max {
		r.tokens = r.max
	}
	if r.tokens < 1 {
		return false
	}
	r.tokens--
	return true
}
