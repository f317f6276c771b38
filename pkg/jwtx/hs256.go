package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// HS256 signs and verifies tokens with a single symmetric secret. The service
// holds two of these, one per token class, so possession of a refresh token
// never lets you forge an access token (and vice versa).
type HS256 struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewHS256 builds a signer/verifier for one token class.
func NewHS256(secret []byte, issuer string, ttl time.Duration) *HS256 {
	return &HS256{secret: secret, issuer: issuer, ttl: ttl}
}

// TTL returns the lifetime this signer stamps onto tokens.
func (h *HS256) TTL() time.Duration { return h.ttl }

// Sign mints a token for the given user id using the current wall clock.
func (h *HS256) Sign(userID string) (string, error) {
	return h.SignAt(userID, time.Now().UTC())
}

// SignAt mints a token with an explicit issue time, useful for tests.
func (h *HS256) SignAt(userID string, now time.Time) (string, error) {
	claims := NewClaims(userID, h.issuer, h.ttl, now)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(h.secret)
}

// Verify checks signature, expiry and issuer, returning the claims on success.
func (h *HS256) Verify(token string) (Claims, error) {
	var claims Claims

	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSig
		}
		return h.secret, nil
	})
	if err != nil {
		return Claims{}, mapParseError(err)
	}
	if !parsed.Valid {
		return Claims{}, ErrInvalidSig
	}

	if err := claims.ValidateIssuer(h.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiry(); err != nil {
		return Claims{}, err
	}

	return claims, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	default:
		return ErrMalformed
	}
}
