// Package jwtx mints and verifies the short-lived HS256 session tokens
// that guard the admin API. There is no user database behind these; the
// subject is always the admin console that presented the configured key.
package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("jwtx: invalid token")
	ErrNoSecret     = errors.New("jwtx: signing secret not configured")
)

// Claims are the registered claims carried by a session token.
type Claims struct {
	jwt.RegisteredClaims
}

// Signer signs and verifies HS256 session tokens with a shared secret.
type Signer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewSigner(secret []byte, issuer string, ttl time.Duration) *Signer {
	return &Signer{secret: secret, issuer: issuer, ttl: ttl}
}

// TTL returns the configured token lifetime.
func (s *Signer) TTL() time.Duration { return s.ttl }

// Mint issues a token for the given subject, expiring after the signer's TTL.
func (s *Signer) Mint(subject string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrNoSecret
	}

	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a token string, enforcing the signing
// method, issuer, and expiry.
func (s *Signer) Verify(raw string) (Claims, error) {
	if len(s.secret) == 0 {
		return Claims{}, ErrNoSecret
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, errors.Join(ErrInvalidToken, err)
	}
	return claims, nil
}
