package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/pharmahadir/hadir/pkg/jwtx"
	"github.com/pharmahadir/hadir/pkg/slogx"
)

var (
	// ErrBadAdminKey reports a session request with the wrong admin key.
	ErrBadAdminKey = errors.New("invalid admin key")

	// ErrSessionsDisabled reports that no admin key is configured, so
	// sessions cannot be minted.
	ErrSessionsDisabled = errors.New("admin sessions are not configured")
)

// SessionService exchanges the configured admin key for a short-lived
// bearer token. It is the whole of admin "auth": one shared key, no user
// accounts.
type SessionService struct {
	AdminKey string
	Signer   *jwtx.Signer
}

// Session is a minted admin session token.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Create verifies the presented key and mints a session token.
func (s *SessionService) Create(ctx context.Context, key string) (Session, error) {
	log := slogx.FromContext(ctx)

	if s.AdminKey == "" || s.Signer == nil {
		return Session{}, ErrSessionsDisabled
	}
	if subtle.ConstantTimeCompare([]byte(key), []byte(s.AdminKey)) != 1 {
		log.Warn("admin session rejected: wrong key")
		return Session{}, ErrBadAdminKey
	}

	token, err := s.Signer.Mint("admin")
	if err != nil {
		log.Error("failed to mint session token", "err", err)
		return Session{}, err
	}

	log.Info("admin session minted")
	return Session{
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(s.Signer.TTL()),
	}, nil
}
