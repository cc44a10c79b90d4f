package apiclient

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenStore holds the bearer token of one admin session.
//
// Implementations must be safe for concurrent use.
type TokenStore interface {
	Token() string
	SetToken(token string)
	ClearToken()
}

// MemoryTokenStore is an in-memory TokenStore.
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryTokenStore returns a store holding token.
func NewMemoryTokenStore(token string) *MemoryTokenStore {
	return &MemoryTokenStore{token: token}
}

func (s *MemoryTokenStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemoryTokenStore) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *MemoryTokenStore) ClearToken() {
	s.SetToken("")
}

// TokenExpiry returns the exp claim of token without verifying its
// signature. ok is false for malformed tokens and tokens without exp.
func TokenExpiry(token string) (exp time.Time, ok bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	nd, err := claims.GetExpirationTime()
	if err != nil || nd == nil {
		return time.Time{}, false
	}
	return nd.Time, true
}

// TokenExpired reports whether the exp claim of token is at or before now.
//
// The signature is not verified: the backend remains the authority, this
// check only avoids sending requests that are certain to be rejected.
// Malformed tokens and tokens without exp count as expired.
func TokenExpired(token string, now time.Time) bool {
	exp, ok := TokenExpiry(token)
	return !ok || !now.Before(exp)
}
