package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/talentatalk/talentatalk-admin/internal/domain"
)

// TokenStore is the apiclient.TokenStore of one admin session. Reads are
// served from memory; writes go through to the session row so that every
// process serving the session observes a cleared token.
type TokenStore struct {
	id     string
	repo   domain.SessionRepository
	logger *slog.Logger

	mu    sync.RWMutex
	token string
}

// NewTokenStore creates a store for session id holding token.
func NewTokenStore(id, token string, repo domain.SessionRepository, logger *slog.Logger) *TokenStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenStore{id: id, token: token, repo: repo, logger: logger}
}

func (s *TokenStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *TokenStore) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	s.persist(token)
}

func (s *TokenStore) ClearToken() {
	s.SetToken("")
}

// sync refreshes the cached token from a freshly loaded session row.
func (s *TokenStore) sync(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *TokenStore) persist(token string) {
	if err := s.repo.UpdateToken(context.Background(), s.id, token); err != nil && !domain.IsNotFound(err) {
		s.logger.Error("persist session token failed",
			slog.String("session_id", s.id),
			slog.Any("error", err),
		)
	}
}
