package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/you/shopauth/domain"
	"github.com/you/shopauth/internal/infrastructure/auth"
)

// DefaultSessionTTL is the lifetime of a session when none is configured
const DefaultSessionTTL = 7 * 24 * time.Hour

// SessionConfig tunes the session lifecycle
type SessionConfig struct {
	TTL     time.Duration
	Sliding bool
	Now     func() time.Time
}

// SessionServiceImpl implements domain.SessionService
type SessionServiceImpl struct {
	repo    domain.SessionRepository
	ttl     time.Duration
	sliding bool
	now     func() time.Time
	log     logrus.FieldLogger
}

// NewSessionService creates a new session service
func NewSessionService(repo domain.SessionRepository, cfg SessionConfig, log logrus.FieldLogger) *SessionServiceImpl {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultSessionTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SessionServiceImpl{
		repo:    repo,
		ttl:     cfg.TTL,
		sliding: cfg.Sliding,
		now:     cfg.Now,
		log:     log.WithField("component", "sessions"),
	}
}

// TTL implements domain.SessionService
func (s *SessionServiceImpl) TTL() time.Duration {
	return s.ttl
}

// Create implements domain.SessionService
func (s *SessionServiceImpl) Create(ctx context.Context, userID uint, meta domain.SessionMetadata) (*domain.Session, error) {
	token, err := auth.NewSessionToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	now := s.now().UTC()
	session := &domain.Session{
		ID:             auth.NewSessionID(),
		UserID:         userID,
		Token:          token,
		UserAgent:      meta.UserAgent,
		IPAddress:      meta.IPAddress,
		ExpiresAt:      now.Add(s.ttl),
		CreatedAt:      now,
		LastActivityAt: &now,
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// Validate implements domain.SessionService. The boolean reports whether the
// expiry was pushed forward and the cookie needs re-issuing.
func (s *SessionServiceImpl) Validate(ctx context.Context, token string) (*domain.Session, bool, error) {
	if token == "" {
		return nil, false, domain.ErrNoSession
	}

	session, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, false, domain.ErrSessionNotFound
		}
		return nil, false, fmt.Errorf("failed to load session: %w", err)
	}

	now := s.now().UTC()
	if session.ExpiredAt(now) {
		if err := s.repo.Delete(ctx, session.ID); err != nil {
			s.log.WithError(err).WithField("session_id", session.ID).Warn("failed to delete expired session")
		}
		return nil, false, domain.ErrSessionExpired
	}

	if !s.sliding {
		return session, false, nil
	}

	if err := s.repo.Touch(ctx, session.ID, now); err != nil {
		s.log.WithError(err).WithField("session_id", session.ID).Warn("failed to touch session")
	} else {
		session.LastActivityAt = &now
	}

	if session.ExpiresAt.Sub(now) >= s.ttl/2 {
		return session, false, nil
	}

	expiresAt := now.Add(s.ttl)
	if err := s.repo.Extend(ctx, session.ID, expiresAt); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			// deleted concurrently; the client signs in again
			return nil, false, domain.ErrSessionNotFound
		}
		return nil, false, fmt.Errorf("failed to extend session: %w", err)
	}
	session.ExpiresAt = expiresAt
	return session, true, nil
}

// Revoke implements domain.SessionService
func (s *SessionServiceImpl) Revoke(ctx context.Context, sessionID string) error {
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// RevokeByToken implements domain.SessionService. A token without a session
// yields (nil, nil).
func (s *SessionServiceImpl) RevokeByToken(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, nil
	}
	session, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if err := s.Revoke(ctx, session.ID); err != nil {
		return nil, err
	}
	return session, nil
}

// RevokeAll implements domain.SessionService
func (s *SessionServiceImpl) RevokeAll(ctx context.Context, userID uint) (int64, error) {
	n, err := s.repo.DeleteAllForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user sessions: %w", err)
	}
	return n, nil
}

// RevokeOthers implements domain.SessionService
func (s *SessionServiceImpl) RevokeOthers(ctx context.Context, userID uint, keepSessionID string) (int64, error) {
	n, err := s.repo.DeleteOthersForUser(ctx, userID, keepSessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete other sessions: %w", err)
	}
	return n, nil
}

// Sweep implements domain.SessionService
func (s *SessionServiceImpl) Sweep(ctx context.Context) (int64, error) {
	n, err := s.repo.SweepExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep sessions: %w", err)
	}
	return n, nil
}

var _ domain.SessionService = (*SessionServiceImpl)(nil)
