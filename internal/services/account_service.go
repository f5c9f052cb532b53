package services

import (
	"context"
	"fmt"

	"github.com/you/shopauth/domain"
)

// AccountService holds the operator actions on accounts
type AccountService struct {
	users    domain.UserRepository
	sessions domain.SessionService
	audit    domain.AuditLogger
}

// NewAccountService creates a new account service
func NewAccountService(users domain.UserRepository, sessions domain.SessionService, audit domain.AuditLogger) *AccountService {
	if audit == nil {
		audit = domain.NopAuditLogger{}
	}
	return &AccountService{users: users, sessions: sessions, audit: audit}
}

// SetAdmin grants or revokes the admin flag of the account behind email
func (s *AccountService) SetAdmin(ctx context.Context, email string, admin bool) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if err := s.users.SetAdmin(ctx, user.ID, admin); err != nil {
		return nil, fmt.Errorf("failed to update admin flag: %w", err)
	}
	user.IsAdmin = admin

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.AccountUpdatedEvent, user.ID).
		WithEmail(user.Email).
		WithMetadata("is_admin", admin))
	return user, nil
}

// SetStatus changes the account status. Leaving the active state revokes
// every session so the change takes effect immediately.
func (s *AccountService) SetStatus(ctx context.Context, email string, status domain.AccountStatus) (*domain.User, int64, error) {
	switch status {
	case domain.StatusActive, domain.StatusSuspended, domain.StatusDeleted:
	default:
		return nil, 0, fmt.Errorf("unknown account status %q", status)
	}

	user, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, 0, err
	}
	if err := s.users.SetStatus(ctx, user.ID, status); err != nil {
		return nil, 0, fmt.Errorf("failed to update status: %w", err)
	}
	user.Status = status

	var revoked int64
	if status != domain.StatusActive {
		if revoked, err = s.sessions.RevokeAll(ctx, user.ID); err != nil {
			return nil, 0, err
		}
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.AccountUpdatedEvent, user.ID).
		WithEmail(user.Email).
		WithMetadata("status", string(status)).
		WithMetadata("revoked_sessions", revoked))
	return user, revoked, nil
}
