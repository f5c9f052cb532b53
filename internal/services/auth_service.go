package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/you/shopauth/domain"
)

// timingPassword is hashed once so that unknown emails cost a bcrypt compare
// like known ones do
const timingPassword = "shopauth-timing-equalizer"

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	sessionSvc  domain.SessionService
	passwordSvc domain.PasswordService
	policy      domain.PasswordPolicy
	audit       domain.AuditLogger
	log         logrus.FieldLogger
	now         func() time.Time
	dummyHash   string
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	sessionSvc domain.SessionService,
	passwordSvc domain.PasswordService,
	policy domain.PasswordPolicy,
	audit domain.AuditLogger,
	log logrus.FieldLogger,
) *AuthServiceImpl {
	if audit == nil {
		audit = domain.NopAuditLogger{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	dummyHash, _ := passwordSvc.Hash(timingPassword)
	return &AuthServiceImpl{
		userRepo:    userRepo,
		sessionSvc:  sessionSvc,
		passwordSvc: passwordSvc,
		policy:      policy,
		audit:       audit,
		log:         log.WithField("component", "auth"),
		now:         time.Now,
		dummyHash:   dummyHash,
	}
}

// WithClock replaces the time source used for login timestamps
func (s *AuthServiceImpl) WithClock(now func() time.Time) *AuthServiceImpl {
	s.now = now
	return s
}

// Register implements domain.AuthService
func (s *AuthServiceImpl) Register(ctx context.Context, reg domain.Registration, meta domain.SessionMetadata) (*domain.AuthResult, error) {
	reg = trimRegistration(reg)
	if err := validateRegistration(reg); err != nil {
		return nil, err
	}
	if err := CheckPassword(s.policy, reg.Password); err != nil {
		return nil, err
	}
	if reg.Phone != "" && !ValidPhone(reg.Phone) {
		return nil, domain.ErrInvalidPhone
	}

	// Check if user already exists
	existing, err := s.userRepo.FindByEmail(ctx, reg.Email)
	if err == nil && existing != nil {
		return nil, domain.ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hashedPassword, err := s.passwordSvc.Hash(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	user := &domain.User{
		Email:        reg.Email,
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		Phone:        reg.Phone,
		PasswordHash: hashedPassword,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// a concurrent registration can win between lookup and insert
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	session, err := s.sessionSvc.Create(ctx, user.ID, meta)
	if err != nil {
		return nil, err
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserRegistrationEvent, user.ID).
		WithEmail(user.Email).
		WithClient(meta).
		WithSession(session.ID))

	return &domain.AuthResult{User: user, Session: session}, nil
}

// SignIn implements domain.AuthService
func (s *AuthServiceImpl) SignIn(ctx context.Context, email, password string, meta domain.SessionMetadata) (*domain.AuthResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrMissingFields
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.passwordSvc.Verify(s.dummyHash, password)
			s.loginFailed(ctx, 0, email, meta, "unknown email")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		s.loginFailed(ctx, user.ID, email, meta, "password mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive() {
		s.loginFailed(ctx, user.ID, email, meta, "account "+string(user.Status))
		return nil, domain.ErrUserInactive
	}

	if s.passwordSvc.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, user, password)
	}

	session, err := s.sessionSvc.Create(ctx, user.ID, meta)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Warn("failed to record last login")
	} else {
		user.LastLoginAt = &now
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserLoginEvent, user.ID).
		WithEmail(user.Email).
		WithClient(meta).
		WithSession(session.ID))

	return &domain.AuthResult{User: user, Session: session}, nil
}

func (s *AuthServiceImpl) loginFailed(ctx context.Context, userID uint, email string, meta domain.SessionMetadata, reason string) {
	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent, userID).
		WithEmail(email).
		WithClient(meta).
		WithError(domain.ErrInvalidCredentials).
		WithMetadata("reason", reason))
}

func (s *AuthServiceImpl) rehash(ctx context.Context, user *domain.User, password string) {
	hash, err := s.passwordSvc.Hash(password)
	if err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Warn("failed to upgrade password hash")
		return
	}
	if err := s.userRepo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Warn("failed to store upgraded password hash")
		return
	}
	user.PasswordHash = hash
}

// SignOut implements domain.AuthService. Unknown or already revoked tokens
// are not an error.
func (s *AuthServiceImpl) SignOut(ctx context.Context, token string) error {
	session, err := s.sessionSvc.RevokeByToken(ctx, token)
	if err != nil {
		return err
	}
	if session != nil {
		s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserLogoutEvent, session.UserID).
			WithSession(session.ID))
	}
	return nil
}

// SignOutEverywhere implements domain.AuthService
func (s *AuthServiceImpl) SignOutEverywhere(ctx context.Context, userID uint) (int64, error) {
	n, err := s.sessionSvc.RevokeAll(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.SessionsRevokedEvent, userID).
		WithMetadata("revoked", n))
	return n, nil
}

// CurrentUser implements domain.AuthService. A session whose owner vanished
// is deleted before ErrUserNotFound is returned.
func (s *AuthServiceImpl) CurrentUser(ctx context.Context, session *domain.Session) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			if rerr := s.sessionSvc.Revoke(ctx, session.ID); rerr != nil {
				s.log.WithError(rerr).WithField("session_id", session.ID).Warn("failed to delete orphaned session")
			}
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// ChangePassword implements domain.AuthService. Every other session of the
// user is revoked; the calling session stays valid.
func (s *AuthServiceImpl) ChangePassword(ctx context.Context, identity domain.Identity, current, next string) error {
	if current == "" || next == "" {
		return domain.ErrMissingFields
	}

	user, err := s.userRepo.FindByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if !s.passwordSvc.Verify(user.PasswordHash, current) {
		return domain.ErrInvalidCredentials
	}
	if err := CheckPassword(s.policy, next); err != nil {
		return err
	}

	hash, err := s.passwordSvc.Hash(next)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	revoked, err := s.sessionSvc.RevokeOthers(ctx, user.ID, identity.SessionID)
	if err != nil {
		return err
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.PasswordChangedEvent, user.ID).
		WithEmail(user.Email).
		WithSession(identity.SessionID).
		WithMetadata("revoked_sessions", revoked))
	return nil
}

var _ domain.AuthService = (*AuthServiceImpl)(nil)
