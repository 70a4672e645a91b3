package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/catalog-api/internal/auth"
	"github.com/spec-kit/catalog-api/internal/domain"
	"github.com/spec-kit/catalog-api/internal/events"
	"github.com/spec-kit/catalog-api/internal/observability"
	"github.com/spec-kit/catalog-api/internal/repository"
)

var (
	errRegisterFieldsRequired = domain.NewError(domain.ErrInvalidInput, "username, email and password are required")
	errLoginFieldsRequired    = domain.NewError(domain.ErrInvalidInput, "email and password are required")
)

// Internal failure reasons. They go to logs and metrics only.
const (
	reasonUnknownEmail   = "unknown_email"
	reasonWrongPassword  = "wrong_password"
	reasonInvalidToken   = "invalid_token"
	reasonSubjectMissing = "subject_missing"
)

// AuthService coordinates registration, login and token validation.
type AuthService struct {
	users    repository.UserRepository
	hasher   *auth.PasswordHasher
	tokenMgr *auth.TokenManager
	logger   *zap.Logger
	metrics  *observability.Metrics
	events   publisher
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Hasher     *auth.PasswordHasher
	Tokens     *auth.TokenManager
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:    deps.UserRepo,
		hasher:   deps.Hasher,
		tokenMgr: deps.Tokens,
		logger:   logger,
		metrics:  deps.Metrics,
		events:   newPublisher(deps.Dispatcher, logger),
	}
}

// Register creates a new account with the user role and signs a token for it.
// The email and username lookups are a fast path only; the store's unique
// constraints decide races, and Insert reports them as conflicts.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.AuthResult, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, errRegisterFieldsRequired
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	s.events.publish(ctx, events.Event{
		Type:  events.EventUserRegistered,
		Actor: events.Actor{UserID: &user.ID, Role: user.Role},
		Payload: events.UserRegisteredPayload{
			UserID:   user.ID,
			Username: user.Username,
		},
	})

	return &domain.AuthResult{Identity: user.Identity(), Token: token, ExpiresAt: exp}, nil
}

// Login checks credentials. An unknown email and a wrong password return the
// same error and cost the same bcrypt comparison.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, errLoginFieldsRequired
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.hasher.VerifyAgainstDummy(password)
			s.recordFailure(reasonUnknownEmail)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.recordFailure(reasonWrongPassword, zap.Int64("user_id", user.ID))
		return nil, domain.ErrInvalidCredentials
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResult{Identity: user.Identity(), Token: token, ExpiresAt: exp}, nil
}

// Validate resolves a token to the identity it names. The subject must still
// exist; its current stored record is returned.
func (s *AuthService) Validate(ctx context.Context, token string) (*domain.Identity, error) {
	claims, err := s.tokenMgr.Verify(token)
	if err != nil {
		s.recordFailure(reasonInvalidToken, zap.Error(err))
		return nil, domain.ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.recordFailure(reasonSubjectMissing, zap.Int64("user_id", claims.SubjectID))
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	return user.Identity(), nil
}

// TokenManager exposes the underlying token manager.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) recordFailure(reason string, fields ...zap.Field) {
	s.metrics.RecordAuthFailure(reason)
	s.logger.Debug("authentication rejected", append([]zap.Field{zap.String("reason", reason)}, fields...)...)
}
