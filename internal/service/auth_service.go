package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

var (
	// ErrNoAccount is returned when the login email is unknown. It is raised
	// before any password comparison.
	ErrNoAccount error = apperrors.NewDomainError("NO_ACCOUNT", "No account with this email", http.StatusBadRequest, nil)
	// ErrInvalidCredentials is the generic password failure.
	ErrInvalidCredentials = apperrors.NewUnauthorized("No active account found with the given credentials")
	// ErrProfileNotFound is returned on login for users without a role.
	ErrProfileNotFound = apperrors.NewValidationError("User profile not found.", nil)
	// ErrInvalidRefreshToken covers malformed, expired, reused and revoked refresh tokens.
	ErrInvalidRefreshToken = apperrors.NewUnauthorized("Token is invalid or expired")
)

// RegisterInput is the registration payload.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
}

// AuthService coordinates registration, login and token refresh.
type AuthService struct {
	users      repository.UserRepository
	profiles   repository.ProfileRepository
	refresh    repository.RefreshTokenRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo         repository.UserRepository
	ProfileRepo      repository.ProfileRepository
	RefreshTokenRepo repository.RefreshTokenRepository
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		profiles:   deps.ProfileRepo,
		refresh:    deps.RefreshTokenRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL(), cfg.Auth.RefreshTTL()),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a user and its profile atomically and logs the new user in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.Session, error) {
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("invalid payload", map[string]any{
			"role": "must be one of: customer agent",
		})
	}
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)

	conflicts := map[string]any{}
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		conflicts["username"] = "A user with that username already exists."
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		conflicts["email"] = "A user with that email already exists."
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, apperrors.NewConflict("account already exists", conflicts)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	profile := &domain.UserProfile{Role: input.Role}
	if err := s.users.CreateWithProfile(ctx, user, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("account already exists", nil)
		}
		return nil, err
	}

	return s.issue(ctx, user, profile)
}

// Authenticate logs a user in by email. The email is resolved to the
// username first and credentials are then verified by username.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.Session, error) {
	account, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoAccount
		}
		return nil, err
	}

	user, err := s.verifyCredentials(ctx, account.Username, password)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return s.issue(ctx, user, profile)
}

// Refresh rotates a refresh token: the presented token is consumed and a new pair issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.Session, error) {
	claims, err := s.tokenMgr.ParseToken(refreshToken, domain.TokenTypeRefresh)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	owner, err := s.refresh.Consume(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenUnknown) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if owner != claims.Subject {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(ctx, owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	profile, err := s.profiles.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return s.issue(ctx, user, profile)
}

// Revoke invalidates a refresh token. Unknown or already used tokens are
// accepted silently so logout is idempotent.
func (s *AuthService) Revoke(ctx context.Context, refreshToken string) error {
	claims, err := s.tokenMgr.ParseToken(refreshToken, domain.TokenTypeRefresh)
	if err != nil {
		return ErrInvalidRefreshToken
	}
	return s.refresh.Revoke(ctx, claims.ID)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) verifyCredentials(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) issue(ctx context.Context, user *domain.User, profile *domain.UserProfile) (*domain.Session, error) {
	pair, err := s.tokenMgr.IssuePair(user, profile)
	if err != nil {
		return nil, err
	}
	if err := s.refresh.Store(ctx, pair.RefreshID, user.ID, s.tokenMgr.RefreshTTL()); err != nil {
		return nil, err
	}
	return &domain.Session{User: user, Profile: profile, Tokens: pair}, nil
}
