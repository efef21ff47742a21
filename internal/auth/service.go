package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/clinic-management/internal"
	"github.com/frahmantamala/clinic-management/internal/core/metrics"
	"github.com/frahmantamala/clinic-management/internal/permission"
	"golang.org/x/crypto/bcrypt"
)

type Credentials struct {
	UserID       int64
	Email        string
	PasswordHash string
	IsActive     bool
}

type Account struct {
	ID       int64
	Email    string
	IsActive bool
	Roles    []string
}

type RepositoryAPI interface {
	// GetCredentialsByEmail returns nil, nil when no account matches.
	GetCredentialsByEmail(ctx context.Context, email string) (*Credentials, error)
	// GetAccount returns nil, nil when the user does not exist.
	GetAccount(ctx context.Context, userID int64) (*Account, error)
	UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error
}

type PermissionResolver interface {
	GetUserPermissions(ctx context.Context, userID int64) (permission.Set, error)
}

type Service struct {
	repo     RepositoryAPI
	resolver PermissionResolver
	tokens   TokenGenerator
	revoked  *RevocationList
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, resolver PermissionResolver, tokens TokenGenerator, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		tokens:   tokens,
		revoked:  NewRevocationList(),
		logger:   logger,
	}
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	dto.Normalize()
	if appErr := dto.Validate(); appErr != nil {
		return AuthTokens{}, appErr
	}

	creds, err := s.repo.GetCredentialsByEmail(ctx, dto.Email)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to load credentials", err)
	}
	if creds == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(dto.Password))
		metrics.IncAuthAttempt("failure")
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if err := VerifyPassword(creds.PasswordHash, dto.Password); err != nil {
		metrics.IncAuthAttempt("failure")
		s.logger.WarnContext(ctx, "login failed: wrong password", "user_id", creds.UserID)
		return AuthTokens{}, internal.ErrInvalidCredentials
	}
	if !creds.IsActive {
		metrics.IncAuthAttempt("inactive")
		return AuthTokens{}, internal.ErrUserInactive
	}

	tokens, err := s.issue(creds.UserID, creds.Email)
	if err != nil {
		return AuthTokens{}, err
	}

	if err := s.repo.UpdateLastLogin(ctx, creds.UserID, time.Now()); err != nil {
		s.logger.WarnContext(ctx, "failed to record last login", "user_id", creds.UserID, "error", err)
	}
	metrics.IncAuthAttempt("success")
	s.logger.InfoContext(ctx, "user logged in", "user_id", creds.UserID)
	return tokens, nil
}

// RefreshTokens rotates a refresh token. The presented token is revoked so
// it cannot be used twice.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}
	if s.revoked.IsRevoked(claims.ID) {
		return AuthTokens{}, internal.ErrInvalidToken
	}

	account, err := s.repo.GetAccount(ctx, claims.UserID)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to load account", err)
	}
	if account == nil {
		return AuthTokens{}, internal.ErrInvalidToken
	}
	if !account.IsActive {
		return AuthTokens{}, internal.ErrUserInactive
	}

	s.revoked.Revoke(claims.ID, claims.ExpiresAt.Time)
	return s.issue(account.ID, account.Email)
}

// Logout revokes the access token and, when given, the refresh token.
func (s *Service) Logout(ctx context.Context, accessToken, refreshToken string) error {
	claims, err := s.tokens.ValidateAccessToken(accessToken)
	if err != nil {
		return err
	}
	s.revoked.Revoke(claims.ID, claims.ExpiresAt.Time)

	if refreshToken != "" {
		if rc, err := s.tokens.ValidateRefreshToken(refreshToken); err == nil && rc.UserID == claims.UserID {
			s.revoked.Revoke(rc.ID, rc.ExpiresAt.Time)
		}
	}
	s.logger.InfoContext(ctx, "user logged out", "user_id", claims.UserID)
	return nil
}

// LoadPrincipal validates an access token and resolves the caller's roles
// and effective permissions.
func (s *Service) LoadPrincipal(ctx context.Context, accessToken string) (*Principal, error) {
	claims, err := s.tokens.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, err
	}
	if s.revoked.IsRevoked(claims.ID) {
		return nil, internal.ErrInvalidToken
	}

	account, err := s.repo.GetAccount(ctx, claims.UserID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load account", err)
	}
	if account == nil {
		return nil, internal.ErrInvalidToken
	}
	if !account.IsActive {
		return nil, internal.ErrUserInactive
	}

	perms, err := s.resolver.GetUserPermissions(ctx, account.ID)
	if err != nil {
		// degrade to no access rather than failing the request outright
		s.logger.ErrorContext(ctx, "failed to resolve permissions", "user_id", account.ID, "error", err)
		perms = permission.NewSet()
	}

	return &Principal{
		UserID:      account.ID,
		Email:       account.Email,
		Roles:       account.Roles,
		Permissions: perms,
	}, nil
}

func (s *Service) issue(userID int64, email string) (AuthTokens, error) {
	access, err := s.tokens.GenerateAccessToken(userID, email)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign access token", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(userID, email)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign refresh token", err)
	}
	return AuthTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    s.tokens.AccessTTLSeconds(),
	}, nil
}
