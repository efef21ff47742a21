package auth

import (
	"context"
	"slices"
	"strings"

	"github.com/frahmantamala/clinic-management/internal/permission"
	"github.com/golang-jwt/jwt/v5"
)

// Principal is the authenticated caller attached to each request.
type Principal struct {
	UserID      int64
	Email       string
	Roles       []string
	Permissions permission.Set
}

// HasRole matches role names case-insensitively, ignoring surrounding space.
func (p *Principal) HasRole(role string) bool {
	role = strings.ToLower(strings.TrimSpace(role))
	return slices.ContainsFunc(p.Roles, func(r string) bool {
		return strings.ToLower(r) == role
	})
}

// PrimaryRole is the first assigned role, used when a caller does not pick one.
func (p *Principal) PrimaryRole() string {
	if len(p.Roles) == 0 {
		return ""
	}
	return p.Roles[0]
}

func (p *Principal) Can(required ...permission.Permission) bool {
	return p.Permissions.HasAny(required...)
}

type principalKey struct{}

func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Claims represents JWT token claims
type Claims struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenGenerator creates and validates signed tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID int64, email string) (string, error)
	GenerateRefreshToken(userID int64, email string) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
	AccessTTLSeconds() int64
}
