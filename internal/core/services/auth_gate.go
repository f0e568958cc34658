package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/menulink/emenu-backend/internal/auth"
	"github.com/menulink/emenu-backend/internal/core/domain"
	apperrors "github.com/menulink/emenu-backend/internal/core/errors"
	"github.com/menulink/emenu-backend/internal/core/ports"
)

// AuthGate resolves a bearer token into a session identity before a
// real-time connection is admitted. With enforcement disabled it hands out
// the development identity instead, so local frontends can connect without
// minting tokens.
type AuthGate struct {
	tokens    *auth.TokenManager
	users     ports.UserRepository
	enforce   bool
	devUserID uuid.UUID
	logger    *slog.Logger
}

var _ ports.Authenticator = (*AuthGate)(nil)

// NewAuthGate creates the authentication gate.
func NewAuthGate(tokens *auth.TokenManager, users ports.UserRepository, enforce bool, devUserID uuid.UUID, logger *slog.Logger) *AuthGate {
	return &AuthGate{
		tokens:    tokens,
		users:     users,
		enforce:   enforce,
		devUserID: devUserID,
		logger:    logger.With("component", "auth_gate"),
	}
}

// Resolve turns a token into an identity. Admission must happen before any
// registry mutation, so every failure path here leaves the system untouched.
func (g *AuthGate) Resolve(ctx context.Context, token string) (domain.Identity, error) {
	if !g.enforce {
		return g.developmentIdentity(ctx), nil
	}

	if token == "" {
		return domain.Identity{}, apperrors.ErrTokenRequired
	}

	claims, err := g.tokens.ValidateToken(token)
	if err != nil {
		g.logger.Warn("token validation failed", "error", err)
		return domain.Identity{}, apperrors.ErrInvalidToken
	}

	user, err := g.users.GetByID(ctx, claims.UserID)
	if err != nil {
		g.logger.Warn("token subject not found", "user_id", claims.UserID, "error", err)
		return domain.Identity{}, apperrors.ErrInvalidToken
	}
	if !user.IsActive {
		return domain.Identity{}, apperrors.ErrInvalidToken
	}

	return domain.IdentityOf(user), nil
}

// developmentIdentity looks up the configured development user, falling back
// to a synthetic superadmin when the record does not exist yet.
func (g *AuthGate) developmentIdentity(ctx context.Context) domain.Identity {
	user, err := g.users.GetByID(ctx, g.devUserID)
	if err == nil && user.IsActive {
		g.logger.Info("using development user", "user_id", user.ID)
		return domain.IdentityOf(user)
	}

	g.logger.Info("development user not found, using synthetic identity", "user_id", g.devUserID)
	return domain.Identity{
		UserID: g.devUserID,
		Role:   domain.RoleSuperAdmin,
	}
}
