// Package services contains server-side business logic. This file implements
// SessionService, which handles signup, login, and issuing/refreshing JWTs
// plus server-stored refresh tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/2witstudios/pagespace/internal/common"
	"github.com/2witstudios/pagespace/internal/dbx"
	"github.com/2witstudios/pagespace/internal/server/auth"
	"github.com/2witstudios/pagespace/internal/server/config"
	"github.com/2witstudios/pagespace/internal/server/models"
	"github.com/2witstudios/pagespace/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// SessionService provides authentication-related operations:
//   - Signup: create users
//   - Login: verify credentials and mint tokens
//   - Refresh: rotate refresh tokens and mint new access tokens
//   - Logout: revoke a refresh token, tolerating absence
//   - ChangePassword: rotate the hash and revoke every outstanding token
type SessionService struct {
	db                           *sql.DB
	repos                        repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewSessionService constructs a SessionService using repositories and server config.
func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *SessionService {
	return &SessionService{
		db:                           db,
		repos:                        m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Signup creates a new user with a bcrypt-hashed password.
func (s *SessionService) Signup(ctx context.Context, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	repo := s.repos.Users(s.db)
	user, err := repo.Create(ctx, &models.User{Email: email, PasswordHash: string(hash)})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

// Login verifies the provided password against the stored hash and, on
// success, returns a new TokenPair. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *SessionService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	repo := s.repos.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}
	return s.generateTokenPair(ctx, user, s.db)
}

// Refresh validates a refresh token, rotates it transactionally, and returns
// a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired; unknown
// tokens yield ErrorUnauthorized.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repos.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		// Re-read the user inside the transaction so the new access token
		// carries the current token version.
		user, err := s.repos.Users(tx).GetByID(ctx, token.UserID)
		if err != nil {
			return err
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, user, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// VerifySession validates an access token and compares its embedded version
// against the user's current token version. A stale version means the token
// was revoked globally (password change), so it is rejected exactly like a
// forged one.
func (s *SessionService) VerifySession(ctx context.Context, accessToken string) (*auth.Claims, error) {
	claims, ok := auth.VerifyToken(accessToken, s.jwtSecret)
	if !ok {
		return nil, common.ErrorUnauthorized
	}
	user, err := s.repos.Users(s.db).GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if !auth.CurrentVersionMatches(claims, user) {
		return nil, common.ErrorUnauthorized
	}
	return claims, nil
}

// CSRFToken returns the CSRF token bound to the session the claims derive.
func (s *SessionService) CSRFToken(claims *auth.Claims) string {
	sessionID := auth.DeriveSessionID(claims, s.jwtSecret)
	return auth.IssueCSRFToken(sessionID, s.jwtSecret)
}

// VerifyCSRF checks a presented CSRF token against the session the claims
// derive.
func (s *SessionService) VerifyCSRF(claims *auth.Claims, token string) bool {
	sessionID := auth.DeriveSessionID(claims, s.jwtSecret)
	return auth.VerifyCSRFToken(sessionID, token, s.jwtSecret)
}

// Logout revokes the given refresh token. A missing or unknown token is
// treated as "already invalidated": logout never hard-fails for it.
func (s *SessionService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.repos.RefreshTokens(s.db).Delete(ctx, refreshToken); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// ChangePassword verifies the old password, stores a new hash, bumps the
// user's token version, and revokes all refresh tokens, so every outstanding
// credential for the user dies at once.
func (s *SessionService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.repos.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return common.ErrorUnauthorized
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return common.ErrorInternal
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		usersTx := s.repos.Users(tx)
		if err := usersTx.UpdatePasswordHash(ctx, userID, string(hash)); err != nil {
			return err
		}
		if _, err := usersTx.IncrementTokenVersion(ctx, userID); err != nil {
			return err
		}
		return s.repos.RefreshTokens(tx).DeleteAllForUser(ctx, userID)
	})
}

// --- helpers below ---

func (s *SessionService) generateAccessToken(user *models.User) (string, error) {
	return auth.GenerateToken(user.ID, user.TokenVersion, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *SessionService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *SessionService) generateTokenPair(ctx context.Context, user *models.User, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(user)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repos.RefreshTokens(tx).Create(ctx, user.ID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
