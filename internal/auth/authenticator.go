// ABOUTME: Session credential lifecycle: login, refresh rotation, logout
// ABOUTME: Each user holds a single refresh slot that rotates on every use

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tubecast/tubecast/internal/store"
)

// Authentication errors
var (
	// ErrInvalidCredentials covers both unknown identifiers and wrong
	// passwords so that responses do not reveal which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized is returned when a refresh token is missing, invalid,
	// expired, or no longer matches the user's stored slot.
	ErrUnauthorized = errors.New("unauthorized")
)

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Authenticator owns the session credential lifecycle. It issues paired
// access/refresh tokens, persists the refresh token into the user's single
// slot, and rotates that slot atomically on every refresh.
type Authenticator struct {
	users  store.UserStore
	codec  *TokenCodec
	logger *slog.Logger
}

// NewAuthenticator creates an Authenticator backed by the given user store
// and token codec.
func NewAuthenticator(users store.UserStore, codec *TokenCodec) *Authenticator {
	return &Authenticator{
		users:  users,
		codec:  codec,
		logger: slog.Default().With("component", "auth"),
	}
}

// lookupByIdentifier resolves a login identifier to a user. Identifiers
// containing "@" are tried as email addresses first, then as a username,
// everything else as a username only.
func (a *Authenticator) lookupByIdentifier(ctx context.Context, identifier string) (*store.User, error) {
	if strings.Contains(identifier, "@") {
		user, err := a.users.GetUserByEmail(ctx, identifier)
		if !errors.Is(err, store.ErrNotFound) {
			return user, err
		}
	}
	return a.users.GetUserByUsername(ctx, identifier)
}

// Login verifies the identifier/password pair and, on success, issues a new
// token pair and stores the refresh token in the user's slot, displacing any
// previous session.
func (a *Authenticator) Login(ctx context.Context, identifier, password string) (*store.User, *TokenPair, error) {
	user, err := a.lookupByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn a bcrypt comparison so unknown identifiers take as
			// long as known ones.
			dummyCompare(password)
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("looking up user: %w", err)
	}

	if !CheckPassword(user.PasswordHash, password) {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := a.issuePair(user.ID)
	if err != nil {
		return nil, nil, err
	}

	if err := a.users.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, nil, fmt.Errorf("storing refresh token: %w", err)
	}

	a.logger.Info("login successful", "user_id", user.ID, "username", user.Username)
	return user, pair, nil
}

// Refresh exchanges a refresh token for a fresh pair. The presented token
// must verify against the refresh secret and must exactly equal the string
// stored in the user's slot. The swap is a single compare-and-set in the
// store, so a replayed token loses the race and is rejected.
func (a *Authenticator) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := a.codec.Verify(refreshToken, RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	pair, err := a.issuePair(userID)
	if err != nil {
		return nil, err
	}

	if err := a.users.RotateRefreshToken(ctx, userID, refreshToken, pair.RefreshToken); err != nil {
		if errors.Is(err, store.ErrRefreshTokenMismatch) || errors.Is(err, store.ErrNotFound) {
			a.logger.Warn("refresh token rejected", "user_id", userID)
			return nil, fmt.Errorf("%w: refresh token is no longer valid", ErrUnauthorized)
		}
		return nil, fmt.Errorf("rotating refresh token: %w", err)
	}

	return pair, nil
}

// Logout clears the user's refresh slot. Outstanding access tokens keep
// working until they expire, but no further refresh is possible.
func (a *Authenticator) Logout(ctx context.Context, userID string) error {
	if err := a.users.ClearRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("clearing refresh token: %w", err)
	}
	a.logger.Info("logout", "user_id", userID)
	return nil
}

// ChangePassword verifies the current password, stores a new hash, and
// clears the refresh slot so existing sessions cannot be renewed.
func (a *Authenticator) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := a.users.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("looking up user: %w", err)
	}

	if !CheckPassword(user.PasswordHash, oldPassword) {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	if err := a.users.UpdateUserPassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	if err := a.users.ClearRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("clearing refresh token: %w", err)
	}

	a.logger.Info("password changed", "user_id", userID)
	return nil
}

// VerifyAccess validates an access token and returns the user ID it was
// issued for.
func (a *Authenticator) VerifyAccess(tokenString string) (string, error) {
	return a.codec.Verify(tokenString, AccessToken)
}

func (a *Authenticator) issuePair(userID string) (*TokenPair, error) {
	access, err := a.codec.Issue(userID, AccessToken)
	if err != nil {
		return nil, fmt.Errorf("issuing access token: %w", err)
	}
	refresh, err := a.codec.Issue(userID, RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("issuing refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
