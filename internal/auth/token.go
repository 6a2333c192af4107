// ABOUTME: JWT issuing and verification for session credentials
// ABOUTME: Uses HS256 with separate secrets for access and refresh tokens

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrMissingClaim = errors.New("missing required claim")
)

// TokenKind selects which signing profile a token belongs to. Access and
// refresh tokens are signed with distinct secrets so one can never be
// presented in place of the other.
type TokenKind int

const (
	AccessToken TokenKind = iota
	RefreshToken
)

// TokenCodec issues and verifies HS256 signed JWTs for both token kinds.
type TokenCodec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenCodec creates a codec with the given secrets and lifetimes.
func NewTokenCodec(accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration) *TokenCodec {
	return &TokenCodec{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (c *TokenCodec) secretFor(kind TokenKind) []byte {
	if kind == RefreshToken {
		return c.refreshSecret
	}
	return c.accessSecret
}

func (c *TokenCodec) ttlFor(kind TokenKind) time.Duration {
	if kind == RefreshToken {
		return c.refreshTTL
	}
	return c.accessTTL
}

// Issue creates a signed token of the given kind for the user. Every token
// carries a unique "jti" claim, so two tokens issued in the same second for
// the same user still differ as strings.
func (c *TokenCodec) Issue(userID string, kind TokenKind) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(c.ttlFor(kind)).Unix(),
		"jti": uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secretFor(kind))
}

// Verify validates a token of the given kind and extracts the user ID from
// the "sub" claim.
func (c *TokenCodec) Verify(tokenString string, kind TokenKind) (userID string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method is HS256
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secretFor(kind), nil
	})

	if err != nil {
		// Check if it's specifically an expiration error
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("%w: sub", ErrMissingClaim)
	}

	return sub, nil
}
