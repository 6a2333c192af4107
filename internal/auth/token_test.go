// ABOUTME: Tests for JWT issuing and verification
// ABOUTME: Covers both token kinds, secret separation, expiry, and tampering

package auth

import (
	"errors"
	"testing"
	"time"
)

var (
	testAccessSecret  = []byte("access-token-test-secret-32-byte")
	testRefreshSecret = []byte("refresh-token-test-secret-32byte")
)

func testCodec() *TokenCodec {
	return NewTokenCodec(testAccessSecret, testRefreshSecret, 15*time.Minute, 7*24*time.Hour)
}

func TestTokenCodec_IssueAndVerify(t *testing.T) {
	codec := testCodec()

	for _, kind := range []TokenKind{AccessToken, RefreshToken} {
		token, err := codec.Issue("user-123", kind)
		if err != nil {
			t.Fatalf("Issue() error = %v", err)
		}

		userID, err := codec.Verify(token, kind)
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if userID != "user-123" {
			t.Errorf("expected user ID 'user-123', got '%s'", userID)
		}
	}
}

func TestTokenCodec_KindsAreNotInterchangeable(t *testing.T) {
	codec := testCodec()

	access, _ := codec.Issue("user-123", AccessToken)
	refresh, _ := codec.Issue("user-123", RefreshToken)

	if _, err := codec.Verify(access, RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("access token verified as refresh: err = %v", err)
	}
	if _, err := codec.Verify(refresh, AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("refresh token verified as access: err = %v", err)
	}
}

func TestTokenCodec_SuccessiveTokensDiffer(t *testing.T) {
	codec := testCodec()

	// Issued back to back within the same second, the jti claim still
	// guarantees distinct strings.
	first, err := codec.Issue("user-123", RefreshToken)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	second, err := codec.Issue("user-123", RefreshToken)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if first == second {
		t.Error("expected successive tokens to differ")
	}
}

func TestTokenCodec_ExpiredToken(t *testing.T) {
	codec := NewTokenCodec(testAccessSecret, testRefreshSecret, -time.Minute, -time.Minute)

	token, err := codec.Issue("user-123", AccessToken)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err = codec.Verify(token, AccessToken)
	if !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestTokenCodec_TamperedToken(t *testing.T) {
	codec := testCodec()

	token, _ := codec.Issue("user-123", AccessToken)
	tampered := token[:len(token)-2] + "xx"

	_, err := codec.Verify(tampered, AccessToken)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenCodec_GarbageToken(t *testing.T) {
	codec := testCodec()

	tests := []string{"", "not-a-jwt", "a.b.c"}
	for _, tok := range tests {
		if _, err := codec.Verify(tok, AccessToken); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q): expected ErrInvalidToken, got %v", tok, err)
		}
	}
}
