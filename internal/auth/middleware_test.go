// ABOUTME: Tests for HTTP authentication middleware and the ownership guard
// ABOUTME: Covers cookie and bearer extraction, rejection paths, and RequireOwner

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tubecast/tubecast/internal/store"
)

func TestMiddleware_BearerToken(t *testing.T) {
	s := createTestStore(t)
	user := registerTestUser(t, s, "alice", "s3cret-pass")
	authn := newTestAuthenticator(s)
	pair, err := authn.issuePair(user.ID)
	if err != nil {
		t.Fatalf("issuePair() error = %v", err)
	}

	var gotIdentity *Identity
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIdentity = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()

	Middleware(authn, s)(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if gotIdentity == nil {
		t.Fatal("expected Identity in context")
	}
	if gotIdentity.UserID() != user.ID {
		t.Errorf("expected user ID '%s', got '%s'", user.ID, gotIdentity.UserID())
	}
	if gotIdentity.User.PasswordHash != "" || gotIdentity.User.RefreshToken != nil {
		t.Error("expected identity user to be sanitized")
	}
}

func TestMiddleware_BearerCaseInsensitive(t *testing.T) {
	s := createTestStore(t)
	user := registerTestUser(t, s, "alice", "s3cret-pass")
	authn := newTestAuthenticator(s)
	pair, _ := authn.issuePair(user.ID)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()

	Middleware(authn, s)(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200 for lowercase scheme, got %d", rec.Code)
	}
}

func TestMiddleware_CookieToken(t *testing.T) {
	s := createTestStore(t)
	user := registerTestUser(t, s, "alice", "s3cret-pass")
	authn := newTestAuthenticator(s)
	pair, _ := authn.issuePair(user.ID)

	var gotIdentity *Identity
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIdentity = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: pair.AccessToken})
	rec := httptest.NewRecorder()

	Middleware(authn, s)(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if gotIdentity == nil || gotIdentity.UserID() != user.ID {
		t.Fatal("expected identity from cookie token")
	}
}

func TestMiddleware_MissingToken(t *testing.T) {
	s := createTestStore(t)
	authn := newTestAuthenticator(s)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	rec := httptest.NewRecorder()

	Middleware(authn, s)(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}

func TestMiddleware_InvalidToken(t *testing.T) {
	s := createTestStore(t)
	authn := newTestAuthenticator(s)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()

	Middleware(authn, s)(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	s := createTestStore(t)
	user := registerTestUser(t, s, "alice", "s3cret-pass")

	expiredCodec := NewTokenCodec(testAccessSecret, testRefreshSecret, -time.Minute, time.Hour)
	authn := NewAuthenticator(s, expiredCodec)
	pair, _ := authn.issuePair(user.ID)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()

	Middleware(authn, s)(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401 for expired token, got %d", rec.Code)
	}
}

func TestMiddleware_RefreshTokenRejectedAsAccess(t *testing.T) {
	s := createTestStore(t)
	user := registerTestUser(t, s, "alice", "s3cret-pass")
	authn := newTestAuthenticator(s)
	pair, _ := authn.issuePair(user.ID)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	rec := httptest.NewRecorder()

	Middleware(authn, s)(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}

func TestMiddleware_DeletedUser(t *testing.T) {
	s := createTestStore(t)
	authn := newTestAuthenticator(s)

	// Token for a user that does not exist in the store.
	pair, _ := authn.issuePair("ghost-user-id")

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()

	Middleware(authn, s)(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}

func TestOptionalMiddleware(t *testing.T) {
	s := createTestStore(t)
	user := registerTestUser(t, s, "alice", "s3cret-pass")
	authn := newTestAuthenticator(s)
	pair, _ := authn.issuePair(user.ID)

	var gotIdentity *Identity
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIdentity = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	mw := OptionalMiddleware(authn, s)(handler)

	// Anonymous request passes through with no identity.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos", nil)
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200 for anonymous request, got %d", rec.Code)
	}
	if gotIdentity != nil {
		t.Error("expected no identity for anonymous request")
	}

	// Authenticated request carries the identity.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/videos", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec = httptest.NewRecorder()
	mw.ServeHTTP(rec, req)
	if gotIdentity == nil || gotIdentity.UserID() != user.ID {
		t.Fatal("expected identity for authenticated request")
	}

	// A bad token degrades to anonymous rather than failing.
	gotIdentity = nil
	req = httptest.NewRequest(http.MethodGet, "/api/v1/videos", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	mw.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200 for bad token, got %d", rec.Code)
	}
	if gotIdentity != nil {
		t.Error("expected no identity for bad token")
	}
}

func TestRequireOwner(t *testing.T) {
	owner := &Identity{User: &store.User{ID: "user-1"}}
	stranger := &Identity{User: &store.User{ID: "user-2"}}
	video := &store.Video{ID: "vid-1", OwnerUserID: "user-1"}

	if err := RequireOwner(owner, video); err != nil {
		t.Errorf("expected owner to pass, got %v", err)
	}
	if err := RequireOwner(stranger, video); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for non-owner, got %v", err)
	}
	if err := RequireOwner(nil, video); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for nil identity, got %v", err)
	}
}

func TestIdentityContext(t *testing.T) {
	id := &Identity{User: &store.User{ID: "user-1"}}
	ctx := WithIdentity(context.Background(), id)

	if got := FromContext(ctx); got != id {
		t.Error("expected identity round trip through context")
	}
	if got := FromContext(context.Background()); got != nil {
		t.Error("expected nil identity from empty context")
	}

	defer func() {
		if recover() == nil {
			t.Error("expected MustFromContext to panic on empty context")
		}
	}()
	MustFromContext(context.Background())
}
