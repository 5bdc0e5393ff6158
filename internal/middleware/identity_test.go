package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestIdentityMiddleware_ExistingCookie_InjectsUserID(t *testing.T) {
	mw := NewIdentityMiddleware(IdentityConfig{})

	var capturedUserID string
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := UserIDFromContext(r.Context())
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		capturedUserID = userID
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/spaces", nil)
	req.AddCookie(&http.Cookie{Name: "user_id", Value: "existing-user-id"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if capturedUserID != "existing-user-id" {
		t.Errorf("userID = %q, want %q", capturedUserID, "existing-user-id")
	}

	// 既存のCookieがある場合は新しいCookieを発行しない
	if len(resp.Cookies()) != 0 {
		t.Errorf("expected no Set-Cookie, got %d cookies", len(resp.Cookies()))
	}
}

func TestIdentityMiddleware_NoCookie_AssignsNewID(t *testing.T) {
	mw := NewIdentityMiddleware(IdentityConfig{})

	var capturedUserID string
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := UserIDFromContext(r.Context())
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		capturedUserID = userID
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/spaces", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if capturedUserID == "" {
		t.Fatal("expected a generated user ID in context")
	}
	if _, err := uuid.Parse(capturedUserID); err != nil {
		t.Errorf("generated user ID %q is not a valid UUID: %v", capturedUserID, err)
	}

	// 新しいIDがCookieとして発行されること
	cookies := resp.Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 Set-Cookie, got %d", len(cookies))
	}
	cookie := cookies[0]
	if cookie.Name != "user_id" {
		t.Errorf("cookie name = %q, want %q", cookie.Name, "user_id")
	}
	if cookie.Value != capturedUserID {
		t.Errorf("cookie value = %q, want %q", cookie.Value, capturedUserID)
	}
	if !cookie.HttpOnly {
		t.Error("expected HttpOnly cookie")
	}
	if cookie.Path != "/" {
		t.Errorf("cookie path = %q, want %q", cookie.Path, "/")
	}
}

func TestIdentityMiddleware_EmptyCookie_AssignsNewID(t *testing.T) {
	mw := NewIdentityMiddleware(IdentityConfig{})

	var capturedUserID string
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedUserID, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/spaces", nil)
	req.AddCookie(&http.Cookie{Name: "user_id", Value: ""})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if capturedUserID == "" {
		t.Error("expected a generated user ID for empty cookie")
	}
	if len(w.Result().Cookies()) != 1 {
		t.Errorf("expected 1 Set-Cookie, got %d", len(w.Result().Cookies()))
	}
}

func TestIdentityMiddleware_SecureConfig_SetsSecureCookie(t *testing.T) {
	mw := NewIdentityMiddleware(IdentityConfig{CookieSecure: true, CookieDomain: "example.com"})

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/spaces", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 Set-Cookie, got %d", len(cookies))
	}
	if !cookies[0].Secure {
		t.Error("expected Secure cookie")
	}
	if cookies[0].Domain != "example.com" {
		t.Errorf("cookie domain = %q, want %q", cookies[0].Domain, "example.com")
	}
}

func TestUserIDFromContext_NoValue_ReturnsError(t *testing.T) {
	ctx := context.Background()
	_, err := UserIDFromContext(ctx)
	if err == nil {
		t.Error("expected error for missing user ID in context")
	}
}

func TestUserIDFromContext_ValidValue_ReturnsUserID(t *testing.T) {
	ctx := ContextWithUserID(context.Background(), "user-456")
	userID, err := UserIDFromContext(ctx)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if userID != "user-456" {
		t.Errorf("userID = %q, want %q", userID, "user-456")
	}
}
