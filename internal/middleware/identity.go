// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// identityCookieName は匿名ユーザーIDを保持するCookie名。
const identityCookieName = "user_id"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userIDContextKey はリクエストコンテキストにユーザーIDを格納するためのキー。
var userIDContextKey = contextKey("user_id")

// IdentityConfig はCookieの発行設定を保持する。
type IdentityConfig struct {
	CookieSecure bool
	CookieDomain string
}

// NewIdentityMiddleware はCookieから匿名ユーザーIDを読み取り、
// リクエストコンテキストに注入するミドルウェアを返す。
// Cookieが存在しない場合は新しいUUIDを生成してCookieを発行する。
//
// この識別モデルには認証がない（パスワードもトークンも検証しない）。
// Cookieを偽造すれば任意のユーザーになりすませる。認証の導入は
// 既存クライアントとの互換を壊すため、ここでは行わない。
func NewIdentityMiddleware(config IdentityConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := ""
			if cookie, err := r.Cookie(identityCookieName); err == nil {
				userID = cookie.Value
			}

			if userID == "" {
				userID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     identityCookieName,
					Value:    userID,
					Path:     "/",
					Domain:   config.CookieDomain,
					Secure:   config.CookieSecure,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), userIDContextKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext はリクエストコンテキストからユーザーIDを取得する。
// 識別ミドルウェアを通過したリクエストでのみ有効。
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// ContextWithUserID はコンテキストにユーザーIDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}
