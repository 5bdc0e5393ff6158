package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hitoshi/spacenote/internal/middleware"
)

// AuthHandler は匿名識別のHTTPハンドラー。
// Cookieの発行自体は識別ミドルウェアが行うため、ここでは
// コンテキストに注入済みのユーザーIDを返すだけでよい。
type AuthHandler struct{}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// SilentAuth は現在のユーザーIDをJSON文字列として返す。
// Cookieが未発行のリクエストにはミドルウェアが発行済み。
// POST /auth/silent
func (h *AuthHandler) SilentAuth(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnidentifiedResponse(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(userID)
}
