// Package handler はHTTPハンドラーとルーティングを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/spacenote/internal/middleware"
	"github.com/hitoshi/spacenote/internal/model"
)

// SpaceServiceInterface はスペースハンドラーが必要とするサービスインターフェース。
type SpaceServiceInterface interface {
	// ListSpaces はユーザーが所有する全スペース名を返す。
	ListSpaces(ctx context.Context, userID string) ([]string, error)
	// CreateSpace は新しいスペースを作成する。
	CreateSpace(ctx context.Context, userID, spaceName string) error
	// ResolveSpaceID は(ユーザーID, スペース名)をスペースIDに解決する。
	ResolveSpaceID(ctx context.Context, userID, spaceName string) (int, error)
}

// PresenceTracker はスペースハンドラーが必要とするプレゼンス記録インターフェース。
type PresenceTracker interface {
	AddConnection(userID, spaceName string)
	OtherActiveSpaces(userID string) []string
}

// SpaceHandler はスペース管理のHTTPハンドラー。
type SpaceHandler struct {
	service SpaceServiceInterface
	tracker PresenceTracker
}

// NewSpaceHandler はSpaceHandlerを生成する。
func NewSpaceHandler(service SpaceServiceInterface, tracker PresenceTracker) *SpaceHandler {
	return &SpaceHandler{
		service: service,
		tracker: tracker,
	}
}

// viewSpaceResponse はスペース表示のAPIレスポンス。
type viewSpaceResponse struct {
	SpaceName string   `json:"space_name"`
	Spaces    []string `json:"spaces"`
}

// ListSpaces はユーザーの所有スペース名一覧を取得する。
// GET /spaces
// レスポンスは {ユーザーID: [スペース名...]} の形。取得エラーは
// 空リストに縮退させ、常に200を返す。
func (h *SpaceHandler) ListSpaces(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnidentifiedResponse(w)
		return
	}

	names, err := h.service.ListSpaces(r.Context(), userID)
	if err != nil {
		slog.Error("failed to list spaces", slog.String("error", err.Error()), slog.String("user_id", userID))
		names = []string{}
	}
	if names == nil {
		names = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{userID: names})
}

// CreateSpace は新しいスペースを作成する。
// POST /spaces
// リクエストボディはスペース名のJSON文字列（例: "work"）。
func (h *SpaceHandler) CreateSpace(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnidentifiedResponse(w)
		return
	}

	var spaceName string
	if err := json.NewDecoder(r.Body).Decode(&spaceName); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	if err := h.service.CreateSpace(r.Context(), userID, spaceName); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode("Space created successfully")
}

// ViewSpace はスペースの表示コンテキストを返し、プレゼンスを記録する。
// GET /spaces/{space_name}
// 所有していないスペース名は404。
func (h *SpaceHandler) ViewSpace(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnidentifiedResponse(w)
		return
	}

	spaceName := chi.URLParam(r, "space_name")

	if _, err := h.service.ResolveSpaceID(r.Context(), userID, spaceName); err != nil {
		handleServiceError(w, err)
		return
	}

	names, err := h.service.ListSpaces(r.Context(), userID)
	if err != nil {
		slog.Error("failed to list spaces", slog.String("error", err.Error()), slog.String("user_id", userID))
		names = []string{}
	}

	// 所有確認が取れてから閲覧中として記録する
	h.tracker.AddConnection(userID, spaceName)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(viewSpaceResponse{
		SpaceName: spaceName,
		Spaces:    names,
	})
}

// OtherActiveSpaces は自分以外のユーザーが表示中のスペース名一覧を返す。
// GET /others
func (h *SpaceHandler) OtherActiveSpaces(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnidentifiedResponse(w)
		return
	}

	spaces := h.tracker.OtherActiveSpaces(userID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(spaces)
}

// --- 共通エラーハンドリング ---

// apiErrorResponse はAPIエラーレスポンスのJSONフォーマット。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// writeAPIErrorResponse はAPIエラーをJSONとして書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// writeUnidentifiedResponse は識別ミドルウェアを通過していないリクエストへの応答を書き込む。
// 識別はCookieの自動発行で必ず成立するため、ここに到達するのはルーティング不備のみ。
func writeUnidentifiedResponse(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusUnauthorized, &model.APIError{
		Code:     "UNIDENTIFIED",
		Message:  "ユーザー識別情報がありません。",
		Category: "system",
		Action:   "Cookieを有効にして再度お試しください。",
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeSpaceNotFound, model.ErrCodeNoteNotFound, model.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case model.ErrCodeDuplicateSpace:
		return http.StatusConflict
	case model.ErrCodeMissingSpaceName, model.ErrCodeInvalidNoteID, model.ErrCodeInvalidSessionID,
		model.ErrCodeInvalidEndTime, model.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
