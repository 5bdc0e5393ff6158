package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hitoshi/spacenote/internal/middleware"
	"github.com/hitoshi/spacenote/internal/model"
)

// NoteServiceInterface は付箋ハンドラーが必要とするサービスインターフェース。
type NoteServiceInterface interface {
	// CreateNote は新しい付箋を作成して返す。
	CreateNote(ctx context.Context, userID string, spaceID int, title, color, textColor string, tags, lines []string) (*model.StickyNote, error)
	// ListNotes はユーザーIDとスペースIDに一致する付箋一覧を返す。
	ListNotes(ctx context.Context, userID string, spaceID int) ([]*model.StickyNote, error)
	// UpdateHeader はタイトルと更新時刻のみを更新する。
	UpdateHeader(ctx context.Context, userID, noteID, title string) (*model.StickyNote, error)
	// UpdateNote は可変フィールド一式を更新する。
	UpdateNote(ctx context.Context, userID, noteID string, spaceID int, color, textColor string, tags, lines []string) (*model.StickyNote, error)
	// DeleteNote は指定IDの付箋を削除し、削除件数を返す。
	DeleteNote(ctx context.Context, noteID string) (int64, error)
}

// NoteHandler は付箋管理のHTTPハンドラー。
// スペースに属する操作はspace_nameクエリパラメータを解決してからサービスに委譲する。
type NoteHandler struct {
	spaces  SpaceServiceInterface
	service NoteServiceInterface
}

// NewNoteHandler はNoteHandlerを生成する。
func NewNoteHandler(spaces SpaceServiceInterface, service NoteServiceInterface) *NoteHandler {
	return &NoteHandler{
		spaces:  spaces,
		service: service,
	}
}

// createNoteRequest は付箋作成リクエストのボディ。
type createNoteRequest struct {
	Title     string   `json:"title"`
	Color     string   `json:"color"`
	TextColor string   `json:"text_color"`
	Tags      []string `json:"tags"`
	Lines     []string `json:"lines"`
}

// updateHeaderRequest はヘッダー更新リクエストのボディ。
type updateHeaderRequest struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// updateNoteRequest は付箋更新リクエストのボディ。
type updateNoteRequest struct {
	ID        string   `json:"id"`
	Color     string   `json:"color"`
	TextColor string   `json:"text_color"`
	Tags      []string `json:"tags"`
	Lines     []string `json:"lines"`
}

// resolveSpaceFromQuery はspace_nameクエリパラメータを検証してスペースIDに解決する。
// 欠落は400、未所有のスペース名は404として書き込み済みのfalseを返す。
func (h *NoteHandler) resolveSpaceFromQuery(w http.ResponseWriter, r *http.Request, userID string) (int, bool) {
	spaceName := r.URL.Query().Get("space_name")
	if spaceName == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingSpaceNameError())
		return 0, false
	}

	spaceID, err := h.spaces.ResolveSpaceID(r.Context(), userID, spaceName)
	if err != nil {
		handleServiceError(w, err)
		return 0, false
	}

	return spaceID, true
}

// CreateNote は新しい付箋を作成する。
// POST /notes/create?space_name=
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnidentifiedResponse(w)
		return
	}

	spaceID, ok := h.resolveSpaceFromQuery(w, r, userID)
	if !ok {
		return
	}

	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	note, err := h.service.CreateNote(r.Context(), userID, spaceID, req.Title, req.Color, req.TextColor, req.Tags, req.Lines)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(note)
}

// ListNotes はスペース内の付箋一覧を取得する。
// GET /notes/notes?space_name=
// 読み取り系は失敗を空リストに縮退させ、常に200を返す。
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnidentifiedResponse(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	spaceName := r.URL.Query().Get("space_name")
	if spaceName == "" {
		json.NewEncoder(w).Encode([]*model.StickyNote{})
		return
	}

	spaceID, err := h.spaces.ResolveSpaceID(r.Context(), userID, spaceName)
	if err != nil {
		json.NewEncoder(w).Encode([]*model.StickyNote{})
		return
	}

	notes, err := h.service.ListNotes(r.Context(), userID, spaceID)
	if err != nil || notes == nil {
		notes = []*model.StickyNote{}
	}

	json.NewEncoder(w).Encode(notes)
}

// UpdateHeader は付箋のタイトルのみを更新する。
// POST /notes/header?space_name=
func (h *NoteHandler) UpdateHeader(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnidentifiedResponse(w)
		return
	}

	if _, ok := h.resolveSpaceFromQuery(w, r, userID); !ok {
		return
	}

	var req updateHeaderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	if _, err := uuid.Parse(req.ID); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidNoteIDError(req.ID))
		return
	}

	note, err := h.service.UpdateHeader(r.Context(), userID, req.ID, req.Title)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(note)
}

// UpdateNote は付箋の可変フィールド一式を更新する。
// PUT /notes/update?space_name=
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnidentifiedResponse(w)
		return
	}

	spaceID, ok := h.resolveSpaceFromQuery(w, r, userID)
	if !ok {
		return
	}

	var req updateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	if _, err := uuid.Parse(req.ID); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidNoteIDError(req.ID))
		return
	}

	note, err := h.service.UpdateNote(r.Context(), userID, req.ID, spaceID, req.Color, req.TextColor, req.Tags, req.Lines)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(note)
}

// DeleteNote は指定IDの付箋を削除する。
// DELETE /notes/{note_id}
// 既存クライアントとの互換のため、スペース・所有者スコープは課さない。
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "note_id")

	if _, err := uuid.Parse(noteID); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidNoteIDError(noteID))
		return
	}

	count, err := h.service.DeleteNote(r.Context(), noteID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if count > 0 {
		json.NewEncoder(w).Encode("Sticky note deleted successfully")
	} else {
		json.NewEncoder(w).Encode("Sticky note not found")
	}
}
