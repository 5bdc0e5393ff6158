package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/spacenote/internal/middleware"
	"github.com/hitoshi/spacenote/internal/model"
)

// TrackServiceInterface は作業時間ハンドラーが必要とするサービスインターフェース。
type TrackServiceInterface interface {
	// StartSession は新しいセッションを開始して返す。
	StartSession(ctx context.Context, userID string, spaceID int, activityName string, startTime time.Time) (*model.TimeTrackingSession, error)
	// CompleteSession はセッションを完了させ、所要時間を記録して返す。
	CompleteSession(ctx context.Context, sessionID string, endTimeEpoch int64) (*model.TimeTrackingSession, error)
	// ListSessions はユーザーIDとスペースIDに一致するセッション一覧を返す。
	ListSessions(ctx context.Context, userID string, spaceID int) ([]*model.TimeTrackingSession, error)
	// DeleteSession は指定IDのセッションを削除し、削除件数を返す。
	DeleteSession(ctx context.Context, sessionID string) (int64, error)
}

// TrackHandler は作業時間トラッキングのHTTPハンドラー。
type TrackHandler struct {
	spaces  SpaceServiceInterface
	service TrackServiceInterface
}

// NewTrackHandler はTrackHandlerを生成する。
func NewTrackHandler(spaces SpaceServiceInterface, service TrackServiceInterface) *TrackHandler {
	return &TrackHandler{
		spaces:  spaces,
		service: service,
	}
}

// startSessionRequest はセッション開始リクエストのボディ。
type startSessionRequest struct {
	ActivityName string    `json:"activity_name"`
	StartTime    time.Time `json:"start_time"`
}

// StartSession は新しいセッションを開始する。
// POST /track/start?space_name=
func (h *TrackHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnidentifiedResponse(w)
		return
	}

	spaceName := r.URL.Query().Get("space_name")
	if spaceName == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingSpaceNameError())
		return
	}

	spaceID, err := h.spaces.ResolveSpaceID(r.Context(), userID, spaceName)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	session, err := h.service.StartSession(r.Context(), userID, spaceID, req.ActivityName, req.StartTime)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(session)
}

// CompleteSession はセッションを完了させる。
// POST /track/complete?session_id=&end_time=
// end_timeはUNIXタイムスタンプ（秒）。
func (h *TrackHandler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if _, err := uuid.Parse(sessionID); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidSessionIDError(sessionID))
		return
	}

	endTimeRaw := r.URL.Query().Get("end_time")
	endTimeEpoch, err := strconv.ParseInt(endTimeRaw, 10, 64)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidEndTimeError(endTimeRaw))
		return
	}

	session, err := h.service.CompleteSession(r.Context(), sessionID, endTimeEpoch)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(session)
}

// ListSessions はスペース内のセッション一覧を取得する。
// GET /track/time_tracking?space_name=
// 読み取り系は失敗を空リストに縮退させ、常に200を返す。
func (h *TrackHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnidentifiedResponse(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	spaceName := r.URL.Query().Get("space_name")
	if spaceName == "" {
		json.NewEncoder(w).Encode([]*model.TimeTrackingSession{})
		return
	}

	spaceID, err := h.spaces.ResolveSpaceID(r.Context(), userID, spaceName)
	if err != nil {
		json.NewEncoder(w).Encode([]*model.TimeTrackingSession{})
		return
	}

	sessions, err := h.service.ListSessions(r.Context(), userID, spaceID)
	if err != nil || sessions == nil {
		sessions = []*model.TimeTrackingSession{}
	}

	json.NewEncoder(w).Encode(sessions)
}

// DeleteSession は指定IDのセッションを削除する。
// DELETE /track/delete?session_id=
func (h *TrackHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if _, err := uuid.Parse(sessionID); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidSessionIDError(sessionID))
		return
	}

	count, err := h.service.DeleteSession(r.Context(), sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if count > 0 {
		json.NewEncoder(w).Encode("Session deleted successfully")
	} else {
		json.NewEncoder(w).Encode("Session not found")
	}
}
