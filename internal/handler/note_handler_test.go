package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/spacenote/internal/model"
)

// --- モック定義 ---

// mockNoteService はNoteServiceInterfaceのモック実装。
type mockNoteService struct {
	createNoteFn   func(ctx context.Context, userID string, spaceID int, title, color, textColor string, tags, lines []string) (*model.StickyNote, error)
	listNotesFn    func(ctx context.Context, userID string, spaceID int) ([]*model.StickyNote, error)
	updateHeaderFn func(ctx context.Context, userID, noteID, title string) (*model.StickyNote, error)
	updateNoteFn   func(ctx context.Context, userID, noteID string, spaceID int, color, textColor string, tags, lines []string) (*model.StickyNote, error)
	deleteNoteFn   func(ctx context.Context, noteID string) (int64, error)
}

func (m *mockNoteService) CreateNote(ctx context.Context, userID string, spaceID int, title, color, textColor string, tags, lines []string) (*model.StickyNote, error) {
	if m.createNoteFn != nil {
		return m.createNoteFn(ctx, userID, spaceID, title, color, textColor, tags, lines)
	}
	return nil, nil
}

func (m *mockNoteService) ListNotes(ctx context.Context, userID string, spaceID int) ([]*model.StickyNote, error) {
	if m.listNotesFn != nil {
		return m.listNotesFn(ctx, userID, spaceID)
	}
	return nil, nil
}

func (m *mockNoteService) UpdateHeader(ctx context.Context, userID, noteID, title string) (*model.StickyNote, error) {
	if m.updateHeaderFn != nil {
		return m.updateHeaderFn(ctx, userID, noteID, title)
	}
	return nil, nil
}

func (m *mockNoteService) UpdateNote(ctx context.Context, userID, noteID string, spaceID int, color, textColor string, tags, lines []string) (*model.StickyNote, error) {
	if m.updateNoteFn != nil {
		return m.updateNoteFn(ctx, userID, noteID, spaceID, color, textColor, tags, lines)
	}
	return nil, nil
}

func (m *mockNoteService) DeleteNote(ctx context.Context, noteID string) (int64, error) {
	if m.deleteNoteFn != nil {
		return m.deleteNoteFn(ctx, noteID)
	}
	return 0, nil
}

// resolvingSpaceService は常にスペースID 7 に解決するモック。
func resolvingSpaceService() *mockSpaceService {
	return &mockSpaceService{
		resolveSpaceIDFn: func(ctx context.Context, userID, spaceName string) (int, error) {
			return 7, nil
		},
	}
}

const (
	testNoteID    = "4c2b1a8e-7e5a-4f5d-9c3e-1a2b3c4d5e6f"
	testSessionID = "9f8e7d6c-5b4a-4f3e-8d2c-1b0a9f8e7d6c"
)

// --- POST /notes/create テスト ---

func TestNoteHandler_CreateNote_Success(t *testing.T) {
	now := time.Now().UTC()
	svc := &mockNoteService{
		createNoteFn: func(ctx context.Context, userID string, spaceID int, title, color, textColor string, tags, lines []string) (*model.StickyNote, error) {
			if userID != "user-123" {
				t.Errorf("userID = %q, want %q", userID, "user-123")
			}
			if spaceID != 7 {
				t.Errorf("spaceID = %d, want 7", spaceID)
			}
			return &model.StickyNote{
				ID:        testNoteID,
				SpaceID:   spaceID,
				UserID:    userID,
				Title:     title,
				Color:     color,
				TextColor: textColor,
				CreatedAt: now,
				UpdatedAt: &now,
				Tags:      tags,
				Lines:     lines,
			}, nil
		},
	}

	h := NewNoteHandler(resolvingSpaceService(), svc)

	body, _ := json.Marshal(createNoteRequest{
		Title:     "買い物リスト",
		Color:     "yellow",
		TextColor: "black",
		Tags:      []string{"home"},
		Lines:     []string{"milk|white|false"},
	})
	req := httptest.NewRequest(http.MethodPost, "/notes/create?space_name=work", bytes.NewReader(body))
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.CreateNote(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var got model.StickyNote
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.ID != testNoteID {
		t.Errorf("id = %q, want %q", got.ID, testNoteID)
	}
	if got.Title != "買い物リスト" {
		t.Errorf("title = %q, want %q", got.Title, "買い物リスト")
	}
}

func TestNoteHandler_CreateNote_MissingSpaceName_Returns400(t *testing.T) {
	h := NewNoteHandler(resolvingSpaceService(), &mockNoteService{})

	body, _ := json.Marshal(createNoteRequest{Title: "x"})
	req := httptest.NewRequest(http.MethodPost, "/notes/create", bytes.NewReader(body))
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.CreateNote(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}

	errBody := parseAPIErrorResponse(t, w)
	if errBody["code"] != model.ErrCodeMissingSpaceName {
		t.Errorf("code = %q, want %q", errBody["code"], model.ErrCodeMissingSpaceName)
	}
}

func TestNoteHandler_CreateNote_UnknownSpace_Returns404(t *testing.T) {
	spaces := &mockSpaceService{
		resolveSpaceIDFn: func(ctx context.Context, userID, spaceName string) (int, error) {
			return 0, model.NewSpaceNotFoundError(spaceName)
		},
	}

	h := NewNoteHandler(spaces, &mockNoteService{})

	body, _ := json.Marshal(createNoteRequest{Title: "x"})
	req := httptest.NewRequest(http.MethodPost, "/notes/create?space_name=ghost", bytes.NewReader(body))
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.CreateNote(w, req)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNotFound)
	}
}

// --- GET /notes/notes テスト ---

func TestNoteHandler_ListNotes_MissingSpaceName_ReturnsEmptyList(t *testing.T) {
	h := NewNoteHandler(resolvingSpaceService(), &mockNoteService{
		listNotesFn: func(ctx context.Context, userID string, spaceID int) ([]*model.StickyNote, error) {
			t.Fatal("ListNotes should not be called")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/notes/notes", nil)
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.ListNotes(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var notes []*model.StickyNote
	if err := json.NewDecoder(resp.Body).Decode(&notes); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("notes = %v, want empty list", notes)
	}
}

func TestNoteHandler_ListNotes_StoreError_ReturnsEmptyList(t *testing.T) {
	h := NewNoteHandler(resolvingSpaceService(), &mockNoteService{
		listNotesFn: func(ctx context.Context, userID string, spaceID int) ([]*model.StickyNote, error) {
			return nil, errors.New("db down")
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/notes/notes?space_name=work", nil)
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.ListNotes(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var notes []*model.StickyNote
	if err := json.NewDecoder(resp.Body).Decode(&notes); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("notes = %v, want empty list", notes)
	}
}

func TestNoteHandler_ListNotes_UnknownSpace_ReturnsEmptyList(t *testing.T) {
	spaces := &mockSpaceService{
		resolveSpaceIDFn: func(ctx context.Context, userID, spaceName string) (int, error) {
			return 0, model.NewSpaceNotFoundError(spaceName)
		},
	}

	h := NewNoteHandler(spaces, &mockNoteService{})

	req := httptest.NewRequest(http.MethodGet, "/notes/notes?space_name=ghost", nil)
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.ListNotes(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
}

// --- POST /notes/header テスト ---

func TestNoteHandler_UpdateHeader_Success(t *testing.T) {
	svc := &mockNoteService{
		updateHeaderFn: func(ctx context.Context, userID, noteID, title string) (*model.StickyNote, error) {
			if noteID != testNoteID {
				t.Errorf("noteID = %q, want %q", noteID, testNoteID)
			}
			return &model.StickyNote{ID: noteID, Title: title}, nil
		},
	}

	h := NewNoteHandler(resolvingSpaceService(), svc)

	body, _ := json.Marshal(updateHeaderRequest{ID: testNoteID, Title: "新タイトル"})
	req := httptest.NewRequest(http.MethodPost, "/notes/header?space_name=work", bytes.NewReader(body))
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.UpdateHeader(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
}

func TestNoteHandler_UpdateHeader_InvalidNoteID_Returns400(t *testing.T) {
	h := NewNoteHandler(resolvingSpaceService(), &mockNoteService{})

	body, _ := json.Marshal(updateHeaderRequest{ID: "not-a-uuid", Title: "x"})
	req := httptest.NewRequest(http.MethodPost, "/notes/header?space_name=work", bytes.NewReader(body))
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.UpdateHeader(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}

	errBody := parseAPIErrorResponse(t, w)
	if errBody["code"] != model.ErrCodeInvalidNoteID {
		t.Errorf("code = %q, want %q", errBody["code"], model.ErrCodeInvalidNoteID)
	}
}

func TestNoteHandler_UpdateHeader_NotFound_Returns404(t *testing.T) {
	svc := &mockNoteService{
		updateHeaderFn: func(ctx context.Context, userID, noteID, title string) (*model.StickyNote, error) {
			return nil, model.NewNoteNotFoundError(noteID)
		},
	}

	h := NewNoteHandler(resolvingSpaceService(), svc)

	body, _ := json.Marshal(updateHeaderRequest{ID: testNoteID, Title: "x"})
	req := httptest.NewRequest(http.MethodPost, "/notes/header?space_name=work", bytes.NewReader(body))
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.UpdateHeader(w, req)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNotFound)
	}
}

// --- PUT /notes/update テスト ---

func TestNoteHandler_UpdateNote_Success(t *testing.T) {
	svc := &mockNoteService{
		updateNoteFn: func(ctx context.Context, userID, noteID string, spaceID int, color, textColor string, tags, lines []string) (*model.StickyNote, error) {
			if spaceID != 7 {
				t.Errorf("spaceID = %d, want 7", spaceID)
			}
			if color != "blue" {
				t.Errorf("color = %q, want %q", color, "blue")
			}
			return &model.StickyNote{ID: noteID, Color: color, TextColor: textColor, Tags: tags, Lines: lines}, nil
		},
	}

	h := NewNoteHandler(resolvingSpaceService(), svc)

	body, _ := json.Marshal(updateNoteRequest{
		ID:        testNoteID,
		Color:     "blue",
		TextColor: "white",
		Lines:     []string{"todo|red|true"},
	})
	req := httptest.NewRequest(http.MethodPut, "/notes/update?space_name=work", bytes.NewReader(body))
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.UpdateNote(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
}

func TestNoteHandler_UpdateNote_MissingSpaceName_Returns400(t *testing.T) {
	h := NewNoteHandler(resolvingSpaceService(), &mockNoteService{})

	body, _ := json.Marshal(updateNoteRequest{ID: testNoteID})
	req := httptest.NewRequest(http.MethodPut, "/notes/update", bytes.NewReader(body))
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.UpdateNote(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

// --- DELETE /notes/{note_id} テスト ---

func TestNoteHandler_DeleteNote_Deleted_ReturnsSuccessMessage(t *testing.T) {
	svc := &mockNoteService{
		deleteNoteFn: func(ctx context.Context, noteID string) (int64, error) {
			return 1, nil
		},
	}

	h := NewNoteHandler(resolvingSpaceService(), svc)

	req := httptest.NewRequest(http.MethodDelete, "/notes/"+testNoteID, nil)
	req = withUserID(req, "user-123")
	req = withChiURLParam(req, "note_id", testNoteID)
	w := httptest.NewRecorder()

	h.DeleteNote(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var msg string
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if msg != "Sticky note deleted successfully" {
		t.Errorf("message = %q, want success message", msg)
	}
}

func TestNoteHandler_DeleteNote_Missing_ReturnsNotFoundMessage(t *testing.T) {
	svc := &mockNoteService{
		deleteNoteFn: func(ctx context.Context, noteID string) (int64, error) {
			return 0, nil
		},
	}

	h := NewNoteHandler(resolvingSpaceService(), svc)

	req := httptest.NewRequest(http.MethodDelete, "/notes/"+testNoteID, nil)
	req = withUserID(req, "user-123")
	req = withChiURLParam(req, "note_id", testNoteID)
	w := httptest.NewRecorder()

	h.DeleteNote(w, req)

	var msg string
	if err := json.NewDecoder(w.Result().Body).Decode(&msg); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if msg != "Sticky note not found" {
		t.Errorf("message = %q, want not-found message", msg)
	}
}

func TestNoteHandler_DeleteNote_InvalidUUID_Returns400(t *testing.T) {
	h := NewNoteHandler(resolvingSpaceService(), &mockNoteService{})

	req := httptest.NewRequest(http.MethodDelete, "/notes/bogus", nil)
	req = withUserID(req, "user-123")
	req = withChiURLParam(req, "note_id", "bogus")
	w := httptest.NewRecorder()

	h.DeleteNote(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}
