// Package note は付箋管理のドメインロジックを提供する。
package note

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/spacenote/internal/model"
	"github.com/hitoshi/spacenote/internal/repository"
	"github.com/hitoshi/spacenote/internal/security"
)

// NoteMetrics は付箋操作のメトリクス収集インターフェース。
// metrics.Collectorの部分集合として定義する。nil可。
type NoteMetrics interface {
	RecordNoteCreated()
}

// Service は付箋管理のサービス層。
// 入力行は保存前にラインコーデックで正規化（パースして再エンコード）され、
// ユーザー入力テキストはサニタイズされる。
type Service struct {
	noteRepo  repository.NoteRepository
	sanitizer security.TextSanitizerService
	metrics   NoteMetrics
}

// NewService はServiceの新しいインスタンスを生成する。metricsはnil可。
func NewService(noteRepo repository.NoteRepository, sanitizer security.TextSanitizerService, metrics NoteMetrics) *Service {
	return &Service{
		noteRepo:  noteRepo,
		sanitizer: sanitizer,
		metrics:   metrics,
	}
}

// normalizeLines は入力行をパースし、テキストをサニタイズして再エンコードする。
// パースは絶対に失敗しないため、不正な入力はデフォルト値に縮退した上で保存される。
func (s *Service) normalizeLines(lines []string) []string {
	if lines == nil {
		return nil
	}
	normalized := make([]string, len(lines))
	for i, raw := range lines {
		line := model.ParseStickyLine(raw)
		line.Text = s.sanitizer.Sanitize(line.Text)
		normalized[i] = line.Encode()
	}
	return normalized
}

// sanitizeTags はタグの各要素をサニタイズする。
func (s *Service) sanitizeTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	sanitized := make([]string, len(tags))
	for i, tag := range tags {
		sanitized[i] = s.sanitizer.Sanitize(tag)
	}
	return sanitized
}

// CreateNote は新しい付箋を作成して返す。
// 新規UUIDを割り当て、作成時刻と更新時刻を同一時刻に設定する。
func (s *Service) CreateNote(ctx context.Context, userID string, spaceID int, title, color, textColor string, tags, lines []string) (*model.StickyNote, error) {
	now := time.Now().UTC()

	note := &model.StickyNote{
		ID:        uuid.NewString(),
		SpaceID:   spaceID,
		UserID:    userID,
		Title:     s.sanitizer.Sanitize(title),
		Color:     color,
		TextColor: textColor,
		CreatedAt: now,
		UpdatedAt: &now,
		Tags:      s.sanitizeTags(tags),
		Lines:     s.normalizeLines(lines),
	}

	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("付箋の作成に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordNoteCreated()
	}

	return note, nil
}

// ListNotes はユーザーIDとスペースIDの両方に一致する付箋を返す。
func (s *Service) ListNotes(ctx context.Context, userID string, spaceID int) ([]*model.StickyNote, error) {
	notes, err := s.noteRepo.ListByUserAndSpace(ctx, userID, spaceID)
	if err != nil {
		return nil, fmt.Errorf("付箋一覧の取得に失敗しました: %w", err)
	}
	return notes, nil
}

// UpdateHeader はタイトルと更新時刻のみを更新する。
// (id, user_id)に一致する付箋がない場合はAPIError(NOTE_NOT_FOUND)を返す。
func (s *Service) UpdateHeader(ctx context.Context, userID, noteID, title string) (*model.StickyNote, error) {
	note, err := s.noteRepo.UpdateHeader(ctx, noteID, userID, s.sanitizer.Sanitize(title), time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("付箋ヘッダーの更新に失敗しました: %w", err)
	}
	if note == nil {
		return nil, model.NewNoteNotFoundError(noteID)
	}
	return note, nil
}

// UpdateNote は可変フィールド一式と更新時刻を更新する。
// (id, user_id)に一致する付箋がない場合はAPIError(NOTE_NOT_FOUND)を返す。
func (s *Service) UpdateNote(ctx context.Context, userID, noteID string, spaceID int, color, textColor string, tags, lines []string) (*model.StickyNote, error) {
	now := time.Now().UTC()

	updated, err := s.noteRepo.Update(ctx, &model.StickyNote{
		ID:        noteID,
		UserID:    userID,
		SpaceID:   spaceID,
		Color:     color,
		TextColor: textColor,
		Tags:      s.sanitizeTags(tags),
		Lines:     s.normalizeLines(lines),
		UpdatedAt: &now,
	})
	if err != nil {
		return nil, fmt.Errorf("付箋の更新に失敗しました: %w", err)
	}
	if updated == nil {
		return nil, model.NewNoteNotFoundError(noteID)
	}
	return updated, nil
}

// DeleteNote は指定IDの付箋を削除し、削除件数（0または1）を返す。
// 削除のみ所有者スコープを課さない（IDはUUIDで推測不能）。
func (s *Service) DeleteNote(ctx context.Context, noteID string) (int64, error) {
	count, err := s.noteRepo.DeleteByID(ctx, noteID)
	if err != nil {
		return 0, fmt.Errorf("付箋の削除に失敗しました: %w", err)
	}
	return count, nil
}
