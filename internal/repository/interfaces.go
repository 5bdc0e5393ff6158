// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/spacenote/internal/model"
)

// SpaceRepository はスペースデータの永続化インターフェース。
type SpaceRepository interface {
	// ListNamesByUserID は指定ユーザーが所有する全スペース名を返す。
	// 所有スペースがない場合は空スライスを返す（エラーにはしない）。
	ListNamesByUserID(ctx context.Context, userID string) ([]string, error)

	// Create はスペースを作成する。
	// (user_id, space_name)の一意制約に違反した場合はAPIError(DUPLICATE_SPACE)を返す。
	Create(ctx context.Context, userID, spaceName string) error

	// FindByUserAndName は(user_id, space_name)でスペースを検索する。
	// 見つからない場合はnilを返す。
	FindByUserAndName(ctx context.Context, userID, spaceName string) (*model.Space, error)
}

// NoteRepository は付箋データの永続化インターフェース。
type NoteRepository interface {
	// Create は付箋を作成する。
	Create(ctx context.Context, note *model.StickyNote) error

	// ListByUserAndSpace はユーザーIDとスペースIDの両方に一致する付箋を返す。
	ListByUserAndSpace(ctx context.Context, userID string, spaceID int) ([]*model.StickyNote, error)

	// UpdateHeader はタイトルと更新時刻のみを更新し、更新後の行を返す。
	// 所有者スコープ: (id, user_id)に一致する行がない場合はnilを返す。
	UpdateHeader(ctx context.Context, noteID, userID, title string, updatedAt time.Time) (*model.StickyNote, error)

	// Update は可変フィールド一式と更新時刻を更新し、更新後の行を返す。
	// 所有者スコープ: (id, user_id)に一致する行がない場合はnilを返す。
	Update(ctx context.Context, note *model.StickyNote) (*model.StickyNote, error)

	// DeleteByID は指定IDの付箋を削除し、削除件数（0または1）を返す。
	DeleteByID(ctx context.Context, noteID string) (int64, error)
}

// SessionRepository はタイムトラッキングセッションの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。end_timeとdurationは未設定のまま。
	Create(ctx context.Context, session *model.TimeTrackingSession) error

	// FindByID は指定IDのセッションを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.TimeTrackingSession, error)

	// Complete はend_timeとdurationを同一ステートメントで設定し、更新後の行を返す。
	// 見つからない場合はnilを返す。
	Complete(ctx context.Context, id string, endTime time.Time, duration int64) (*model.TimeTrackingSession, error)

	// ListByUserAndSpace はユーザーIDとスペースIDの両方に一致するセッションを返す。
	ListByUserAndSpace(ctx context.Context, userID string, spaceID int) ([]*model.TimeTrackingSession, error)

	// DeleteByID は指定IDのセッションを削除し、削除件数（0または1）を返す。
	DeleteByID(ctx context.Context, id string) (int64, error)

	// ListOverLimit は完了済みかつduration > limitSecondsかつ未通知のセッションを返す。
	// 上限超過通知のバッチジョブが使用する。
	ListOverLimit(ctx context.Context, limitSeconds int64) ([]*model.TimeTrackingSession, error)

	// MarkLimitNotified はlimit_notification_sentフラグを立てる。
	MarkLimitNotified(ctx context.Context, id string) error
}
