package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/spacenote/internal/model"
)

// sessionColumns はtime_tracking_sessionsのSELECT列リスト。スキャン順序と一致させること。
const sessionColumns = `id, user_id, space_id, activity_name, start_time, end_time, duration, limit_notification_sent`

// PostgresSessionRepo はPostgreSQLを使用したタイムトラッキングセッションリポジトリ。
type PostgresSessionRepo struct {
	db *sql.DB
}

// NewPostgresSessionRepo はPostgresSessionRepoを生成する。
func NewPostgresSessionRepo(db *sql.DB) *PostgresSessionRepo {
	return &PostgresSessionRepo{db: db}
}

// scanSession は1行分のセッションをスキャンする。
func scanSession(row interface {
	Scan(dest ...interface{}) error
}) (*model.TimeTrackingSession, error) {
	s := &model.TimeTrackingSession{}
	err := row.Scan(
		&s.ID, &s.UserID, &s.SpaceID, &s.ActivityName,
		&s.StartTime, &s.EndTime, &s.Duration, &s.LimitNotificationSent,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create はセッションを作成する。end_timeとdurationはNULLのまま。
func (r *PostgresSessionRepo) Create(ctx context.Context, session *model.TimeTrackingSession) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO time_tracking_sessions (id, user_id, space_id, activity_name, start_time)
		 VALUES ($1, $2, $3, $4, $5)`,
		session.ID, session.UserID, session.SpaceID, session.ActivityName, session.StartTime,
	)
	if err != nil {
		return fmt.Errorf("セッションの作成に失敗しました: %w", err)
	}
	return nil
}

// FindByID は指定IDのセッションを取得する。見つからない場合はnilを返す。
func (r *PostgresSessionRepo) FindByID(ctx context.Context, id string) (*model.TimeTrackingSession, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM time_tracking_sessions WHERE id = $1`,
		id,
	)

	session, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("セッションの検索に失敗しました: %w", err)
	}

	return session, nil
}

// Complete はend_timeとdurationを同一ステートメントで設定し、更新後の行を返す。
// 見つからない場合はnilを返す。
func (r *PostgresSessionRepo) Complete(ctx context.Context, id string, endTime time.Time, duration int64) (*model.TimeTrackingSession, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE time_tracking_sessions SET end_time = $2, duration = $3
		 WHERE id = $1
		 RETURNING `+sessionColumns,
		id, endTime, duration,
	)

	session, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("セッションの完了記録に失敗しました: %w", err)
	}

	return session, nil
}

// ListByUserAndSpace はユーザーIDとスペースIDの両方に一致するセッションを返す。
func (r *PostgresSessionRepo) ListByUserAndSpace(ctx context.Context, userID string, spaceID int) ([]*model.TimeTrackingSession, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM time_tracking_sessions WHERE user_id = $1 AND space_id = $2`,
		userID, spaceID,
	)
	if err != nil {
		return nil, fmt.Errorf("セッション一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	sessions := []*model.TimeTrackingSession{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("セッション行の読み取りに失敗しました: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("セッション一覧の走査に失敗しました: %w", err)
	}

	return sessions, nil
}

// DeleteByID は指定IDのセッションを削除し、削除件数を返す。
func (r *PostgresSessionRepo) DeleteByID(ctx context.Context, id string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM time_tracking_sessions WHERE id = $1`,
		id,
	)
	if err != nil {
		return 0, fmt.Errorf("セッションの削除に失敗しました: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("削除件数の取得に失敗しました: %w", err)
	}

	return count, nil
}

// ListOverLimit は完了済みかつduration > limitSecondsかつ未通知のセッションを返す。
func (r *PostgresSessionRepo) ListOverLimit(ctx context.Context, limitSeconds int64) ([]*model.TimeTrackingSession, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM time_tracking_sessions
		 WHERE end_time IS NOT NULL AND duration > $1 AND limit_notification_sent = FALSE`,
		limitSeconds,
	)
	if err != nil {
		return nil, fmt.Errorf("上限超過セッションの取得に失敗しました: %w", err)
	}
	defer rows.Close()

	sessions := []*model.TimeTrackingSession{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("上限超過セッション行の読み取りに失敗しました: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("上限超過セッション一覧の走査に失敗しました: %w", err)
	}

	return sessions, nil
}

// MarkLimitNotified はlimit_notification_sentフラグを立てる。
func (r *PostgresSessionRepo) MarkLimitNotified(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE time_tracking_sessions SET limit_notification_sent = TRUE WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("通知済みフラグの更新に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ SessionRepository = (*PostgresSessionRepo)(nil)
