package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/hitoshi/spacenote/internal/model"
)

// noteColumns はsticky_notesのSELECT列リスト。スキャン順序と一致させること。
const noteColumns = `id, space_id, user_id, title, color, text_color, created_at, updated_at, tags, lines`

// PostgresNoteRepo はPostgreSQLを使用した付箋リポジトリ。
// tagsとlinesはtext[]カラムにpq.Arrayで読み書きする。
type PostgresNoteRepo struct {
	db *sql.DB
}

// NewPostgresNoteRepo はPostgresNoteRepoを生成する。
func NewPostgresNoteRepo(db *sql.DB) *PostgresNoteRepo {
	return &PostgresNoteRepo{db: db}
}

// scanNote は1行分の付箋をスキャンする。
func scanNote(row interface {
	Scan(dest ...interface{}) error
}) (*model.StickyNote, error) {
	note := &model.StickyNote{}
	err := row.Scan(
		&note.ID, &note.SpaceID, &note.UserID, &note.Title,
		&note.Color, &note.TextColor, &note.CreatedAt, &note.UpdatedAt,
		pq.Array(&note.Tags), pq.Array(&note.Lines),
	)
	if err != nil {
		return nil, err
	}
	return note, nil
}

// Create は付箋を作成する。
func (r *PostgresNoteRepo) Create(ctx context.Context, note *model.StickyNote) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sticky_notes (id, space_id, user_id, title, color, text_color, created_at, updated_at, tags, lines)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		note.ID, note.SpaceID, note.UserID, note.Title,
		note.Color, note.TextColor, note.CreatedAt, note.UpdatedAt,
		pq.Array(note.Tags), pq.Array(note.Lines),
	)
	if err != nil {
		return fmt.Errorf("付箋の作成に失敗しました: %w", err)
	}
	return nil
}

// ListByUserAndSpace はユーザーIDとスペースIDの両方に一致する付箋を返す。
func (r *PostgresNoteRepo) ListByUserAndSpace(ctx context.Context, userID string, spaceID int) ([]*model.StickyNote, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM sticky_notes WHERE user_id = $1 AND space_id = $2`,
		userID, spaceID,
	)
	if err != nil {
		return nil, fmt.Errorf("付箋一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	notes := []*model.StickyNote{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("付箋行の読み取りに失敗しました: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("付箋一覧の走査に失敗しました: %w", err)
	}

	return notes, nil
}

// UpdateHeader はタイトルと更新時刻のみを更新し、更新後の行を返す。
// (id, user_id)に一致する行がない場合はnilを返す。
func (r *PostgresNoteRepo) UpdateHeader(ctx context.Context, noteID, userID, title string, updatedAt time.Time) (*model.StickyNote, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE sticky_notes SET title = $3, updated_at = $4
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+noteColumns,
		noteID, userID, title, updatedAt,
	)

	note, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("付箋タイトルの更新に失敗しました: %w", err)
	}

	return note, nil
}

// Update は可変フィールド一式と更新時刻を更新し、更新後の行を返す。
// (id, user_id)に一致する行がない場合はnilを返す。
func (r *PostgresNoteRepo) Update(ctx context.Context, note *model.StickyNote) (*model.StickyNote, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE sticky_notes
		 SET space_id = $3, color = $4, text_color = $5, tags = $6, lines = $7, updated_at = $8
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+noteColumns,
		note.ID, note.UserID, note.SpaceID, note.Color, note.TextColor,
		pq.Array(note.Tags), pq.Array(note.Lines), note.UpdatedAt,
	)

	updated, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("付箋の更新に失敗しました: %w", err)
	}

	return updated, nil
}

// DeleteByID は指定IDの付箋を削除し、削除件数を返す。
func (r *PostgresNoteRepo) DeleteByID(ctx context.Context, noteID string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM sticky_notes WHERE id = $1`,
		noteID,
	)
	if err != nil {
		return 0, fmt.Errorf("付箋の削除に失敗しました: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("削除件数の取得に失敗しました: %w", err)
	}

	return count, nil
}

// compile-time interface check
var _ NoteRepository = (*PostgresNoteRepo)(nil)
