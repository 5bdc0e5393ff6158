package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/spacenote/internal/model"
)

// uniqueViolation はPostgreSQLの一意制約違反のSQLSTATEコード。
const uniqueViolation = "23505"

// PostgresSpaceRepo はPostgreSQLを使用したスペースリポジトリ。
type PostgresSpaceRepo struct {
	db *sql.DB
}

// NewPostgresSpaceRepo はPostgresSpaceRepoを生成する。
func NewPostgresSpaceRepo(db *sql.DB) *PostgresSpaceRepo {
	return &PostgresSpaceRepo{db: db}
}

// ListNamesByUserID は指定ユーザーが所有する全スペース名を返す。
func (r *PostgresSpaceRepo) ListNamesByUserID(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT space_name FROM spaces WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("スペース一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("スペース名の読み取りに失敗しました: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("スペース一覧の走査に失敗しました: %w", err)
	}

	return names, nil
}

// Create はスペースを作成する。
// (user_id, space_name)の一意制約に違反した場合はAPIError(DUPLICATE_SPACE)を返す。
func (r *PostgresSpaceRepo) Create(ctx context.Context, userID, spaceName string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO spaces (user_id, space_name) VALUES ($1, $2)`,
		userID, spaceName,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return model.NewDuplicateSpaceError(spaceName)
		}
		return fmt.Errorf("スペースの作成に失敗しました: %w", err)
	}
	return nil
}

// FindByUserAndName は(user_id, space_name)でスペースを検索する。見つからない場合はnilを返す。
func (r *PostgresSpaceRepo) FindByUserAndName(ctx context.Context, userID, spaceName string) (*model.Space, error) {
	space := &model.Space{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, space_name FROM spaces WHERE user_id = $1 AND space_name = $2`,
		userID, spaceName,
	).Scan(&space.ID, &space.UserID, &space.SpaceName)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("スペースの検索に失敗しました: %w", err)
	}

	return space, nil
}

// compile-time interface check
var _ SpaceRepository = (*PostgresSpaceRepo)(nil)
