// Package space はスペース（ユーザー定義パーティション）管理のドメインロジックを提供する。
package space

import (
	"context"
	"fmt"
	"strings"

	"github.com/hitoshi/spacenote/internal/model"
	"github.com/hitoshi/spacenote/internal/repository"
)

// Service はスペース管理のサービス層。
// スペース一覧、作成、名前からIDへの解決を提供する。
// 付箋・セッションの全操作はResolveSpaceIDを経由してスコープされるため、
// 解決の失敗がそのまま所有権チェックとして機能する。
type Service struct {
	spaceRepo repository.SpaceRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(spaceRepo repository.SpaceRepository) *Service {
	return &Service{spaceRepo: spaceRepo}
}

// ListSpaces は指定ユーザーが所有する全スペース名を返す。
// 所有スペースがない場合は空スライスを返す。
func (s *Service) ListSpaces(ctx context.Context, userID string) ([]string, error) {
	names, err := s.spaceRepo.ListNamesByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("スペース一覧の取得に失敗しました: %w", err)
	}
	return names, nil
}

// CreateSpace は新しいスペースを作成する。
// 同一ユーザー内でスペース名が重複する場合はAPIError(DUPLICATE_SPACE)を返す。
func (s *Service) CreateSpace(ctx context.Context, userID, spaceName string) error {
	if strings.TrimSpace(spaceName) == "" {
		return model.NewInvalidRequestError()
	}

	if err := s.spaceRepo.Create(ctx, userID, spaceName); err != nil {
		return err
	}
	return nil
}

// ResolveSpaceID は(ユーザーID, スペース名)をスペースIDに解決する。
// 一致するスペースがない場合はAPIError(SPACE_NOT_FOUND)を返す。
func (s *Service) ResolveSpaceID(ctx context.Context, userID, spaceName string) (int, error) {
	space, err := s.spaceRepo.FindByUserAndName(ctx, userID, spaceName)
	if err != nil {
		return 0, fmt.Errorf("スペースの解決に失敗しました: %w", err)
	}
	if space == nil {
		return 0, model.NewSpaceNotFoundError(spaceName)
	}
	return space.ID, nil
}
