// Package track はタイムトラッキングセッション管理のドメインロジックを提供する。
package track

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/spacenote/internal/model"
	"github.com/hitoshi/spacenote/internal/repository"
)

// TrackMetrics はセッション操作のメトリクス収集インターフェース。
// metrics.Collectorの部分集合として定義する。nil可。
type TrackMetrics interface {
	RecordSessionStarted()
	RecordSessionCompleted()
}

// Service はタイムトラッキングセッションのサービス層。
type Service struct {
	sessionRepo repository.SessionRepository
	metrics     TrackMetrics
}

// NewService はServiceの新しいインスタンスを生成する。metricsはnil可。
func NewService(sessionRepo repository.SessionRepository, metrics TrackMetrics) *Service {
	return &Service{
		sessionRepo: sessionRepo,
		metrics:     metrics,
	}
}

// StartSession は新しいセッションを開始する。
// 開始時刻は呼び出し側から与えられ、終了時刻とdurationは未設定のまま。
func (s *Service) StartSession(ctx context.Context, userID string, spaceID int, activityName string, startTime time.Time) (*model.TimeTrackingSession, error) {
	session := &model.TimeTrackingSession{
		ID:           uuid.NewString(),
		UserID:       userID,
		SpaceID:      spaceID,
		ActivityName: activityName,
		StartTime:    startTime,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("セッションの作成に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordSessionStarted()
	}

	return session, nil
}

// CompleteSession はセッションに終了時刻を設定し、durationを秒単位で計算して
// 両フィールドを同時に永続化する。
//
// durationは終了時刻 - 開始時刻の整数秒で、開始前の終了時刻が与えられた場合は
// 負の値のまま保存される（元実装と同じく検証は行わない）。
// 取得と更新は2回のラウンドトリップで行われ、同一セッションへの並行完了は
// 後勝ちとなる。
func (s *Service) CompleteSession(ctx context.Context, sessionID string, endTimeEpoch int64) (*model.TimeTrackingSession, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("セッションの取得に失敗しました: %w", err)
	}
	if session == nil {
		return nil, model.NewSessionNotFoundError(sessionID)
	}

	endTime := time.Unix(endTimeEpoch, 0).UTC()
	duration := int64(endTime.Sub(session.StartTime) / time.Second)

	completed, err := s.sessionRepo.Complete(ctx, sessionID, endTime, duration)
	if err != nil {
		return nil, fmt.Errorf("セッションの完了に失敗しました: %w", err)
	}
	if completed == nil {
		// 取得後に削除された場合
		return nil, model.NewSessionNotFoundError(sessionID)
	}

	if s.metrics != nil {
		s.metrics.RecordSessionCompleted()
	}

	return completed, nil
}

// ListSessions はユーザーIDとスペースIDの両方に一致するセッションを返す。
func (s *Service) ListSessions(ctx context.Context, userID string, spaceID int) ([]*model.TimeTrackingSession, error) {
	sessions, err := s.sessionRepo.ListByUserAndSpace(ctx, userID, spaceID)
	if err != nil {
		return nil, fmt.Errorf("セッション一覧の取得に失敗しました: %w", err)
	}
	return sessions, nil
}

// DeleteSession は指定IDのセッションを削除し、削除件数（0または1）を返す。
func (s *Service) DeleteSession(ctx context.Context, sessionID string) (int64, error) {
	count, err := s.sessionRepo.DeleteByID(ctx, sessionID)
	if err != nil {
		return 0, fmt.Errorf("セッションの削除に失敗しました: %w", err)
	}
	return count, nil
}
