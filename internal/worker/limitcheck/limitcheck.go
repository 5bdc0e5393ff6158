// Package limitcheck は作業時間の上限超過を検知するジョブを提供する。
// 完了済みセッションのうち、作業時間が設定上限（デフォルト8時間）を
// 超えたものを定期バッチで検出し、通知ログを出力してフラグを立てる。
// フラグ済みのセッションは再通知しないため、ジョブは冪等に実行できる。
package limitcheck

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/spacenote/internal/model"
)

// SessionFinder は上限超過セッションの検索と通知済みフラグの更新を抽象化する。
type SessionFinder interface {
	ListOverLimit(ctx context.Context, limitSeconds int64) ([]*model.TimeTrackingSession, error)
	MarkLimitNotified(ctx context.Context, sessionID string) error
}

// NotificationMetrics は通知送出のメトリクス記録の窓口。
type NotificationMetrics interface {
	RecordLimitNotification()
}

// LimitCheckJob は作業時間の上限超過を検知するバッチジョブ。
// 定期実行を前提とし、1回のRunで未通知の超過セッションをすべて処理する。
type LimitCheckJob struct {
	sessions SessionFinder
	logger   *slog.Logger
	metrics  NotificationMetrics // nilの場合は記録しない
	Limit    time.Duration       // 作業時間の上限（デフォルト: 8時間）
}

// NewLimitCheckJob は新しいLimitCheckJobを生成する。
// デフォルトの上限は8時間。
func NewLimitCheckJob(sessions SessionFinder, logger *slog.Logger, metrics NotificationMetrics) *LimitCheckJob {
	return &LimitCheckJob{
		sessions: sessions,
		logger:   logger,
		metrics:  metrics,
		Limit:    8 * time.Hour,
	}
}

// Run は上限を超過した未通知セッションを検出し、通知ログを出力して
// limit_notification_sentフラグを立てる。
// 冪等: 超過セッションがない場合でもエラーにならない。
// 個別セッションのフラグ更新失敗はログに残して続行し、次回の実行で再試行される。
func (j *LimitCheckJob) Run(ctx context.Context) error {
	start := time.Now()

	limitSeconds := int64(j.Limit / time.Second)

	sessions, err := j.sessions.ListOverLimit(ctx, limitSeconds)
	if err != nil {
		j.logger.Error("上限超過セッションの検索に失敗しました",
			slog.String("error", err.Error()),
			slog.Int64("limit_seconds", limitSeconds),
		)
		return fmt.Errorf("上限超過セッションの検索に失敗: %w", err)
	}

	notifiedCount := 0
	for _, session := range sessions {
		// 通知チャネルは構造化ログ。外部通知基盤はここに差し込む
		j.logger.Warn("work time limit exceeded",
			slog.String("session_id", session.ID),
			slog.String("user_id", session.UserID),
			slog.String("activity_name", session.ActivityName),
			slog.Int64("duration_seconds", derefDuration(session.Duration)),
			slog.Int64("limit_seconds", limitSeconds),
		)

		if err := j.sessions.MarkLimitNotified(ctx, session.ID); err != nil {
			j.logger.Error("通知済みフラグの更新に失敗しました",
				slog.String("error", err.Error()),
				slog.String("session_id", session.ID),
			)
			continue
		}

		notifiedCount++
		if j.metrics != nil {
			j.metrics.RecordLimitNotification()
		}
	}

	duration := time.Since(start)
	j.logger.Info("上限チェックジョブが完了しました",
		slog.Int("candidate_count", len(sessions)),
		slog.Int("notified_count", notifiedCount),
		slog.Int64("limit_seconds", limitSeconds),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

func derefDuration(d *int64) int64 {
	if d == nil {
		return 0
	}
	return *d
}
