package limitcheck

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hitoshi/spacenote/internal/model"
)

// --- モック定義 ---

type mockSessionFinder struct {
	listOverLimitFn     func(ctx context.Context, limitSeconds int64) ([]*model.TimeTrackingSession, error)
	markLimitNotifiedFn func(ctx context.Context, sessionID string) error
}

func (m *mockSessionFinder) ListOverLimit(ctx context.Context, limitSeconds int64) ([]*model.TimeTrackingSession, error) {
	if m.listOverLimitFn != nil {
		return m.listOverLimitFn(ctx, limitSeconds)
	}
	return nil, nil
}

func (m *mockSessionFinder) MarkLimitNotified(ctx context.Context, sessionID string) error {
	if m.markLimitNotifiedFn != nil {
		return m.markLimitNotifiedFn(ctx, sessionID)
	}
	return nil
}

type mockNotificationMetrics struct {
	notifications int
}

func (m *mockNotificationMetrics) RecordLimitNotification() {
	m.notifications++
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func overLimitSession(id string, durationSeconds int64) *model.TimeTrackingSession {
	end := time.Now().UTC()
	start := end.Add(-time.Duration(durationSeconds) * time.Second)
	return &model.TimeTrackingSession{
		ID:           id,
		UserID:       "user-1",
		SpaceID:      1,
		ActivityName: "deep work",
		StartTime:    start,
		EndTime:      &end,
		Duration:     &durationSeconds,
	}
}

// --- テスト ---

func TestLimitCheckJob_NotifiesAndMarksSessions(t *testing.T) {
	marked := []string{}
	finder := &mockSessionFinder{
		listOverLimitFn: func(ctx context.Context, limitSeconds int64) ([]*model.TimeTrackingSession, error) {
			if limitSeconds != 8*3600 {
				t.Errorf("limitSeconds = %d, want %d", limitSeconds, 8*3600)
			}
			return []*model.TimeTrackingSession{
				overLimitSession("session-1", 9*3600),
				overLimitSession("session-2", 10*3600),
			}, nil
		},
		markLimitNotifiedFn: func(ctx context.Context, sessionID string) error {
			marked = append(marked, sessionID)
			return nil
		},
	}

	metrics := &mockNotificationMetrics{}
	job := NewLimitCheckJob(finder, discardLogger(), metrics)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(marked) != 2 {
		t.Errorf("marked sessions = %v, want 2 entries", marked)
	}
	if metrics.notifications != 2 {
		t.Errorf("notifications = %d, want 2", metrics.notifications)
	}
}

func TestLimitCheckJob_NoSessions_Succeeds(t *testing.T) {
	finder := &mockSessionFinder{
		listOverLimitFn: func(ctx context.Context, limitSeconds int64) ([]*model.TimeTrackingSession, error) {
			return nil, nil
		},
		markLimitNotifiedFn: func(ctx context.Context, sessionID string) error {
			t.Fatal("MarkLimitNotified should not be called")
			return nil
		},
	}

	job := NewLimitCheckJob(finder, discardLogger(), nil)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLimitCheckJob_ListError_ReturnsError(t *testing.T) {
	finder := &mockSessionFinder{
		listOverLimitFn: func(ctx context.Context, limitSeconds int64) ([]*model.TimeTrackingSession, error) {
			return nil, errors.New("connection refused")
		},
	}

	job := NewLimitCheckJob(finder, discardLogger(), nil)

	if err := job.Run(context.Background()); err == nil {
		t.Error("expected error when listing fails")
	}
}

func TestLimitCheckJob_MarkFailure_ContinuesWithRemaining(t *testing.T) {
	marked := []string{}
	finder := &mockSessionFinder{
		listOverLimitFn: func(ctx context.Context, limitSeconds int64) ([]*model.TimeTrackingSession, error) {
			return []*model.TimeTrackingSession{
				overLimitSession("session-fail", 9*3600),
				overLimitSession("session-ok", 9*3600),
			}, nil
		},
		markLimitNotifiedFn: func(ctx context.Context, sessionID string) error {
			if sessionID == "session-fail" {
				return errors.New("update failed")
			}
			marked = append(marked, sessionID)
			return nil
		},
	}

	metrics := &mockNotificationMetrics{}
	job := NewLimitCheckJob(finder, discardLogger(), metrics)

	// 個別の失敗はジョブ全体を失敗させない
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(marked) != 1 || marked[0] != "session-ok" {
		t.Errorf("marked = %v, want [session-ok]", marked)
	}
	if metrics.notifications != 1 {
		t.Errorf("notifications = %d, want 1", metrics.notifications)
	}
}

func TestLimitCheckJob_CustomLimit_PassedToFinder(t *testing.T) {
	var capturedLimit int64
	finder := &mockSessionFinder{
		listOverLimitFn: func(ctx context.Context, limitSeconds int64) ([]*model.TimeTrackingSession, error) {
			capturedLimit = limitSeconds
			return nil, nil
		},
	}

	job := NewLimitCheckJob(finder, discardLogger(), nil)
	job.Limit = 2 * time.Hour

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if capturedLimit != 2*3600 {
		t.Errorf("limitSeconds = %d, want %d", capturedLimit, 2*3600)
	}
}
