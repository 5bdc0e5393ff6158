package model

import "time"

// TimeTrackingSession はスペース内のアクティビティ計測セッションを表す。
// DurationはEndTimeが設定されるときに同時に計算・設定され、
// 一度設定されたら再計算されない。
type TimeTrackingSession struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	SpaceID      int        `json:"space_id"`
	ActivityName string     `json:"activity_name"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      *time.Time `json:"end_time"`
	Duration     *int64     `json:"duration"`

	// LimitNotificationSent は上限超過通知を送信済みかを示す。
	// ワーカーのバッチジョブが冪等性の担保に使用する。
	LimitNotificationSent bool `json:"-"`
}
