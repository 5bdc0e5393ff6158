// Package model はドメインモデルを定義する。
package model

// Space はユーザーが作成した名前付きパーティションを表す。
// スペースごとに付箋とタイムトラッキングセッションが分離される。
type Space struct {
	ID        int    `json:"id"`
	UserID    string `json:"user_id"`
	SpaceName string `json:"space_name"`
}
