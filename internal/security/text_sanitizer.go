// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizerService は付箋のタイトル・タグ・行テキストなど、
// ブラウザに表示されるユーザー入力からHTMLマークアップを除去し、
// XSS攻撃からユーザーを保護する。bluemondayのStrictPolicyを使用し、
// すべてのタグと属性を除去してプレーンテキストのみを通過させる。
package security

import (
	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService はユーザー入力テキストのサニタイズ機能のインターフェースを定義する。
// 付箋の保存前に使用される。
type TextSanitizerService interface {
	// Sanitize は入力からすべてのHTMLタグと属性を除去して返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
// 付箋のテキストはリッチテキストではないため、許可タグなしの
// StrictPolicy（全タグ除去）を使用する。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力からすべてのHTMLタグと属性を除去して返す。
func (s *textSanitizer) Sanitize(raw string) string {
	return s.policy.Sanitize(raw)
}
