package model

import (
	"strconv"
	"strings"
	"time"
)

// lineDelimiter は付箋行のエンコードに使用する区切り文字。
// テキストや色にこの文字が含まれる場合のエスケープは行わない。
// エスケープを導入すると既存データとのラウンドトリップが壊れる。
const lineDelimiter = "|"

// StickyNote は付箋を表す。
// Linesにはエンコード済みの行文字列（"text|color|checked"）を保持し、
// text[]カラムにそのまま永続化される。
type StickyNote struct {
	ID        string     `json:"id"`
	SpaceID   int        `json:"space_id"`
	UserID    string     `json:"user_id"`
	Title     string     `json:"title"`
	Color     string     `json:"color"`
	TextColor string     `json:"text_color"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
	Tags      []string   `json:"tags"`
	Lines     []string   `json:"lines"`
}

// StickyLine は付箋内のチェックボックス付き1行を表す。
// 永続化されるエンティティではなく、エンコード文字列との相互変換にのみ使う。
type StickyLine struct {
	Text    string `json:"text"`
	Color   string `json:"color"`
	Checked bool   `json:"checked"`
}

// Encode は行を "text|color|checked" 形式の1文字列に変換する。
// 区切り文字のエスケープは行わない。
func (l StickyLine) Encode() string {
	return l.Text + lineDelimiter + l.Color + lineDelimiter + strconv.FormatBool(l.Checked)
}

// ParseStickyLine はエンコード済み文字列をStickyLineに復元する。
// 欠落したテキスト・色フィールドは空文字列、欠落または解析不能な
// checkedフィールドはfalseにフォールバックする。エラーを返すことはない。
// 呼び出し側はこの「絶対に失敗しない」契約に依存している。
func ParseStickyLine(s string) StickyLine {
	parts := strings.Split(s, lineDelimiter)

	line := StickyLine{}
	if len(parts) > 0 {
		line.Text = parts[0]
	}
	if len(parts) > 1 {
		line.Color = parts[1]
	}
	if len(parts) > 2 {
		// "true"のみを真と認める。"1"や"TRUE"などの表記はfalse扱いで、
		// 既存データとの解釈互換を維持する。
		line.Checked = parts[2] == "true"
	}

	return line
}

// DecodedLines はノートの全行をStickyLineに復元して返す。
func (n *StickyNote) DecodedLines() []StickyLine {
	if n.Lines == nil {
		return nil
	}
	lines := make([]StickyLine, len(n.Lines))
	for i, s := range n.Lines {
		lines[i] = ParseStickyLine(s)
	}
	return lines
}
