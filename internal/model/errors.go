package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, space, note, track, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeSpaceNotFound    = "SPACE_NOT_FOUND"
	ErrCodeDuplicateSpace   = "DUPLICATE_SPACE"
	ErrCodeMissingSpaceName = "MISSING_SPACE_NAME"
	ErrCodeNoteNotFound     = "NOTE_NOT_FOUND"
	ErrCodeInvalidNoteID    = "INVALID_NOTE_ID"
	ErrCodeSessionNotFound  = "SESSION_NOT_FOUND"
	ErrCodeInvalidSessionID = "INVALID_SESSION_ID"
	ErrCodeInvalidEndTime   = "INVALID_END_TIME"
	ErrCodeInvalidRequest   = "INVALID_REQUEST"
)

// NewSpaceNotFoundError はスペース未検出エラーを生成する。
func NewSpaceNotFoundError(spaceName string) *APIError {
	return &APIError{
		Code:     ErrCodeSpaceNotFound,
		Message:  fmt.Sprintf("指定されたスペースが見つかりません: %s", spaceName),
		Category: "space",
		Action:   "スペース名を確認するか、先にスペースを作成してください。",
	}
}

// NewDuplicateSpaceError は同名スペースの重複作成エラーを生成する。
func NewDuplicateSpaceError(spaceName string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateSpace,
		Message:  fmt.Sprintf("同じ名前のスペースが既に存在します: %s", spaceName),
		Category: "space",
		Action:   "別のスペース名を指定してください。",
	}
}

// NewMissingSpaceNameError はspace_nameクエリパラメータ欠落エラーを生成する。
func NewMissingSpaceNameError() *APIError {
	return &APIError{
		Code:     ErrCodeMissingSpaceName,
		Message:  "space_nameクエリパラメータが指定されていません。",
		Category: "validation",
		Action:   "space_nameクエリパラメータを付けてリクエストしてください。",
	}
}

// NewNoteNotFoundError は付箋未検出エラーを生成する。
func NewNoteNotFoundError(noteID string) *APIError {
	return &APIError{
		Code:     ErrCodeNoteNotFound,
		Message:  fmt.Sprintf("指定された付箋が見つかりません: %s", noteID),
		Category: "note",
		Action:   "付箋IDを確認してください。",
	}
}

// NewInvalidNoteIDError は付箋IDの形式エラーを生成する。
func NewInvalidNoteIDError(noteID string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidNoteID,
		Message:  fmt.Sprintf("付箋IDの形式が不正です: %s", noteID),
		Category: "validation",
		Action:   "UUID形式の付箋IDを指定してください。",
	}
}

// NewSessionNotFoundError はセッション未検出エラーを生成する。
func NewSessionNotFoundError(sessionID string) *APIError {
	return &APIError{
		Code:     ErrCodeSessionNotFound,
		Message:  fmt.Sprintf("指定されたセッションが見つかりません: %s", sessionID),
		Category: "track",
		Action:   "セッションIDを確認してください。",
	}
}

// NewInvalidSessionIDError はセッションIDの形式エラーを生成する。
func NewInvalidSessionIDError(sessionID string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidSessionID,
		Message:  fmt.Sprintf("セッションIDの形式が不正です: %s", sessionID),
		Category: "validation",
		Action:   "UUID形式のセッションIDを指定してください。",
	}
}

// NewInvalidEndTimeError は終了時刻の形式エラーを生成する。
func NewInvalidEndTimeError(endTime string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidEndTime,
		Message:  fmt.Sprintf("終了時刻の形式が不正です: %s", endTime),
		Category: "validation",
		Action:   "end_timeにはUNIXタイムスタンプ（秒）を指定してください。",
	}
}

// NewInvalidRequestError はリクエストボディの解析エラーを生成する。
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	}
}
