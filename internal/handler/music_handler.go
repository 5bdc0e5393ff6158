package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// MusicHandler は音楽ストリーミングのHTTPハンドラー。
// 配信対象はディレクトリ内のファイルのみで、状態はプロセス内に保持する。
type MusicHandler struct {
	musicDir string

	mu          sync.RWMutex
	currentName string   // 最後にストリームしたファイル名（拡張子なし）
	playlist    []string // 次曲候補のスタック
}

// NewMusicHandler はMusicHandlerを生成する。
func NewMusicHandler(musicDir string) *MusicHandler {
	return &MusicHandler{musicDir: musicDir}
}

// Play はディレクトリからランダムに1ファイルを選んでストリームする。
// 選んだファイル名（拡張子なし）を記録し、以後Metadataで参照できる。
// GET /music/play
func (h *MusicHandler) Play(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(h.musicDir)
	if err != nil {
		slog.Error("failed to read music directory", slog.String("error", err.Error()), slog.String("dir", h.musicDir))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}

	if len(files) == 0 {
		http.Error(w, "no music files found", http.StatusNotFound)
		return
	}

	name := files[rand.Intn(len(files))]

	f, err := os.Open(filepath.Join(h.musicDir, name))
	if err != nil {
		slog.Error("failed to open music file", slog.String("error", err.Error()), slog.String("file", name))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	h.mu.Lock()
	h.currentName = strings.TrimSuffix(name, filepath.Ext(name))
	h.mu.Unlock()

	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := io.Copy(w, f); err != nil {
		// クライアント切断はここに到達する。レスポンスは書き込み済みのためログのみ
		slog.Warn("music stream interrupted", slog.String("error", err.Error()), slog.String("file", name))
	}
}

// Metadata は最後にストリームしたファイル名を返す。未再生なら404。
// GET /music/metadata
func (h *MusicHandler) Metadata(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	name := h.currentName
	h.mu.RUnlock()

	if name == "" {
		http.Error(w, "no song played yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(name))
}

// Next はプレイリストから次曲を取り出して返す。空なら404。
// POST /music/next
func (h *MusicHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.playlist) == 0 {
		http.Error(w, "playlist is empty", http.StatusNotFound)
		return
	}

	next := h.playlist[len(h.playlist)-1]
	h.playlist = h.playlist[:len(h.playlist)-1]
	h.currentName = next

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(next)
}

// Enqueue はプレイリストに曲名を積む。テストおよび初期化用。
func (h *MusicHandler) Enqueue(names ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.playlist = append(h.playlist, names...)
}
