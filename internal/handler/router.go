package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/spacenote/internal/middleware"
)

// HealthChecker はヘルスチェックのDB疎通確認インターフェース。*sql.DBが満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	HTTPMetrics       middleware.HTTPMetrics
	CORSAllowedOrigin string
	IdentityConfig    middleware.IdentityConfig
	RateLimiter       *middleware.RateLimiter

	// 運用エンドポイント
	HealthChecker  HealthChecker
	MetricsHandler http.Handler

	// ドメインサービス
	SpaceService SpaceServiceInterface
	NoteService  NoteServiceInterface
	TrackService TrackServiceInterface
	Tracker      PresenceTracker

	// 静的配信
	StaticDir string
	MusicDir  string
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Logging → Recovery → Identity → RateLimit(General)
//
// 静的ファイル、/health、/metricsは識別チェーンの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.HTTPMetrics))
	r.Use(middleware.NewRecoveryMiddleware())

	authHandler := NewAuthHandler()
	spaceHandler := NewSpaceHandler(deps.SpaceService, deps.Tracker)
	noteHandler := NewNoteHandler(deps.SpaceService, deps.NoteService)
	trackHandler := NewTrackHandler(deps.SpaceService, deps.TrackService)
	musicHandler := NewMusicHandler(deps.MusicDir)

	// --- 識別不要のルート ---

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(deps.StaticDir, "index.html"))
	})
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(deps.StaticDir))))

	r.Get("/health", newHealthHandler(deps.HealthChecker))

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	// --- 識別が必要なルート ---
	// ミドルウェアスタック: Identity → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewIdentityMiddleware(deps.IdentityConfig))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// 匿名識別
		r.Post("/auth/silent", authHandler.SilentAuth)

		// スペース管理
		r.Get("/spaces", spaceHandler.ListSpaces)
		// POST /spaces - スペース作成（作成専用レート制限を追加）
		r.With(deps.RateLimiter.SpaceCreationMiddleware()).Post("/spaces", spaceHandler.CreateSpace)
		r.Get("/spaces/{space_name}", spaceHandler.ViewSpace)
		r.Get("/others", spaceHandler.OtherActiveSpaces)

		// 付箋管理
		r.Route("/notes", func(r chi.Router) {
			r.Post("/create", noteHandler.CreateNote)
			r.Get("/notes", noteHandler.ListNotes)
			r.Post("/header", noteHandler.UpdateHeader)
			r.Put("/update", noteHandler.UpdateNote)
			r.Delete("/{note_id}", noteHandler.DeleteNote)
		})

		// 作業時間トラッキング
		r.Route("/track", func(r chi.Router) {
			r.Post("/start", trackHandler.StartSession)
			r.Post("/complete", trackHandler.CompleteSession)
			r.Get("/time_tracking", trackHandler.ListSessions)
			r.Delete("/delete", trackHandler.DeleteSession)
		})

		// 音楽ストリーミング
		r.Route("/music", func(r chi.Router) {
			r.Get("/play", musicHandler.Play)
			r.Get("/metadata", musicHandler.Metadata)
			r.Post("/next", musicHandler.Next)
		})
	})

	return r
}

// newHealthHandler はDB疎通を確認するヘルスチェックハンドラーを返す。
func newHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{"status": "unhealthy"})
				return
			}
		}

		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
