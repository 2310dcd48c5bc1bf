package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/mediwatch/internal/metrics"
	"github.com/hitoshi/mediwatch/internal/middleware"
)

// bannerMessage はルートエンドポイントの死活確認メッセージ。
const bannerMessage = "MediWatch API Running"

// HealthChecker はヘルスチェックに必要なインターフェース。
// *sql.DBがそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Authenticator     middleware.TokenAuthenticator
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// ヘルスチェック・メトリクス
	HealthChecker HealthChecker
	Gatherer      prometheus.Gatherer

	// サービス
	AuthService       AuthServiceInterface
	MedicationService MedicationServiceInterface

	// リマインダー一覧の先読み日数。0以下の場合はデフォルトの7日。
	ReminderHorizonDays int
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → （認証ルートのみ）Auth → RateLimit(General)
//
// 登録・ログインには認証の代わりにIPベースのレート制限を適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))

	authHandler := NewAuthHandler(deps.AuthService)
	medHandler := NewMedicationHandler(deps.MedicationService, deps.ReminderHorizonDays)

	// --- 認証不要のルート ---

	// 死活確認バナー
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		writeJSONResponse(w, http.StatusOK, messageResponse{Message: bannerMessage})
	})

	// ヘルスチェック（DB疎通確認）
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := deps.HealthChecker.PingContext(req.Context()); err != nil {
			slog.Error("health check failed", slog.String("error", err.Error()))
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
		writeJSONResponse(w, http.StatusOK, messageResponse{Message: "ok"})
	})

	// Prometheusスクレイプ
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	// 登録・ログイン（IPベースのレート制限付き）
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.AuthMiddleware())

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.Authenticator))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Route("/medications", func(r chi.Router) {
			r.Post("/", medHandler.Create)
			r.Get("/", medHandler.List)

			// /medications/{id}より先にマッチさせる
			r.Get("/reminders", medHandler.Reminders)

			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", medHandler.Update)
				r.Delete("/", medHandler.Delete)
			})
		})
	})

	return r
}
