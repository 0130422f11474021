package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"market_sync/internal/app/di"
	marketdatahandler "market_sync/internal/feature/marketdata/transport/handler"
	"market_sync/internal/platform/http/handler"
	jwtmw "market_sync/internal/platform/jwt"
)

// Deps are the handlers and settings the router mounts.
type Deps struct {
	Sync          *marketdatahandler.SyncHandler
	Snapshots     *marketdatahandler.SnapshotHandler
	Symbols       *marketdatahandler.SymbolHandler
	TriggerSecret string
	TokenVerifier marketdatahandler.TokenVerifier
	Registry      *prometheus.Registry
	HealthChecks  map[string]handler.Check
}

// DepsFromApp builds the handlers for a wired App.
func DepsFromApp(app *di.App) Deps {
	d := Deps{
		Sync:          marketdatahandler.NewSyncHandler(app.Sync, app.Log),
		Snapshots:     marketdatahandler.NewSnapshotHandler(app.Snapshots),
		Symbols:       marketdatahandler.NewSymbolHandler(app.Sync),
		TriggerSecret: app.Config.TriggerSecret,
		Registry:      app.Registry,
		HealthChecks: map[string]handler.Check{
			"store": StoreCheck(app.Config.Store.Credentials),
		},
	}
	if app.Config.JWTSecret != "" {
		d.TokenVerifier = jwtmw.NewVerifier(app.Config.JWTSecret)
	}
	return d
}

// NewRouter builds the gin engine for both the HTTP server and Lambda.
func NewRouter(d Deps) *gin.Engine {
	r := gin.Default()

	// ブラウザからのプリフライトは 200 で返す
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:           true,
		AllowMethods:              []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:              []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:                    12 * time.Hour,
		OptionsResponseStatusCode: http.StatusOK,
	}))

	// 導通確認用
	health := handler.Health(d.HealthChecks)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)

	if d.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	{
		api.OPTIONS("/sync-stocks", d.Sync.Preflight)

		// SYNC_TRIGGER_SECRET か SYNC_JWT_SECRET が設定されている場合はBearerトークンが必要
		secret := marketdatahandler.RequireTriggerSecret(d.TriggerSecret, d.TokenVerifier)
		api.GET("/sync-stocks", secret, d.Sync.Trigger)
		api.POST("/sync-stocks", secret, d.Sync.Trigger)

		api.GET("/snapshots/:symbol", d.Snapshots.Get)
		api.GET("/symbols", d.Symbols.List)
	}

	return r
}

// StoreCheck adapts a precondition validator to a health check.
func StoreCheck(v interface{ Validate() error }) handler.Check {
	return func(context.Context) error { return v.Validate() }
}
