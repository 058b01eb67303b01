package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/authcheck-api/internal/application/blacklist"
	"github.com/authcheck-api/internal/application/check"
	"github.com/authcheck-api/internal/application/guild"
	"github.com/authcheck-api/internal/application/pending"
	"github.com/authcheck-api/internal/application/reconcile"
	"github.com/authcheck-api/internal/application/verify"
	"github.com/authcheck-api/internal/config"
	"github.com/authcheck-api/internal/domain"
	"github.com/authcheck-api/internal/transport/http/handler"
	appmiddleware "github.com/authcheck-api/internal/transport/http/middleware"
	jwtinfra "github.com/authcheck-api/internal/infrastructure/jwt"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Internal-Token"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}
	gatewayMw := appmiddleware.GatewayAuth(cfg.GatewayAPIKey)

	// 5 requests/second, burst of 10 — applied to the public callback and
	// login endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	envCreds := domain.ProviderCredentials{
		ClientID:     cfg.ProviderClientID,
		ClientSecret: cfg.ProviderClientSecret,
		RedirectURI:  cfg.ProviderRedirectURI,
	}
	guildSvc := guild.NewService(deps.GuildConfigRepo, deps.CredentialsRepo, envCreds)
	pendingSvc := pending.NewService(deps.PendingRepo)
	verifySvc := verify.NewService(pendingSvc, deps.LinkRepo, deps.ProviderClient, guildSvc)
	blacklistSvc := blacklist.NewService(deps.ProviderClient, guildSvc)

	var platform reconcile.Platform
	if deps.DiscordClient != nil {
		platform = deps.DiscordClient
	}
	reconcileSvc := reconcile.NewService(deps.LinkRepo, guildSvc, platform)

	checkDeps := check.ServiceDeps{
		Links:      deps.LinkRepo,
		Evaluator:  blacklistSvc,
		Reconciler: reconcileSvc,
		Configs:    guildSvc,
	}
	if deps.DiscordClient != nil {
		checkDeps.Notifier = deps.DiscordClient
	}
	if deps.ReportArchive != nil {
		checkDeps.Archive = deps.ReportArchive
	}
	if deps.AlertPublisher != nil {
		checkDeps.Alerts = deps.AlertPublisher
	}
	checkSvc := check.NewService(checkDeps)

	healthH := handler.NewHealthHandler()
	callbackH := handler.NewCallbackHandler(verifySvc, reconcileSvc)
	verificationH := handler.NewVerificationHandler(verifySvc, reconcileSvc)
	checkH := handler.NewCheckHandler(checkSvc)
	settingsH := handler.NewSettingsHandler(guildSvc)
	adminH := handler.NewAdminHandler(cfg.AdminPasswordHash, deps.JWTProvider, guildSvc)

	var archiveReader handler.ReportArchive
	if deps.ReportArchive != nil {
		archiveReader = deps.ReportArchive
	}
	reportsH := handler.NewReportsHandler(archiveReader)

	// OAuth redirect target — lives outside /v1 because the provider's
	// registered redirect URI points at the bare path.
	r.With(sensitiveRL.Limit).Get("/callback", callbackH.Callback)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/admin/login", adminH.Login)

		// ── Gateway routes (shared-key auth) ─────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(gatewayMw)

			r.Post("/verifications", verificationH.Start)
			r.Get("/members/{requesterID}/verification", verificationH.Status)
			r.Post("/checks", checkH.Run)
		})

		// ── Admin dashboard routes (JWT auth) ────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)
			r.Use(appmiddleware.RequireRole(jwtinfra.RoleAdmin))

			r.Get("/guilds/{guildID}/settings", settingsH.Get)
			r.Put("/guilds/{guildID}/settings", settingsH.Update)
			r.Get("/guilds/{guildID}/reports/{reportID}", reportsH.Get)
			r.Put("/admin/credentials", adminH.UpdateCredentials)
		})
	})

	return r
}
