package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ivankudzin/worklance/backend/internal/config"
	"github.com/ivankudzin/worklance/backend/internal/domain/enums"
	authsvc "github.com/ivankudzin/worklance/backend/internal/services/auth"
	modsvc "github.com/ivankudzin/worklance/backend/internal/services/moderation"
	ratesvc "github.com/ivankudzin/worklance/backend/internal/services/rate"
	"github.com/ivankudzin/worklance/backend/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService       *authsvc.Service
	ModerationService *modsvc.Service
	RateLimiter       *ratesvc.Limiter
	Logger            *zap.Logger
	Config            config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	moderationHandler := handlers.NewModerationHandler(
		deps.ModerationService,
		deps.RateLimiter,
		deps.Config.Moderation.WarningsPageSize,
	)
	authMW := AuthMiddleware(deps.AuthService, deps.Logger)
	adminRoleMW := RequireRole(enums.RoleOwner, enums.RoleSupport, enums.RoleModerator)

	r.Get("/healthz", healthHandler.Get)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
		r.With(authMW).Post("/logout", authHandler.Logout)
		r.With(authMW).Post("/logout_all", authHandler.LogoutAll)
	})

	r.Route("/v1/moderation", func(r chi.Router) {
		r.With(authMW).Post("/check", moderationHandler.Check)
		r.With(authMW).Get("/warnings", moderationHandler.Warnings)
	})

	r.Route("/admin", func(r chi.Router) {
		r.With(authMW, adminRoleMW).Get("/moderation/logs", moderationHandler.AdminLogs)
	})
}
