// Package router wires the HTTP surface: middleware chain, API routes and
// the health endpoint.
package router

import (
	"net/http"

	"sklink/internal/cache"
	"sklink/internal/config"
	"sklink/internal/database"
	"sklink/internal/handlers/api/v1/auth"
	"sklink/internal/handlers/api/v1/comments"
	"sklink/internal/handlers/api/v1/dashboard"
	"sklink/internal/handlers/api/v1/feedback"
	"sklink/internal/handlers/api/v1/notifications"
	"sklink/internal/handlers/api/v1/posts"
	"sklink/internal/handlers/api/v1/profile"
	"sklink/internal/handlers/api/v1/puroks"
	"sklink/internal/handlers/api/v1/verification"
	"sklink/internal/handlers/api/v1/youth"
	"sklink/internal/middleware"
	"sklink/internal/models"
	"sklink/internal/monitoring"
	"sklink/internal/response"
	"sklink/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Dependencies carries everything the router needs.
type Dependencies struct {
	Config   *config.Config
	Services *services.ServiceCollection
	DB       *database.Manager
	Cache    cache.Cache
	Logger   *zap.Logger
}

// New builds the full HTTP handler.
func New(deps Dependencies) http.Handler {
	cfg := deps.Config
	logger := deps.Logger
	builder := response.NewBuilder(logger)

	authMW := middleware.NewAuthMiddleware(&middleware.AuthConfig{
		JWTSecret:  []byte(cfg.Auth.JWTSecret),
		CookieName: cfg.Auth.CookieName,
	}, logger)
	rateLimiter := middleware.NewRateLimiter(deps.Cache, cfg.Security.RateLimitPerMinute, logger)

	authCtrl := auth.NewController(deps.Services, cfg.Auth, logger, builder)
	verificationCtrl := verification.NewController(deps.Services, logger, builder)
	youthCtrl := youth.NewController(deps.Services, logger, builder)
	postsCtrl := posts.NewController(deps.Services, logger, builder)
	commentsCtrl := comments.NewController(deps.Services, logger, builder)
	puroksCtrl := puroks.NewController(deps.Services, logger, builder)
	profileCtrl := profile.NewController(deps.Services, logger, builder)
	dashboardCtrl := dashboard.NewController(deps.Services, logger, builder)
	feedbackCtrl := feedback.NewController(deps.Services, logger, builder)
	notificationsCtrl := notifications.NewController(deps.Services, logger, builder)

	r := chi.NewRouter()
	r.Use(middleware.RequestID(logger))
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Security.CORSAllowedOrigins))

	r.Get("/health", healthHandler(deps.DB, deps.Cache, builder))

	dash := monitoring.NewDashboard(deps.DB, cfg.Server.Environment, logger)
	r.Group(func(r chi.Router) {
		r.Use(authMW.RequireAuth(), authMW.RequireRole(middleware.RoleOfficial))
		r.Get("/metrics", dash.Handler())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimiter.Limit())

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authCtrl.Login)
			r.Post("/logout", authCtrl.Logout)
			r.Post("/register", authCtrl.Register)
		})

		// Public feed reads; an authenticated viewer additionally sees
		// their own reaction.
		r.Group(func(r chi.Router) {
			r.Use(authMW.OptionalAuth())
			r.Get("/posts", postsCtrl.List)
			r.Get("/posts/{id}", postsCtrl.Get)
			r.Get("/posts/{id}/comments", commentsCtrl.ListByPost)
		})

		// Purok list is public so the registration form can offer it.
		r.Get("/puroks", puroksCtrl.List)
		r.Get("/puroks/{id}", puroksCtrl.Get)

		// Any authenticated principal.
		r.Group(func(r chi.Router) {
			r.Use(authMW.RequireAuth())

			r.Get("/profile", profileCtrl.Get)
			r.Put("/profile", profileCtrl.Update)

			r.Post("/comments", commentsCtrl.Create)
			r.Put("/comments/{id}", commentsCtrl.Update)
			r.Delete("/comments/{id}", commentsCtrl.Delete)

			r.Post("/posts/{id}/reactions", postsCtrl.React)
			r.Delete("/posts/{id}/reactions", postsCtrl.Unreact)

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationsCtrl.List)
				r.Get("/unread-count", notificationsCtrl.UnreadCount)
				r.Get("/ws", notificationsCtrl.Stream)
				r.Post("/read-all", notificationsCtrl.MarkAllRead)
				r.Post("/{id}/read", notificationsCtrl.MarkRead)
			})

			r.Get("/feedback", feedbackCtrl.ListForms)
			r.Get("/feedback/{id}", feedbackCtrl.GetForm)
		})

		// Youth only.
		r.Group(func(r chi.Router) {
			r.Use(authMW.RequireAuth(), authMW.RequireKind(models.ActorYouth))
			r.Post("/profile/attachments", profileCtrl.AddAttachment)
			r.Post("/feedback/{id}/replies", feedbackCtrl.Reply)
		})

		// Officials only.
		r.Group(func(r chi.Router) {
			r.Use(authMW.RequireAuth(), authMW.RequireRole(middleware.RoleOfficial))

			r.Route("/verification", func(r chi.Router) {
				r.Get("/", verificationCtrl.ListPending)
				r.Get("/{id}", verificationCtrl.GetDetail)
				r.Post("/{id}/verify", verificationCtrl.Verify)
				r.Post("/{id}/restore", verificationCtrl.Restore)
				r.Delete("/{id}", verificationCtrl.Remove)
			})

			r.Route("/youths", func(r chi.Router) {
				r.Get("/", youthCtrl.List)
				r.Post("/", youthCtrl.Create)
				r.Get("/{id}", youthCtrl.GetDetail)
				r.Put("/{id}", youthCtrl.UpdateProfile)
			})

			r.Get("/dashboard", dashboardCtrl.Summary)

			r.Post("/puroks", puroksCtrl.Create)
			r.Put("/puroks/{id}", puroksCtrl.Update)
			r.Delete("/puroks/{id}", puroksCtrl.Delete)

			r.Post("/posts", postsCtrl.Create)
			r.Put("/posts/{id}", postsCtrl.Update)
			r.Delete("/posts/{id}", postsCtrl.Delete)

			r.Post("/comments/{id}/hide", commentsCtrl.Hide)
			r.Post("/comments/{id}/unhide", commentsCtrl.Unhide)

			r.Route("/moderation/bans", func(r chi.Router) {
				r.Get("/", commentsCtrl.ListBans)
				r.Post("/", commentsCtrl.Ban)
				r.Delete("/", commentsCtrl.Unban)
			})

			r.Post("/feedback", feedbackCtrl.CreateForm)
			r.Put("/feedback/{id}", feedbackCtrl.UpdateForm)
			r.Delete("/feedback/{id}", feedbackCtrl.DeleteForm)
			r.Get("/feedback/{id}/replies", feedbackCtrl.ListReplies)
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			builder.WriteNotFound(w, r, "endpoint")
		})
	})

	return r
}

func healthHandler(db *database.Manager, c cache.Cache, builder *response.Builder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"database": "ok", "cache": "ok"}

		unhealthy := false
		if err := db.Health(r.Context()); err != nil {
			status["database"] = err.Error()
			unhealthy = true
		}
		if err := c.Health(r.Context()); err != nil {
			status["cache"] = err.Error()
			unhealthy = true
		}

		if unhealthy {
			builder.WriteError(w, r, &services.ServiceError{
				Type:       "UNHEALTHY",
				Message:    "dependencies unhealthy",
				Details:    map[string]interface{}{"status": status},
				StatusCode: http.StatusServiceUnavailable,
			})
			return
		}
		builder.WriteSuccess(w, r, status)
	}
}
