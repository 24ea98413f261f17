package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/hearthcloud/internal/api/handlers"
	"github.com/baharkarakas/hearthcloud/internal/api/httpx"
	"github.com/baharkarakas/hearthcloud/internal/config"
	"github.com/baharkarakas/hearthcloud/internal/metrics"
	"github.com/baharkarakas/hearthcloud/internal/middleware"
	"github.com/baharkarakas/hearthcloud/internal/services"
	"github.com/baharkarakas/hearthcloud/internal/session"
)

type RouterDeps struct {
	Cfg      config.Config
	Sessions *session.Manager
	AuthSvc  *services.AuthService
	ForumSvc *services.ForumService
	PostSvc  *services.PostService
	UserSvc  *services.UserService
	Checks   Checks
}

func NewRouter(d RouterDeps) http.Handler {
	authH := handlers.NewAuthHandler(d.AuthSvc, d.Sessions)
	forumH := handlers.NewForumHandler(d.ForumSvc, d.PostSvc)
	userH := handlers.NewUserHandler(d.UserSvc, d.Sessions)
	authMW := middleware.NewAuthMiddleware(d.Sessions)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics)
	if d.Cfg.RateRPS > 0 {
		r.Use(middleware.RateLimit(d.Cfg.RateRPS))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", nil)
	})

	// health & metrics
	r.Get("/health", HealthHandler(d.Checks))
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(authMW.AnnotateCurrentUser)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/logout", authH.Logout)
			r.Get("/status", authH.Status)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAnonymous)
				r.Post("/register", authH.Register)
				r.Post("/login", authH.Login)
				r.Post("/recovery/init", authH.RecoveryInit)
				r.Post("/recovery/verify", authH.RecoveryVerify)
				r.Post("/recovery/change-password", authH.ChangePassword)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuthenticated)

			r.Route("/forums", func(r chi.Router) {
				r.Get("/my-forums", forumH.MyForums)
				r.Get("/search", forumH.Search)
				r.Post("/create", forumH.Create)

				r.Put("/posts/{postId}", forumH.UpdatePost)
				r.Delete("/posts/{postId}", forumH.DeletePost)
				r.Post("/posts/{postId}/comments", forumH.CreateComment)
				r.Put("/comments/{commentId}", forumH.UpdateComment)
				r.Delete("/comments/{commentId}", forumH.DeleteComment)

				r.Get("/{id}", forumH.Get)
				r.Delete("/{id}", forumH.Delete)
				r.Get("/{id}/posts", forumH.ListPosts)
				r.Post("/{id}/posts", forumH.CreatePost)
			})

			r.Get("/users/profile", userH.Profile)
			r.Delete("/users/account", userH.DeleteAccount)
		})
	})

	return r
}
