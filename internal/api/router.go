package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mandolon/rehome-platform-sub001/internal/api/handler"
	customMiddleware "github.com/mandolon/rehome-platform-sub001/internal/api/middleware"
	"github.com/mandolon/rehome-platform-sub001/internal/config"
	"github.com/mandolon/rehome-platform-sub001/internal/domain"
	"github.com/mandolon/rehome-platform-sub001/internal/notify"
	"github.com/mandolon/rehome-platform-sub001/internal/repository/postgres"
	"github.com/mandolon/rehome-platform-sub001/internal/repository/redis"
	"github.com/mandolon/rehome-platform-sub001/internal/security"
	"github.com/mandolon/rehome-platform-sub001/internal/service"
	"github.com/mandolon/rehome-platform-sub001/internal/storage"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, db *postgres.DB, redisClient *redis.Client, dispatcher *notify.Dispatcher) (http.Handler, error) {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-XSRF-TOKEN"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Security components
	jwtManager := security.NewJWTManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	projectRepo := postgres.NewProjectRepository(db)
	taskRepo := postgres.NewTaskRepository(db)
	requestRepo := postgres.NewRequestRepository(db)
	commentRepo := postgres.NewCommentRepository(db)
	fileRepo := postgres.NewFileRepository(db)

	tokenStore := redis.NewTokenStore(redisClient)
	rateLimiter := redis.NewRateLimiter(
		redisClient,
		cfg.Security.RateLimit.RequestsPerMinute,
		cfg.Security.RateLimit.Burst,
	)

	blobStore, err := storage.NewLocal(cfg.Storage.UploadDir)
	if err != nil {
		return nil, err
	}

	// Services
	authService := service.NewAuthService(userRepo, tokenStore, jwtManager)
	userService := service.NewUserService(userRepo)
	projectService := service.NewProjectService(projectRepo, userRepo)
	taskService := service.NewTaskService(taskRepo, projectRepo, dispatcher)
	requestService := service.NewRequestService(requestRepo, projectRepo, dispatcher)
	commentService := service.NewCommentService(commentRepo)
	fileService := service.NewFileService(fileRepo, projectRepo, taskRepo, blobStore)
	notificationService := service.NewNotificationService(postgres.NewNotificationRepository(db))

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	projectHandler := handler.NewProjectHandler(projectService)
	taskHandler := handler.NewTaskHandler(taskService, commentService, userService)
	requestHandler := handler.NewRequestHandler(requestService, commentService, userService)
	commentHandler := handler.NewCommentHandler(commentService, taskService)
	fileHandler := handler.NewFileHandler(fileService, cfg.Storage.MaxUploadSize)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	// Middleware
	authMiddleware := customMiddleware.NewAuthMiddleware(jwtManager)
	rateLimitMiddleware := customMiddleware.NewRateLimitMiddleware(rateLimiter)
	projectScope := customMiddleware.NewProjectScope(projectRepo)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db))

		// Auth routes (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
			r.Get("/csrf", authHandler.CSRF)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(rateLimitMiddleware.Limit)

			r.Get("/auth/me", authHandler.Me)

			// User administration
			r.Route("/users", func(r chi.Router) {
				r.Patch("/me", userHandler.UpdateProfile)

				r.Group(func(r chi.Router) {
					r.Use(customMiddleware.RequireRole(domain.RoleAdmin))

					r.Get("/", userHandler.List)
					r.Get("/{userID}", userHandler.Get)
					r.Patch("/{userID}/role", userHandler.UpdateRole)
					r.Delete("/{userID}", userHandler.Deactivate)
				})
			})

			// Projects
			r.Route("/projects", func(r chi.Router) {
				r.Get("/", projectHandler.List)

				r.With(customMiddleware.RequireRole(domain.RoleAdmin, domain.RoleProjectManager)).
					Post("/", projectHandler.Create)

				r.Route("/{projectID}", func(r chi.Router) {
					r.Use(projectScope.Require)

					r.Get("/", projectHandler.Get)
					r.Patch("/", projectHandler.Update)
					r.Delete("/", projectHandler.Delete)

					r.Route("/members", func(r chi.Router) {
						r.Get("/", projectHandler.ListMembers)
						r.Post("/", projectHandler.AddMember)
						r.Delete("/{userID}", projectHandler.RemoveMember)
					})

					r.Route("/tasks", func(r chi.Router) {
						r.Get("/", taskHandler.List)
						r.Post("/", taskHandler.Create)

						r.Route("/{taskID}", func(r chi.Router) {
							r.Get("/", taskHandler.Get)
							r.Patch("/", taskHandler.Update)
							r.Patch("/status", taskHandler.UpdateStatus)
							r.Delete("/", taskHandler.Delete)
						})
					})

					r.Route("/requests", func(r chi.Router) {
						r.Get("/", requestHandler.List)
						r.Post("/", requestHandler.Create)

						r.Route("/{requestID}", func(r chi.Router) {
							r.Get("/", requestHandler.Get)
							r.Patch("/", requestHandler.Update)
							r.Patch("/status", requestHandler.UpdateStatus)
							r.Delete("/", requestHandler.Delete)

							r.Get("/comments", requestHandler.ListComments)
							r.Post("/comments", requestHandler.CreateComment)
						})
					})

					r.Route("/files", func(r chi.Router) {
						r.Get("/", fileHandler.List)
						r.Post("/", fileHandler.Upload)
						r.Get("/{fileID}", fileHandler.Download)
						r.Delete("/{fileID}", fileHandler.Delete)
					})
				})
			})

			// Task comments outside the project subtree; task visibility
			// still gates access
			r.Route("/tasks/{taskID}/comments", func(r chi.Router) {
				r.Get("/", commentHandler.ListForTask)
				r.Post("/", commentHandler.CreateForTask)
			})
			r.Delete("/comments/{commentID}", commentHandler.Delete)

			// Notifications
			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.List)
				r.Post("/{notificationID}/read", notificationHandler.MarkRead)
			})
		})
	})

	return r, nil
}
