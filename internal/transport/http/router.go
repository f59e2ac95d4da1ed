package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nano-banana/admin-api/internal/application/auth"
	"github.com/nano-banana/admin-api/internal/application/category"
	"github.com/nano-banana/admin-api/internal/application/country"
	"github.com/nano-banana/admin-api/internal/application/devicebind"
	"github.com/nano-banana/admin-api/internal/application/feedback"
	fileapp "github.com/nano-banana/admin-api/internal/application/file"
	"github.com/nano-banana/admin-api/internal/application/plan"
	"github.com/nano-banana/admin-api/internal/application/prompt"
	"github.com/nano-banana/admin-api/internal/application/recovery"
	"github.com/nano-banana/admin-api/internal/application/subscription"
	"github.com/nano-banana/admin-api/internal/application/user"
	"github.com/nano-banana/admin-api/internal/config"
	"github.com/nano-banana/admin-api/internal/domain"
	"github.com/nano-banana/admin-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/nano-banana/admin-api/internal/infrastructure/jwt"
	s3infra "github.com/nano-banana/admin-api/internal/infrastructure/s3"
	"github.com/nano-banana/admin-api/internal/infrastructure/smtp"
	"github.com/nano-banana/admin-api/internal/infrastructure/sns"
	"github.com/nano-banana/admin-api/internal/pkg/clock"
	"github.com/nano-banana/admin-api/internal/transport/http/handler"
	appmiddleware "github.com/nano-banana/admin-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo         *dynamo.UserRepo
	SessionRepo      *dynamo.SessionRepo
	DeviceRepo       *dynamo.DeviceRepo
	CategoryRepo     *dynamo.CategoryRepo
	SubcategoryRepo  *dynamo.SubcategoryRepo
	CountryRepo      *dynamo.CountryRepo
	PromptRepo       *dynamo.PromptRepo
	FeedbackRepo     *dynamo.FeedbackRepo
	PlanRepo         *dynamo.PlanRepo
	SubscriptionRepo *dynamo.SubscriptionRepo
	FileRepo         *dynamo.FileRepo
	VerificationRepo *dynamo.VerificationRepo
	S3Store          *s3infra.Store
	Mailer           smtp.Mailer
	EventPublisher   sns.EventPublisher
	JWTProvider      *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	binderSvc := devicebind.NewService(deps.DeviceRepo, clock.Real())
	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo:    deps.UserRepo,
		SessionRepo: deps.SessionRepo,
		Tokens:      deps.JWTProvider,
		Binder:      binderSvc,
		SessionTTL:  cfg.SessionTTL,
		MarkerTTL:   cfg.MarkerTTL,
		DeviceLimit: cfg.DeviceAccountLimit,
	})
	userSvc := user.NewService(deps.UserRepo)
	categorySvc := category.NewService(deps.CategoryRepo, deps.SubcategoryRepo)
	countrySvc := country.NewService(deps.CountryRepo)
	promptSvc := prompt.NewService(deps.PromptRepo, deps.CategoryRepo)
	feedbackSvc := feedback.NewService(deps.FeedbackRepo, deps.EventPublisher)
	planSvc := plan.NewService(deps.PlanRepo)
	subscriptionSvc := subscription.NewService(deps.SubscriptionRepo, deps.PlanRepo, deps.UserRepo)
	fileSvc := fileapp.NewService(deps.FileRepo, deps.S3Store)
	recoverySvc := recovery.NewService(deps.UserRepo, deps.VerificationRepo, deps.Mailer)

	healthH := handler.NewHealthHandler()
	sessionH := handler.NewSessionHandler(authSvc, cfg)
	userH := handler.NewUserHandler(userSvc)
	categoryH := handler.NewCategoryHandler(categorySvc)
	countryH := handler.NewCountryHandler(countrySvc)
	promptH := handler.NewPromptHandler(promptSvc)
	feedbackH := handler.NewFeedbackHandler(feedbackSvc)
	planH := handler.NewPlanHandler(planSvc)
	subscriptionH := handler.NewSubscriptionHandler(subscriptionSvc)
	deviceH := handler.NewDeviceHandler(binderSvc)
	fileH := handler.NewFileHandler(fileSvc)
	recoveryH := handler.NewPasswordRecoveryHandler(recoverySvc)

	authMw := appmiddleware.Auth(authSvc)

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/sessions/login", sessionH.Login)
		r.With(sensitiveRL.Limit).Post("/password-recovery", recoveryH.Request)
		r.With(sensitiveRL.Limit).Post("/password-recovery/validate", recoveryH.ValidateOTP)
		r.With(sensitiveRL.Limit).Post("/password-recovery/change-password", recoveryH.ChangePassword)
		r.With(sensitiveRL.Limit).Post("/feedback", feedbackH.Create)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/sessions", sessionH.GetCurrent)
			r.Post("/sessions/logout", sessionH.Logout)

			// Any authenticated user
			r.Get("/users/{id}", userH.Get)
			r.Put("/users/{id}", userH.Update)
			r.Get("/categories", categoryH.List)
			r.Get("/categories/{id}", categoryH.Get)
			r.Get("/categories/{id}/subcategories", categoryH.ListSubcategories)
			r.Get("/countries", countryH.List)
			r.Get("/countries/{id}", countryH.Get)
			r.Get("/prompts", promptH.List)
			r.Get("/prompts/{id}", promptH.Get)
			r.Get("/plans", planH.List)
			r.Get("/plans/{id}", planH.Get)
			r.Get("/files/{id}", fileH.Get)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Get("/users", userH.List)
				r.Post("/users", userH.Create)
				r.Delete("/users/{id}", userH.Delete)

				r.Post("/categories", categoryH.Create)
				r.Put("/categories/{id}", categoryH.Update)
				r.Delete("/categories/{id}", categoryH.Delete)
				r.Post("/categories/{id}/subcategories", categoryH.CreateSubcategory)
				r.Put("/categories/{id}/subcategories/{subID}", categoryH.UpdateSubcategory)
				r.Delete("/categories/{id}/subcategories/{subID}", categoryH.DeleteSubcategory)

				r.Post("/countries", countryH.Create)
				r.Put("/countries/{id}", countryH.Update)
				r.Delete("/countries/{id}", countryH.Delete)

				r.Post("/prompts", promptH.Create)
				r.Put("/prompts/{id}", promptH.Update)
				r.Delete("/prompts/{id}", promptH.Delete)

				r.Get("/feedback", feedbackH.List)
				r.Get("/feedback/{id}", feedbackH.Get)
				r.Put("/feedback/{id}/resolve", feedbackH.Resolve)
				r.Delete("/feedback/{id}", feedbackH.Delete)

				r.Post("/plans", planH.Create)
				r.Put("/plans/{id}", planH.Update)
				r.Delete("/plans/{id}", planH.Delete)

				r.Get("/subscriptions", subscriptionH.List)
				r.Get("/subscriptions/{id}", subscriptionH.Get)
				r.Post("/subscriptions", subscriptionH.Create)
				r.Put("/subscriptions/{id}", subscriptionH.Update)
				r.Post("/subscriptions/{id}/cancel", subscriptionH.Cancel)

				r.Get("/devices", deviceH.List)
				r.Get("/devices/{id}", deviceH.Get)
				r.Delete("/devices/{id}", deviceH.Purge)

				r.Post("/files", fileH.Upload)
				r.Delete("/files/{id}", fileH.Delete)
			})
		})
	})

	return r
}
