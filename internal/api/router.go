package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/legalvibes/practice-api/internal/api/handler"
	"github.com/legalvibes/practice-api/internal/api/middleware"
	"github.com/legalvibes/practice-api/internal/core/ports"
)

// Deps carries the wired services the router exposes.
type Deps struct {
	Auth       ports.AuthService
	Tokens     ports.TokenValidator
	Users      ports.IdentityRepository
	Admin      ports.AdminService
	Clients    ports.ClientService
	Projects   ports.ProjectService
	Documents  ports.DocumentService
	Activity   ports.ActivityService
	Readiness  map[string]handler.DependencyCheck
	Log        zerolog.Logger
	CORSOrigin []string
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	if len(d.CORSOrigin) > 0 {
		e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
			AllowOrigins: d.CORSOrigin,
			AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, "Idempotency-Key"},
		}))
	}
	e.Use(echoprometheus.NewMiddleware("legalvibes"))

	authMiddleware := middleware.Auth(d.Tokens)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/profile", authHandler.Profile, authMiddleware)
	auth.PUT("/profile", authHandler.UpdateProfile, authMiddleware)
	auth.POST("/validate-token", authHandler.ValidateToken, authMiddleware)
	// Accepts expired tokens; the handler verifies the signature itself.
	auth.POST("/refresh-token", authHandler.RefreshToken)

	// --- Owner-scoped entities ---
	clientHandler := handler.NewClientHandler(d.Clients)
	clients := e.Group("/client", authMiddleware)
	clients.GET("", clientHandler.List)
	clients.POST("", clientHandler.Create)
	clients.GET("/:id", clientHandler.Get)
	clients.PUT("/:id", clientHandler.Update)
	clients.DELETE("/:id", clientHandler.Delete)

	projectHandler := handler.NewProjectHandler(d.Projects)
	projects := e.Group("/project", authMiddleware)
	projects.GET("", projectHandler.List)
	projects.POST("", projectHandler.Create)
	projects.GET("/:id", projectHandler.Get)
	projects.PUT("/:id", projectHandler.Update)
	projects.PUT("/:id/status", projectHandler.UpdateStatus)
	projects.DELETE("/:id", projectHandler.Delete)

	documentHandler := handler.NewDocumentHandler(d.Documents)
	documents := e.Group("/document", authMiddleware)
	documents.GET("", documentHandler.List)
	documents.POST("", documentHandler.Create)
	documents.DELETE("/:id", documentHandler.Delete)

	activityHandler := handler.NewActivityHandler(d.Activity)
	e.GET("/activity", activityHandler.Recent, authMiddleware)

	// --- Privileged identity administration ---
	adminHandler := handler.NewAdminHandler(d.Admin)
	admin := e.Group("/admin", authMiddleware, middleware.RequireAdmin(d.Users, d.Log))
	admin.GET("/users", adminHandler.ListUsers)
	admin.PUT("/users/:id/role", adminHandler.SetRole)
	admin.DELETE("/users/:id", adminHandler.Deactivate)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Readiness)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
