package router

import (
	"net/http"
	"strings"

	"shipped-video-hub/backend/internal/api"
	"shipped-video-hub/backend/pkg/config"
	"shipped-video-hub/backend/pkg/di"
	"shipped-video-hub/backend/pkg/errors"
	"shipped-video-hub/backend/pkg/jwt"
	"shipped-video-hub/backend/pkg/logger"
	"shipped-video-hub/backend/pkg/middleware"
	"shipped-video-hub/backend/pkg/validator"

	"github.com/gin-gonic/gin"
)

// Router is the main router for the application
type Router struct {
	Engine    *gin.Engine
	Container *di.Container
	Logger    *logger.Logger
	Config    *config.Config
}

// New creates a new router with the given container
func New(container *di.Container) *Router {
	// Use the container's logger
	logger.SetGlobal(container.Logger)

	cfg := container.Config

	// Configure Gin mode based on environment
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Tag every request with an ID first so the logger picks it up
	engine.Use(middleware.RequestID())

	// Use the logger middleware to capture all requests
	engine.Use(logger.Middleware(container.Logger))

	// Add custom error handler middleware
	engine.Use(errors.ErrorHandler())

	// Add custom recovery middleware with structured logging instead of default
	engine.Use(errors.RecoveryWithLogger())

	// Create rate limiter with default options
	rateLimiter := middleware.NewRateLimiter(container.Logger)
	engine.Use(rateLimiter.Middleware())

	return &Router{
		Engine:    engine,
		Container: container,
		Logger:    container.Logger,
		Config:    cfg,
	}
}

// SetupRoutes registers all application routes. The metrics handler is
// optional; when nil, no /metrics endpoint is exposed.
func (r *Router) SetupRoutes(metricsHandler http.Handler) {
	// Add CORS middleware
	r.Engine.Use(corsMiddleware(r.Config.Security.AllowedOrigins))

	// Create JWT auth middleware
	jwtAuth := middleware.JWTAuth(r.Container.JWTService, r.Logger)
	optionalAuth := middleware.OptionalJWTAuth(r.Container.JWTService)

	authHandler := api.NewAuthHandler(r.Container.UserService, r.Logger)
	eventHandler := api.NewEventHandler(r.Container.EventService, r.Container.SummaryService, r.Logger)
	chatHandler := api.NewChatHandler(r.Container.ChatService, r.Logger)

	// Operational endpoints sit outside the versioned API
	r.Engine.GET("/health", gin.WrapF(r.Container.Health.HTTPHandler()))
	if metricsHandler != nil {
		r.Engine.GET("/metrics", gin.WrapH(metricsHandler))
	}

	// API version 1 routes
	v1 := r.Engine.Group("/api/v1")

	// Auth routes
	authRoutes := v1.Group("/auth")
	{
		authRoutes.POST("/signup", authHandler.Signup)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.GET("/me", jwtAuth, authHandler.Me)
	}

	// Event catalog: reads are public, writes are admin-only
	eventRoutes := v1.Group("/events")
	{
		eventRoutes.GET("", eventHandler.List)
		eventRoutes.GET("/:id", eventHandler.Get)

		adminRoutes := eventRoutes.Group("")
		adminRoutes.Use(jwtAuth, middleware.RequireRole(jwt.RoleAdmin))
		{
			adminRoutes.POST("", eventHandler.Create)
			adminRoutes.PUT("/:id", eventHandler.Update)
			adminRoutes.DELETE("/:id", eventHandler.Delete)
			adminRoutes.POST("/:id/summary", eventHandler.GenerateSummary)
		}
	}

	// The chat endpoint authenticates optionally: the usage gate decides
	// whether an anonymous caller may proceed
	v1.POST("/chat", optionalAuth, chatHandler.Send)
}

// AddOpenAPIValidation attaches request validation against the given
// OpenAPI schema to all routes. Call before SetupRoutes.
func (r *Router) AddOpenAPIValidation(schemaPath string) error {
	v, err := validator.NewOpenAPIValidator(schemaPath)
	if err != nil {
		return err
	}
	r.Engine.Use(v.Middleware())
	r.Logger.Info("OpenAPI request validation enabled", "schema", schemaPath)
	return nil
}

// corsMiddleware restricts cross-origin access to the configured origins.
// An empty allow-list falls back to echoing any origin (dev mode).
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		allowed := len(allowedOrigins) == 0
		for _, o := range allowedOrigins {
			if o == "*" || strings.EqualFold(o, origin) {
				allowed = true
				break
			}
		}

		if allowed && origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept, Accept-Encoding, X-CSRF-Token, Authorization, Origin, Cache-Control")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
