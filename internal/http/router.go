// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns:
// tracing, correlation IDs, structured logging, panic recovery, metrics,
// authentication, rate limiting, CORS, and security headers.
//
// Middleware ordering is deliberate: tracing first so everything is spanned,
// then request correlation, then authentication (so access logs carry the
// user id), then logging and recovery, then the request-shaping layers.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/atelierhq/go-studio-backend/internal/config"
	"github.com/atelierhq/go-studio-backend/internal/domain"
	"github.com/atelierhq/go-studio-backend/internal/http/handlers"
	"github.com/atelierhq/go-studio-backend/internal/http/middleware"
	"github.com/atelierhq/go-studio-backend/internal/repo"
	"github.com/atelierhq/go-studio-backend/internal/services"
)

// projectRepoShim adapts the repository free functions to the
// services.ProjectRepo interface. This keeps services decoupled from the
// concrete repo package while reusing its functions.
type projectRepoShim struct{}

func (projectRepoShim) CreateProject(ctx context.Context, db *gorm.DB, ownerID, name, slug string, description *string, isPublic bool) (*domain.Project, error) {
	return repo.CreateProject(ctx, db, ownerID, name, slug, description, isPublic)
}

func (projectRepoShim) FindProject(ctx context.Context, db *gorm.DB, id string) (*domain.Project, error) {
	return repo.FindProject(ctx, db, id)
}

func (projectRepoShim) FindProjectForOwner(ctx context.Context, db *gorm.DB, id, ownerID string) (*domain.Project, error) {
	return repo.FindProjectForOwner(ctx, db, id, ownerID)
}

func (projectRepoShim) FindProjectBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Project, error) {
	return repo.FindProjectBySlug(ctx, db, slug)
}

func (projectRepoShim) CountProjects(ctx context.Context, db *gorm.DB, ownerID string) (int64, error) {
	return repo.CountProjects(ctx, db, ownerID)
}

func (projectRepoShim) ListProjectsPage(ctx context.Context, db *gorm.DB, ownerID string, offset, limit int) ([]domain.Project, error) {
	return repo.ListProjectsPage(ctx, db, ownerID, offset, limit)
}

func (projectRepoShim) UpdateProject(ctx context.Context, db *gorm.DB, id, ownerID string, updates map[string]any) (*domain.Project, error) {
	return repo.UpdateProject(ctx, db, id, ownerID, updates)
}

func (projectRepoShim) DeleteProject(ctx context.Context, db *gorm.DB, id, ownerID string) (bool, error) {
	return repo.DeleteProject(ctx, db, id, ownerID)
}

// conversationRepoShim adapts the repository free functions to the
// services.ConversationRepo interface.
type conversationRepoShim struct{}

func (conversationRepoShim) CreateConversation(ctx context.Context, db *gorm.DB, ownerID, title string) (*domain.Conversation, error) {
	return repo.CreateConversation(ctx, db, ownerID, title)
}

func (conversationRepoShim) FindConversation(ctx context.Context, db *gorm.DB, id string) (*domain.Conversation, error) {
	return repo.FindConversation(ctx, db, id)
}

func (conversationRepoShim) FindConversationForOwner(ctx context.Context, db *gorm.DB, id, ownerID string) (*domain.Conversation, error) {
	return repo.FindConversationForOwner(ctx, db, id, ownerID)
}

func (conversationRepoShim) CountConversations(ctx context.Context, db *gorm.DB, ownerID string) (int64, error) {
	return repo.CountConversations(ctx, db, ownerID)
}

func (conversationRepoShim) ListConversationsPage(ctx context.Context, db *gorm.DB, ownerID string, offset, limit int) ([]domain.Conversation, error) {
	return repo.ListConversationsPage(ctx, db, ownerID, offset, limit)
}

func (conversationRepoShim) UpdateConversationTitle(ctx context.Context, db *gorm.DB, id, ownerID, title string) (*domain.Conversation, error) {
	return repo.UpdateConversationTitle(ctx, db, id, ownerID, title)
}

func (conversationRepoShim) DeleteConversation(ctx context.Context, db *gorm.DB, id, ownerID string) (bool, error) {
	return repo.DeleteConversation(ctx, db, id, ownerID)
}

func (conversationRepoShim) CreateMessage(ctx context.Context, db *gorm.DB, conversationID, role, content string) (*domain.Message, error) {
	return repo.CreateMessage(ctx, db, conversationID, role, content)
}

func (conversationRepoShim) CountMessages(ctx context.Context, db *gorm.DB, conversationID string) (int64, error) {
	return repo.CountMessages(ctx, db, conversationID)
}

func (conversationRepoShim) ListMessagesPage(ctx context.Context, db *gorm.DB, conversationID string, offset, limit int) ([]domain.Message, error) {
	return repo.ListMessagesPage(ctx, db, conversationID, offset, limit)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine: observability, authentication, rate limiting, CORS and security
// headers, health and metrics endpoints, and the versioned public API.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Resolve the principal before logging so access logs carry user_id
	r.Use(middleware.Authenticate(middleware.AuthOptions{
		JWTSecret:           cfg.Auth.JWTSecret,
		AllowHeaderFallback: cfg.Auth.AllowHeaderFallback,
	}))

	// 4) Structured request logging
	r.Use(middleware.Logger())

	// 5) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 6) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 7) Response compression
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 8) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 9) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 10) CORS posture (allow all when no origins configured)
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// 11) Security headers
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS: cfg.Security.EnableHSTS,
		HSTSMaxAge: cfg.Security.HSTSMaxAge,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.CodeRouteNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.CodeMethodNotAllowed, "method not allowed")
	})

	// Health probes
	hh := &handlers.HealthHandlers{DB: db}
	r.GET("/health", hh.Health)
	r.GET("/health/ready", hh.Ready)
	r.GET("/health/db", hh.HealthDB)

	// Dependency injection: services ← repo/db
	projSvc := services.NewProjectService(db, projectRepoShim{})
	convSvc := services.NewConversationService(db, conversationRepoShim{})
	ph := handlers.NewProjectHandlers(projSvc)
	ch := handlers.NewConversationHandlers(convSvc)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Projects
		api.GET("/projects", ph.List)
		api.POST("/projects", ph.Create)
		api.GET("/projects/:id", ph.Get)
		api.PATCH("/projects/:id", ph.Update)
		api.DELETE("/projects/:id", ph.Delete)

		// Conversations
		api.GET("/chat/conversations", ch.List)
		api.POST("/chat/conversations", ch.Create)
		api.GET("/chat/conversations/:id", ch.Get)
		api.PATCH("/chat/conversations/:id", ch.Update)
		api.DELETE("/chat/conversations/:id", ch.Delete)

		// Messages
		api.GET("/chat/conversations/:id/messages", ch.ListMessages)
		api.POST("/chat/conversations/:id/messages", ch.PostMessage)
	}
}

// limitBody caps the request body size for all endpoints using
// http.MaxBytesReader; oversized bodies error on read downstream.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
