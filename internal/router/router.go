package router

import (
	"context"
	"net/http"
	"time"

	"github.com/dalbom/arithmetic/internal/config"
	"github.com/dalbom/arithmetic/internal/entitlement"
	"github.com/dalbom/arithmetic/internal/handler"
	"github.com/dalbom/arithmetic/internal/middleware"
	"github.com/dalbom/arithmetic/internal/response"
	"github.com/dalbom/arithmetic/internal/service"
	"github.com/dalbom/arithmetic/internal/validator"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	Worksheet *handler.WorksheetHandler
	Preset    *handler.PresetHandler
	WS        *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds background work owned by the router, such as rate limiter
// cleanup.
func SetupRouter(
	ctx context.Context,
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	validator.Setup()
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.Brotli())

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Plan limits are public so clients can render upgrade prompts before login.
	router.GET("/api/v1/plans", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{
			"free": entitlement.Plan{}.Limits(),
			"pro":  entitlement.Plan{Pro: true}.Limits(),
		})
	})

	authLimiter := middleware.NewRateLimiter(ctx, cfg.RateLimitPerMinute, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)

		auth.POST("/logout", middleware.RequireUserJWT(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireUserJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. Worksheet Group (JWT) ──────────────────────────────────────
	worksheets := router.Group("/api/v1/worksheets")
	worksheets.Use(middleware.RequireUserJWT(authService))
	{
		worksheets.POST("", handlers.Worksheet.Generate)
		worksheets.POST("/preview", handlers.Worksheet.Preview)
		worksheets.GET("", handlers.Worksheet.ListHistory)
		worksheets.DELETE("/:id", handlers.Worksheet.DeleteHistory)

		// Documents are per-user and must not be cached by shared proxies.
		docs := worksheets.Group("/:id", middleware.NoStore())
		docs.GET("/pdf", handlers.Worksheet.DownloadPDF)
		docs.GET("/tex", handlers.Worksheet.DownloadTeX)
	}

	// ─── 3. Preset Group (JWT) ─────────────────────────────────────────
	presets := router.Group("/api/v1/presets")
	presets.Use(middleware.RequireUserJWT(authService))
	{
		presets.GET("", handlers.Preset.List)
		presets.POST("", handlers.Preset.Create)
		presets.PUT("/:id", handlers.Preset.Update)
		presets.DELETE("/:id", handlers.Preset.Delete)
		presets.POST("/:id/generate", handlers.Preset.Generate)
	}

	// ─── 4. WebSocket Group (Query Token Auth) ─────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(authService))
	{
		ws.GET("/worksheets/stream", handlers.WS.StreamWorksheets)
	}

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	})

	return router
}
