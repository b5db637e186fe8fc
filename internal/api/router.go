// Package api wires the HTTP routes and middleware.
package api

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gotrends/internal/configstore"
	"github.com/jonesrussell/gotrends/internal/events"
	"github.com/jonesrussell/gotrends/internal/handlers"
	"github.com/jonesrussell/gotrends/internal/logger"
	"github.com/jonesrussell/gotrends/internal/reports"
)

const (
	corsMaxAgeHours = 12

	// AdminTokenHeader carries the shared admin secret.
	AdminTokenHeader = "X-Admin-Token"
)

// Deps carries everything the router mounts.
type Deps struct {
	Scanner     *reports.Scanner
	Store       *configstore.Store
	Publisher   *events.Publisher
	AdminToken  string
	Version     string
	CORSOrigins []string
	Logger      logger.Logger
}

func NewRouter(deps Deps) *gin.Engine {
	router := gin.New()

	// CORS middleware - must be first
	router.Use(cors.New(cors.Config{
		AllowOrigins: deps.CORSOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Content-Length", "Accept-Encoding",
			"X-CSRF-Token", "Authorization", "accept", "origin",
			"Cache-Control", "X-Requested-With", AdminTokenHeader,
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           corsMaxAgeHours * time.Hour,
	}))

	// Middleware
	router.Use(ginLogger(deps.Logger))
	router.Use(gin.Recovery())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	reportsHandler := handlers.NewReportsHandler(deps.Scanner, deps.Logger)
	newsHandler := handlers.NewNewsHandler(deps.Scanner, deps.Logger)
	adminHandler := handlers.NewAdminHandler(deps.Store, deps.Logger)
	systemHandler := handlers.NewSystemHandler(deps.Scanner, deps.Publisher, deps.Version, deps.Logger)

	// Rendered report files (static tree)
	router.GET("/output/*filepath", reportsHandler.ServeFile)

	// API v1
	v1 := router.Group("/api/v1")

	rep := v1.Group("/reports")
	rep.GET("", reportsHandler.List)
	rep.GET("/latest", reportsHandler.Latest)
	rep.GET("/dates", reportsHandler.Dates)
	rep.GET("/summary", reportsHandler.Summary)

	news := v1.Group("/news/:date")
	news.GET("/platforms", newsHandler.Platforms)
	news.GET("/items", newsHandler.Search)
	news.GET("/items/:id", newsHandler.GetByID)
	news.GET("/items/:id/ranks", newsHandler.RankHistory)

	v1.GET("/system/status", systemHandler.Status)
	v1.POST("/export/segment-plan", systemHandler.SegmentPlan)
	v1.POST("/export/preview", systemHandler.RenderPreview)

	// Admin surface: configuration mutation, env snapshot, crawl trigger.
	admin := v1.Group("/admin", adminToken(deps.AdminToken))
	admin.GET("/config", adminHandler.GetConfig)
	admin.GET("/config/parsed", adminHandler.GetParsedConfig)
	admin.GET("/config/effective", adminHandler.EffectiveConfig)
	admin.PUT("/config", adminHandler.PutConfig)
	admin.PATCH("/config", adminHandler.PatchConfig)
	admin.POST("/config/reset", adminHandler.ResetConfig)
	admin.GET("/words", adminHandler.GetWords)
	admin.PUT("/words", adminHandler.PutWords)
	admin.POST("/words/reset", adminHandler.ResetWords)
	admin.POST("/words/import", adminHandler.ImportWords)
	admin.GET("/env", systemHandler.Env)
	admin.GET("/env/snippet", systemHandler.EnvSnippet)
	admin.POST("/crawl", systemHandler.TriggerCrawl)

	return router
}

// adminToken guards the admin surface with a shared secret. An empty
// configured token disables the whole surface rather than leaving it open.
func adminToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin API is disabled"})
			return
		}

		got := c.GetHeader(AdminTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid admin token"})
			return
		}

		c.Next()
	}
}

func ginLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		log.Info("HTTP request",
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status_code", statusCode),
			logger.String("client_ip", c.ClientIP()),
			logger.Duration("duration", duration),
		)
	}
}
