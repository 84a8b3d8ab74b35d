package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yukikurage/edutask-api/internal/constants"
	"github.com/yukikurage/edutask-api/internal/middleware"
	"github.com/yukikurage/edutask-api/internal/services"
)

// RouterDeps holds everything the HTTP surface needs
type RouterDeps struct {
	AuthService  *services.AuthService
	TaskService  *services.TaskService
	StatsService *services.StatsService

	// UploadDir is served under /uploads when set. Leave empty when images
	// live in object storage.
	UploadDir        string
	CORSAllowOrigins []string

	// HealthChecks are reported by name on /health
	HealthChecks map[string]func(context.Context) bool
}

// NewRouter wires handlers and middleware onto a gin engine
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/health", "/metrics"},
	}))
	r.Use(cors.New(corsConfig(deps.CORSAllowOrigins)))
	r.Use(middleware.Metrics())

	authHandler := NewAuthHandler(deps.AuthService)
	taskHandler := NewTaskHandler(deps.TaskService)
	statsHandler := NewStatisticsHandler(deps.StatsService)

	requireAuth := middleware.RequireAuth(deps.AuthService)
	requireAdmin := middleware.RequireAdmin()
	requireTaskID := middleware.RequireTaskID()

	r.GET("/health", healthHandler(deps.HealthChecks))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if deps.UploadDir != "" {
		r.Static(constants.UploadsRoute, deps.UploadDir)
	}

	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.POST("/logout", requireAuth, authHandler.Logout)
	r.GET("/me", requireAuth, authHandler.GetCurrentUser)

	tasks := r.Group("/tasks")
	tasks.Use(requireAuth)
	{
		tasks.GET("", taskHandler.ListTasks)
		tasks.POST("", requireAdmin, taskHandler.CreateTask)
		tasks.GET("/:id", requireTaskID, requireAdmin, taskHandler.GetTask)
		tasks.PUT("/:id/complete", requireTaskID, taskHandler.CompleteTask)
		tasks.PUT("/:id/uncomplete", requireTaskID, taskHandler.UncompleteTask)
	}
	r.GET("/my-tasks", requireAuth, taskHandler.MyTasks)

	stats := r.Group("/statistics")
	stats.Use(requireAuth, requireAdmin)
	{
		stats.GET("/overview", statsHandler.Overview)
		stats.GET("/tasks", statsHandler.Tasks)
		stats.GET("/students", statsHandler.Students)
	}

	return r
}

func healthHandler(checks map[string]func(context.Context) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		body := gin.H{
			"status":  "ok",
			"message": "Educational Task API is running",
		}
		for name, check := range checks {
			healthy := check(c.Request.Context())
			body[name] = healthy
			if !healthy {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
			}
		}
		c.JSON(status, body)
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
