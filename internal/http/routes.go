package http

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"todo_webapp/internal/http/handlers"
	"todo_webapp/internal/http/middleware"
	"todo_webapp/internal/service"
	"todo_webapp/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options carries what RegisterRoutes needs besides the engine.
type Options struct {
	Todos         *service.TodoService
	Hub           *ws.Hub
	Version       string
	AllowedOrigin string
	// StaticDir holds the built client; empty disables static serving.
	StaticDir string
}

// NewEngine builds a gin engine with the standard middleware chain and all routes.
func NewEngine(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(opts.AllowedOrigin))

	RegisterRoutes(r, opts)
	return r
}

func RegisterRoutes(r *gin.Engine, opts Options) {
	h := handlers.NewHandler(opts.Todos)
	healthHandler := handlers.NewHealthHandler(opts.Todos, opts.Version)

	// Health checks
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/health", healthHandler.Health)
	registerAPIRoutes(api, h)

	// Live updates
	if opts.Hub != nil {
		r.GET("/ws", ws.HandleWS(opts.Hub, opts.AllowedOrigin))
	}

	// Frontend static files + SPA fallback
	r.NoRoute(spaFallback(opts.StaticDir))
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler) {
	todos := api.Group("/todos")
	{
		todos.GET("", h.ListTodos)
		todos.GET("/:id", h.GetTodo)
		todos.POST("", h.CreateTodo)
		todos.PUT("/:id", h.UpdateTodo)
		todos.DELETE("/:id", h.DeleteTodo)
	}
}

// spaFallback serves files from dir, and index.html for any other non-API path.
func spaFallback(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/api" || strings.HasPrefix(path, "/api/") || dir == "" ||
			(c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		// Clean against a rooted path so ".." cannot climb out of dir.
		file := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+path)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}

		index := filepath.Join(dir, "index.html")
		if _, err := os.Stat(index); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.File(index)
	}
}
