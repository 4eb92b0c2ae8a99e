package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	stderrors "now-hiring/internal/common/errors"
	"now-hiring/internal/common/logger"
	embedsession "now-hiring/internal/widget/embed-session"
	widgetscript "now-hiring/internal/widget/widget-script"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger is a dependency checked by /ready.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the handlers and dependencies the router serves.
type Deps struct {
	Intake http.Handler
	Widget *widgetscript.Renderer
	// Ready maps a dependency name to its health check.
	Ready  map[string]Pinger
	Logger logger.Logger
}

// Server owns the HTTP listener.
type Server struct {
	config *Config
	http   *http.Server
	logger logger.Logger
}

func New(cfg *Config, deps Deps) *Server {
	log := deps.Logger.WithFields(map[string]interface{}{"component": "http-server"})
	return &Server{
		config: cfg,
		logger: log,
		http: &http.Server{
			Addr:         cfg.Address,
			Handler:      NewRouter(cfg, deps),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

// NewRouter wires every route.
func NewRouter(cfg *Config, deps Deps) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	log := deps.Logger.WithFields(map[string]interface{}{"component": "http-server"})

	r := gin.New()
	r.HandleMethodNotAllowed = true
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Error("invalid trusted proxies, forwarding headers are ignored", map[string]interface{}{
			"trustedProxies": cfg.TrustedProxies,
			"error":          err.Error(),
		})
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(RequestID(), AccessLog(log), Recover(log))
	if c, ok := corsConfig(cfg.AllowedOrigins); ok {
		r.Use(cors.New(c))
	}

	api := r.Group("/api")
	{
		api.POST("/apply", ClientAddress(), gin.WrapH(deps.Intake))
	}

	if deps.Widget != nil {
		r.GET("/widget.js", widgetScript(deps.Widget))
		r.GET("/embed", formPage(deps.Widget, log))
		r.GET("/", formPage(deps.Widget, log))
	}

	r.GET("/health", health)
	r.GET("/ready", ready(deps.Ready))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func corsConfig(origins []string) (cors.Config, bool) {
	if len(origins) == 0 {
		return cors.Config{}, false
	}
	c := cors.DefaultConfig()
	c.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	c.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", requestIDHeader}
	c.ExposeHeaders = []string{requestIDHeader}
	c.MaxAge = 12 * time.Hour
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c, true
		}
	}
	c.AllowOrigins = origins
	return c, true
}

func widgetScript(renderer *widgetscript.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=300")
		c.Data(http.StatusOK, "application/javascript; charset=utf-8", renderer.Script())
	}
}

// formPage serves the embed page; the path decides whether it runs embedded.
func formPage(renderer *widgetscript.Renderer, log logger.Logger) gin.HandlerFunc {
	errs := stderrors.NewErrorHandler(log)
	return func(c *gin.Context) {
		var buf bytes.Buffer
		if err := renderer.EmbedPage(&buf, embedsession.OptionsFromURL(c.Request.URL)); err != nil {
			errs.WriteError(c.Writer, stderrors.NewInternalError(err))
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
	}
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

func ready(checks map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, p := range checks {
			if err := p.Ping(ctx); err != nil {
				status = http.StatusServiceUnavailable
				results[name] = err.Error()
				continue
			}
			results[name] = "ok"
		}

		state := "ready"
		if status != http.StatusOK {
			state = "not ready"
		}
		c.JSON(status, gin.H{"status": state, "checks": results})
	}
}

// Start serves until Shutdown; it returns nil after a clean shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server listening", map[string]interface{}{"address": s.config.Address})
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Handler exposes the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}
