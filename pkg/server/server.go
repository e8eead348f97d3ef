package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/parley/pkg/config"
	"github.com/killallgit/parley/pkg/logger"
	"github.com/killallgit/parley/pkg/provider"
)

// Resolver builds the streaming backend serving a route. Construction
// happens per request so a missing credential is reported for the request
// that needed it, not at startup.
type Resolver func(ctx context.Context, kind provider.Kind) (provider.Provider, error)

// Server wraps the gin engine and the http.Server lifecycle.
type Server struct {
	cfg     *config.Config
	engine  *gin.Engine
	httpSrv *http.Server
	resolve Resolver
}

// New creates a server resolving providers from the loaded configuration.
func New(cfg *config.Config) *Server {
	return NewWithResolver(cfg, ConfigResolver(cfg))
}

// NewWithResolver creates a server with a custom provider resolver.
func NewWithResolver(cfg *config.Config, resolve Resolver) *Server {
	s := &Server{
		cfg:     cfg,
		resolve: resolve,
	}
	s.engine = s.buildRouter()
	s.httpSrv = &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: s.engine,
	}
	return s
}

// ConfigResolver maps provider kinds onto the configured connection settings.
func ConfigResolver(cfg *config.Config) Resolver {
	return func(ctx context.Context, kind provider.Kind) (provider.Provider, error) {
		switch kind {
		case provider.KindOpenAI:
			return provider.New(ctx, kind, provider.Config{
				APIKey:  cfg.OpenAI.APIKey,
				BaseURL: cfg.OpenAI.BaseURL,
				Model:   cfg.OpenAI.Model,
				Timeout: cfg.OpenAI.Timeout,
			})
		case provider.KindGemini:
			return provider.New(ctx, kind, provider.Config{
				APIKey:  cfg.Gemini.APIKey,
				Model:   cfg.Gemini.Model,
				Timeout: cfg.Gemini.Timeout,
			})
		case provider.KindOllama:
			return provider.New(ctx, kind, provider.Config{
				BaseURL: cfg.Ollama.URL,
				Model:   cfg.Ollama.Model,
				Timeout: cfg.Ollama.Timeout,
			})
		default:
			return provider.New(ctx, kind, provider.Config{})
		}
	}
}

func (s *Server) buildRouter() *gin.Engine {
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())
	engine.Use(requestLogger())

	engine.GET("/health", handleHealth)

	api := engine.Group("/api")
	api.Use(throttleMiddleware(s.cfg.Server.Throttle))
	api.POST("/chat", s.handleChat(provider.KindOpenAI))
	api.POST("/gemini", s.handleChat(provider.KindGemini))
	api.POST("/ollama", s.handleChat(provider.KindOllama))

	return engine
}

// Handler exposes the router, mainly for tests driving it directly.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the server and blocks until shutdown completes. SIGINT and
// SIGTERM trigger a graceful shutdown with a 5 second drain window.
func (s *Server) Run() error {
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.httpSrv.Shutdown(ctx); err != nil {
			logger.Error("Server forced to shutdown: %v", err)
		}
	}()

	logger.Info("Listening on %s", s.httpSrv.Addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	logger.Info("Server exiting")
	return nil
}
