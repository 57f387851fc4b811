package server

import (
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/mosaicui/mosaic/backend/internal/api/http"
	"github.com/mosaicui/mosaic/backend/internal/api/middleware"
	"github.com/mosaicui/mosaic/backend/internal/api/ws"
	"github.com/mosaicui/mosaic/backend/internal/domain/blueprint"
	"github.com/mosaicui/mosaic/backend/internal/domain/meta"
	"github.com/mosaicui/mosaic/backend/internal/domain/property"
	"github.com/mosaicui/mosaic/backend/internal/domain/service"
	"github.com/mosaicui/mosaic/backend/internal/domain/session"
	"github.com/mosaicui/mosaic/backend/internal/infrastructure/config"
	"github.com/mosaicui/mosaic/backend/internal/infrastructure/logging"
	"github.com/mosaicui/mosaic/backend/internal/infrastructure/monitoring"
	propertyProvider "github.com/mosaicui/mosaic/backend/internal/providers/property"
	"github.com/mosaicui/mosaic/backend/internal/providers/uitree"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	registry *service.Registry
	sessions *session.Manager
	engine   *property.Engine
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	logger.Info("Initializing Mosaic UI Server",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
	)

	metrics := monitoring.NewMetrics()

	// Domain core: catalog, engine, sessions
	catalog := meta.Builtin()
	engine := property.NewEngine(catalog)
	sessions := session.NewManager(catalog, logger)
	compiler := blueprint.NewCompiler(engine, logger)

	// WebSocket hub doubles as the structural-change notifier
	hub := ws.NewHub(sessions, compiler, logger).WithMetrics(metrics)

	// Service providers
	registry := service.NewRegistry()
	registry.Register(propertyProvider.NewProvider(engine, sessions, logger).
		WithNotifier(hub).
		WithMetrics(metrics))
	registry.Register(uitree.NewProvider(sessions, compiler, logger).
		WithNotifier(hub).
		WithMetrics(metrics))
	logger.Info("Service providers registered", zap.Any("stats", registry.Stats()))

	// Optional blueprint autoload into the default session
	if cfg.Blueprint.AutoloadPath != "" {
		if err := autoload(cfg.Blueprint.AutoloadPath, compiler, sessions, logger); err != nil {
			logger.Warn("Blueprint autoload failed", zap.Error(err))
		}
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(registry, sessions, compiler, metrics, logger)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Service management
	router.GET("/services", handlers.ListServices)
	router.POST("/services/execute", handlers.ExecuteService)

	// Property operations
	router.GET("/components/:name/property", handlers.GetProperty)
	router.PUT("/components/:name/property", handlers.SetProperty)

	// Tree structure
	router.POST("/components", handlers.InsertComponent)
	router.DELETE("/components/:name", handlers.RemoveComponent)

	// Sessions
	router.POST("/sessions", handlers.CreateSession)
	router.GET("/sessions", handlers.ListSessions)
	router.GET("/sessions/:id", handlers.GetSession)
	router.DELETE("/sessions/:id", handlers.DeleteSession)
	router.GET("/sessions/:id/spec", handlers.GetSessionSpec)

	// Blueprints
	router.POST("/blueprints/load", handlers.LoadBlueprint)

	// WebSocket
	router.GET("/stream", hub.HandleConnection)

	// Metrics
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/metrics/json", handlers.Stats)

	logger.Info("Server initialized successfully")

	return &Server{
		router:   router,
		registry: registry,
		sessions: sessions,
		engine:   engine,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
	}, nil
}

func autoload(path string, compiler *blueprint.Compiler, sessions *session.Manager, logger *logging.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	tree, err := compiler.Load(data)
	if err != nil {
		return err
	}
	sess := sessions.Default()
	sess.Tree = tree
	logger.Info("Blueprint autoloaded",
		zap.String("path", path),
		zap.Int("components", tree.Count()),
	)
	return nil
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Router exposes the gin engine for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Close flushes the logger
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")
	return s.logger.Sync()
}
