package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"

	apihttp "github.com/BilalX570/File-Management-System-Project/internal/api/http"
	"github.com/BilalX570/File-Management-System-Project/internal/api/middleware"
	"github.com/BilalX570/File-Management-System-Project/internal/domain/catalog"
	"github.com/BilalX570/File-Management-System-Project/internal/domain/recycle"
	"github.com/BilalX570/File-Management-System-Project/internal/domain/workspace"
	"github.com/BilalX570/File-Management-System-Project/internal/infrastructure/config"
	"github.com/BilalX570/File-Management-System-Project/internal/infrastructure/logging"
	"github.com/BilalX570/File-Management-System-Project/internal/infrastructure/monitoring"
	"github.com/BilalX570/File-Management-System-Project/internal/shared/digest"
	"github.com/BilalX570/File-Management-System-Project/internal/shared/paths"
	"github.com/BilalX570/File-Management-System-Project/internal/storage/local"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	handler http.Handler
	http    *http.Server
	manager *workspace.Manager
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// NewServer creates a new server instance and loads the workspace
// manifest.
func NewServer(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	logger.Info("Initializing file workspace server",
		zap.String("addr", cfg.Addr()),
		zap.String("root", cfg.Workspace.Root),
		zap.String("manifest", cfg.Workspace.Manifest),
	)

	// Initialize metrics first (needed by other components)
	metrics := monitoring.NewMetrics()

	store, err := local.New(local.Config{
		RootPath:   cfg.Workspace.Root,
		CreateDirs: cfg.Workspace.CreateRoot,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open workspace: %w", err)
	}
	layout := paths.NewLayout(store.Root(), cfg.Workspace.Manifest, cfg.Workspace.RecycleDir)

	bin, err := recycle.Open(ctx, store, layout, recycle.Config{
		MaxItems: cfg.Recycle.MaxItems,
		MaxBytes: cfg.Recycle.MaxBytes,
	}, recycle.WithLogger(logger.Named("recycle").Logger))
	if err != nil {
		return nil, fmt.Errorf("failed to open recycle bin: %w", err)
	}

	algorithm, err := digest.Parse(cfg.Workspace.Checksum)
	if err != nil {
		return nil, err
	}
	index := catalog.New(catalog.WithHasher(digest.NewHasher(algorithm)))

	manager := workspace.NewManager(store, layout, index, bin, logger.Named("workspace").Logger).
		WithMetrics(metrics)

	report, err := manager.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	logger.Info("Workspace loaded",
		zap.Int("records", report.Loaded),
		zap.Int("dropped", len(report.Dropped)),
		zap.Int("recycled", bin.Len()),
	)

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(logger.Named("http").Logger))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig().WithOrigins(cfg.CORS.Origins)))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
	}

	// Register routes
	apihttp.NewHandlers(manager, metrics, logger.Named("api").Logger).Register(router)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	var handler http.Handler = router
	if cfg.Server.Compress {
		handler = gzhttp.GzipHandler(router)
	}

	logger.Info("Server initialized successfully")

	return &Server{
		router:  router,
		handler: handler,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		manager: manager,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}, nil
}

// Handler returns the root handler, compression included.
func (s *Server) Handler() http.Handler { return s.handler }

// Manager returns the workspace manager.
func (s *Server) Manager() *workspace.Manager { return s.manager }

// Run starts the HTTP server and blocks until it stops. A clean Shutdown
// returns nil.
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	var err error
	if shutdownErr := s.http.Shutdown(ctx); shutdownErr != nil {
		s.logger.Error("Failed to shut down HTTP server", zap.Error(shutdownErr))
		err = fmt.Errorf("failed to shut down http server: %w", shutdownErr)
	}

	// Sync logger before exit
	_ = s.logger.Sync()
	return err
}
