package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/visionaryvybes/Archi-sub000/internal/api/http"
	"github.com/visionaryvybes/Archi-sub000/internal/api/middleware"
	"github.com/visionaryvybes/Archi-sub000/internal/api/ws"
	"github.com/visionaryvybes/Archi-sub000/internal/domain/catalog"
	"github.com/visionaryvybes/Archi-sub000/internal/domain/persistence"
	"github.com/visionaryvybes/Archi-sub000/internal/domain/studio"
	"github.com/visionaryvybes/Archi-sub000/internal/infrastructure/config"
	"github.com/visionaryvybes/Archi-sub000/internal/infrastructure/logging"
	"github.com/visionaryvybes/Archi-sub000/internal/infrastructure/monitoring"
	"github.com/visionaryvybes/Archi-sub000/internal/infrastructure/tracing"
	"github.com/visionaryvybes/Archi-sub000/internal/providers/blob"
	"github.com/visionaryvybes/Archi-sub000/internal/providers/generation"
	"github.com/visionaryvybes/Archi-sub000/internal/providers/storage"
)

const blobDir = "blobs"

// Server wraps the HTTP server and dependencies
type Server struct {
	config    *config.Config
	logger    *logging.Logger
	metrics   *monitoring.Metrics
	tracer    *tracing.Tracer
	store     *studio.Store
	persister *persistence.Persister
	router    *gin.Engine
	http      *http.Server
}

// NewServer wires the studio from cfg. Saved state is loaded before the
// store is created, so a corrupt or missing slot starts from defaults.
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	logger.Info("Initializing Visionary Studio",
		zap.String("addr", cfg.Addr()),
		zap.String("generation_endpoint", cfg.Generation.Endpoint),
		zap.String("storage_dir", cfg.Storage.Dir),
	)

	metrics := monitoring.NewMetrics()
	tracer := tracing.New("studio", logger)

	cat, err := catalog.LoadOrDefault(cfg.Studio.StylesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load style catalog: %w", err)
	}

	kv, err := storage.NewFile(cfg.Storage.Dir)
	if err != nil {
		return nil, err
	}
	blobKV, err := storage.NewFile(filepath.Join(cfg.Storage.Dir, blobDir))
	if err != nil {
		return nil, err
	}
	blobs := blob.New(blobKV, nil)

	generator := generation.New(generation.Config{
		Endpoint:          cfg.Generation.Endpoint,
		ChatEndpoint:      cfg.Generation.ChatEndpoint,
		Timeout:           cfg.Generation.Timeout,
		Retries:           cfg.Generation.Retries,
		RequestsPerSecond: cfg.Generation.RequestsPerSec,
	}, logger)

	persister, err := persistence.New(kv, persistence.Options{
		Key:         cfg.Storage.Key,
		Compression: persistence.Compression(cfg.Storage.Compression),
		Debounce:    cfg.Storage.Debounce,
		Logger:      logger,
		Metrics:     metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create persister: %w", err)
	}

	loadCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	snapshot := persister.Load(loadCtx)
	cancel()

	store := studio.New(studio.Options{
		Catalog:           cat,
		Generator:         generator,
		Blobs:             blobs,
		Logger:            logger,
		Metrics:           metrics,
		PlaceholderImage:  cfg.Generation.PlaceholderImage,
		ProgressTick:      cfg.Studio.ProgressTick,
		ReplyDelay:        cfg.Studio.ReplyDelay,
		RenderLimit:       cfg.Studio.RenderLimit,
		GenerationTimeout: cfg.Generation.Timeout,
		Snapshot:          snapshot,
	})
	if err := persister.Start(store); err != nil {
		store.Close()
		return nil, err
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		limit := middleware.DefaultRateLimitConfig()
		limit.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		limit.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(limit))
	}
	router.Use(middleware.RequestLogger(logger))

	handlers := apihttp.NewHandlers(store, blobs, generator, metrics, logger)
	handlers.Register(router)

	router.GET("/stream", ws.NewHandler(store, metrics, logger).HandleConnection)
	router.GET("/metrics", gin.WrapH(monitoring.Handler(metrics)))

	logger.Info("Server initialized successfully")

	return &Server{
		config:    cfg,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		store:     store,
		persister: persister,
		router:    router,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Store returns the studio store
func (s *Server) Store() *studio.Store {
	return s.store
}

// Run serves HTTP until Shutdown is called
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, cancels in-flight work and writes the
// final snapshot
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	var errs []error
	if err := s.http.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}

	// Closing the store drops WebSocket clients and settles generations
	s.store.Close()

	if err := s.persister.Close(ctx); err != nil {
		s.logger.Error("Failed to write final snapshot", zap.Error(err))
		errs = append(errs, fmt.Errorf("persist: %w", err))
	}

	s.tracer.Close()
	_ = s.logger.Sync()

	return errors.Join(errs...)
}
