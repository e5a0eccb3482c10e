package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"gabarolla-store/internal/config"
	custommiddleware "gabarolla-store/internal/middleware"
	"gabarolla-store/internal/repository"
	"gabarolla-store/internal/service"
	"gabarolla-store/internal/storage"
	"gabarolla-store/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB, redisClient *redis.Client, objects storage.ObjectStore) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env == "development"))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Locally stored images are served by this process; the Drive backend
	// serves its own URLs.
	if local, ok := objects.(*storage.LocalStore); ok {
		fileServer := http.StripPrefix("/images/", http.FileServer(http.Dir(local.Dir())))
		router.Get("/images/*", fileServer.ServeHTTP)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	productRepo := repository.NewProductRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg.JWT.Secret)
	productAdmin := service.NewProductAdmin(productRepo, objects, service.NewImageOptimizer(), cfg.Store.DefaultCategory, logger)
	checkout := service.NewCheckout(cfg.Store.WhatsAppNumber)

	// Initialize handlers
	authHandler := transport.NewAuthHandler(authService, logger)
	adminHandler := transport.NewAdminHandler(productAdmin, logger)
	catalogHandler := transport.NewCatalogHandler(productRepo, checkout, logger)

	// Gates
	authMiddleware := custommiddleware.Authenticate(authService, logger)
	adminMiddleware := custommiddleware.RequireAdmin(logger)

	// Rate limits protect the unauthenticated surface. Redis being optional
	// in development, a nil client simply disables them.
	var catalogLimiter, loginLimiter func(http.Handler) http.Handler
	if redisClient != nil {
		catalogLimiter = custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: 120,
			Window:            time.Minute,
			KeyPrefix:         "ratelimit:catalog",
		}, logger)
		loginLimiter = custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: 10,
			Window:            time.Minute,
			KeyPrefix:         "ratelimit:login",
		}, logger)
	}

	// Register routes
	authHandler.RegisterRoutes(router, authMiddleware, loginLimiter)
	adminHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)
	catalogHandler.RegisterRoutes(router, catalogLimiter)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
