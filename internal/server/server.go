package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/aman-churiwal/book-manager/internal/config"
	"github.com/aman-churiwal/book-manager/internal/handler"
	"github.com/aman-churiwal/book-manager/internal/middleware"
	"github.com/aman-churiwal/book-manager/internal/ratelimit"
	"github.com/aman-churiwal/book-manager/internal/repository"
	"github.com/aman-churiwal/book-manager/internal/service"
	"github.com/aman-churiwal/book-manager/internal/storage"
	"github.com/gin-gonic/gin"
)

type Server struct {
	router       *gin.Engine
	config       *config.Config
	redis        *storage.RedisClient
	postgres     *storage.Postgres
	limiter      *ratelimit.Limiter
	policies     map[string]ratelimit.Policy
	bookHandler  *handler.BookHandler
	statsHandler *handler.StatsHandler
	httpServer   *http.Server
}

// New wires the full request pipeline. redis may be nil, which disables
// response caching but nothing else.
func New(cfg *config.Config, redis *storage.RedisClient, postgres *storage.Postgres) (*Server, error) {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Initialize book service and handler
	bookRepo := repository.NewBookRepository(postgres)
	bookService := service.NewBookService(bookRepo, redis)
	bookHandler := handler.NewBookHandler(bookService)

	// Initialize request logging and stats
	logRepo := repository.NewRequestLogRepository(postgres)
	middleware.InitRequestLogger(logRepo, 1000)
	statsService := service.NewStatsService(logRepo)
	statsHandler := handler.NewStatsHandler(statsService)

	policies, err := policiesFromConfig(&cfg.RateLimit)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:       router,
		config:       cfg,
		redis:        redis,
		postgres:     postgres,
		limiter:      ratelimit.New(),
		policies:     policies,
		bookHandler:  bookHandler,
		statsHandler: statsHandler,
	}

	// Setup middleware
	s.setupMiddleware()

	// Setup routes
	s.setupRoutes()

	return s, nil
}

func policiesFromConfig(cfg *config.RateLimitConfig) (map[string]ratelimit.Policy, error) {
	policies := make(map[string]ratelimit.Policy)

	for name, pc := range map[string]config.PolicyConfig{
		"list":   cfg.List,
		"write":  cfg.Write,
		"bulk":   cfg.Bulk,
		"global": cfg.Global,
	} {
		window, err := pc.ParseWindow()
		if err != nil {
			return nil, err
		}
		policies[name] = ratelimit.Policy{Name: name, Limit: pc.Limit, Window: window}
	}

	return policies, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recovery())
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.Logger())
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.RequestLogger())
}

// limit builds the admission middleware for one operation class. The
// global policy guards every route on top of the class policy.
func (s *Server) limit(names ...string) gin.HandlerFunc {
	policies := make([]ratelimit.Policy, 0, len(names)+1)
	for _, name := range names {
		policies = append(policies, s.policies[name])
	}
	policies = append(policies, s.policies["global"])

	return middleware.RateLimit(s.limiter, policies...)
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.limit(), s.home)
	s.router.GET("/health", s.healthCheck)

	books := s.router.Group("/books")
	{
		books.GET("", s.limit("list"), s.bookHandler.List)
		books.POST("", s.limit("write"), s.bookHandler.Create)
		books.GET("/:id", s.limit(), s.bookHandler.Get)
		books.PUT("/:id", s.limit("write"), s.bookHandler.Update)
		books.DELETE("/:id", s.limit("write"), s.bookHandler.Delete)
		books.POST("/bulk", s.limit("bulk"), s.bookHandler.BulkCreate)
		books.DELETE("/bulk", s.limit("bulk"), s.bookHandler.BulkDelete)
	}

	admin := s.router.Group("/admin")
	{
		admin.GET("/stats", s.statsHandler.Summary)
	}
}

func (s *Server) home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the Book Manager API",
		"version": "1.0.0",
	})
}

func (s *Server) healthCheck(c *gin.Context) {
	dbHealthy := true
	if err := s.postgres.Ping(c.Request.Context()); err != nil {
		dbHealthy = false
		log.Printf("Database health check failed: %v", err)
	}

	redisHealthy := true
	if s.redis != nil {
		if err := s.redis.Ping(c.Request.Context()); err != nil {
			redisHealthy = false
			log.Printf("Redis health check failed: %v", err)
		}
	}

	status := "healthy"
	statusCode := http.StatusOK

	if !dbHealthy || !redisHealthy {
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, gin.H{
		"status":    status,
		"service":   "book-manager",
		"version":   "1.0.0",
		"timestamp": time.Now().Unix(),
		"checks": gin.H{
			"database": dbHealthy,
			"redis":    redisHealthy,
		},
	})
}

func (s *Server) Run(addr string) error {
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	log.Printf("Starting Book Manager API on %s", addr)
	log.Printf("Environment: %s", s.config.Server.Environment)

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
