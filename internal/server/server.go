// Package server contains the HTTP handlers and route table of the blog API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	_ "inkwell/docs" // swagger docs
	"inkwell/internal/auth"
	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/policy"
	"inkwell/internal/repository"
	"inkwell/internal/service"
	"inkwell/internal/storage"
	"inkwell/internal/validation"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	tokens         *auth.TokenService
	images         storage.ImageStore

	userRepo     repository.UserRepository
	postRepo     repository.PostRepository
	commentRepo  repository.CommentRepository
	categoryRepo repository.CategoryRepository

	authService     *service.AuthService
	userService     *service.UserService
	postService     *service.PostService
	commentService  *service.CommentService
	categoryService *service.CategoryService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient = cache.InitRedis(cfg.RedisURL)
	}

	images, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("image store: %w", err)
	}

	return NewServerWithDeps(cfg, db, redisClient, images)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis itself.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, images storage.ImageStore) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if db == nil {
		return nil, errors.New("database is required")
	}
	cache.SetClient(redisClient)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("inkwell-api"),
		tokens:         auth.NewTokenService(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour),
		images:         images,
		userRepo:       repository.NewUserRepository(db),
		postRepo:       repository.NewPostRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		categoryRepo:   repository.NewCategoryRepository(db),
	}

	storeName := cfg.ImageStore
	if storeName == "" {
		storeName = "local"
	}

	s.authService = service.NewAuthService(s.userRepo, s.tokens)
	s.userService = service.NewUserService(s.userRepo, s.commentRepo, s.authService)
	s.postService = service.NewPostService(s.postRepo, s.categoryRepo, service.PostServiceConfig{
		Images:         images,
		StoreName:      storeName,
		MaxUploadBytes: storage.MaxUploadBytes(cfg),
	})
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo)
	s.categoryService = service.NewCategoryService(s.categoryRepo)

	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Server span; must run before ContextMiddleware so the trace id reaches the logger.
	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and trace ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Message: "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Locally stored post images
	if local, ok := s.images.(*storage.LocalStore); ok && strings.HasPrefix(local.PublicBase(), "/") {
		app.Static(local.PublicBase(), local.Dir(), fiber.Static{ByteRange: true})
	}

	authenticate := middleware.Authenticate(s.tokens, s.userRepo)

	// Auth routes
	app.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"),
		middleware.Validate(validation.Login), s.Login)
	app.Post("/logout", authenticate, s.Logout)

	// User routes. Specific paths are registered before /:id.
	users := app.Group("/users")
	users.Post("/", middleware.RateLimit(s.redis, 3, 10*time.Minute, "register"),
		middleware.Validate(validation.Register), s.Register)
	users.Get("/", authenticate, middleware.RequireRole(policy.UserList), s.GetUsers)
	users.Get("/user", authenticate, s.GetCurrentUser)
	users.Get("/:id/comments", authenticate, s.GetUserComments)
	users.Get("/:id", authenticate, s.GetUser)
	users.Put("/:id", authenticate, middleware.RequireOwnerOrRole(policy.UserManage, s.loadUser),
		middleware.Validate(validation.UpdateUser), s.UpdateUser)
	users.Delete("/:id", authenticate,
		middleware.RequireOwnerOrRole(policy.UserManage, s.loadUser), s.DeleteUser)

	// Post routes
	posts := app.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Post("/", authenticate, middleware.RequireRole(policy.PostCreate),
		middleware.Validate(validation.CreatePost), s.CreatePost)
	posts.Get("/:id/comments/:commentId", s.GetComment)
	posts.Get("/:id/comments", s.GetComments)
	posts.Post("/:id/comments", authenticate, middleware.RequireRole(policy.CommentCreate),
		middleware.Validate(validation.Comment), s.CreateComment)
	posts.Put("/:id/comments/:commentId", authenticate,
		middleware.RequireOwnerOrRole(policy.CommentModerate, s.loadComment),
		middleware.Validate(validation.Comment), s.UpdateComment)
	posts.Delete("/:id/comments/:commentId", authenticate,
		middleware.RequireOwnerOrRole(policy.CommentModerate, s.loadComment), s.DeleteComment)
	posts.Get("/:id", s.GetPost)
	posts.Put("/:id", authenticate, middleware.RequireRole(policy.PostUpdate),
		middleware.Validate(validation.UpdatePost), s.UpdatePost)
	posts.Delete("/:id", authenticate, middleware.RequireRole(policy.PostDelete), s.DeletePost)

	// Category routes
	categories := app.Group("/categories")
	categories.Get("/", s.GetCategories)
	categories.Post("/", authenticate, middleware.RequireRole(policy.CategoryCreate),
		middleware.Validate(validation.Category), s.CreateCategory)
	categories.Get("/:id/posts", s.GetCategoryPosts)
	categories.Get("/:id", s.GetCategory)
	categories.Put("/:id", authenticate, middleware.RequireRole(policy.CategoryUpdate),
		middleware.Validate(validation.Category), s.UpdateCategory)
	categories.Delete("/:id", authenticate, middleware.RequireRole(policy.CategoryDelete), s.DeleteCategory)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports database and Redis health. Redis is optional: a
// server running without it is still ready.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// NewApp builds the fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Inkwell API",
		BodyLimit:    int(storage.MaxUploadBytes(s.config)) + 1024*1024,
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// errorHandler is the fallback for errors returned by handlers and fiber itself.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Message: fe.Message})
	}
	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err.Error(), "path", c.Path())
	return models.RespondWithError(c, fiber.StatusInternalServerError,
		models.NewInternalError(err), !s.config.IsProduction())
}

// Start starts the server
func (s *Server) Start() error {
	s.app = s.NewApp()
	log.Printf("Server starting on port %s...", s.config.Port)
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
