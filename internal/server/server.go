// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"log"
	"strings"
	"time"

	"circles/internal/bootstrap"
	"circles/internal/config"
	"circles/internal/middleware"
	"circles/internal/notifications"
	"circles/internal/repository"
	"circles/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config            *config.Config
	db                *gorm.DB
	redis             *redis.Client
	promMiddleware    *fiberprometheus.FiberPrometheus
	notifier          *notifications.Notifier
	friendService     *service.FriendService
	blockService      *service.BlockService
	visibilityService *service.VisibilityService
	feedService       *service.FeedService
	archiveService    *service.ArchiveService
	contentService    *service.ContentService
}

// NewServer connects the runtime dependencies and creates a server instance.
func NewServer(cfg *config.Config, opts bootstrap.Options) (*Server, error) {
	db, redisClient, err := bootstrap.InitRuntime(cfg, opts)
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, db, redisClient, service.UTCNow)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, now service.Clock) (*Server, error) {
	middleware.InitMiddleware(cfg)

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	relRepo := repository.NewRelationshipRepository(db)
	visibilityRepo := repository.NewVisibilityRepository(db)
	cascade := service.NewCascadeRunner(cfg.CascadeMaxRetries, cfg.CascadeRetryInterval())

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("circles-api"),
	}

	var events service.EventPublisher
	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
		events = server.notifier
	}

	server.friendService = service.NewFriendService(userRepo, relRepo, repository.NewRequestRepository(db), cascade, events)
	server.blockService = service.NewBlockService(userRepo, relRepo)
	server.visibilityService = service.NewVisibilityService(
		postRepo, visibilityRepo, repository.NewEngagementRepository(db), cascade, now)
	server.feedService = service.NewFeedService(userRepo, postRepo, relRepo, cfg.FeedBlockersTTL())
	server.archiveService = service.NewArchiveService(
		postRepo, repository.NewArchiveRepository(db), cascade, now, cfg.ArchiveRetention())
	server.contentService = service.NewContentService(
		userRepo, postRepo, repository.NewCommentRepository(db), repository.NewReactRepository(db), visibilityRepo, now)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || strings.HasPrefix(c.Path(), "/health")
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	s.promMiddleware.RegisterAt(app, "/metrics")

	api := app.Group("/api", middleware.AuthRequired, s.withUserContext)
	s.registerAPIRoutes(api)
}

func (s *Server) registerAPIRoutes(api fiber.Router) {
	// Post routes. Specific paths before generic /:postId routes.
	posts := api.Group("/posts")
	posts.Post("/", middleware.RateLimit(s.redis, 10, 5*time.Minute, "create_post"), s.CreatePost)
	posts.Get("/feed", s.GetFeed)
	posts.Get("/mine", s.GetMyPosts)
	posts.Get("/saved", s.GetSavedPosts)
	posts.Get("/hidden", s.GetHiddenPosts)
	posts.Post("/:postId/hide", s.HidePost)
	posts.Delete("/:postId/hide", s.UnhidePost)
	posts.Post("/:postId/save", s.SavePost)
	posts.Delete("/:postId/save", s.UnsavePost)
	posts.Post("/:postId/archive", s.ArchivePost)
	posts.Delete("/:postId/archive", s.RemoveFromArchive)
	posts.Get("/:postId/comments", s.GetComments)
	posts.Put("/:postId", s.UpdatePost)
	posts.Delete("/:postId", s.DeletePost)

	api.Get("/users/:userId/posts", s.GetUserPosts)

	api.Get("/archive", s.GetArchive)

	api.Post("/comments", middleware.RateLimit(s.redis, 30, time.Minute, "create_comment"), s.CreateComment)
	api.Put("/comments/:commentId", s.UpdateComment)
	api.Post("/reacts", s.CreateReact)
	api.Delete("/reacts/:reactId", s.DeleteReact)

	// Friend routes. Specific /requests routes before generic /:userId.
	friends := api.Group("/friends")
	friends.Get("/", s.GetFriends)
	friends.Get("/requests", s.GetPendingRequests)
	friends.Get("/requests/sent", s.GetSentRequests)
	friends.Post("/requests/:userId", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "friend_request"), s.SendFriendRequest)
	friends.Post("/requests/:userId/accept", s.AcceptFriendRequest)
	friends.Post("/requests/:userId/decline", s.DeclineFriendRequest)
	friends.Delete("/requests/:userId", s.CancelFriendRequest)
	friends.Delete("/:userId", s.RemoveFriend)

	blocks := api.Group("/blocks")
	blocks.Get("/", s.GetBlockedUsers)
	blocks.Post("/:email", s.BlockUser)
	blocks.Delete("/:email", s.UnblockUser)
}

// withUserContext syncs the authenticated user into the request context for
// logging in deeper layers.
func (s *Server) withUserContext(c *fiber.Ctx) error {
	if uid, ok := c.Locals("userID").(string); ok {
		c.SetUserContext(context.WithValue(c.UserContext(), middleware.UserIDKey, uid))
	}
	return c.Next()
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis only backs caches, notifications and rate limits; the core
	// stays available without it.
	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
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

// Shutdown releases server resources.
func (s *Server) Shutdown(_ context.Context) error {
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
	return nil
}
