// Package main runs the club hub HTTP server with WebSocket chat and
// graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bayside-club/backend/config"
	"github.com/bayside-club/backend/internal/auth"
	"github.com/bayside-club/backend/internal/authz"
	"github.com/bayside-club/backend/internal/chat"
	"github.com/bayside-club/backend/internal/documents"
	"github.com/bayside-club/backend/internal/events"
	"github.com/bayside-club/backend/internal/gallery"
	"github.com/bayside-club/backend/internal/groups"
	"github.com/bayside-club/backend/internal/middleware"
	"github.com/bayside-club/backend/internal/news"
	"github.com/bayside-club/backend/internal/notify"
	"github.com/bayside-club/backend/internal/sponsors"
	"github.com/bayside-club/backend/internal/users"
	"github.com/bayside-club/backend/pkg/database"
	"github.com/bayside-club/backend/pkg/mongodb"
	"github.com/bayside-club/backend/pkg/queue"
	"github.com/bayside-club/backend/pkg/redis"
	"github.com/bayside-club/backend/pkg/response"
	"github.com/bayside-club/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	mongoDB, mongoClose, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.DBName, logger)
	if err != nil {
		logger.Fatal("mongodb", zap.Error(err))
	}
	defer mongoClose()
	if err := mongodb.EnsureIndexes(ctx, mongoDB); err != nil {
		logger.Fatal("mongodb indexes", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			MediaBucket:          cfg.AWS.MediaBucket,
			DocumentsBucket:      cfg.AWS.DocumentsBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.New(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	verify := func(token string) (*authz.Principal, error) {
		claims, err := tokens.Verify(token)
		if err != nil {
			return nil, err
		}
		return claims.Principal()
	}

	jobQueue := queue.NewQueue(rdb.Client, logger)

	// Auth and users
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, tokens, nil, !cfg.Server.IsDevelopment(), logger)
	usersRepo := users.NewRepository(pool)
	usersHandler := users.NewHandler(usersRepo, logger)

	notifier := notify.New(jobQueue, usersRepo, cfg.Push.Enabled, logger)

	// Groups
	groupsRepo := groups.NewRepository(pool)
	groupsHandler := groups.NewHandler(groupsRepo)

	// Events and RSVPs
	eventsRepo := events.NewRepository(pool)
	eventsHandler := events.NewHandler(eventsRepo, notifier, logger)

	// News
	newsRepo := news.NewRepository(pool)
	newsHandler := news.NewHandler(newsRepo, notifier, logger)

	// Document library
	documentsRepo := documents.NewRepository(mongoDB)
	documentsHandler := documents.NewHandler(documentsRepo, s3Client, logger)

	// Photo gallery
	galleryRepo := gallery.NewRepository(mongoDB)
	galleryHandler := gallery.NewHandler(galleryRepo, s3Client, logger)

	// Chat
	chatPubSub := chat.NewRedisPubSub(rdb.Client, logger)
	hub := chat.NewHub(logger, chatPubSub, chatPubSub)
	chatRepo := chat.NewRepository(mongoDB)
	chatHandler := chat.NewHandler(chatRepo, hub, notifier, logger)

	// Sponsors
	sponsorsRepo := sponsors.NewRepository(mongoDB)
	sponsorsHandler := sponsors.NewHandler(sponsorsRepo, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/external", authHandler.External)
		authGroup.POST("/logout", authHandler.Logout)
	}

	// Public reads: anonymous callers see public resources only.
	public := router.Group("")
	public.Use(middleware.OptionalSession(verify))
	{
		public.GET("/groups", groupsHandler.List)
		public.GET("/news", newsHandler.List)
		public.GET("/news/:id", newsHandler.GetByID)
		public.GET("/events", eventsHandler.List)
		public.GET("/events/:id", eventsHandler.GetByID)
		public.GET("/events/:id/rsvps/tally", eventsHandler.Tally)
		public.GET("/documents", documentsHandler.List)
		public.GET("/documents/categories", documentsHandler.ListCategories)
		public.GET("/gallery/albums", galleryHandler.ListAlbums)
		public.GET("/gallery/albums/:id", galleryHandler.GetAlbum)
		public.GET("/sponsors", sponsorsHandler.List)
	}

	// Protected API (session required)
	api := router.Group("")
	api.Use(middleware.Session(verify))
	{
		api.POST("/auth/refresh", authHandler.Refresh)

		// Profile (self-scoped)
		api.GET("/users/me", usersHandler.Me)
		api.PATCH("/users/me", usersHandler.UpdateMe)
		api.PUT("/users/me/notifications", usersHandler.UpdateNotifications)
		api.POST("/users/me/devices", usersHandler.RegisterDevice)

		// User administration
		api.GET("/users", middleware.RequireAction(authz.ActionManageUsers), usersHandler.List)
		api.PUT("/users/:id/assignments", middleware.RequireAction(authz.ActionManageUsers), usersHandler.Assign)
		api.DELETE("/users/:id", middleware.RequireAction(authz.ActionManageUsers), usersHandler.Delete)

		// Group administration
		api.POST("/groups", middleware.RequireAction(authz.ActionManageGroups), groupsHandler.Create)
		api.PATCH("/groups/:id", middleware.RequireAction(authz.ActionManageGroups), groupsHandler.Rename)
		api.DELETE("/groups/:id", middleware.RequireAction(authz.ActionManageGroups), groupsHandler.Delete)

		// Events (scoped checks in handler)
		api.POST("/events", eventsHandler.Create)
		api.PATCH("/events/:id", eventsHandler.Update)
		api.DELETE("/events/:id", eventsHandler.Delete)
		api.PUT("/events/:id/rsvp", eventsHandler.UpsertRSVP)
		api.GET("/events/:id/rsvp", eventsHandler.MyRSVP)
		api.GET("/events/:id/rsvps", eventsHandler.ListRSVPs)

		// News
		api.POST("/news", newsHandler.Create)
		api.PATCH("/news/:id", newsHandler.Update)
		api.DELETE("/news/:id", newsHandler.Delete)
		api.POST("/news/:id/like", newsHandler.ToggleLike)

		// Documents
		api.POST("/documents", documentsHandler.Upload)
		api.GET("/documents/:id/download", documentsHandler.Download)
		api.DELETE("/documents/:id", documentsHandler.Delete)
		api.POST("/documents/categories", middleware.RequireAction(authz.ActionCreatePublicResource), documentsHandler.CreateCategory)
		api.DELETE("/documents/categories/:id", middleware.RequireAction(authz.ActionCreatePublicResource), documentsHandler.DeleteCategory)

		// Gallery
		api.POST("/gallery/albums", galleryHandler.CreateAlbum)
		api.PATCH("/gallery/albums/:id", galleryHandler.UpdateAlbum)
		api.DELETE("/gallery/albums/:id", galleryHandler.DeleteAlbum)
		api.POST("/gallery/albums/:id/photos", galleryHandler.UploadPhoto)
		api.DELETE("/gallery/photos/:id", galleryHandler.DeletePhoto)

		// Chat
		api.GET("/chats", chatHandler.List)
		api.POST("/chats", chatHandler.Create)
		api.DELETE("/chats/:id", chatHandler.Delete)
		api.GET("/chats/:id/messages", chatHandler.History)
		api.POST("/chats/:id/messages", chatHandler.Post)

		// Sponsors (admin)
		api.POST("/sponsors", middleware.RequireAction(authz.ActionCreatePublicResource), sponsorsHandler.Create)
		api.PATCH("/sponsors/:id", middleware.RequireAction(authz.ActionCreatePublicResource), sponsorsHandler.Update)
		api.DELETE("/sponsors/:id", middleware.RequireAction(authz.ActionCreatePublicResource), sponsorsHandler.Delete)
	}

	// WebSocket (token in query or cookie; no Authorization header required)
	router.GET("/ws/chat", chat.ServeWs(hub, chatRepo, notifier, verify, logger))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
