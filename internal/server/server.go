package server

import (
	"log"
	"strings"
	"time"

	"github.com/Dev-MJBS/capelo-club-backend/internal/config"
	"github.com/Dev-MJBS/capelo-club-backend/internal/handler"
	"github.com/Dev-MJBS/capelo-club-backend/internal/middleware"
	"github.com/Dev-MJBS/capelo-club-backend/internal/repository"
	"github.com/Dev-MJBS/capelo-club-backend/internal/service"
	"github.com/Dev-MJBS/capelo-club-backend/pkg/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
	scheduler   *service.CycleScheduler
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	inviteRepo := repository.NewInviteRepository(db)
	subclubRepo := repository.NewSubclubRepository(db)
	postRepo := repository.NewPostRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	tagRepo := repository.NewTagRepository(db)
	followRepo := repository.NewFollowRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	votingRepo := repository.NewVotingRepository(db)

	imageStorage, err := storage.NewCloudinaryStorage(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		log.Fatalf("failed to initialize cloudinary storage: %v", err)
	}

	meiliHost := cfg.MeiliSearchHost
	if meiliHost == "" {
		meiliHost = "http://localhost:7700"
	}
	if !strings.HasPrefix(meiliHost, "http") {
		meiliHost = "http://" + meiliHost + ":7700"
	}
	meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	searchSvc := service.NewSearchService(meiliClient)

	notificationSvc := service.NewNotificationService(notificationRepo, userRepo, redisClient)
	notificationHandler := handler.NewNotificationHandler(notificationSvc, redisClient)

	authSvc := service.NewAuthService(db, userRepo, inviteRepo, cfg.JWTSecret, cfg.JWTLifetime)
	authHandler := handler.NewAuthHandler(authSvc)

	inviteSvc := service.NewInviteService(inviteRepo, userRepo, cfg.InviteLifetime)
	inviteHandler := handler.NewInviteHandler(inviteSvc)

	subclubSvc := service.NewSubclubService(subclubRepo, userRepo)
	subclubHandler := handler.NewSubclubHandler(subclubSvc)

	likeSvc := service.NewLikeService(likeRepo, postRepo, notificationSvc, redisClient)

	postSvc := service.NewPostService(
		postRepo, subclubRepo, userRepo, tagRepo, followRepo,
		likeSvc, searchSvc, notificationSvc, redisClient,
		cfg.RateLimitGlobal, cfg.RateLimitPost,
	)
	postHandler := handler.NewPostHandler(postSvc, likeSvc)

	followSvc := service.NewFollowService(followRepo, userRepo, notificationSvc)
	followHandler := handler.NewFollowHandler(followSvc)

	votingSvc := service.NewVotingService(votingRepo, userRepo, notificationSvc, searchSvc)
	votingHandler := handler.NewVotingHandler(votingSvc)

	profileSvc := service.NewProfileService(userRepo, followRepo, imageStorage)
	profileHandler := handler.NewProfileHandler(profileSvc)

	adminSvc := service.NewAdminService(userRepo)
	adminHandler := handler.NewAdminHandler(adminSvc)

	statSvc := service.NewStatService(userRepo, postRepo, likeSvc)
	statHandler := handler.NewStatHandler(statSvc)

	scheduler := service.NewCycleScheduler(votingRepo, notificationSvc, redisClient)
	scheduler.Start()

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}
	api.GET("/voting/phase", votingHandler.CurrentPhase)
	api.GET("/books", votingHandler.ListBooksOfTheMonth)
	api.GET("/books/:slug", votingHandler.GetBookOfTheMonth)
	api.GET("/stats/members", statHandler.GetMemberCount)

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Admin routes
		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.GET("/users", adminHandler.GetAllUsers)
			adminGroup.PUT("/users/:id", adminHandler.UpdateUser)
			adminGroup.DELETE("/users/:id", adminHandler.DeleteUser)
			adminGroup.POST("/voting/winner", votingHandler.PickWinner)
			adminGroup.PUT("/voting/override", votingHandler.SetOverride)
		}

		// Invite routes
		protected.POST("/invites", inviteHandler.CreateInvite)
		protected.GET("/invites", inviteHandler.ListMyInvites)

		// Subclub routes
		protected.POST("/subclubs", subclubHandler.CreateSubclub)
		protected.GET("/subclubs", subclubHandler.ListSubclubs)
		protected.GET("/subclubs/:slug", subclubHandler.GetSubclub)
		protected.DELETE("/subclubs/:slug", subclubHandler.DeleteSubclub)

		// Thread and reply routes
		protected.POST("/posts", postHandler.CreatePost)
		protected.GET("/threads", postHandler.ListThreads)
		protected.GET("/threads/feed", postHandler.FollowedFeed)
		protected.GET("/threads/trending", statHandler.GetTrendingThreads)
		protected.GET("/threads/:post_id", postHandler.GetThread)
		protected.PUT("/posts/:post_id", postHandler.UpdatePost)
		protected.DELETE("/posts/:post_id", postHandler.DeletePost)
		protected.POST("/posts/:post_id/like", postHandler.LikePost)
		protected.DELETE("/posts/:post_id/like", postHandler.UnlikePost)

		// Voting routes
		protected.POST("/voting/nominations", votingHandler.Nominate)
		protected.GET("/voting/nominations", votingHandler.ListNominations)
		protected.POST("/voting/votes", votingHandler.Vote)

		// Follow routes
		protected.POST("/follows/:username", followHandler.Follow)
		protected.DELETE("/follows/:username", followHandler.Unfollow)

		// Profile routes
		protected.GET("/profile/me", profileHandler.GetCurrentProfile)
		protected.GET("/profile/:username", profileHandler.GetProfileByUsername)
		protected.PUT("/profile", profileHandler.UpdateProfile)
		protected.POST("/profile/avatar", profileHandler.UploadAvatar)

		// Notification routes
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
		scheduler:   scheduler,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
