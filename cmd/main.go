package main

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"forumhub/internal/cache"
	"forumhub/internal/config"
	"forumhub/internal/domain"
	"forumhub/internal/handler"
	"forumhub/internal/middleware"
	"forumhub/internal/repository"
	"forumhub/internal/search"
	"forumhub/internal/service"
	"forumhub/internal/session"
	"forumhub/pkg/database"
	pkglog "forumhub/pkg/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	// Initialize structured logger
	pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Level == "debug",
		ServiceName: "forumhub",
	})
	logger := pkglog.L()

	// Connect to database using GORM
	dbConfig := &database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		FilePath:        cfg.Database.FilePath,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	db, err := database.New(dbConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Auto-migrate
	if err := database.AutoMigrate(db,
		&domain.UserModel{},
		&domain.TopicModel{},
		&domain.RoomModel{},
		&domain.RoomParticipantModel{},
		&domain.MessageModel{},
	); err != nil {
		logger.Fatal().Err(err).Msg("failed to auto-migrate")
	}
	logger.Info().Msg("database migration completed")

	// Initialize repositories
	userRepo := repository.NewGormUserRepository(db)
	topicRepo := repository.NewGormTopicRepository(db)
	roomRepo := repository.NewGormRoomRepository(db)
	messageRepo := repository.NewGormMessageRepository(db)

	// Initialize session store
	var sessionStore session.Store
	switch cfg.Session.Store {
	case "memory":
		sessionStore = session.NewMemoryStore()
		logger.Info().Msg("using in-memory session store")
	default:
		redisStore, err := session.NewRedisStore(cfg.Redis, cfg.Session.KeyPrefix)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis for sessions")
		}
		sessionStore = redisStore
		logger.Info().Msg("redis session store connected")
	}
	defer sessionStore.Close()

	// Initialize search cache
	var searchCache cache.SearchCache
	if cfg.Cache.Enabled {
		redisCache, err := cache.NewRedisSearchCache(cfg.Redis, cfg.Cache.Prefix)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis for search cache")
		}
		defer redisCache.Close()
		searchCache = redisCache
		logger.Info().Msg("redis search cache connected")
	}

	// Initialize services
	sessionTTL := time.Duration(cfg.Session.TTL) * time.Minute
	cacheTTL := time.Duration(cfg.Cache.TTL) * time.Second

	accountService := service.NewAccountService(userRepo, roomRepo, messageRepo, topicRepo, sessionStore, sessionTTL)
	roomService := service.NewRoomService(roomRepo, topicRepo, messageRepo, searchCache)
	messageService := service.NewMessageService(messageRepo, roomRepo, searchCache)
	searchService := search.NewSearchService(roomRepo, topicRepo, messageRepo, searchCache, cacheTTL)

	// Initialize session middleware
	sessionMW := middleware.NewSessionMiddleware(sessionStore, cfg.Session.CookieName)

	// Initialize HTTP handler
	httpHandler := handler.NewHandler(accountService, roomService, messageService, searchService, sessionMW, handler.CookieConfig{
		Name:   cfg.Session.CookieName,
		MaxAge: cfg.Session.TTL * 60,
		Secure: cfg.Session.Secure,
	})

	// Setup Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(logger))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Register routes
	httpHandler.RegisterRoutes(r)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info().Str("addr", addr).Str("driver", cfg.Database.Driver).Str("session_store", cfg.Session.Store).Msg("forumhub starting")
	if err := r.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
}
