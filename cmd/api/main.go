package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"smartgrocery/internal/config"
	"smartgrocery/internal/database"
	"smartgrocery/internal/domain"
	"smartgrocery/internal/domain/notification"
	"smartgrocery/internal/middleware"
	jwtsvc "smartgrocery/internal/pkg/jwt"
	"smartgrocery/internal/pkg/logger"
	"smartgrocery/internal/pkg/response"
	"smartgrocery/internal/push"
	"smartgrocery/internal/repository"
	"smartgrocery/internal/scheduler"
)

func main() {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is empty")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is empty")
	}

	zlog := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer zlog.Sync()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Family{},
		&domain.FamilyMember{},
		&domain.FridgeItem{},
		&notification.Notification{},
	); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	memberRepo := repository.NewFamilyMemberRepository(db)
	fridgeRepo := repository.NewFridgeItemRepository(db)
	notifRepo := notification.NewRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	notifService := notification.NewService(notifRepo, zlog)
	notifHandler := notification.NewHandler(notifService)

	hub := push.NewHub()
	dispatcher := push.NewMulti(zlog)
	dispatcher.Add("websocket", hub)
	if cfg.RedisAddr != "" {
		dispatcher.Add("redis", push.NewRedisPublisher(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB))
	}

	sched := scheduler.New(fridgeRepo, memberRepo, notifService, dispatcher, zlog)
	schedHandler := scheduler.NewHandler(sched)

	cronRunner, err := scheduler.Start(sched, cfg.Cron, zlog)
	if err != nil {
		log.Fatal(err)
	}
	defer cronRunner.Stop()

	r := gin.Default()

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// WebSocket attach: token via query because browsers cannot set
	// headers on WebSocket upgrade requests.
	r.GET("/ws", func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "token query parameter is required")
			return
		}
		claims, err := j.ValidateToken(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
			return
		}

		// tokens can outlive the account they were issued for
		if _, err := userRepo.GetByID(c.Request.Context(), claims.UserID); err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unknown user")
			return
		}

		familyIDs, err := memberRepo.FindFamilyIDsByUser(c.Request.Context(), claims.UserID)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to resolve family membership")
			return
		}

		conn, err := push.Upgrade(c.Writer, c.Request)
		if err != nil {
			zlog.Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		hub.ServeWS(conn, claims.UserID, familyIDs)
	})

	v1 := r.Group("/api/v1")
	{
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			notification.RegisterRoutes(protected, notifHandler)
			scheduler.RegisterRoutes(protected, schedHandler)
		}
	}

	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
