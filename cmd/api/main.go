package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"campusportal/internal/database"
	"campusportal/internal/mailer"
	"campusportal/internal/middleware"
	"campusportal/internal/modules/admin"
	"campusportal/internal/modules/auth"
	"campusportal/internal/modules/items"
	"campusportal/internal/modules/notification"
	jwtsvc "campusportal/internal/pkg/jwt"
	"campusportal/internal/pkg/logger"
	"campusportal/internal/pkg/response"
	"campusportal/internal/repository"
	"campusportal/internal/storage"
	"campusportal/internal/workflow"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is empty")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	itemRepo := repository.NewItemRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	j := jwtsvc.New(secret, jwtsvc.DefaultTTL)

	var m mailer.Mailer
	if host := os.Getenv("SMTP_HOST"); host != "" {
		port, _ := strconv.Atoi(getenv("SMTP_PORT", "587"))
		m = mailer.NewSMTP(host, port, os.Getenv("SMTP_EMAIL"), os.Getenv("SMTP_PASSWORD"))
	} else {
		log.Warn("SMTP_HOST is empty, OTP codes will be written to the log")
		m = mailer.NewLog(log)
	}

	uploadsDir := getenv("UPLOADS_DIR", storage.DefaultBaseDir)
	var blobs storage.BlobStore
	serveLocal := true
	if endpoint := os.Getenv("S3_ENDPOINT"); endpoint != "" {
		s3, err := storage.NewS3(
			endpoint,
			os.Getenv("S3_ACCESS_KEY"),
			os.Getenv("S3_SECRET_KEY"),
			getenv("S3_BUCKET", "campusportal"),
			os.Getenv("S3_USE_SSL") == "true",
		)
		if err != nil {
			log.Fatal("failed to init S3 storage", zap.Error(err))
		}
		blobs = s3
		serveLocal = false
	} else {
		blobs = storage.NewDisk(uploadsDir, storage.DefaultStaticBase)
	}
	uploads := storage.NewGateway(blobs)

	notifService := notification.NewService(notifRepo)
	engine := workflow.NewEngine(itemRepo, notifService, log)
	itemsService := items.NewService(itemRepo, engine)
	authService := auth.NewService(userRepo, j, m, os.Getenv("OTP_PEPPER"))
	adminService := admin.NewService(userRepo, itemRepo, engine)

	authHandler := auth.NewHandler(authService)
	itemsHandler := items.NewHandler(itemsService, uploads, userRepo)
	notifHandler := notification.NewHandler(notifService)
	adminHandler := admin.NewHandler(adminService)

	if os.Getenv("APP_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS())

	if serveLocal {
		r.Static(storage.DefaultStaticBase, uploadsDir)
	}

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			response.JSON(c, http.StatusOK, gin.H{"status": "OK", "timestamp": time.Now().UTC()})
		})

		// public
		authHandler.RegisterPublicRoutes(api)
		itemsHandler.RegisterPublicRoutes(api)

		// protected
		protected := api.Group("")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			itemsHandler.RegisterProtectedRoutes(protected)
			notifHandler.RegisterRoutes(protected)

			adminGroup := protected.Group("")
			adminGroup.Use(middleware.AdminOnly())
			{
				itemsHandler.RegisterAdminRoutes(adminGroup)
				adminHandler.RegisterRoutes(adminGroup)
			}
		}
	}

	srv := &http.Server{
		Addr:    ":" + getenv("PORT", "8080"),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
