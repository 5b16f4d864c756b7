package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/hortti/inventory/internal/events"
	"github.com/hortti/inventory/internal/httpserver"
	"github.com/hortti/inventory/internal/models"
	"github.com/hortti/inventory/internal/repo"
	"github.com/hortti/inventory/internal/service"
	"github.com/hortti/inventory/internal/storage"
	"github.com/hortti/inventory/pkg/config"
	pkgdb "github.com/hortti/inventory/pkg/db"
	"github.com/hortti/inventory/pkg/logging"
	loggingmw "github.com/hortti/inventory/pkg/middleware/logging"
	"github.com/hortti/inventory/web"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	store, err := storage.NewStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("upload store: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers)
	defer func() { _ = producer.Close() }()

	rep := &repo.GormRepo{DB: db}
	authSvc := &service.AuthService{
		Repo:      rep,
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.JWTExpiresIn,
	}
	productSvc := &service.ProductService{
		Repo:   rep,
		Store:  store,
		Events: producer,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType},
		AllowCredentials: true,
	}))

	e.Static("/"+cfg.UploadDir, cfg.UploadDir)
	e.StaticFS("/", web.StaticFS())

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{Svc: authSvc},
		ProductHandler: &httpserver.ProductHTTP{
			Svc:           productSvc,
			Store:         store,
			PublicBaseURL: cfg.PublicBaseURL,
			UploadDir:     cfg.UploadDir,
		},
		JWTSecret: cfg.JWTSecret,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("inventory listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("inventory stopped")
}
