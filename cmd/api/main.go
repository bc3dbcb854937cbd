package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"locallink/internal/adapter/api"
	"locallink/internal/adapter/api/handler"
	apimiddleware "locallink/internal/adapter/api/middleware"
	"locallink/internal/adapter/api/router"
	"locallink/internal/adapter/repository"
	"locallink/internal/cache"
	"locallink/internal/infrastructure/firebase"
	"locallink/internal/infrastructure/kvstore"
	"locallink/internal/infrastructure/ratelimit"
	"locallink/internal/infrastructure/websocket"
	"locallink/internal/usecase"
	"locallink/pkg/config"
	"locallink/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := kvstore.OpenBackend(ctx, cfg.CacheBackend, cfg.CachePath, cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to open cache backend: %v", err)
	}
	store := kvstore.New(backend)
	defer store.Close()

	policy, err := cache.ParsePolicy(cache.DefaultPolicy(cfg.CacheTTL), cfg.CachePolicy)
	if err != nil {
		log.Fatalf("Invalid CACHE_POLICY: %v", err)
	}

	sessions := usecase.NewSessionManager(store, cfg.MaxSessions,
		cache.WithPolicy(policy),
		cache.WithTTL(cfg.CacheTTL),
		cache.WithMaxMessageSlices(cfg.MaxMessageSlices),
	)
	defer sessions.Close()
	overlay := cache.NewProfileOverlay(cfg.ProfileOverlaySize)

	limiter := ratelimit.NewRateLimiter(ratelimit.DefaultRules(cfg.RefreshRatePerMinute))
	limiter.StartCleanupRoutine(ctx)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	db, err := repository.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	fb, err := firebase.NewClients(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}
	defer fb.Close()

	listingRepo := repository.NewPostgresListingRepository(db)
	favoriteRepo := repository.NewPostgresFavoriteRepository(db)
	profileRepo := repository.NewPostgresProfileRepository(db)
	notificationRepo := repository.NewPostgresNotificationRepository(db)
	chatRepo := repository.NewFirestoreChatRepository(fb.Firestore)

	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo, wsManager)
	listingUseCase := usecase.NewListingUseCase(listingRepo, sessions, limiter)
	favoriteUseCase := usecase.NewFavoriteUseCase(favoriteRepo, listingRepo, notificationUseCase, sessions)
	profileUseCase := usecase.NewProfileUseCase(profileRepo, overlay, sessions)
	chatUseCase := usecase.NewChatUseCase(chatRepo, listingRepo, profileUseCase, sessions, wsManager, limiter)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(apimiddleware.RateLimit(limiter))

	e.Validator = api.NewValidator()

	router.Setup(e, &handler.Handlers{
		Health:       handler.NewHealthHandler(sessions),
		Listing:      handler.NewListingHandler(listingUseCase),
		Favorite:     handler.NewFavoriteHandler(favoriteUseCase),
		Profile:      handler.NewProfileHandler(profileUseCase),
		Chat:         handler.NewChatHandler(chatUseCase),
		Notification: handler.NewNotificationHandler(notificationUseCase),
		WebSocket:    handler.NewWebSocketHandler(wsManager, chatUseCase),
	}, apimiddleware.NewAuthMiddleware(fb.Auth))

	go func() {
		logger.Info("Starting server on port %s (%s, cache=%s)", cfg.ServerPort, cfg.Environment, cfg.CacheBackend)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown: %v", err)
	}
}
