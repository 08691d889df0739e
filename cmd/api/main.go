package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/loopcrm/loopcrm-api/internal/config"
	"github.com/loopcrm/loopcrm-api/internal/domain/auth"
	"github.com/loopcrm/loopcrm-api/internal/domain/authz"
	"github.com/loopcrm/loopcrm-api/internal/domain/export"
	"github.com/loopcrm/loopcrm-api/internal/domain/lead"
	"github.com/loopcrm/loopcrm-api/internal/domain/notify"
	"github.com/loopcrm/loopcrm-api/internal/domain/restriction"
	"github.com/loopcrm/loopcrm-api/internal/domain/user"
	"github.com/loopcrm/loopcrm-api/internal/middleware"
	"github.com/loopcrm/loopcrm-api/internal/pkg/database"
	"github.com/loopcrm/loopcrm-api/internal/pkg/jwt"
	"github.com/loopcrm/loopcrm-api/internal/pkg/leadgen"
	"github.com/loopcrm/loopcrm-api/internal/pkg/logger"
	"github.com/loopcrm/loopcrm-api/internal/pkg/response"
	"github.com/loopcrm/loopcrm-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Loop CRM API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	exportStorage, err := storage.NewS3Storage(storage.Config{
		S3Endpoint:  cfg.S3Endpoint,
		S3Region:    cfg.S3Region,
		S3AccessKey: cfg.S3AccessKey,
		S3SecretKey: cfg.S3SecretKey,
		S3Bucket:    cfg.S3Bucket,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create export storage")
	}

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	restrictionRepo := restriction.NewRepository(db)
	leadRepo := lead.NewRepository(db)
	exportRepo := export.NewRepository(db)

	// ---------- Event hub ----------
	hub := notify.NewHub(redis)
	go hub.Run()

	// ---------- Engine ----------
	hierarchy := authz.NewHierarchy(userRepo)
	restrictionService := restriction.NewService(restrictionRepo, userRepo, hub)
	resolver := authz.NewResolver(userRepo, restrictionService)

	// ---------- Services ----------
	userService := user.NewService(userRepo, hierarchy)
	authService := auth.NewService(userRepo, jwtService, auth.NewRedisTokenStore(redis))
	leadService := lead.NewService(leadRepo, resolver, hub)
	exportService := export.NewService(exportRepo, leadService, exportStorage, redis)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	authzHandler := authz.NewHandler(resolver)
	restrictionHandler := restriction.NewHandler(restrictionService)
	leadHandler := lead.NewHandler(leadService)
	webhookHandler := lead.NewWebhookHandler(leadService, map[leadgen.Provider]string{
		leadgen.ProviderMeta:   cfg.MetaWebhookSecret,
		leadgen.ProviderGoogle: cfg.GoogleWebhookSecret,
	})
	exportHandler := export.NewHandler(exportService)
	notifyHandler := notify.NewHandler(hub, cfg.AllowedOrigins)

	authMiddleware := middleware.Auth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint (token via query for browser clients)
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		authMiddleware(http.HandlerFunc(notifyHandler.WebSocket)).ServeHTTP(w, r)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]interface{}{
			"status":      "ok",
			"version":     "1.0.0",
			"connections": hub.ConnectionCount(),
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes())
		r.Mount("/users", userHandler.Routes(
			authMiddleware,
			authz.RequireFeature(authz.FeatureUserManagement),
			authzHandler.Assignable,
		))
		r.Mount("/permissions", authzHandler.Routes(authMiddleware))
		r.Mount("/restrictions", restrictionHandler.Routes(authMiddleware))
		r.Mount("/leads", leadHandler.Routes(
			authMiddleware,
			authz.RequireFeature(authz.FeatureLeads),
			authz.RequireFeature(authz.FeatureExports),
		))
		r.Mount("/exports", exportHandler.Routes(authMiddleware, authz.RequireFeature(authz.FeatureExports)))
	})

	r.Mount("/webhooks/leads", webhookHandler.Routes())

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	hub.Shutdown()
	log.Info().Msg("Server exited properly")
}
