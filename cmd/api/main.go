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

	"github.com/promptgen/promptgen-api/internal/config"
	"github.com/promptgen/promptgen-api/internal/domain/admin"
	"github.com/promptgen/promptgen-api/internal/domain/affiliate"
	"github.com/promptgen/promptgen-api/internal/domain/auth"
	"github.com/promptgen/promptgen-api/internal/domain/content"
	"github.com/promptgen/promptgen-api/internal/domain/credit"
	"github.com/promptgen/promptgen-api/internal/domain/generation"
	"github.com/promptgen/promptgen-api/internal/domain/payment"
	"github.com/promptgen/promptgen-api/internal/domain/referral"
	"github.com/promptgen/promptgen-api/internal/domain/session"
	"github.com/promptgen/promptgen-api/internal/domain/user"
	"github.com/promptgen/promptgen-api/internal/middleware"
	"github.com/promptgen/promptgen-api/internal/pkg/database"
	"github.com/promptgen/promptgen-api/internal/pkg/gemini"
	"github.com/promptgen/promptgen-api/internal/pkg/imaging"
	"github.com/promptgen/promptgen-api/internal/pkg/jwt"
	"github.com/promptgen/promptgen-api/internal/pkg/logger"
	"github.com/promptgen/promptgen-api/internal/pkg/pix"
	pkgresponse "github.com/promptgen/promptgen-api/internal/pkg/response"
	"github.com/promptgen/promptgen-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
	})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting PromptGen API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redisClient)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	mediaStorage, err := storage.NewR2Storage(storage.R2Config{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		AccessKeySecret: cfg.R2AccessKeySecret,
		BucketName:      cfg.R2BucketName,
		PublicURL:       cfg.R2PublicURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create R2 storage")
	}

	geminiClient := gemini.NewClient(gemini.Config{
		BaseURL: cfg.GeminiBaseURL,
		APIKey:  cfg.GeminiAPIKey,
	})

	// Charges stay pending until the webhook fires unless the sandbox
	// auto-confirm delay is enabled.
	confirmAfter := cfg.PixConfirmAfter
	if !cfg.PixSandbox {
		confirmAfter = 0
	}
	pixProvider := pix.NewSandbox(confirmAfter)

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	creditRepo := credit.NewRepository(db)
	paymentRepo := payment.NewRepository(db)
	affiliateRepo := affiliate.NewRepository(db)

	// ---------- Services ----------
	creditService := credit.NewService(creditRepo)
	sessionStore := session.NewStore(session.NewRedisCache(redisClient), creditService, userRepo)
	referralStore := referral.NewStore(referral.NewRedisBackend(redisClient), cfg.ReferralTTL)
	contentStore := content.NewStore(redisClient)

	authService := auth.NewService(userRepo, jwtService, redisClient, creditService, sessionStore, referralStore, cfg.WelcomeCredits)
	affiliateService := affiliate.NewService(affiliateRepo, userRepo, cfg.DefaultCommissionRate)
	paymentService := payment.NewService(paymentRepo, pixProvider, sessionStore, affiliateService, payment.Config{
		PixKey:       cfg.PixKey,
		MerchantName: cfg.PixMerchantName,
		MerchantCity: cfg.PixMerchantCity,
	})
	generationService := generation.NewService(
		sessionStore,
		geminiClient,
		mediaStorage,
		imaging.NewNormalizer(imaging.DefaultConfig()),
		generation.DefaultModels(),
	)
	adminService := admin.NewService(userRepo, sessionStore, affiliateService, contentStore, cfg.DefaultCommissionRate)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	creditHandler := credit.NewHandler(creditService)
	paymentPoller := payment.NewStatusPoller(paymentService, payment.DefaultPollInterval)
	paymentHandler := payment.NewHandler(paymentService, paymentPoller, cfg.AllowedOrigins)
	affiliateHandler := affiliate.NewHandler(affiliateService)
	generationHandler := generation.NewHandler(generationService)
	referralHandler := referral.NewHandler(referralStore, cfg.ReferralTTL, cfg.IsProduction())
	contentHandler := content.NewHandler(contentStore)
	adminHandler := admin.NewHandler(adminService)

	authMiddleware := middleware.Auth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/credits", creditHandler.Routes(authMiddleware))
		r.Mount("/payments", paymentHandler.Routes(authMiddleware))
		r.Mount("/affiliate", affiliateHandler.Routes(authMiddleware, middleware.RequireAffiliate()))
		r.Mount("/generate", generationHandler.Routes(authMiddleware))
		r.Mount("/referral", referralHandler.Routes())
		r.Mount("/content", contentHandler.Routes())
		r.Mount("/admin", adminHandler.Routes(authMiddleware, middleware.RequireAdmin()))
	})

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

	log.Info().Msg("Server exited properly")
}
