package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/zirvehikayem/blog-api/src/cache"
	"github.com/zirvehikayem/blog-api/src/config"
	"github.com/zirvehikayem/blog-api/src/database"
	"github.com/zirvehikayem/blog-api/src/handlers"
	"github.com/zirvehikayem/blog-api/src/logging"
	"github.com/zirvehikayem/blog-api/src/middleware"
	"github.com/zirvehikayem/blog-api/src/repositories"
	"github.com/zirvehikayem/blog-api/src/services"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize structured logging
	logging.Setup(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info().
		Int("port", cfg.Port).
		Str("log_level", cfg.LogLevel).
		Str("storage", cfg.StorageDriver).
		Msg("starting server")

	site, err := config.LoadSite(cfg.SiteConfigPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load site config")
	}

	// Identities: site file plus an optional admin from the environment
	identities := site.Admins
	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		admin, err := services.NewIdentity(cfg.AdminUsername, cfg.AdminPassword, cfg.AdminEmail, cfg.AdminDisplayName, bcrypt.DefaultCost)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid ADMIN_USERNAME/ADMIN_PASSWORD")
		}
		identities = append(identities, admin)
	}
	credentials, err := services.NewCredentialStore(identities)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build credential store")
	}
	if credentials.Len() == 0 {
		log.Warn().Msg("no admin identities configured - sign-in is disabled")
	}

	tokens, err := services.NewTokenService(cfg.JWTSecret, credentials)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize token service")
	}
	if cfg.JWTSecretGenerated {
		log.Warn().Msg("JWT_SECRET not set - using a per-process secret, tokens will not survive a restart")
	}
	gate := services.NewAuthGate(tokens)

	// Initialize document store
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := database.Open(ctx, database.Config{
		Driver:        cfg.StorageDriver,
		MongoURL:      cfg.MongoURL,
		MongoDatabase: cfg.MongoDatabase,
		PostgresURL:   cfg.DatabaseURL,
	})
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize document store")
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to close document store")
		}
	}()
	log.Info().Str("driver", cfg.StorageDriver).Msg("document store connected")

	// Optional read cache
	var readCache cache.Cache = cache.Noop{}
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err := cache.Connect(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable - caching disabled")
		} else {
			redisCache := cache.NewRedisCache(client, "zirvehikayem", cfg.CacheTTL)
			defer redisCache.Close()
			readCache = redisCache
			log.Info().Dur("ttl", cfg.CacheTTL).Msg("redis cache enabled")
		}
	}

	// Initialize encryption (optional - empty key disables)
	encryptor, err := services.NewEncryptor(cfg.EncryptionKey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize encryption")
	}
	if encryptor != nil {
		log.Info().Msg("contact message encryption enabled (AES-256-GCM)")
	} else {
		log.Info().Msg("contact message encryption disabled (ENCRYPTION_KEY not set)")
	}

	// Contact notifications
	var notifier services.ContactNotifier
	if cfg.MailgunAPIKey != "" && cfg.MailgunDomain != "" && cfg.ContactNotifyEmail != "" {
		notifier = services.NewEmailService(services.EmailConfig{
			Domain:    cfg.MailgunDomain,
			APIKey:    cfg.MailgunAPIKey,
			FromEmail: cfg.MailgunFromEmail,
			FromName:  cfg.MailgunFromName,
			NotifyTo:  cfg.ContactNotifyEmail,
			Location:  site.Location(),
		})
		log.Info().Str("domain", cfg.MailgunDomain).Msg("Mailgun contact notifications enabled")
	} else {
		log.Warn().Msg("Mailgun not configured - contact notifications disabled")
	}

	// Initialize Analytics Service
	analyticsService, err := services.NewAnalyticsService(services.AnalyticsConfig{
		PostHogAPIKey: cfg.PostHogAPIKey,
		PostHogHost:   cfg.PostHogHost,
		Enabled:       cfg.PostHogEnabled,
		Environment:   cfg.Environment,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize analytics service")
	}
	defer analyticsService.Close()

	// Content services
	postService := services.NewPostService(repositories.NewPostStore(store), services.PostServiceConfig{
		Author:             site.Settings.Author,
		AllCategoriesLabel: site.Settings.AllCategoriesLabel,
		Location:           site.Location(),
	}, readCache, analyticsService)
	contactService := services.NewContactService(repositories.NewMessageStore(store), encryptor, notifier, analyticsService)
	aboutService := services.NewAboutService(repositories.NewAboutStore(store), site.About, readCache)

	// Create Gin router
	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Ctx(c.Request.Context()).Error().Interface("panic", recovered).Msg("panic recovered")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server_error", "detail": "Internal server error"})
	}))
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	handlers.RegisterRoutes(router, handlers.Handlers{
		Auth:    handlers.NewAuthHandler(credentials, tokens, analyticsService),
		Posts:   handlers.NewPostHandler(postService),
		Contact: handlers.NewContactHandler(contactService),
		About:   handlers.NewAboutHandler(aboutService),
		Health:  handlers.NewHealthHandler(store, cfg.StorageDriver),
	}, gate)

	// Create HTTP server with timeouts (G112: protect from Slowloris attack)
	srv := &http.Server{
		Addr:              ":" + formatPort(cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Int("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	// Graceful shutdown with timeout
	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	contactService.Wait()

	log.Info().Msg("server shut down successfully")
}

// corsConfig allows the configured origins; "*" allows any origin
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	// bearer tokens travel in a header, but the admin UI may send cookies
	cfg.AllowCredentials = true
	return cfg
}

func formatPort(port int) string {
	return fmt.Sprintf("%d", port)
}

