package main

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"merchant-connect.backend/internal/config"
	"merchant-connect.backend/internal/infrastructure/datasources"
	"merchant-connect.backend/internal/infrastructure/gateway"
	"merchant-connect.backend/internal/infrastructure/repositories"
	"merchant-connect.backend/internal/interfaces/http/handlers"
	"merchant-connect.backend/internal/interfaces/http/middleware"
	"merchant-connect.backend/internal/interfaces/http/templates"
	"merchant-connect.backend/internal/usecases"
	"merchant-connect.backend/pkg/crypto"
	"merchant-connect.backend/pkg/logger"
	"merchant-connect.backend/pkg/redis"
)

const (
	version         = "0.1.0"
	shutdownTimeout = 10 * time.Second
)

var (
	loadDotenv        = godotenv.Load
	loadCfg           = config.Load
	initLog           = logger.Init
	initRedis         = redis.Init
	openDB            = datasources.Open
	loadTemplates     = templates.Load
	newTokenCipher    = buildTokenCipher
	newGatewayFactory = gateway.NewClientFactory
	runServer         = serve
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	defer logger.Sync()
	ctx := context.Background()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	// Redis only backs Idempotency-Key replay
	if cfg.Redis.Enabled() {
		if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
			logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		defer redis.Close()
		logger.Info(ctx, "Redis initialized")
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()
	logger.Info(ctx, "Database ready", zap.String("driver", cfg.Database.Driver()))

	cipher, err := newTokenCipher(cfg.Security)
	if err != nil {
		return fmt.Errorf("failed to initialize token cipher: %w", err)
	}
	vault := usecases.NewTokenVault(cipher)

	gateways, err := newGatewayFactory(cfg.Gateway)
	if err != nil {
		return fmt.Errorf("failed to initialize gateway client: %w", err)
	}
	logger.Info(ctx, "Gateway configured",
		zap.String("environment", cfg.Gateway.Environment),
		zap.String("base_url", gateways.BaseURL()),
	)

	tmpl, err := loadTemplates()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	// Repositories and usecases
	merchantRepo := repositories.NewMerchantRepository(db)
	merchantUsecase := usecases.NewMerchantUsecase(merchantRepo, gateways, vault, cfg.Gateway.RedirectURI)
	oauthUsecase := usecases.NewOAuthUsecase(merchantRepo, gateways, vault)
	transactionUsecase := usecases.NewTransactionUsecase(merchantRepo, gateways, vault)

	r := newRouter(cfg, tmpl, routeDeps{
		homeHandler:        handlers.NewHomeHandler(),
		merchantHandler:    handlers.NewMerchantHandler(merchantUsecase),
		transactionHandler: handlers.NewTransactionHandler(transactionUsecase),
		oauthHandler:       handlers.NewOAuthHandler(oauthUsecase),
		healthHandler:      handlers.NewHealthHandler(version, sqlDB.PingContext),
	})

	logger.Info(ctx, "Merchant connect server starting",
		zap.String("port", cfg.Server.Port),
		zap.Int("routes", len(r.Routes())),
	)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func buildTokenCipher(cfg config.SecurityConfig) (*crypto.TokenCipher, error) {
	ring, err := crypto.ParseKeyRing(cfg.TokenKeys)
	if err != nil {
		return nil, err
	}
	return crypto.NewTokenCipher(ring, cfg.LegacyTokenKey)
}

func newRouter(cfg *config.Config, tmpl *template.Template, d routeDeps) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	if cfg.BasicAuth.Enabled() {
		r.Use(middleware.BasicAuthMiddleware(cfg.BasicAuth.Username, cfg.BasicAuth.Password, "/health", "/callback"))
	}

	registerHealthRoute(r, d.healthHandler)
	registerRoutes(r, d)
	return r
}

// serve runs until SIGINT or SIGTERM, then drains in-flight requests
func serve(r *gin.Engine, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logger.Info(context.Background(), "Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
