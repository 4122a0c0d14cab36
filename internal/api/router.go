package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/agreementlog/agreement-log-api/internal/api/handler"
	"github.com/agreementlog/agreement-log-api/internal/api/middleware"
	"github.com/agreementlog/agreement-log-api/internal/core/service"
	"github.com/agreementlog/agreement-log-api/internal/infrastructure/config"
	"github.com/agreementlog/agreement-log-api/internal/infrastructure/crypto"
	mongodb "github.com/agreementlog/agreement-log-api/internal/infrastructure/db/mongo"
	redisdb "github.com/agreementlog/agreement-log-api/internal/infrastructure/db/redis"
	"github.com/agreementlog/agreement-log-api/internal/infrastructure/relay"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	cfg *config.Config,
	db *mongo.Database,
	rdb *redis.Client,
	mailSender service.ResetMailSender,
	log zerolog.Logger,
) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("agreementlog"))

	// Fixed origin allow list: the gate rejects foreign origins with 403
	// before the body is processed; the CORS middleware below only emits the
	// response headers for the listed origins.
	e.Use(middleware.OriginAllowList(cfg.AllowedOrigins))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{echo.GET, echo.POST, echo.OPTIONS},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	// --- Dependencies ---
	cipher, err := crypto.NewAESCipher(cfg.EncryptionKey)
	if err != nil {
		return nil, err
	}

	agreementRepo := mongodb.NewAgreementRepository(db)
	authRepo := mongodb.NewAuthRepository(db)
	relayClient := relay.NewClient(cfg.Relay.URL, cfg.Relay.Timeout)
	relayGuard := redisdb.NewRelayGuard(rdb)

	agreementService := service.NewAgreementService(agreementRepo, cipher, log)
	countersignService := service.NewCountersignService(agreementRepo, relayClient, relayGuard, cipher, log)
	authService := service.NewAuthService(authRepo, mailSender, cfg.JWTSecret, 24*time.Hour, cfg.ResetTokenTTL, cfg.ResetBaseURL, log)

	agreementHandler := handler.NewAgreementHandler(agreementService)
	countersignHandler := handler.NewCountersignHandler(countersignService)
	authHandler := handler.NewAuthHandler(authService)
	authMiddleware := middleware.Auth(cfg.JWTSecret)

	// --- Auth routes ---
	e.POST("/v1/auth/register", authHandler.Register)
	e.POST("/v1/auth/login", authHandler.Login)
	e.POST("/v1/auth/password-reset", authHandler.RequestPasswordReset)
	e.POST("/v1/auth/password-reset/complete", authHandler.CompletePasswordReset)

	// --- Agreement routes ---
	e.POST("/v1/agreements", agreementHandler.Create, authMiddleware)
	e.GET("/v1/agreements", agreementHandler.List, authMiddleware)
	e.POST("/v1/agreements/delete", agreementHandler.Delete, authMiddleware)
	e.POST("/v1/agreements/receipt", agreementHandler.Receipt, authMiddleware)

	// Countersigner-facing routes: the second party only holds the
	// fingerprint, no account.
	e.POST("/v1/agreements/lookup", agreementHandler.Lookup)
	e.POST("/v1/agreements/countersign", countersignHandler.Countersign)

	// --- Health probes and operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}
