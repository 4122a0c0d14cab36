package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agreementlog/agreement-log-api/internal/api"
	"github.com/agreementlog/agreement-log-api/internal/core/ports"
	"github.com/agreementlog/agreement-log-api/internal/infrastructure/config"
	mongodb "github.com/agreementlog/agreement-log-api/internal/infrastructure/db/mongo"
	redisdb "github.com/agreementlog/agreement-log-api/internal/infrastructure/db/redis"
	"github.com/agreementlog/agreement-log-api/internal/infrastructure/mail"
	"github.com/agreementlog/agreement-log-api/internal/infrastructure/queue"
	"github.com/agreementlog/agreement-log-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title           Agreement Log API
// @version         1.0
// @description     Records agreements by content fingerprint, collects countersignatures and anchors them on a ledger.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.Init(logger.Options{
		Level:  os.Getenv("LOG_LEVEL"),
		Pretty: os.Getenv("ENV") == "development",
	})

	cfg, err := config.Load(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("configuration load failed")
	}

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	if err := mongodb.NewAgreementRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("agreement index creation failed")
	}
	if err := mongodb.NewAuthRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}

	var mailer ports.Mailer
	if cfg.SMTP.Host != "" {
		mailer, err = mail.NewSMTPMailer(mail.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("smtp mailer setup failed")
		}
	} else {
		mailer = mail.NewLogMailer(log)
	}

	dispatcher := queue.NewMailDispatcher(cfg.MailWorkers, mailer, log)
	dispatcher.Start(ctx)

	e, err := api.NewRouter(cfg, db, rdb, dispatcher, log)
	if err != nil {
		log.Fatal().Err(err).Msg("router setup failed")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting http server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
	log.Info().Msg("server stopped")
}
