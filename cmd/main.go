package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	grpcctx "github.com/dtroode/quidalert-auth/internal/api/grpc/context"
	"github.com/dtroode/quidalert-auth/internal/api/grpc/router"
	grpcServer "github.com/dtroode/quidalert-auth/internal/api/grpc/server"
	httpapi "github.com/dtroode/quidalert-auth/internal/api/http"
	"github.com/dtroode/quidalert-auth/internal/config"
	"github.com/dtroode/quidalert-auth/internal/dispatch"
	"github.com/dtroode/quidalert-auth/internal/events"
	"github.com/dtroode/quidalert-auth/internal/logger"
	"github.com/dtroode/quidalert-auth/internal/mail"
	"github.com/dtroode/quidalert-auth/internal/model"
	"github.com/dtroode/quidalert-auth/internal/otp"
	"github.com/dtroode/quidalert-auth/internal/repository/postgres"
	"github.com/dtroode/quidalert-auth/internal/repository/redis"
	"github.com/dtroode/quidalert-auth/internal/security"
	"github.com/dtroode/quidalert-auth/internal/server"
	"github.com/dtroode/quidalert-auth/internal/service"
	storage "github.com/dtroode/quidalert-auth/internal/storage/minio"
	"github.com/dtroode/quidalert-auth/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const shutdownTimeout = 10 * time.Second

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()
	readiness := map[string]httpapi.Pinger{"postgres": db}

	throttle := newThrottle(ctx, cfg, logger, readiness)
	publisher, closePublisher := newPublisher(cfg, logger)
	defer closePublisher()

	documents := newDocumentStore(ctx, cfg, logger)

	dispatcher := dispatch.NewDispatcher(dispatch.Config{
		Workers:     cfg.Dispatch.Workers,
		BufferSize:  cfg.Dispatch.BufferSize,
		TaskTimeout: cfg.Dispatch.TaskTimeout,
	}, logger)
	defer dispatcher.Close()

	keys := security.Peppers{
		Email:   cfg.Secrets.EmailPepper,
		Code:    cfg.Secrets.OTPPepper,
		Refresh: cfg.Secrets.RefreshPepper,
	}
	tx := postgres.NewTransactor(db)

	tokenService := service.NewTokenService(service.TokenConfig{
		AccessTTL:    cfg.Auth.AccessTTL,
		RefreshTTL:   cfg.Auth.RefreshTTL,
		LoginTTL:     cfg.Auth.LoginTokenTTL,
		SessionLimit: cfg.Auth.SessionLimit,
	}, service.TokenDeps{
		Tx:         tx,
		Manager:    token.NewJWT(cfg.Secrets.JWTKey),
		Keys:       keys,
		Events:     publisher,
		Dispatcher: dispatcher,
		Logger:     logger,
		Now:        time.Now,
	})

	authService := service.NewAuth(service.AuthConfig{
		ActivationTTL:  cfg.Auth.ActivationTTL,
		NoticeCooldown: cfg.Auth.MailCooldown,
		AdminPass:      cfg.Secrets.AdminPass,
	}, service.AuthDeps{
		Tx:        tx,
		Tokens:    tokenService,
		Passwords: security.NewHasher(cfg.Auth.BcryptCost),
		Keys:      keys,
		ResetCodes: otp.NewManager(otp.Policy{
			Digits:      10,
			TTL:         cfg.Auth.ResetCodeTTL,
			MaxAttempts: cfg.Auth.MaxAttempts,
			LockFor:     cfg.Auth.ResetLock,
			Cooldown:    cfg.Auth.MailCooldown,
		}, keys),
		LoginCodes: otp.NewManager(otp.Policy{
			Digits:      6,
			TTL:         cfg.Auth.LoginCodeTTL,
			MaxAttempts: cfg.Auth.MaxAttempts,
			LockFor:     cfg.Auth.LoginLock,
			Cooldown:    cfg.Auth.MailCooldown,
		}, keys),
		Composer:   mail.NewComposer(cfg.HTTP.PublicURL),
		Mailer:     newMailer(cfg, logger),
		Events:     publisher,
		Dispatcher: dispatcher,
		Policy:     service.NewPolicy(throttle, logger),
		Logger:     logger,
		Now:        time.Now,
	})

	terms := service.NewTerms(documents, logger)
	if err := terms.Seed(ctx); err != nil {
		logger.Warn("failed to seed terms documents", "error", err)
	}

	handler := httpapi.NewHandler(authService, tokenService, service.NewUsers(tx, logger), terms, logger)
	httpRouter := httpapi.NewRouter(httpapi.RouterConfig{MaxBodyBytes: cfg.HTTP.MaxBodyBytes}, handler, httpapi.NewHealth(readiness), logger)
	httpSrv := httpapi.NewServer(httpRouter, fmt.Sprintf(":%s", cfg.HTTP.Port))

	grpcRouter := router.New(tokenService, grpcctx.NewManager(), logger)
	grpcSrv := grpcServer.NewGRPCServer(grpcRouter.Register(), fmt.Sprintf(":%s", cfg.GRPC.Port))

	servers := []struct {
		server model.Server
		layer  model.SecurityLayer
	}{
		{httpSrv, server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName, server.ProtosHTTP)},
		{grpcSrv, server.NewSecurityLayer(cfg.GRPC.EnableHTTPS, cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName, server.ProtosGRPC)},
	}

	var wg sync.WaitGroup
	for _, s := range servers {
		wg.Add(1)
		go func(s model.Server, sl model.SecurityLayer) {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				logger.Error("failed to start server", "error", err, "address", s.Address())
				stop()
			}
		}(s.server, s.layer)
	}

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")
	grpcRouter.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	for _, s := range servers {
		if err := s.server.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", s.server.Address())
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

// newThrottle connects to Redis. Without it requests are not throttled.
func newThrottle(ctx context.Context, cfg *config.Config, logger *logger.Logger, readiness map[string]httpapi.Pinger) model.Throttle {
	if !cfg.Redis.Enabled {
		logger.Warn("redis disabled, request throttling is off")
		return nil
	}

	client, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Warn("redis unavailable, request throttling is off", "error", err)
		return nil
	}
	readiness["redis"] = pingerFunc(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})

	return redis.NewThrottle(client, map[string]redis.Rule{
		model.ScopeReset: {Limit: int64(cfg.Auth.ResetRateLimit), Window: cfg.Auth.ResetWindow},
		model.ScopeLogin: {Limit: int64(cfg.Auth.LoginRateLimit), Window: cfg.Auth.LoginWindow},
	})
}

// newPublisher returns a Kafka publisher when brokers are configured.
func newPublisher(cfg *config.Config, logger *logger.Logger) (model.EventPublisher, func()) {
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Info("kafka brokers not configured, security events are not published")
		return events.NoopPublisher{}, func() {}
	}

	publisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logger.Error("failed to close event publisher", "error", err)
		}
	}
}

// newDocumentStore connects to MinIO. Terms fall back to the embedded copies
// when it is unreachable.
func newDocumentStore(ctx context.Context, cfg *config.Config, logger *logger.Logger) model.DocumentStore {
	store, err := storage.Connect(ctx, storage.Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Warn("object storage unavailable, serving embedded terms", "error", err)
		return nil
	}
	return store
}

// newMailer sends through SMTP behind a circuit breaker, or logs mail when
// no SMTP host is configured.
func newMailer(cfg *config.Config, logger *logger.Logger) model.Mailer {
	if cfg.SMTP.Host == "" {
		logger.Warn("smtp host not configured, mail is logged instead of sent")
		return mail.NewLogSender(logger)
	}

	sender := mail.NewSMTPSender(mail.SMTPConfig{
		Host:       cfg.SMTP.Host,
		Port:       cfg.SMTP.Port,
		Username:   cfg.SMTP.Username,
		Password:   cfg.SMTP.Password,
		From:       cfg.SMTP.From,
		RequireTLS: cfg.SMTP.RequireTLS,
	})
	return mail.NewBreakerMailer(sender, mail.DefaultBreakerConfig(), logger)
}
