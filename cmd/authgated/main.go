// Command authgated runs the authentication service: it wires a storage
// backend, a mail sender and the engine together and serves the HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/authgate/authgate"
	"github.com/authgate/authgate/httpapi"
	"github.com/authgate/authgate/mailer"
	"github.com/authgate/authgate/pgstore"
	"github.com/authgate/authgate/redisstore"
)

type appConfig struct {
	HTTPAddr       string        `env:"HTTP_ADDR" envDefault:":8000"`
	SecretKey      string        `env:"SECRET_KEY,required"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"60m"`
	OTPTTL         time.Duration `env:"OTP_TTL" envDefault:"10m"`
	OTPDigits      int           `env:"OTP_DIGITS" envDefault:"6"`

	StoreBackend string `env:"STORE_BACKEND" envDefault:"postgres"`
	DatabaseURL  string `env:"DATABASE_URL"`
	RedisAddr    string `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	EmailDriver string `env:"EMAIL_DRIVER" envDefault:"log"`
	Mailer      mailer.Config

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	if err := run(log); err != nil {
		log.Error("fatal", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	// Missing .env is fine; the environment may be set by the platform.
	_ = godotenv.Load()

	var cfg appConfig
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	sender, err := buildMailer(cfg, log)
	if err != nil {
		return err
	}

	engineCfg := authgate.DefaultConfig()
	engineCfg.JWT.Secret = []byte(cfg.SecretKey)
	engineCfg.JWT.AccessTTL = cfg.AccessTokenTTL
	engineCfg.OTP.TTL = cfg.OTPTTL
	engineCfg.OTP.Digits = cfg.OTPDigits

	engine, err := authgate.New().
		WithConfig(engineCfg).
		WithStore(store).
		WithMailer(sender).
		WithAuditSink(authgate.NewJSONWriterSink(os.Stdout)).
		Build()
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}
	defer engine.Close()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.New(engine, log).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", slog.String("addr", cfg.HTTPAddr), slog.String("store", cfg.StoreBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

func buildStore(ctx context.Context, cfg appConfig) (authgate.AccountStore, func(), error) {
	switch cfg.StoreBackend {
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, nil, fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		if err := pgstore.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return pgstore.New(pool), pool.Close, nil

	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		return redisstore.New(rdb, ""), func() { _ = rdb.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}

func buildMailer(cfg appConfig, log *slog.Logger) (authgate.Mailer, error) {
	switch cfg.EmailDriver {
	case "postmark":
		return mailer.NewPostmark(cfg.Mailer)
	case "log":
		return mailer.NewLogSender(log), nil
	default:
		return nil, fmt.Errorf("unknown EMAIL_DRIVER %q", cfg.EmailDriver)
	}
}
