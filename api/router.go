// Package api wires configuration, storage, services and background
// workers into the HTTP router
package api

import (
	"automarket/db"
	"automarket/internal"
	"automarket/internal/repository"
	"automarket/internal/service"
	"automarket/pkg/security"
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type API struct {
	Router *gin.Engine
	Deps   *internal.Deps

	closers []func()
}

// NewRouter builds everything from the loaded configuration. Background
// workers run until ctx is cancelled and Close is called
func NewRouter(ctx context.Context) (*API, error) {
	makeLogger(viper.GetString("app.log_level"))

	a := &API{}

	gdb, err := db.New(viper.GetString("db.driver"), viper.GetString("db.dsn"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	store := repository.New(gdb)

	var rdb *redis.Client
	if addr := viper.GetString("redis.addr"); addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		})

		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis, %w", err)
		}

		a.closers = append(a.closers, func() { rdb.Close() })
		zap.L().Debug("Connected to redis", zap.String("addr", addr))
	}

	notifier, err := a.newNotifier(ctx, store)
	if err != nil {
		return nil, err
	}

	tokens := security.NewTokenManager(
		viper.GetString("jwt.secret"),
		viper.GetString("jwt.issuer"),
		viper.GetDuration("jwt.access_ttl"),
		viper.GetDuration("jwt.refresh_ttl"),
	)

	paging := service.Paging{
		DefaultSize: viper.GetInt("pagination.page_size"),
		MaxSize:     viper.GetInt("pagination.max_page_size"),
	}

	users := service.NewUserService(store, security.NewArgon(), tokens, notifier, viper.GetDuration("verification.ttl")).
		WithResendLimit(viper.GetDuration("verification.resend_cooldown"), viper.GetInt("verification.resend_daily_limit"))

	a.Deps = &internal.Deps{
		DB:        gdb,
		Users:     users,
		Listings:  service.NewListingService(store, paging),
		Favorites: service.NewFavoriteService(store, paging),
		Reference: service.NewReferenceService(store),
	}

	cacheTTL := viper.GetDuration("cache.ttl")
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	a.Router = NewEngine(ctx, a.Deps, EngineConfig{
		CORSOrigins:      viper.GetStringSlice("host.cors_origins"),
		RateLimit:        viper.GetInt("security.rate_limit"),
		BodyLimit:        viper.GetInt64("security.body_limit"),
		CacheTTL:         cacheTTL,
		Redis:            rdb,
		TurnstileEnabled: viper.GetBool("security.turnstile_enabled"),
		TurnstileSecret:  viper.GetString("security.turnstile_secret"),
	})

	// Codes live for days, a daily sweep is enough
	go service.VerificationCleanup(ctx, viper.GetDuration("cleanup.interval"), store.Verifications, time.Now)
	go service.AccountCleanup(ctx, viper.GetDuration("cleanup.interval"), viper.GetDuration("cleanup.unverified_max_age"), store.Users, time.Now)

	return a, nil
}

// newNotifier picks the verification email queue from queue.driver
func (a *API) newNotifier(ctx context.Context, store *repository.Store) (service.Notifier, error) {
	var mailer service.Mailer = service.LogMailer{}
	if host := viper.GetString("mail.host"); host != "" {
		mailer = service.NewSMTPMailer(
			host,
			viper.GetInt("mail.port"),
			viper.GetString("mail.username"),
			viper.GetString("mail.password"),
			viper.GetString("mail.sender"),
		)
	}

	mail := service.NewVerificationMail(store.Verifications, mailer, viper.GetString("verification.link_base"))
	workers := viper.GetInt("queue.workers")

	if viper.GetString("queue.driver") == "redis" {
		q := service.NewAsynqQueue(asynq.RedisClientOpt{
			Addr:     viper.GetString("redis.addr"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		}, workers, mail.Handle)

		if err := q.Start(); err != nil {
			return nil, fmt.Errorf("failed to start asynq server, %w", err)
		}

		a.closers = append(a.closers, q.Close)
		return q, nil
	}

	pool := service.NewWorkerPool(workers, viper.GetInt("queue.size"), mail.Handle)
	pool.StartWorkerPool(ctx)

	a.closers = append(a.closers, pool.Close)
	return pool, nil
}

// Close stops the queues and closes the connections opened by NewRouter
func (a *API) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}

	if a.Deps != nil {
		if sqlDB, err := a.Deps.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}
