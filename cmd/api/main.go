package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/baharkarakas/hearthcloud/internal/api"
	"github.com/baharkarakas/hearthcloud/internal/auth"
	"github.com/baharkarakas/hearthcloud/internal/cache"
	"github.com/baharkarakas/hearthcloud/internal/config"
	"github.com/baharkarakas/hearthcloud/internal/db"
	"github.com/baharkarakas/hearthcloud/internal/events"
	"github.com/baharkarakas/hearthcloud/internal/logger"
	"github.com/baharkarakas/hearthcloud/internal/metrics"
	"github.com/baharkarakas/hearthcloud/internal/middleware"
	"github.com/baharkarakas/hearthcloud/internal/repository/postgres"
	"github.com/baharkarakas/hearthcloud/internal/scheduler"
	"github.com/baharkarakas/hearthcloud/internal/services"
	"github.com/baharkarakas/hearthcloud/internal/session"
	"github.com/baharkarakas/hearthcloud/internal/worker"
)

const cookieIssuer = "hearthcloud"

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Env, middleware.RequestIDAttr)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Migrate {
		if err := db.RunMigrations(ctx, pool, log); err != nil {
			return err
		}
	}

	checks := api.Checks{"postgres": pool.Ping}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return err
		}
		rdb = redis.NewClient(opts)
		defer rdb.Close()
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	var queryCache cache.Cache[[]byte]
	switch cfg.QueryCache {
	case "memory":
		queryCache = cache.NewMemory[[]byte]()
	case "redis":
		queryCache = cache.NewRedis[[]byte](rdb, "qc")
	}
	if queryCache != nil {
		defer queryCache.Close()
	}
	exec := db.NewExecutor(pool, queryCache, cfg.QueryCacheTTL)
	repos := postgres.NewRepositories(exec)

	var store session.Store = session.NewMemoryStore()
	if cfg.SessionStore == "redis" {
		store = session.NewRedisStore(rdb)
	}
	signer := auth.NewCookieSigner(cfg.SessionSecret, cookieIssuer)
	sessions := session.NewManager(store, signer, cfg.SessionCookie, cfg.SessionSecure)

	var pub events.Publisher = events.LogPublisher{Log: log}
	if cfg.AMQPURL != "" {
		ap, err := events.NewAMQPPublisher(cfg.AMQPURL)
		if err != nil {
			return err
		}
		defer ap.Close()
		pub = ap
	}

	// stopped before the publisher closes so queued events drain
	wp := worker.NewPool(cfg.Workers)
	defer wp.Stop()
	emitter := events.NewDispatcher(pub, wp, log)

	hasher := auth.NewHasher()
	authSvc := services.NewAuthService(repos.Users, hasher)
	forumSvc := services.NewForumService(repos.Forums, repos.Posts, repos.Comments, emitter)
	postSvc := services.NewPostService(repos.Forums, repos.Posts, repos.Comments, emitter)
	userSvc := services.NewUserService(repos.Users, hasher, emitter)

	sched := scheduler.New(ctx, log)
	if err := sched.Every("query-cache-sweep", exec.TTL(), exec.Sweep); err != nil {
		return err
	}
	if err := sched.Every("session-purge", time.Hour, store.PurgeExpired); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	metrics.Init()
	r := api.NewRouter(api.RouterDeps{
		Cfg:      cfg,
		Sessions: sessions,
		AuthSvc:  authSvc,
		ForumSvc: forumSvc,
		PostSvc:  postSvc,
		UserSvc:  userSvc,
		Checks:   checks,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
