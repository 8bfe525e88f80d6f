package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/JRomainG/TGVMaxBot/internal/backend"
	"github.com/JRomainG/TGVMaxBot/internal/config"
	"github.com/JRomainG/TGVMaxBot/internal/domain"
	"github.com/JRomainG/TGVMaxBot/internal/httpserver"
	"github.com/JRomainG/TGVMaxBot/internal/httpserver/deps"
	"github.com/JRomainG/TGVMaxBot/internal/index"
	"github.com/JRomainG/TGVMaxBot/internal/ledger"
	"github.com/JRomainG/TGVMaxBot/internal/logger"
	"github.com/JRomainG/TGVMaxBot/internal/notify"
	"github.com/JRomainG/TGVMaxBot/internal/profile"
	"github.com/JRomainG/TGVMaxBot/internal/redis"
	"github.com/JRomainG/TGVMaxBot/internal/scheduler"
	"github.com/JRomainG/TGVMaxBot/internal/sources/sncf"
	redisstore "github.com/JRomainG/TGVMaxBot/internal/store/redis"
	"github.com/JRomainG/TGVMaxBot/internal/version"
)

const stationsTimeout = 30 * time.Second

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	watcher     *scheduler.Watcher
	redisClient *goredis.Client
}

func New() (*App, error) {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)
	loc := cfg.Location()

	// Redis only caches provider responses, the bot runs without it
	var redisClient *goredis.Client
	var store *redisstore.Store
	if cfg.RedisAddr != "" {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.Connect(context.Background(), redis.Options{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnAttempts:   cfg.RedisWarnAttempts,
		}, loggerClient.Named("redis"))
		if err != nil {
			loggerClient.Warn("search cache disabled, redis unavailable", logger.Error(err))
		} else {
			redisClient = client
			store = redisstore.NewStore(client)
			loggerClient.Info("search cache enabled",
				logger.Duration("ttl", cfg.SearchCacheTTL))
		}
	} else {
		loggerClient.Info("redis not configured, search cache disabled")
	}

	clientOpts := sncf.Options{
		BaseURL:   cfg.APIURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.HTTPTimeout,
		Location:  loc,
		CacheTTL:  cfg.SearchCacheTTL,
	}
	var cache deps.SearchCache
	if store != nil {
		clientOpts.Cache = store
		cache = store
	}
	provider := sncf.NewClient(clientOpts, loggerClient.Named("sncf"))

	stations := loadStations(provider, loggerClient)

	profiles, err := profile.Load(cfg.ProfilesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}
	if cfg.ProfilesFile == "" {
		loggerClient.Warn("no profiles file configured, every chat is allowed")
	} else {
		loggerClient.Info("profiles loaded",
			logger.String("file", cfg.ProfilesFile),
			logger.Int("count", profiles.Len()))
	}

	sink, err := newSink(cfg, loggerClient)
	if err != nil {
		return nil, err
	}

	watcher := scheduler.NewWatcher(
		index.NewRegistry(),
		ledger.New(nil),
		backend.NewRail(provider, sink),
		loggerClient.Named("watcher"),
		scheduler.Options{
			Interval:   cfg.CheckInterval,
			FirstDelay: cfg.FirstCheckDelay,
		},
	)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		TimeNow:         time.Now,
		AllowedCIDRS:    cfg.AllowedCIDRS,
		TrustProxy:      cfg.TrustProxy,
		RateLimitBurst:  cfg.RateLimitBurst,
		RateLimitPerMin: cfg.RateLimitPerMin,
		CheckInterval:   cfg.CheckInterval,
		Location:        loc,
		Stations:        stations,
		Profiles:        profiles,
		Watcher:         watcher,
		Cache:           cache,
	}

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      httpserver.New(cfg, loggerClient, d),
		watcher:     watcher,
		redisClient: redisClient,
	}, nil
}

// loadStations fetches the station list once. Without it trips are
// accepted with any station name.
func loadStations(provider *sncf.Client, log logger.Logger) domain.Stations {
	ctx, cancel := context.WithTimeout(context.Background(), stationsTimeout)
	defer cancel()

	stations, err := provider.Stations(ctx)
	if err != nil {
		log.Warn("failed to load station list, station validation disabled", logger.Error(err))
		return domain.Stations{}
	}
	log.Info("station list loaded",
		logger.Int("origins", len(stations.Origins)),
		logger.Int("destinations", len(stations.Destinations)))
	return stations
}

func newSink(cfg *config.Config, log logger.Logger) (notify.Sink, error) {
	if cfg.TelegramToken == "" {
		log.Warn("no telegram token configured, notifications are only logged")
		return notify.NewLogSink(log), nil
	}
	sink, err := notify.NewTelegramSink(cfg.TelegramToken, cfg.TelegramAPIEndpoint, log.Named("telegram"))
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram sink: %w", err)
	}
	return sink, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting TGVMaxBot v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info("build info", logger.String("version", version.String()))
	if len(a.cfg.AllowedCIDRS) > 0 {
		a.logger.Info("API restricted", logger.Strings("allowed_cidrs", a.cfg.AllowedCIDRS))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.watcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	// no tick may run once the server and the cache are gone
	a.watcher.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	_ = a.logger.Sync()
	if runErr != nil {
		return runErr
	}
	a.logger.Info("✅ TGVMaxBot stopped cleanly")
	return nil
}
