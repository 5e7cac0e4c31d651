package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/ignatzorin/wallet-gateway/internal/config"
	"github.com/ignatzorin/wallet-gateway/internal/goroutine"
	httpHandlers "github.com/ignatzorin/wallet-gateway/internal/http/handlers"
	"github.com/ignatzorin/wallet-gateway/internal/http/middleware"
	httpRouter "github.com/ignatzorin/wallet-gateway/internal/http/router"
	"github.com/ignatzorin/wallet-gateway/internal/infrastructure/walletapi"
	"github.com/ignatzorin/wallet-gateway/internal/logger"
	"github.com/ignatzorin/wallet-gateway/internal/metrics"
	"github.com/ignatzorin/wallet-gateway/internal/service"
	walletuc "github.com/ignatzorin/wallet-gateway/internal/usecase/wallet"
	"github.com/ignatzorin/wallet-gateway/internal/usecase/withdrawal"
	"github.com/ignatzorin/wallet-gateway/internal/ws"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Get().Fatalf("main: не удалось загрузить конфигурацию: %v", err)
	}
	logger.Init(cfg.LogLevel, cfg.IsProduction())
	log := logger.Get()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	cache, redisClient, closeCache := buildCache(ctx, cfg)
	defer closeCache()

	limiterStore, err := middleware.NewLimiterStore(redisClient, "wallet_gateway_ratelimit")
	if err != nil {
		log.Fatalf("main: не удалось создать хранилище rate limit: %v", err)
	}

	client := walletapi.NewClient(cfg.WalletAPIURL, cfg.UpstreamTimeout, m)
	catalog := walletapi.NewCachedCatalog(client, cache, cfg.MethodsCacheTTL, m)
	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	currencies := cfg.Currencies()

	hub := ws.NewHub(m)
	goroutine.SafeGoWithContext(ctx, hub.Run)
	notifier := ws.NewNotifier(hub)

	walletHandler := httpHandlers.NewWalletHandler(
		walletuc.NewGetOverviewUseCase(client, client),
		walletuc.NewGetHistoryUseCase(client),
		currencies,
	)
	withdrawalHandler := httpHandlers.NewWithdrawalHandler(
		catalog,
		client,
		cache,
		httpHandlers.WithdrawalUseCases{
			Page:   withdrawal.NewLoadPageUseCase(catalog, client, cfg.VerificationRedirectURL),
			Quote:  withdrawal.NewQuoteUseCase(catalog, client),
			Submit: withdrawal.NewSubmitWithdrawalUseCase(catalog, client, client, notifier, m, cfg.VerificationRedirectURL),
			List:   withdrawal.NewListWithdrawalsUseCase(client),
		},
		currencies,
		httpHandlers.IconOptions{MaxBytes: cfg.IconMaxBytes, TTL: cfg.MethodsCacheTTL},
	)
	healthHandler := httpHandlers.NewHealthHandler(map[string]httpHandlers.Pinger{
		"wallet_api": client,
		"cache":      cache,
	})
	wsHandler := httpHandlers.NewWSHandler(hub, tokens, cfg.AllowedOrigins)

	engine := httpRouter.SetupRouter(cfg, httpRouter.Deps{
		Wallet:       walletHandler,
		Withdrawals:  withdrawalHandler,
		Health:       healthHandler,
		WS:           wsHandler,
		Tokens:       tokens,
		Metrics:      m,
		Gatherer:     registry,
		LimiterStore: limiterStore,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Errorf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.WithField("upstream", client.BaseURL()).Infof("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// buildCache выбирает кеш по CACHE_DRIVER. Для redis возвращается и клиент:
// им же пользуется rate limiter.
func buildCache(ctx context.Context, cfg *config.Config) (service.Cache, *redis.Client, func()) {
	log := logger.Get()
	if cfg.CacheDriver != "redis" {
		return service.NewMemoryCache(ctx, time.Minute), nil, func() {}
	}

	rc, err := service.NewRedisCache(cfg.RedisURL, "wallet_gateway:")
	if err != nil {
		log.Fatalf("main: некорректный REDIS_URL: %v", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		log.Warnf("main: redis недоступен, запросы к кешу будут падать до восстановления: %v", err)
	}
	return rc, rc.Client(), func() {
		if err := rc.Close(); err != nil {
			log.Errorf("main: ошибка закрытия redis: %v", err)
		}
	}
}
