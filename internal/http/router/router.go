package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ulule/limiter/v3"

	"github.com/ignatzorin/wallet-gateway/internal/config"
	"github.com/ignatzorin/wallet-gateway/internal/http/handlers"
	"github.com/ignatzorin/wallet-gateway/internal/http/middleware"
	"github.com/ignatzorin/wallet-gateway/internal/metrics"
	"github.com/ignatzorin/wallet-gateway/internal/service"
)

// Deps — всё, что нужно для сборки маршрутов шлюза.
type Deps struct {
	Wallet       *handlers.WalletHandler
	Withdrawals  *handlers.WithdrawalHandler
	Health       *handlers.HealthHandler
	WS           *handlers.WSHandler
	Tokens       *service.TokenManager
	Metrics      *metrics.Metrics
	Gatherer     prometheus.Gatherer
	LimiterStore limiter.Store
}

func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(deps.Metrics.Middleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", deps.Health.Health)
	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}
	r.GET("/ws", deps.WS.Handle)

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(deps.Tokens))
	api.Use(middleware.RateLimitMiddleware(deps.LimiterStore, cfg.RateLimitLimit, cfg.RateLimitPeriod, middleware.ByUser))

	wallet := api.Group("/wallet")
	{
		wallet.GET("", deps.Wallet.Overview)
		wallet.GET("/transactions", deps.Wallet.Transactions)
	}

	withdrawals := api.Group("/withdrawals")
	{
		withdrawals.GET("", deps.Withdrawals.List)
		withdrawals.GET("/methods", deps.Withdrawals.Methods)
		withdrawals.GET("/methods/:code/icon", deps.Withdrawals.Icon)
		withdrawals.GET("/page", deps.Withdrawals.Page)
		withdrawals.POST("/quote", deps.Withdrawals.Quote)

		// Отдельный, более строгий лимит на создание заявок
		submitLimit := middleware.RateLimitMiddleware(deps.LimiterStore, cfg.SubmitRateLimit, cfg.SubmitRatePeriod, submitKey)
		withdrawals.POST("", submitLimit, deps.Withdrawals.Create)
	}

	return r
}

func submitKey(c *gin.Context) string {
	return "submit:" + middleware.ByUser(c)
}
