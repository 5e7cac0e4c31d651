package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/wallet-gateway/internal/config"
	"github.com/ignatzorin/wallet-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/wallet-gateway/internal/http/handlers"
	"github.com/ignatzorin/wallet-gateway/internal/infrastructure/walletapi"
	"github.com/ignatzorin/wallet-gateway/internal/logger"
	"github.com/ignatzorin/wallet-gateway/internal/metrics"
	"github.com/ignatzorin/wallet-gateway/internal/service"
	walletuc "github.com/ignatzorin/wallet-gateway/internal/usecase/wallet"
	"github.com/ignatzorin/wallet-gateway/internal/usecase/withdrawal"
	"github.com/ignatzorin/wallet-gateway/internal/ws"
)

func newTestRouter(t *testing.T, upstreamURL string) (*gin.Engine, *service.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.Discard()

	cfg := &config.Config{
		Env:              "test",
		AllowedOrigins:   []string{"http://localhost:5173"},
		RateLimitLimit:   100,
		RateLimitPeriod:  time.Minute,
		SubmitRateLimit:  1,
		SubmitRatePeriod: time.Minute,
	}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	tokens := service.NewTokenManager("router-secret", time.Minute)
	client := walletapi.NewClient(upstreamURL, time.Second, m)
	cache := service.NewMemoryCache(context.Background(), time.Minute)
	catalog := walletapi.NewCachedCatalog(client, cache, time.Minute, m)
	currencies := valueobject.NewCurrencySet("USD", valueobject.USD, valueobject.INR(decimal.NewFromInt(84)))
	hub := ws.NewHub(m)

	engine := SetupRouter(cfg, Deps{
		Wallet: handlers.NewWalletHandler(walletuc.NewGetOverviewUseCase(client, client), walletuc.NewGetHistoryUseCase(client), currencies),
		Withdrawals: handlers.NewWithdrawalHandler(catalog, client, cache, handlers.WithdrawalUseCases{
			Page:   withdrawal.NewLoadPageUseCase(catalog, client, ""),
			Quote:  withdrawal.NewQuoteUseCase(catalog, client),
			Submit: withdrawal.NewSubmitWithdrawalUseCase(catalog, client, client, ws.NewNotifier(hub), m, ""),
			List:   withdrawal.NewListWithdrawalsUseCase(client),
		}, currencies, handlers.IconOptions{}),
		Health:   handlers.NewHealthHandler(map[string]handlers.Pinger{"wallet_api": client, "cache": cache}),
		WS:       handlers.NewWSHandler(hub, tokens, cfg.AllowedOrigins),
		Tokens:   tokens,
		Metrics:  m,
		Gatherer: reg,
	})
	return engine, tokens
}

func TestRouter_PublicAndProtectedRoutes(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	defer upstream.Close()

	r, tokens := newTestRouter(t, upstream.URL)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/withdrawals/methods", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := tokens.GenerateAccess(uuid.New(), "freelancer")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/withdrawals/methods", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `wallet_gateway_http_requests_total{method="GET",path="/api/withdrawals/methods",status="200"} 1`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_SubmitRateLimit(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	r, tokens := newTestRouter(t, upstream.URL)
	token, err := tokens.GenerateAccess(uuid.New(), "freelancer")
	require.NoError(t, err)

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/withdrawals", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.NotEqual(t, http.StatusTooManyRequests, codes[0])
	assert.Equal(t, http.StatusTooManyRequests, codes[1])
}
