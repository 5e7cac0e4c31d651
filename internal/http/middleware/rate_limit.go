package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/ignatzorin/wallet-gateway/internal/interface/http/response"
	"github.com/ignatzorin/wallet-gateway/internal/logger"
)

// KeyFunc выбирает ключ, по которому считается лимит.
type KeyFunc func(c *gin.Context) string

// ByClientIP считает запросы по IP клиента.
func ByClientIP(c *gin.Context) string {
	return c.ClientIP()
}

// ByUser считает запросы по пользователю, а до авторизации — по IP.
func ByUser(c *gin.Context) string {
	if raw, ok := c.Get(ContextUserIDKey); ok {
		if id, ok := raw.(uuid.UUID); ok && id != uuid.Nil {
			return "user:" + id.String()
		}
	}
	return "ip:" + c.ClientIP()
}

// NewLimiterStore возвращает хранилище счётчиков: Redis, если клиент задан, иначе память процесса.
func NewLimiterStore(client *redis.Client, prefix string) (limiter.Store, error) {
	if client == nil {
		return memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          prefix,
			CleanUpInterval: limiter.DefaultCleanUpInterval,
		}), nil
	}
	return sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: prefix})
}

// RateLimitMiddleware ограничивает число запросов limit за period по ключу key.
// store == nil означает отдельное хранилище в памяти.
func RateLimitMiddleware(store limiter.Store, limit int64, period time.Duration, key KeyFunc) gin.HandlerFunc {
	if store == nil {
		store = memory.NewStore()
	}
	if key == nil {
		key = ByClientIP
	}
	instance := limiter.New(store, limiter.Rate{Period: period, Limit: limit})

	return func(c *gin.Context) {
		ctx, err := instance.Get(c.Request.Context(), key(c))
		if err != nil {
			// Хранилище недоступно — пропускаем запрос, а не роняем API
			logger.Get().WithError(err).Warn("rate limiter unavailable")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(ctx.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(ctx.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(ctx.Reset, 10))

		if ctx.Reached {
			response.TooManyRequests(c, "Too many requests, please try again later")
			return
		}

		c.Next()
	}
}
