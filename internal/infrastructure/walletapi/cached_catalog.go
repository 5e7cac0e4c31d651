package walletapi

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/wallet-gateway/internal/domain/repository"
	"github.com/ignatzorin/wallet-gateway/internal/logger"
	"github.com/ignatzorin/wallet-gateway/internal/metrics"
	"github.com/ignatzorin/wallet-gateway/internal/models"
	"github.com/ignatzorin/wallet-gateway/internal/service"
)

// CachedCatalog кеширует каталог способов вывода. Ошибки кеша не мешают чтению из upstream.
type CachedCatalog struct {
	next    repository.MethodCatalog
	cache   service.Cache
	ttl     time.Duration
	metrics *metrics.Metrics
}

func NewCachedCatalog(next repository.MethodCatalog, cache service.Cache, ttl time.Duration, m *metrics.Metrics) *CachedCatalog {
	return &CachedCatalog{next: next, cache: cache, ttl: ttl, metrics: m}
}

func (c *CachedCatalog) ListMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	key := service.MethodsCacheKey()

	if c.cache != nil && c.ttl > 0 {
		data, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			c.warn("Не удалось прочитать каталог из кеша", err)
		}
		if ok {
			var methods []models.PaymentMethod
			if err := json.Unmarshal(data, &methods); err == nil {
				c.metrics.ObserveCache(true)
				return methods, nil
			}
		}
	}
	c.metrics.ObserveCache(false)

	methods, err := c.next.ListMethods(ctx)
	if err != nil {
		return nil, err
	}

	if c.cache != nil && c.ttl > 0 {
		if data, err := json.Marshal(methods); err == nil {
			if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
				c.warn("Не удалось сохранить каталог в кеш", err)
			}
		}
	}
	return methods, nil
}

// Invalidate сбрасывает закешированный каталог.
func (c *CachedCatalog) Invalidate(ctx context.Context) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Delete(ctx, service.MethodsCacheKey())
}

func (c *CachedCatalog) warn(msg string, err error) {
	if logger.Log == nil {
		return
	}
	logger.Log.WithFields(logrus.Fields{"error": err.Error()}).Warn(msg)
}
