package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/wallet-gateway/internal/domain/repository"
	"github.com/ignatzorin/wallet-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/wallet-gateway/internal/http/handlers/common"
	"github.com/ignatzorin/wallet-gateway/internal/infrastructure/walletapi"
	"github.com/ignatzorin/wallet-gateway/internal/interface/http/response"
	"github.com/ignatzorin/wallet-gateway/internal/logger"
	"github.com/ignatzorin/wallet-gateway/internal/models"
	"github.com/ignatzorin/wallet-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/wallet-gateway/internal/service"
	"github.com/ignatzorin/wallet-gateway/internal/usecase/withdrawal"
)

// IconFetcher загружает иконки способов вывода.
type IconFetcher interface {
	FetchIcon(ctx context.Context, iconURL string, maxBytes int64) (*walletapi.Icon, error)
}

// WithdrawalUseCases — сценарии, которые обслуживает WithdrawalHandler.
type WithdrawalUseCases struct {
	Page   *withdrawal.LoadPageUseCase
	Quote  *withdrawal.QuoteUseCase
	Submit *withdrawal.SubmitWithdrawalUseCase
	List   *withdrawal.ListWithdrawalsUseCase
}

// IconOptions — ограничения прокси иконок.
type IconOptions struct {
	MaxBytes int64
	TTL      time.Duration
}

type WithdrawalHandler struct {
	catalog    repository.MethodCatalog
	icons      IconFetcher
	cache      service.Cache
	useCases   WithdrawalUseCases
	currencies valueobject.CurrencySet
	iconOpts   IconOptions

	// Пользователи, у которых заявка уже отправляется
	inFlight sync.Map
}

func NewWithdrawalHandler(
	catalog repository.MethodCatalog,
	icons IconFetcher,
	cache service.Cache,
	useCases WithdrawalUseCases,
	currencies valueobject.CurrencySet,
	iconOpts IconOptions,
) *WithdrawalHandler {
	if iconOpts.MaxBytes <= 0 {
		iconOpts.MaxBytes = 256 * 1024
	}
	if iconOpts.TTL <= 0 {
		iconOpts.TTL = time.Hour
	}
	return &WithdrawalHandler{
		catalog:    catalog,
		icons:      icons,
		cache:      cache,
		useCases:   useCases,
		currencies: currencies,
		iconOpts:   iconOpts,
	}
}

// WithdrawalFormRequest — состояние формы вывода.
type WithdrawalFormRequest struct {
	PaymentMethod  string            `json:"payment_method" binding:"required,max=64"`
	Amount         common.Amount     `json:"amount"`
	PaymentDetails map[string]string `json:"payment_details" binding:"omitempty,max=32,dive,keys,max=64,endkeys,max=512"`
}

// Methods обрабатывает GET /api/withdrawals/methods.
func (h *WithdrawalHandler) Methods(c *gin.Context) {
	methods, err := h.catalog.ListMethods(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if methods == nil {
		methods = []models.PaymentMethod{}
	}
	response.Success(c, methods)
}

// Icon обрабатывает GET /api/withdrawals/methods/:code/icon.
func (h *WithdrawalHandler) Icon(c *gin.Context) {
	ctx := c.Request.Context()
	code := c.Param("code")
	key := service.MethodIconCacheKey(code)

	if data, ok, err := h.cache.Get(ctx, key); err == nil && ok {
		if contentType, err := walletapi.DetectIconType(data); err == nil {
			writeIcon(c, contentType, data)
			return
		}
	}

	methods, err := h.catalog.ListMethods(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}
	method, ok := models.FindMethod(methods, code)
	if !ok {
		response.Error(c, apperror.ErrMethodNotFound)
		return
	}

	icon, err := h.icons.FetchIcon(ctx, method.IconURL, h.iconOpts.MaxBytes)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.cache.Set(ctx, key, icon.Data, h.iconOpts.TTL); err != nil {
		logger.Get().WithError(err).WithField("method", code).Warn("icon cache write failed")
	}
	writeIcon(c, icon.ContentType, icon.Data)
}

func writeIcon(c *gin.Context, contentType string, data []byte) {
	c.Header("Cache-Control", "public, max-age=3600")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Data(http.StatusOK, contentType, data)
}

// Page обрабатывает GET /api/withdrawals/page.
func (h *WithdrawalHandler) Page(c *gin.Context) {
	page, err := h.useCases.Page.Execute(c.Request.Context(), common.ResolveCurrency(c, h.currencies))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

// Quote обрабатывает POST /api/withdrawals/quote: живая проверка формы и комиссия.
func (h *WithdrawalHandler) Quote(c *gin.Context) {
	var req WithdrawalFormRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	quote, err := h.useCases.Quote.Execute(c.Request.Context(), withdrawal.QuoteInput{
		MethodCode: req.PaymentMethod,
		Amount:     req.Amount.String(),
		Fields:     req.PaymentDetails,
		Currency:   common.ResolveCurrency(c, h.currencies),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, quote)
}

// Create обрабатывает POST /api/withdrawals. Пока заявка пользователя
// отправляется, повторная отклоняется с 409.
func (h *WithdrawalHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		response.Error(c, apperror.ErrUnauthorized)
		return
	}

	var req WithdrawalFormRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if _, busy := h.inFlight.LoadOrStore(userID, struct{}{}); busy {
		response.Error(c, apperror.ErrSubmitInProgress)
		return
	}
	defer h.inFlight.Delete(userID)

	out, err := h.useCases.Submit.Execute(c.Request.Context(), withdrawal.SubmitWithdrawalInput{
		UserID:     userID,
		MethodCode: req.PaymentMethod,
		Amount:     req.Amount.String(),
		Fields:     req.PaymentDetails,
		Currency:   common.ResolveCurrency(c, h.currencies),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, out)
}

// List обрабатывает GET /api/withdrawals.
func (h *WithdrawalHandler) List(c *gin.Context) {
	items, err := h.useCases.List.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}
