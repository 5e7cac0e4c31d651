package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/wallet-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/wallet-gateway/internal/http/handlers/common"
	"github.com/ignatzorin/wallet-gateway/internal/interface/http/response"
	walletuc "github.com/ignatzorin/wallet-gateway/internal/usecase/wallet"
)

// WalletHandler отдаёт сводку кошелька и историю транзакций.
type WalletHandler struct {
	overview   *walletuc.GetOverviewUseCase
	history    *walletuc.GetHistoryUseCase
	currencies valueobject.CurrencySet
}

func NewWalletHandler(overview *walletuc.GetOverviewUseCase, history *walletuc.GetHistoryUseCase, currencies valueobject.CurrencySet) *WalletHandler {
	return &WalletHandler{overview: overview, history: history, currencies: currencies}
}

// Overview обрабатывает GET /api/wallet.
func (h *WalletHandler) Overview(c *gin.Context) {
	out, err := h.overview.Execute(c.Request.Context(), common.ResolveCurrency(c, h.currencies))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

// Transactions обрабатывает GET /api/wallet/transactions?status=.
func (h *WalletHandler) Transactions(c *gin.Context) {
	items, err := h.history.Execute(c.Request.Context(), walletuc.GetHistoryInput{
		Status:   c.Query("status"),
		Currency: common.ResolveCurrency(c, h.currencies),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}
