package wallet

import (
	"context"

	"github.com/ignatzorin/wallet-gateway/internal/domain/repository"
	"github.com/ignatzorin/wallet-gateway/internal/domain/valueobject"
	domain "github.com/ignatzorin/wallet-gateway/internal/domain/wallet"
)

type GetHistoryInput struct {
	Status   string
	Currency valueobject.Currency
}

type GetHistoryUseCase struct {
	transactions repository.TransactionReader
}

func NewGetHistoryUseCase(transactions repository.TransactionReader) *GetHistoryUseCase {
	return &GetHistoryUseCase{transactions: transactions}
}

// Execute проверяет фильтр до запроса к upstream: неизвестный статус — ошибка валидации.
func (uc *GetHistoryUseCase) Execute(ctx context.Context, input GetHistoryInput) ([]domain.HistoryItem, error) {
	filter, err := valueobject.NewTransactionFilter(input.Status)
	if err != nil {
		return nil, err
	}

	transactions, err := uc.transactions.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return domain.BuildHistory(transactions, filter, input.Currency), nil
}
