package wallet

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ignatzorin/wallet-gateway/internal/domain/repository"
	"github.com/ignatzorin/wallet-gateway/internal/domain/valueobject"
	domain "github.com/ignatzorin/wallet-gateway/internal/domain/wallet"
	"github.com/ignatzorin/wallet-gateway/internal/models"
)

// Overview — экран кошелька: сводка и история.
type Overview struct {
	Summary      domain.Summary       `json:"summary"`
	Transactions []domain.HistoryItem `json:"transactions"`
}

type GetOverviewUseCase struct {
	profiles     repository.ProfileReader
	transactions repository.TransactionReader
}

func NewGetOverviewUseCase(profiles repository.ProfileReader, transactions repository.TransactionReader) *GetOverviewUseCase {
	return &GetOverviewUseCase{profiles: profiles, transactions: transactions}
}

// Execute загружает профиль и транзакции параллельно; ошибка любого запроса прерывает оба.
func (uc *GetOverviewUseCase) Execute(ctx context.Context, currency valueobject.Currency) (*Overview, error) {
	var (
		profile      *models.UserProfile
		transactions []models.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = uc.profiles.GetProfile(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = uc.transactions.ListTransactions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Overview{
		Summary:      domain.Summarize(profile, currency),
		Transactions: domain.BuildHistory(transactions, valueobject.TransactionFilterAll, currency),
	}, nil
}
