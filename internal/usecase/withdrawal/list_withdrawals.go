package withdrawal

import (
	"context"

	"github.com/ignatzorin/wallet-gateway/internal/domain/repository"
	"github.com/ignatzorin/wallet-gateway/internal/models"
)

type ListWithdrawalsUseCase struct {
	gateway repository.WithdrawalGateway
}

func NewListWithdrawalsUseCase(gateway repository.WithdrawalGateway) *ListWithdrawalsUseCase {
	return &ListWithdrawalsUseCase{gateway: gateway}
}

func (uc *ListWithdrawalsUseCase) Execute(ctx context.Context) ([]models.Withdrawal, error) {
	withdrawals, err := uc.gateway.ListWithdrawals(ctx)
	if err != nil {
		return nil, err
	}
	if withdrawals == nil {
		withdrawals = []models.Withdrawal{}
	}
	return withdrawals, nil
}
