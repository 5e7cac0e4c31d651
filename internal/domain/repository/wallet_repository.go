package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/wallet-gateway/internal/models"
)

// Все вызовы идут к upstream от имени пользователя: токен и request id берутся из ctx.

type MethodCatalog interface {
	ListMethods(ctx context.Context) ([]models.PaymentMethod, error)
}

type WithdrawalGateway interface {
	CreateWithdrawal(ctx context.Context, req models.WithdrawalRequest) (*models.Withdrawal, error)
	ListWithdrawals(ctx context.Context) ([]models.Withdrawal, error)
}

type ProfileReader interface {
	GetProfile(ctx context.Context) (*models.UserProfile, error)
}

type TransactionReader interface {
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
}

// WalletNotifier сообщает клиентам пользователя, что баланс и история изменились.
type WalletNotifier interface {
	WalletChanged(ctx context.Context, userID uuid.UUID, withdrawal *models.Withdrawal) error
}
