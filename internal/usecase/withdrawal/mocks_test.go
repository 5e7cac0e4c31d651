package withdrawal_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/wallet-gateway/internal/models"
)

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) ListMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PaymentMethod), args.Error(1)
}

type mockProfiles struct {
	mock.Mock
}

func (m *mockProfiles) GetProfile(ctx context.Context) (*models.UserProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateWithdrawal(ctx context.Context, req models.WithdrawalRequest) (*models.Withdrawal, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Withdrawal), args.Error(1)
}

func (m *mockGateway) ListWithdrawals(ctx context.Context) ([]models.Withdrawal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Withdrawal), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) WalletChanged(ctx context.Context, userID uuid.UUID, w *models.Withdrawal) error {
	args := m.Called(ctx, userID, w)
	return args.Error(0)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// scenarioMethod — метод из сквозных сценариев: лимиты 10..1000, комиссия 2 + 1%.
func scenarioMethod() models.PaymentMethod {
	return models.PaymentMethod{
		ID:             1,
		Name:           "Bank transfer",
		Code:           "bank",
		MinAmount:      dec("10"),
		MaxAmount:      decimal.NewNullDecimal(dec("1000")),
		FeeFixed:       dec("2"),
		FeePercentage:  dec("1"),
		ProcessingTime: 48,
		RequiredFields: []string{"account_number"},
		FieldValidations: map[string]models.FieldValidation{
			"account_number": {Regex: `/^\d{8,12}$/`},
		},
	}
}

func approvedProfile(balance string) *models.UserProfile {
	return &models.UserProfile{Balance: dec(balance), GovernmentIDStatus: models.GovernmentIDStatusApproved}
}
