package withdrawal

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/wallet-gateway/internal/domain/repository"
	"github.com/ignatzorin/wallet-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/wallet-gateway/internal/domain/wallet"
	"github.com/ignatzorin/wallet-gateway/internal/metrics"
	"github.com/ignatzorin/wallet-gateway/internal/models"
	"github.com/ignatzorin/wallet-gateway/internal/pkg/apperror"
)

type SubmitWithdrawalInput struct {
	UserID     uuid.UUID
	MethodCode string
	Amount     string
	Fields     map[string]string
	Currency   valueobject.Currency
}

type SubmitWithdrawalOutput struct {
	Withdrawal *models.Withdrawal          `json:"withdrawal"`
	State      valueobject.WithdrawalState `json:"state"`
	Summary    wallet.FeeSummary           `json:"summary"`
}

type SubmitWithdrawalUseCase struct {
	catalog  repository.MethodCatalog
	profiles repository.ProfileReader
	gateway  repository.WithdrawalGateway
	notifier repository.WalletNotifier
	metrics  *metrics.Metrics
	redirect string
}

func NewSubmitWithdrawalUseCase(
	catalog repository.MethodCatalog,
	profiles repository.ProfileReader,
	gateway repository.WithdrawalGateway,
	notifier repository.WalletNotifier,
	m *metrics.Metrics,
	redirect string,
) *SubmitWithdrawalUseCase {
	return &SubmitWithdrawalUseCase{
		catalog:  catalog,
		profiles: profiles,
		gateway:  gateway,
		notifier: notifier,
		metrics:  m,
		redirect: redirect,
	}
}

func (uc *SubmitWithdrawalUseCase) Execute(ctx context.Context, input SubmitWithdrawalInput) (*SubmitWithdrawalOutput, error) {
	methods, profile, err := loadContext(ctx, uc.catalog, uc.profiles)
	if err != nil {
		return nil, err
	}

	method, ok := models.FindMethod(methods, input.MethodCode)
	if !ok {
		return nil, apperror.ErrMethodNotFound
	}

	form := NewForm(method, wallet.AvailableInDisplay(profile, input.Currency), input.Currency)
	form.SetAmount(input.Amount)
	for field, value := range input.Fields {
		form.SetField(field, value)
	}

	workflow := NewWorkflow(uc.gateway, uc.notifier, uc.metrics, uc.redirect)
	created, err := workflow.Submit(ctx, input.UserID, profile, form)
	if err != nil {
		return nil, err
	}

	return &SubmitWithdrawalOutput{
		Withdrawal: created,
		State:      workflow.State(),
		Summary:    form.Quote().Summary(input.Currency, method.ProcessingTime),
	}, nil
}
