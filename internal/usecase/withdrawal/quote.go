package withdrawal

import (
	"context"

	"github.com/ignatzorin/wallet-gateway/internal/domain/repository"
	"github.com/ignatzorin/wallet-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/wallet-gateway/internal/domain/wallet"
	"github.com/ignatzorin/wallet-gateway/internal/models"
	"github.com/ignatzorin/wallet-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/wallet-gateway/internal/validation"
)

type QuoteInput struct {
	MethodCode string
	Amount     string
	Fields     map[string]string
	Currency   valueobject.Currency
}

// Quote — результат живой проверки формы и расчёт комиссии.
// Summary есть, только если сумма введена и прошла проверку.
type Quote struct {
	Method           string             `json:"method"`
	Errors           validation.Errors  `json:"errors"`
	Summary          *wallet.FeeSummary `json:"summary,omitempty"`
	AvailableBalance string             `json:"available_balance"`
	Complete         bool               `json:"complete"`
	CanSubmit        bool               `json:"can_submit"`
}

type QuoteUseCase struct {
	catalog  repository.MethodCatalog
	profiles repository.ProfileReader
}

func NewQuoteUseCase(catalog repository.MethodCatalog, profiles repository.ProfileReader) *QuoteUseCase {
	return &QuoteUseCase{catalog: catalog, profiles: profiles}
}

func (uc *QuoteUseCase) Execute(ctx context.Context, input QuoteInput) (*Quote, error) {
	methods, profile, err := loadContext(ctx, uc.catalog, uc.profiles)
	if err != nil {
		return nil, err
	}

	method, ok := models.FindMethod(methods, input.MethodCode)
	if !ok {
		return nil, apperror.ErrMethodNotFound
	}

	form := NewForm(method, wallet.AvailableInDisplay(profile, input.Currency), input.Currency)
	if input.Amount != "" {
		form.SetAmount(input.Amount)
	}
	for field, value := range input.Fields {
		form.SetField(field, value)
	}

	quote := &Quote{
		Method:           method.Code,
		Errors:           form.Errors,
		AvailableBalance: available(profile, input.Currency),
		Complete:         form.IsComplete(),
		CanSubmit:        form.CanSubmit() && profile.CanWithdraw(),
	}
	if input.Amount != "" {
		if _, bad := form.Errors[validation.AmountField]; !bad {
			summary := form.Quote().Summary(input.Currency, method.ProcessingTime)
			quote.Summary = &summary
		}
	}
	return quote, nil
}
