package withdrawal

import (
	"context"

	"github.com/ignatzorin/wallet-gateway/internal/domain/repository"
	"github.com/ignatzorin/wallet-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/wallet-gateway/internal/domain/wallet"
	"github.com/ignatzorin/wallet-gateway/internal/models"
)

// Page — состояние страницы вывода. Без подтверждённого документа форма не показывается.
type Page struct {
	VerificationRequired bool                   `json:"verification_required"`
	Redirect             string                 `json:"redirect,omitempty"`
	Currency             string                 `json:"currency"`
	AvailableBalance     string                 `json:"available_balance"`
	Methods              []models.PaymentMethod `json:"methods,omitempty"`
	DefaultMethod        string                 `json:"default_method,omitempty"`
}

type LoadPageUseCase struct {
	catalog  repository.MethodCatalog
	profiles repository.ProfileReader
	redirect string
}

func NewLoadPageUseCase(catalog repository.MethodCatalog, profiles repository.ProfileReader, redirect string) *LoadPageUseCase {
	if redirect == "" {
		redirect = DefaultVerificationRedirect
	}
	return &LoadPageUseCase{catalog: catalog, profiles: profiles, redirect: redirect}
}

func (uc *LoadPageUseCase) Execute(ctx context.Context, currency valueobject.Currency) (*Page, error) {
	methods, profile, err := loadContext(ctx, uc.catalog, uc.profiles)
	if err != nil {
		return nil, err
	}

	page := &Page{
		Currency:         currency.Code,
		AvailableBalance: available(profile, currency),
	}
	if !profile.CanWithdraw() {
		page.VerificationRequired = true
		page.Redirect = uc.redirect
		return page, nil
	}

	page.Methods = methods
	if len(methods) > 0 {
		page.DefaultMethod = methods[0].Code
	}
	return page, nil
}

// available — баланс профиля в валюте отображения.
func available(profile *models.UserProfile, currency valueobject.Currency) string {
	return currency.FormatDisplay(wallet.AvailableInDisplay(profile, currency))
}
