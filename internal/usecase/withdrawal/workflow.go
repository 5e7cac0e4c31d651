package withdrawal

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/wallet-gateway/internal/domain/repository"
	"github.com/ignatzorin/wallet-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/wallet-gateway/internal/logger"
	"github.com/ignatzorin/wallet-gateway/internal/metrics"
	"github.com/ignatzorin/wallet-gateway/internal/models"
	"github.com/ignatzorin/wallet-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/wallet-gateway/internal/validation"
)

// MsgFixErrors — сообщение, когда форма не прошла проверку перед отправкой.
const MsgFixErrors = "Please fix the errors before submitting"

// MsgSubmitFailed — сообщение, если upstream не объяснил отказ.
const MsgSubmitFailed = "Failed to create withdrawal"

// DefaultVerificationRedirect — страница, где пользователь подтверждает документ.
const DefaultVerificationRedirect = "/settings"

// Workflow проводит одну заявку через состояния idle → validating → submitting → succeeded|failed.
// Повторные попытки и защита от двойной отправки — забота вызывающего кода.
type Workflow struct {
	mu       sync.Mutex
	state    valueobject.WithdrawalState
	lastErr  error
	result   *models.Withdrawal
	gateway  repository.WithdrawalGateway
	notifier repository.WalletNotifier
	metrics  *metrics.Metrics
	redirect string
}

func NewWorkflow(gateway repository.WithdrawalGateway, notifier repository.WalletNotifier, m *metrics.Metrics, redirect string) *Workflow {
	if redirect == "" {
		redirect = DefaultVerificationRedirect
	}
	return &Workflow{
		state:    valueobject.WithdrawalStateIdle,
		gateway:  gateway,
		notifier: notifier,
		metrics:  m,
		redirect: redirect,
	}
}

func (w *Workflow) State() valueobject.WithdrawalState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// LastError возвращает ошибку последней неудачной попытки.
func (w *Workflow) LastError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// Result возвращает заявку, принятую upstream.
func (w *Workflow) Result() *models.Withdrawal {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result
}

func (w *Workflow) transition(to valueobject.WithdrawalState) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Завершённая попытка сначала возвращается в idle
	if w.state == valueobject.WithdrawalStateSucceeded && to == valueobject.WithdrawalStateValidating {
		w.state = valueobject.WithdrawalStateIdle
	}
	if !w.state.CanTransitionTo(to) {
		if w.state == valueobject.WithdrawalStateValidating || w.state == valueobject.WithdrawalStateSubmitting {
			return apperror.ErrSubmitInProgress
		}
		return apperror.New(apperror.ErrCodeConflict, fmt.Sprintf("переход %s -> %s недопустим", w.state, to))
	}
	w.state = to
	return nil
}

func (w *Workflow) fail(err error) error {
	w.mu.Lock()
	w.state = valueobject.WithdrawalStateFailed
	w.lastErr = err
	w.mu.Unlock()
	return err
}

// Submit проверяет форму и отправляет заявку.
// Неподтверждённый профиль возвращает VERIFICATION_REQUIRED без обращения к upstream; состояние остаётся idle.
func (w *Workflow) Submit(ctx context.Context, userID uuid.UUID, profile *models.UserProfile, form *Form) (*models.Withdrawal, error) {
	if !profile.CanWithdraw() {
		return nil, apperror.ErrVerificationNeeded.WithRedirect(w.redirect)
	}
	methodCode := ""
	if form.Method != nil {
		methodCode = form.Method.Code
	}

	if err := w.transition(valueobject.WithdrawalStateValidating); err != nil {
		return nil, err
	}

	if errs := form.Validate(); len(errs) > 0 {
		w.metrics.ObserveValidation(errs.Fields())
		w.metrics.ObserveWithdrawal(methodCode, string(valueobject.WithdrawalStateFailed), form.Quote().Amount)
		appErr := apperror.Wrap(errs, apperror.ErrCodeValidation, MsgFixErrors).WithFields(errs.AsMessages())
		return nil, w.fail(appErr)
	}

	req, err := form.Request()
	if err != nil {
		return nil, w.fail(apperror.Wrap(err, apperror.ErrCodeValidation, err.Error()))
	}

	if err := w.transition(valueobject.WithdrawalStateSubmitting); err != nil {
		return nil, err
	}

	created, err := w.gateway.CreateWithdrawal(ctx, req)
	if err != nil {
		w.metrics.ObserveWithdrawal(methodCode, string(valueobject.WithdrawalStateFailed), req.Amount)
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			err = apperror.Wrap(err, apperror.ErrCodeUpstream, MsgSubmitFailed)
		}
		return nil, w.fail(err)
	}

	if err := w.transition(valueobject.WithdrawalStateSucceeded); err != nil {
		return nil, err
	}
	w.mu.Lock()
	w.result = created
	w.lastErr = nil
	w.mu.Unlock()

	w.metrics.ObserveWithdrawal(methodCode, string(valueobject.WithdrawalStateSucceeded), req.Amount)
	w.notify(ctx, userID, created)

	if logger.Log != nil {
		logger.Log.WithFields(logrus.Fields{
			"user_id":        userID.String(),
			"withdrawal_id":  created.ID,
			"payment_method": req.PaymentMethod,
			"amount":         req.Amount.String(),
		}).Info("Заявка на вывод создана")
	}

	return created, nil
}

// notify просит клиентов обновить баланс и историю. Ошибка уведомления заявку не отменяет.
func (w *Workflow) notify(ctx context.Context, userID uuid.UUID, created *models.Withdrawal) {
	if w.notifier == nil {
		return
	}
	if err := w.notifier.WalletChanged(ctx, userID, created); err != nil && logger.Log != nil {
		logger.Log.WithFields(logrus.Fields{
			"user_id": userID.String(),
			"error":   err.Error(),
		}).Warn("Не удалось отправить уведомление об изменении кошелька")
	}
}

// IsValidationFailure сообщает, что ошибка — это ошибки формы, и возвращает их.
func IsValidationFailure(err error) (validation.Errors, bool) {
	var errs validation.Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}
