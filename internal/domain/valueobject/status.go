package valueobject

import "github.com/ignatzorin/wallet-gateway/internal/pkg/apperror"

// WithdrawalState — состояние процесса отправки заявки на вывод.
type WithdrawalState string

const (
	WithdrawalStateIdle       WithdrawalState = "idle"
	WithdrawalStateValidating WithdrawalState = "validating"
	WithdrawalStateSubmitting WithdrawalState = "submitting"
	WithdrawalStateSucceeded  WithdrawalState = "succeeded"
	WithdrawalStateFailed     WithdrawalState = "failed"
)

func (s WithdrawalState) IsValid() bool {
	switch s {
	case WithdrawalStateIdle, WithdrawalStateValidating, WithdrawalStateSubmitting, WithdrawalStateSucceeded, WithdrawalStateFailed:
		return true
	}
	return false
}

// IsTerminal сообщает, завершилась ли попытка отправки.
func (s WithdrawalState) IsTerminal() bool {
	return s == WithdrawalStateSucceeded || s == WithdrawalStateFailed
}

func (s WithdrawalState) CanTransitionTo(newState WithdrawalState) bool {
	transitions := map[WithdrawalState][]WithdrawalState{
		WithdrawalStateIdle:       {WithdrawalStateValidating},
		WithdrawalStateValidating: {WithdrawalStateSubmitting, WithdrawalStateFailed},
		WithdrawalStateSubmitting: {WithdrawalStateSucceeded, WithdrawalStateFailed},
		// После ошибки пользователь исправляет форму и пробует снова.
		WithdrawalStateFailed:    {WithdrawalStateValidating, WithdrawalStateIdle},
		WithdrawalStateSucceeded: {WithdrawalStateIdle},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, state := range allowed {
		if state == newState {
			return true
		}
	}
	return false
}

// TransactionFilter — фильтр истории транзакций по статусу.
type TransactionFilter string

const (
	TransactionFilterAll       TransactionFilter = "all"
	TransactionFilterCompleted TransactionFilter = "completed"
	TransactionFilterPending   TransactionFilter = "pending"
	TransactionFilterFailed    TransactionFilter = "failed"
)

func (f TransactionFilter) IsValid() bool {
	switch f {
	case TransactionFilterAll, TransactionFilterCompleted, TransactionFilterPending, TransactionFilterFailed:
		return true
	}
	return false
}

// NewTransactionFilter разбирает фильтр; пустое значение означает "all".
func NewTransactionFilter(raw string) (TransactionFilter, error) {
	if raw == "" {
		return TransactionFilterAll, nil
	}
	f := TransactionFilter(raw)
	if !f.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный фильтр статуса")
	}
	return f, nil
}
