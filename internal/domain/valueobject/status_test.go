package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/wallet-gateway/internal/pkg/apperror"
)

func TestWithdrawalState_Transitions(t *testing.T) {
	tests := []struct {
		from, to WithdrawalState
		allowed  bool
	}{
		{WithdrawalStateIdle, WithdrawalStateValidating, true},
		{WithdrawalStateIdle, WithdrawalStateSubmitting, false},
		{WithdrawalStateValidating, WithdrawalStateSubmitting, true},
		{WithdrawalStateValidating, WithdrawalStateFailed, true},
		{WithdrawalStateValidating, WithdrawalStateSucceeded, false},
		{WithdrawalStateSubmitting, WithdrawalStateSucceeded, true},
		{WithdrawalStateSubmitting, WithdrawalStateFailed, true},
		{WithdrawalStateFailed, WithdrawalStateValidating, true},
		{WithdrawalStateSucceeded, WithdrawalStateIdle, true},
		{WithdrawalStateSucceeded, WithdrawalStateSubmitting, false},
		{"bogus", WithdrawalStateIdle, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestWithdrawalState_IsTerminal(t *testing.T) {
	assert.True(t, WithdrawalStateSucceeded.IsTerminal())
	assert.True(t, WithdrawalStateFailed.IsTerminal())
	assert.False(t, WithdrawalStateSubmitting.IsTerminal())
	assert.False(t, WithdrawalState("bogus").IsValid())
}

func TestNewTransactionFilter(t *testing.T) {
	f, err := NewTransactionFilter("")
	require.NoError(t, err)
	assert.Equal(t, TransactionFilterAll, f)

	f, err = NewTransactionFilter("pending")
	require.NoError(t, err)
	assert.Equal(t, TransactionFilterPending, f)

	_, err = NewTransactionFilter("refunded")
	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))
}
