package ws

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/wallet-gateway/internal/models"
)

// EventWalletRefresh просит клиента перечитать баланс и историю.
const EventWalletRefresh = "wallet.refresh"

// Notifier доставляет событие wallet.refresh через хаб.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

// WalletChanged вызывается после успешного создания заявки на вывод.
func (n *Notifier) WalletChanged(ctx context.Context, userID uuid.UUID, withdrawal *models.Withdrawal) error {
	var data any
	if withdrawal != nil {
		data = map[string]any{"withdrawal_id": withdrawal.ID, "status": withdrawal.Status}
	}
	return n.hub.BroadcastToUser(ctx, userID, EventWalletRefresh, data)
}
