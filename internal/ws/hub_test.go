package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/wallet-gateway/internal/logger"
	"github.com/ignatzorin/wallet-gateway/internal/metrics"
	"github.com/ignatzorin/wallet-gateway/internal/models"
)

func init() {
	logger.Discard()
}

// startHub поднимает хаб и сервер, который подключает клиента как userID.
func startHub(t *testing.T, m *metrics.Metrics, userID uuid.UUID) (*Hub, string) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(m)
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(conn, hub, userID)
		if hub.Register(client) {
			client.Run(r.Context())
		}
	}))
	t.Cleanup(srv.Close)

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestNotifier_WalletChanged(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	userID := uuid.New()
	hub, url := startHub(t, m, userID)

	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.Connections(userID) == 1 }, time.Second, 10*time.Millisecond)
	assert.InDelta(t, 1, testutil.ToFloat64(m.WSConnections), 0)

	err := NewNotifier(hub).WalletChanged(context.Background(), userID, &models.Withdrawal{ID: 42, Status: models.WithdrawalStatusPending})
	require.NoError(t, err)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var event struct {
		Type string         `json:"type"`
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &event))
	assert.Equal(t, EventWalletRefresh, event.Type)
	assert.EqualValues(t, 42, event.Data["withdrawal_id"])
	assert.Equal(t, "pending", event.Data["status"])
}

func TestHub_OtherUsersDoNotReceive(t *testing.T) {
	owner := uuid.New()
	hub, url := startHub(t, nil, owner)

	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.Connections(owner) == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.BroadcastToUser(context.Background(), uuid.New(), EventWalletRefresh, nil))

	_ = conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "no message for a different user")
}

func TestHub_DisconnectRemovesClient(t *testing.T) {
	userID := uuid.New()
	hub, url := startHub(t, nil, userID)

	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.Connections(userID) == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Connections(userID) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_StoppedHubRejectsWork(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	// Буфер broadcast ещё может принять сообщение, поэтому заполняем его целиком
	var err error
	for i := 0; i < cap(hub.broadcast)+1 && err == nil; i++ {
		err = hub.BroadcastToUser(context.Background(), uuid.New(), EventWalletRefresh, nil)
	}
	assert.ErrorIs(t, err, ErrHubStopped)
	assert.False(t, hub.Register(&Client{userID: uuid.New()}))
}
