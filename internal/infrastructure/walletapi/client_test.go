package walletapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/wallet-gateway/internal/metrics"
	"github.com/ignatzorin/wallet-gateway/internal/models"
	"github.com/ignatzorin/wallet-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/wallet-gateway/internal/service"
)

const methodsJSON = `{"success":true,"data":[
	{"id":1,"name":"PayPal","code":"paypal","description":"","min_amount":"10.00","max_amount":null,
	 "fee_fixed":"0.50","fee_percentage":2,"processing_time":24,"required_fields":["email"],
	 "field_validations":{"email":{"regex":"/^.+@.+$/"}},"icon_url":"/icons/paypal.png"}
]}`

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second, nil)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestClient_ListMethods_ForwardsIdentity(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/withdrawals/methods", r.URL.Path)
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		assert.Equal(t, "req-1", r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusOK, methodsJSON)
	})

	ctx := WithRequestID(WithToken(context.Background(), "user-token"), "req-1")
	methods, err := client.ListMethods(ctx)
	require.NoError(t, err)
	require.Len(t, methods, 1)

	m := methods[0]
	assert.Equal(t, "paypal", m.Code)
	assert.True(t, m.MinAmount.Equal(decimal.NewFromInt(10)))
	assert.False(t, m.MaxAmount.Valid)
	assert.True(t, m.FeePercentage.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, "/^.+@.+$/", m.FieldValidations["email"].Regex)
}

func TestClient_CreateWithdrawal_SendsNumericAmount(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "25.5", string(body["amount"]))
		assert.JSONEq(t, `"paypal"`, string(body["payment_method"]))
		assert.JSONEq(t, `{"email":"a@b.co"}`, string(body["payment_details"]))

		writeJSON(w, http.StatusCreated, `{"success":true,"data":{"id":9,"amount":"25.50","status":"pending","payment_method":"paypal","payment_details":{"email":"a@b.co"},"created_at":"2026-01-02T03:04:05Z"}}`)
	})

	w, err := client.CreateWithdrawal(context.Background(), models.WithdrawalRequest{
		Amount:         decimal.RequireFromString("25.5"),
		PaymentMethod:  "paypal",
		PaymentDetails: map[string]string{"email": "a@b.co"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), w.ID)
	assert.Equal(t, models.WithdrawalStatusPending, w.Status)
	assert.Nil(t, w.ProcessedAt)
}

func TestClient_CreateWithdrawal_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantCode   apperror.ErrorCode
		wantStatus int
		wantMsg    string
		wantFields bool
	}{
		{
			name:       "validation list flattened",
			status:     http.StatusBadRequest,
			body:       `{"success":false,"error":{"code":"VALIDATION_ERROR","message":{"amount":["Amount too small"],"account":["Bad account","Too short"]}}}`,
			wantCode:   apperror.ErrCodeValidation,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Bad account, Too short, Amount too small",
			wantFields: true,
		},
		{
			name:       "generic message",
			status:     http.StatusUnprocessableEntity,
			body:       `{"success":false,"error":{"code":"INSUFFICIENT_FUNDS","message":"Not enough balance"}}`,
			wantCode:   "INSUFFICIENT_FUNDS",
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    "Not enough balance",
		},
		{
			name:       "no message",
			status:     http.StatusInternalServerError,
			body:       `{"success":false}`,
			wantCode:   apperror.ErrCodeUpstream,
			wantStatus: http.StatusInternalServerError,
			wantMsg:    MsgCreateWithdrawal,
		},
		{
			name:       "not json",
			status:     http.StatusBadGateway,
			body:       `<html>oops</html>`,
			wantCode:   apperror.ErrCodeUpstream,
			wantStatus: http.StatusBadGateway,
			wantMsg:    MsgCreateWithdrawal,
		},
		{
			name:       "success false with ok status",
			status:     http.StatusOK,
			body:       `{"success":false,"error":{"code":"SOMETHING","message":""}}`,
			wantCode:   "SOMETHING",
			wantStatus: http.StatusBadGateway,
			wantMsg:    MsgCreateWithdrawal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			_, err := client.CreateWithdrawal(context.Background(), models.WithdrawalRequest{Amount: decimal.NewFromInt(1), PaymentMethod: "paypal"})

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.Equal(t, tt.wantStatus, appErr.HTTPStatus)
			assert.Equal(t, tt.wantMsg, appErr.Message)
			assert.Equal(t, tt.wantFields, len(appErr.Fields) > 0)
		})
	}
}

func TestClient_SuccessWithoutData(t *testing.T) {
	bodies := map[string]string{
		"null data":    `{"success":true,"data":null}`,
		"missing data": `{"success":true}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, body)
			})

			w, err := client.CreateWithdrawal(context.Background(), models.WithdrawalRequest{Amount: decimal.NewFromInt(1), PaymentMethod: "paypal"})
			assert.Nil(t, w)
			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperror.ErrCodeUpstream, appErr.Code)
			assert.Equal(t, http.StatusBadGateway, appErr.HTTPStatus)
			assert.Equal(t, MsgCreateWithdrawal, appErr.Message)

			profile, err := client.GetProfile(context.Background())
			assert.Nil(t, profile)
			assert.Equal(t, apperror.ErrCodeUpstream, apperror.CodeOf(err))

			methods, err := client.ListMethods(context.Background())
			assert.Nil(t, methods)
			assert.Equal(t, apperror.ErrCodeUpstream, apperror.CodeOf(err))
		})
	}
}

func TestClient_EmptyListIsNotAnError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":[]}`)
	})

	withdrawals, err := client.ListWithdrawals(context.Background())
	require.NoError(t, err)
	assert.Empty(t, withdrawals)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	client := NewClient(srv.URL, time.Second, m)

	_, err := client.GetProfile(context.Background())
	assert.Equal(t, apperror.ErrCodeUpstream, apperror.CodeOf(err))

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, MsgFetchProfile, appErr.Message)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamRequestsTotal.WithLabelValues("get_profile", "error")))
}

func TestClient_ProfileAndTransactions(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/profile":
			writeJSON(w, http.StatusOK, `{"success":true,"data":{"balance":"120.50","pending_earnings":3,"totalWithdrawn":"10","referral_earnings":"0","governmentIdStatus":"approved"}}`)
		case "/transactions":
			writeJSON(w, http.StatusOK, `{"success":true,"data":[{"id":1,"user_id":2,"amount":"5.00","type":"earning","status":"failed","canDispute":true,"task":{"id":3,"title":"Tag"},"created_at":"2026-01-01T00:00:00Z","updated_at":"2026-01-01T00:00:00Z"}]}`)
		default:
			http.NotFound(w, r)
		}
	})

	profile, err := client.GetProfile(context.Background())
	require.NoError(t, err)
	assert.True(t, profile.CanWithdraw())
	assert.True(t, profile.Balance.Equal(decimal.RequireFromString("120.5")))

	ts, err := client.ListTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, ts, 1)
	assert.True(t, ts[0].CanDispute)
	assert.Equal(t, "Tag", ts[0].Task.Title)
}

func TestClient_Ping(t *testing.T) {
	healthy := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	assert.NoError(t, healthy.Ping(context.Background()))

	broken := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	assert.Error(t, broken.Ping(context.Background()))
}

func TestCachedCatalog(t *testing.T) {
	var calls int32
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeJSON(w, http.StatusOK, methodsJSON)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := metrics.New(prometheus.NewRegistry())
	catalog := NewCachedCatalog(client, service.NewMemoryCache(ctx, time.Minute), time.Minute, m)

	for i := 0; i < 3; i++ {
		methods, err := catalog.ListMethods(ctx)
		require.NoError(t, err)
		require.Len(t, methods, 1)
		assert.False(t, methods[0].MaxAmount.Valid)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CatalogCacheTotal.WithLabelValues("hit")))

	require.NoError(t, catalog.Invalidate(ctx))
	_, err := catalog.ListMethods(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCachedCatalog_DoesNotCacheErrors(t *testing.T) {
	var calls int32
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeJSON(w, http.StatusServiceUnavailable, `{"success":false}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	catalog := NewCachedCatalog(client, service.NewMemoryCache(ctx, time.Minute), time.Minute, nil)

	_, err := catalog.ListMethods(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), MsgFetchMethods)
	_, _ = catalog.ListMethods(ctx)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
