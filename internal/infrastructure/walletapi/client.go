package walletapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/wallet-gateway/internal/logger"
	"github.com/ignatzorin/wallet-gateway/internal/metrics"
	"github.com/ignatzorin/wallet-gateway/internal/models"
	"github.com/ignatzorin/wallet-gateway/internal/pkg/apperror"
)

// Client ходит в backend кошелька от имени пользователя.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Metrics
}

// NewClient создаёт клиента. timeout <= 0 означает 15 секунд.
func NewClient(baseURL string, timeout time.Duration, m *metrics.Metrics) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: m,
	}
}

// BaseURL возвращает адрес upstream без завершающего слэша.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) ListMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	if err := c.do(ctx, "list_methods", http.MethodGet, "/withdrawals/methods", nil, &methods, MsgFetchMethods); err != nil {
		return nil, err
	}
	return methods, nil
}

// withdrawalPayload — тело POST /withdrawals; сумма уходит JSON-числом.
type withdrawalPayload struct {
	Amount         json.Number       `json:"amount"`
	PaymentMethod  string            `json:"payment_method"`
	PaymentDetails map[string]string `json:"payment_details"`
}

func (c *Client) CreateWithdrawal(ctx context.Context, req models.WithdrawalRequest) (*models.Withdrawal, error) {
	details := req.PaymentDetails
	if details == nil {
		details = map[string]string{}
	}
	payload := withdrawalPayload{
		Amount:         json.Number(req.Amount.String()),
		PaymentMethod:  req.PaymentMethod,
		PaymentDetails: details,
	}

	var withdrawal models.Withdrawal
	if err := c.do(ctx, "create_withdrawal", http.MethodPost, "/withdrawals", payload, &withdrawal, MsgCreateWithdrawal); err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

func (c *Client) ListWithdrawals(ctx context.Context) ([]models.Withdrawal, error) {
	var withdrawals []models.Withdrawal
	if err := c.do(ctx, "list_withdrawals", http.MethodGet, "/withdrawals", nil, &withdrawals, MsgFetchWithdrawals); err != nil {
		return nil, err
	}
	return withdrawals, nil
}

func (c *Client) GetProfile(ctx context.Context) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := c.do(ctx, "get_profile", http.MethodGet, "/users/profile", nil, &profile, MsgFetchProfile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := c.do(ctx, "list_transactions", http.MethodGet, "/transactions", nil, &transactions, MsgFetchHistory); err != nil {
		return nil, err
	}
	return transactions, nil
}

// Ping проверяет доступность upstream: любой 2xx на /health.
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("walletapi: health вернул %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("walletapi: baseURL не задан")
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	if token := TokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if id := RequestIDFrom(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	return req, nil
}

// do выполняет запрос, разбирает конверт {success, data, error} и кладёт data в out.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any, fallback string) (err error) {
	started := time.Now()
	defer func() {
		c.metrics.ObserveUpstream(op, started, err)
		if err != nil && logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"operation":  op,
				"request_id": RequestIDFrom(ctx),
				"error":      err.Error(),
			}).Warn("Запрос к backend кошелька завершился ошибкой")
		}
	}()

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeUpstream, fallback)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeUpstream, fallback)
	}
	defer resp.Body.Close()

	var env envelope
	if decodeErr := json.NewDecoder(resp.Body).Decode(&env); decodeErr != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return toAppError(resp.StatusCode, nil, fallback)
		}
		return apperror.Wrap(decodeErr, apperror.ErrCodeUpstream, fallback)
	}

	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		return toAppError(resp.StatusCode, env.Error, fallback)
	}

	if out == nil {
		return nil
	}
	// success без data — тоже ошибка; пустой список приходит как [].
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return toAppError(resp.StatusCode, env.Error, fallback)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeUpstream, fallback)
	}
	return nil
}
