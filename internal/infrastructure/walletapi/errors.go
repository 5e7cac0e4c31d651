package walletapi

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/ignatzorin/wallet-gateway/internal/pkg/apperror"
)

// Сообщения по умолчанию, если upstream не объяснил ошибку.
const (
	MsgFetchMethods     = "Failed to fetch withdrawal methods"
	MsgCreateWithdrawal = "Failed to create withdrawal"
	MsgFetchWithdrawals = "Failed to fetch withdrawals"
	MsgFetchProfile     = "Failed to load profile"
	MsgFetchHistory     = "Failed to load transactions"
	MsgFetchIcon        = "Failed to load payment method icon"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *envelopeError  `json:"error"`
}

// envelopeError — ошибка upstream. Message бывает строкой или, для VALIDATION_ERROR,
// объектом поле -> список сообщений.
type envelopeError struct {
	Code    string          `json:"code"`
	Message json.RawMessage `json:"message"`
}

// fieldMessages разбирает message как карту ошибок по полям.
// Значение поля может быть как списком строк, так и одной строкой.
func (e *envelopeError) fieldMessages() map[string][]string {
	if e == nil || len(e.Message) == 0 {
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(e.Message, &raw); err != nil {
		return nil
	}

	out := make(map[string][]string, len(raw))
	for field, value := range raw {
		var list []string
		if err := json.Unmarshal(value, &list); err == nil {
			out[field] = list
			continue
		}
		var single string
		if err := json.Unmarshal(value, &single); err == nil {
			out[field] = []string{single}
		}
	}
	return out
}

// ExtractMessage выбирает самое конкретное сообщение: склеенный список ошибок валидации,
// затем текст ошибки, затем fallback.
func (e *envelopeError) ExtractMessage(fallback string) string {
	if e == nil {
		return fallback
	}
	if fields := e.fieldMessages(); len(fields) > 0 {
		if msg := flatten(fields); msg != "" {
			return msg
		}
	}
	var text string
	if err := json.Unmarshal(e.Message, &text); err == nil && strings.TrimSpace(text) != "" {
		return text
	}
	return fallback
}

func flatten(fields map[string][]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		for _, msg := range fields[k] {
			if msg != "" {
				parts = append(parts, msg)
			}
		}
	}
	return strings.Join(parts, ", ")
}

// toAppError переводит ошибочный ответ upstream в AppError, сохраняя код и статус.
func toAppError(status int, e *envelopeError, fallback string) *apperror.AppError {
	code := apperror.ErrCodeUpstream
	if e != nil && e.Code != "" {
		code = apperror.ErrorCode(e.Code)
	}

	appErr := apperror.New(code, e.ExtractMessage(fallback))
	switch {
	case status >= http.StatusBadRequest:
		appErr = appErr.WithStatus(status)
	case appErr.HTTPStatus == http.StatusInternalServerError:
		// success=false при 2xx с незнакомым кодом
		appErr = appErr.WithStatus(http.StatusBadGateway)
	}
	if fields := e.fieldMessages(); len(fields) > 0 {
		appErr = appErr.WithFields(fields)
	}
	return appErr
}
