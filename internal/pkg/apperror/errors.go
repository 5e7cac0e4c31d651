package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound             ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized         ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden            ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest           ErrorCode = "BAD_REQUEST"
	ErrCodeConflict             ErrorCode = "CONFLICT"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation           ErrorCode = "VALIDATION_ERROR"
	ErrCodeVerificationRequired ErrorCode = "VERIFICATION_REQUIRED"
	ErrCodeUpstream             ErrorCode = "UPSTREAM_ERROR"
	ErrCodeTooManyRequests      ErrorCode = "TOO_MANY_REQUESTS"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error

	// Fields — ошибки по полям формы, как их отдаёт VALIDATION_ERROR.
	Fields map[string][]string

	// Redirect — куда отправить пользователя, чтобы снять ограничение.
	Redirect string
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// WithStatus возвращает копию ошибки с явно заданным HTTP статусом.
// Нужен, когда статус пришёл от внешнего сервиса и его надо сохранить.
func (e *AppError) WithStatus(status int) *AppError {
	cp := *e
	cp.HTTPStatus = status
	return &cp
}

// WithFields возвращает копию ошибки с ошибками по полям.
func (e *AppError) WithFields(fields map[string][]string) *AppError {
	cp := *e
	cp.Fields = fields
	return &cp
}

// WithRedirect возвращает копию ошибки с адресом перенаправления.
func (e *AppError) WithRedirect(target string) *AppError {
	cp := *e
	cp.Redirect = target
	return &cp
}

// StatusForCode возвращает HTTP статус по умолчанию для кода.
func StatusForCode(code ErrorCode) int {
	return codeToHTTPStatus(code)
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden, ErrCodeVerificationRequired:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeTooManyRequests:
		return http.StatusTooManyRequests
	case ErrCodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf возвращает код AppError или ErrCodeInternal для прочих ошибок.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

var (
	ErrUnauthorized       = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrMethodNotFound     = New(ErrCodeNotFound, "Payment method not found")
	ErrSubmitInProgress   = New(ErrCodeConflict, "Withdrawal request is already being processed")
	ErrVerificationNeeded = New(ErrCodeVerificationRequired, "You must verify your government ID before making withdrawals.")
)
