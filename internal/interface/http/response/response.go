package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/wallet-gateway/internal/pkg/apperror"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo повторяет формат ошибок backend кошелька: для VALIDATION_ERROR
// message — объект поле -> список сообщений, в остальных случаях строка.
type ErrorInfo struct {
	Code     string      `json:"code"`
	Message  interface{} `json:"message"`
	Summary  string      `json:"summary,omitempty"`
	Redirect string      `json:"redirect,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// Error пишет конверт ошибки и кладёт err в c.Errors, чтобы ErrorHandler её залогировал.
func Error(c *gin.Context, err error) {
	_ = c.Error(err)
	Write(c, err)
}

// Write пишет конверт ошибки без регистрации в c.Errors.
func Write(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		info := &ErrorInfo{
			Code:     string(appErr.Code),
			Message:  appErr.Message,
			Redirect: appErr.Redirect,
		}
		if len(appErr.Fields) > 0 {
			info.Message = appErr.Fields
			info.Summary = appErr.Message
		}
		status := appErr.HTTPStatus
		if status == 0 {
			status = apperror.StatusForCode(appErr.Code)
		}
		c.JSON(status, Response{Success: false, Error: info})
		return
	}

	c.JSON(http.StatusInternalServerError, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    string(apperror.ErrCodeInternal),
			Message: "внутренняя ошибка сервера",
		},
	})
}

func BadRequest(c *gin.Context, message string) {
	abort(c, http.StatusBadRequest, apperror.ErrCodeBadRequest, message)
}

func Unauthorized(c *gin.Context, message string) {
	abort(c, http.StatusUnauthorized, apperror.ErrCodeUnauthorized, message)
}

func TooManyRequests(c *gin.Context, message string) {
	abort(c, http.StatusTooManyRequests, apperror.ErrCodeTooManyRequests, message)
}

func abort(c *gin.Context, status int, code apperror.ErrorCode, message string) {
	c.AbortWithStatusJSON(status, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    string(code),
			Message: message,
		},
	})
}
