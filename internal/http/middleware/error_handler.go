package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/wallet-gateway/internal/interface/http/response"
	"github.com/ignatzorin/wallet-gateway/internal/logger"
	"github.com/ignatzorin/wallet-gateway/internal/pkg/apperror"
)

// ErrorHandler логирует последнюю ошибку запроса из c.Errors и, если handler
// ничего не записал, отвечает конвертом ошибки.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := http.StatusInternalServerError
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.HTTPStatus != 0 {
			status = appErr.HTTPStatus
		}

		entry := logger.Get().WithFields(logrus.Fields{
			"request_id": c.GetString(ContextRequestIDKey),
			"code":       string(apperror.CodeOf(err)),
			"status":     status,
		}).WithError(err)
		if status >= http.StatusInternalServerError {
			entry.Error("Запрос завершился ошибкой")
		} else {
			entry.Debug("Запрос отклонён")
		}

		if !c.Writer.Written() {
			response.Write(c, err)
		}
	}
}
