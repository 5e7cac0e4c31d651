package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/wallet-gateway/internal/infrastructure/walletapi"
	"github.com/ignatzorin/wallet-gateway/internal/interface/http/response"
	"github.com/ignatzorin/wallet-gateway/internal/service"
)

const (
	ContextUserIDKey = "userID"
	ContextRoleKey   = "userRole"
)

// AuthMiddleware проверяет access токен и кладёт его в контекст запроса:
// клиент backend кошелька пересылает тот же токен дальше.
func AuthMiddleware(tokens *service.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "требуется авторизация")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Unauthorized(c, "некорректный заголовок авторизации")
			return
		}
		raw := strings.TrimSpace(parts[1])

		userID, role, err := tokens.ParseAccess(raw)
		if err != nil {
			response.Unauthorized(c, "невалидный токен")
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Set(ContextRoleKey, role)
		c.Request = c.Request.WithContext(walletapi.WithToken(c.Request.Context(), raw))

		c.Next()
	}
}
