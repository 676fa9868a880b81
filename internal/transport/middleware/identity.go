package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const actorKey = "actorID"

// Identity извлекает действующего пользователя из заголовка X-User-ID.
// Аутентификация живет во внешнем слое (reverse proxy / SSO), сюда приходит
// уже проверенный идентификатор.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-User-ID")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing X-User-ID header"})
			return
		}

		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid X-User-ID header"})
			return
		}

		c.Set(actorKey, id)
		c.Next()
	}
}

// ActorID возвращает идентификатор действующего пользователя
func ActorID(c *gin.Context) int64 {
	return c.GetInt64(actorKey)
}
